// Package project persists collage projects and application config.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/scripttaste/internal/model"
)

// FileVersion is written into every saved project.
const FileVersion = "1.0.0"

// Extension is the conventional project file suffix.
const Extension = ".stproj"

// projectFile is the on-disk envelope around a Project.
type projectFile struct {
	Version   string        `json:"version"`
	CreatedAt string        `json:"created_at"`
	Project   model.Project `json:"project"`
}

// SaveProject writes p to path as indented JSON, creating parent
// directories as needed.
func SaveProject(path string, p model.Project) error {
	file := projectFile{
		Version:   FileVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Project:   p,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}

// LoadProject reads a project saved by SaveProject and validates its
// settings.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project file: %w", err)
	}
	file := projectFile{Project: model.NewProject()}
	if err := json.Unmarshal(data, &file); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project file: %w", err)
	}
	if file.Version == "" {
		return model.Project{}, fmt.Errorf("invalid project file: missing version field")
	}
	if err := file.Project.Settings.Validate(); err != nil {
		return model.Project{}, fmt.Errorf("invalid project file: %w", err)
	}
	// Ensure Entries is never nil
	if file.Project.Entries == nil {
		file.Project.Entries = []model.Entry{}
	}
	return file.Project, nil
}

// IsProjectFile reports whether path carries the project extension.
func IsProjectFile(path string) bool {
	return filepath.Ext(path) == Extension
}
