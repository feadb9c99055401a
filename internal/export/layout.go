package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/scripttaste/internal/collage"
	"github.com/piwi3910/scripttaste/internal/model"
)

// Layout is the machine-readable description of a rendered collage.
type Layout struct {
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Placements []PosterLayout  `json:"placements"`
	Skipped    []model.Skipped `json:"skipped"`
	Stats      LayoutStats     `json:"stats"`
}

// PosterLayout is one placed poster in canvas pixel coordinates.
type PosterLayout struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

type LayoutStats struct {
	CanvasArea       int     `json:"canvas_area"`
	CoveredArea      int     `json:"covered_area"`
	DeadspacePercent float64 `json:"deadspace_percent"`
}

// BuildLayout extracts the layout from a pipeline result.
func BuildLayout(result *collage.Result) Layout {
	layout := Layout{
		Width:      result.Canvas.Width(),
		Height:     result.Canvas.Height(),
		Placements: make([]PosterLayout, 0, len(result.Placements)),
		Skipped:    result.Skipped,
		Stats: LayoutStats{
			CanvasArea:       result.Stats.CanvasArea,
			CoveredArea:      result.Stats.CoveredArea,
			DeadspacePercent: result.Stats.DeadspacePercent,
		},
	}
	if layout.Skipped == nil {
		layout.Skipped = []model.Skipped{}
	}
	for _, p := range result.Placements {
		layout.Placements = append(layout.Placements, PosterLayout{
			ID:     p.Poster.ID,
			Label:  p.Poster.Label,
			Weight: p.Poster.Weight,
			X:      p.X,
			Y:      p.Y,
			Width:  p.Poster.Width(),
			Height: p.Poster.Height(),
		})
	}
	return layout
}

// ExportLayout writes the layout of result to path as indented JSON.
func ExportLayout(path string, result *collage.Result) error {
	data, err := json.MarshalIndent(BuildLayout(result), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal layout: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write layout file: %w", err)
	}
	return nil
}
