package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/scripttaste/internal/importer"
	"github.com/piwi3910/scripttaste/internal/model"
	"github.com/piwi3910/scripttaste/internal/project"
	"github.com/piwi3910/scripttaste/internal/source"
)

// settingsFlags are the collage tunables every command accepts. Only flags
// the user actually set override config and project values.
type settingsFlags struct {
	algorithm  string
	blurFactor int
	blurRadius float64
	margin     int
	background string
	workers    int
}

func (f *settingsFlags) register(cmd *cobra.Command) {
	defaults := model.DefaultSettings()
	flags := cmd.Flags()
	flags.StringVar(&f.algorithm, "algorithm", string(defaults.Algorithm), "packing algorithm: maxrects or genetic")
	flags.IntVar(&f.blurFactor, "blur-factor", defaults.BlurFactor, "deadspace diffusion iterations")
	flags.Float64Var(&f.blurRadius, "blur-radius", defaults.BlurRadius, "Gaussian blur sigma in pixels")
	flags.IntVar(&f.margin, "margin", defaults.Margin, "extra pixels past the tightest bound")
	flags.StringVar(&f.background, "background", defaults.Background.Hex(), "canvas background color (#rrggbb)")
	flags.IntVar(&f.workers, "workers", defaults.Workers, "parallel resize workers (0 = all CPUs)")
}

func (f *settingsFlags) apply(cmd *cobra.Command, s *model.CollageSettings) error {
	flags := cmd.Flags()
	if flags.Changed("algorithm") {
		a, err := model.ParseAlgorithm(f.algorithm)
		if err != nil {
			return err
		}
		s.Algorithm = a
	}
	if flags.Changed("blur-factor") {
		s.BlurFactor = f.blurFactor
	}
	if flags.Changed("blur-radius") {
		s.BlurRadius = f.blurRadius
	}
	if flags.Changed("margin") {
		s.Margin = f.margin
	}
	if flags.Changed("background") {
		c, err := model.ParseHexColor(f.background)
		if err != nil {
			return err
		}
		s.Background = c
	}
	if flags.Changed("workers") {
		s.Workers = f.workers
	}
	return nil
}

// workload is a resolved manifest: its entries, where relative image paths
// live and the effective settings.
type workload struct {
	name       string
	entries    []model.Entry
	baseDir    string
	settings   model.CollageSettings
	config     model.AppConfig
	configPath string
}

// loadWorkload reads the config, then the manifest or project at path, and
// layers settings as defaults < config < project < flags.
func loadWorkload(cmd *cobra.Command, path, baseDir string, flags *settingsFlags) (*workload, error) {
	logger := loggerFromContext(cmd.Context())

	w := &workload{configPath: configPath(cmd), baseDir: baseDir}
	cfg, err := project.LoadAppConfig(w.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", w.configPath, err)
	}
	w.config = cfg
	w.settings = model.DefaultSettings()
	cfg.ApplyToSettings(&w.settings)

	base := filepath.Base(path)
	w.name = strings.TrimSuffix(base, filepath.Ext(base))
	if w.baseDir == "" {
		w.baseDir = filepath.Dir(path)
	}

	if project.IsProjectFile(path) {
		p, err := project.LoadProject(path)
		if err != nil {
			return nil, err
		}
		w.entries = p.Entries
		w.settings = p.Settings
		if p.Name != "" {
			w.name = p.Name
		}
	} else {
		res := importer.ImportFile(path)
		for _, msg := range res.Warnings {
			logger.Debug(msg)
		}
		if len(res.Entries) == 0 {
			if len(res.Errors) > 0 {
				return nil, fmt.Errorf("no usable entries in %s: %s", path, strings.Join(res.Errors, "; "))
			}
			return nil, fmt.Errorf("no entries in %s", path)
		}
		for _, msg := range res.Errors {
			logger.Warn(msg)
		}
		w.entries = res.Entries
	}

	if err := flags.apply(cmd, &w.settings); err != nil {
		return nil, err
	}
	if err := w.settings.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("loaded manifest", "path", path, "entries", len(w.entries), "algorithm", w.settings.Algorithm)
	return w, nil
}

// loadImages decodes every entry's poster, skipping unreadable files.
func (w *workload) loadImages(ctx context.Context, logger *log.Logger) ([]model.WeightedImage, []model.Skipped, error) {
	return source.NewLoader(w.baseDir, w.settings.Background, logger).Load(ctx, w.entries)
}

// project snapshots the workload with absolute image paths so the project
// file can be stored anywhere.
func (w *workload) project() model.Project {
	loader := source.NewLoader(w.baseDir, w.settings.Background, nil)
	entries := make([]model.Entry, len(w.entries))
	for i, e := range w.entries {
		e.ImagePath = loader.Resolve(e)
		if abs, err := filepath.Abs(e.ImagePath); err == nil {
			e.ImagePath = abs
		}
		entries[i] = e
	}
	return model.Project{Name: w.name, Entries: entries, Settings: w.settings}
}
