package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/scripttaste/internal/collage"
	"github.com/piwi3910/scripttaste/internal/export"
	"github.com/piwi3910/scripttaste/internal/project"
)

const recentLimit = 10

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output      string // image path; defaults to <output_dir>/<name>.<output_format>
	report      string // optional PDF report path
	layout      string // optional JSON layout path
	baseDir     string // directory relative image paths resolve against
	saveProject string // optional project file for the resolved manifest
	settings    settingsFlags
}

func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <manifest>",
		Short: "Build a poster collage from a CSV/Excel manifest or project file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output image path (png, jpg, gif, tif, bmp)")
	cmd.Flags().StringVar(&opts.report, "report", "", "also write a PDF report to this path")
	cmd.Flags().StringVar(&opts.layout, "layout", "", "also write the JSON layout to this path")
	cmd.Flags().StringVar(&opts.baseDir, "base-dir", "", "directory for relative image paths (default: manifest directory)")
	cmd.Flags().StringVar(&opts.saveProject, "save-project", "", "save the manifest and settings as a project file")
	opts.settings.register(cmd)

	return cmd
}

func runRender(cmd *cobra.Command, path string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	w, err := loadWorkload(cmd, path, opts.baseDir, &opts.settings)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	images, loadSkipped, err := w.loadImages(ctx, logger)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d posters", len(images)))

	prog = newProgress(logger)
	result, err := collage.NewBuilder(w.settings, collage.WithLogger(logger)).Build(ctx, images)
	if err != nil {
		return err
	}
	result.Skipped = append(loadSkipped, result.Skipped...)
	prog.done("Built collage")

	output := opts.output
	if output == "" {
		output = filepath.Join(w.config.OutputDir, w.name+"."+w.config.OutputFormat)
	}
	if err := export.SaveImage(output, result.Canvas); err != nil {
		return err
	}

	printSuccess(out, "Collage %s x %s px, %s posters, %s deadspace",
		styleNumber.Render(fmt.Sprint(result.Canvas.Width())),
		styleNumber.Render(fmt.Sprint(result.Canvas.Height())),
		styleNumber.Render(fmt.Sprint(len(result.Placements))),
		styleNumber.Render(fmt.Sprintf("%.1f%%", result.Stats.DeadspacePercent)))
	printFile(out, "image", output)

	if opts.layout != "" {
		if err := export.ExportLayout(opts.layout, result); err != nil {
			return err
		}
		printFile(out, "layout", opts.layout)
	}
	if opts.report != "" {
		if err := export.ExportReport(opts.report, result, w.settings); err != nil {
			return fmt.Errorf("export report: %w", err)
		}
		printFile(out, "report", opts.report)
	}
	if opts.saveProject != "" {
		p := w.project()
		if err := project.SaveProject(opts.saveProject, p); err != nil {
			return err
		}
		printFile(out, "project", opts.saveProject)
	}

	for _, s := range result.Skipped {
		printWarning(out, "skipped %s: %s", s.Label, s.Reason)
	}

	if abs, err := filepath.Abs(path); err == nil {
		w.config.AddRecentManifest(abs, recentLimit)
		if err := project.SaveAppConfig(w.configPath, w.config); err != nil {
			logger.Warn("could not update recent manifests", "err", err)
		}
	}
	return nil
}
