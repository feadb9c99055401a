package cli

import (
	"fmt"
	"image"

	"github.com/spf13/cobra"

	"github.com/piwi3910/scripttaste/internal/engine"
	"github.com/piwi3910/scripttaste/internal/normalize"
)

func newCompareCmd() *cobra.Command {
	var (
		baseDir  string
		settings settingsFlags
	)

	cmd := &cobra.Command{
		Use:   "compare <manifest>",
		Short: "Compare packing strategies on a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			out := cmd.OutOrStdout()

			w, err := loadWorkload(cmd, args[0], baseDir, &settings)
			if err != nil {
				return err
			}
			images, _, err := w.loadImages(ctx, logger)
			if err != nil {
				return err
			}
			posters, _, err := normalize.New(w.settings.Workers).Normalize(images)
			if err != nil {
				return err
			}
			sorted := engine.SortBySize(posters)
			sizes := make([]image.Point, len(sorted))
			for i, p := range sorted {
				sizes[i] = p.Size()
			}

			prog := newProgress(logger)
			scenarios := engine.BuildDefaultScenarios(w.settings.Algorithm)
			logger.Info("Comparing packing strategies", "scenarios", len(scenarios), "posters", len(sizes))
			results := engine.CompareScenariosFunc(scenarios, sizes, func(i int, r engine.ComparisonResult) {
				logger.Info("Scenario packed", "n", fmt.Sprintf("%d/%d", i+1, len(scenarios)),
					"name", r.Scenario.Name, "canvas", fmt.Sprintf("%dx%d", r.Width, r.Height))
			})
			prog.done(fmt.Sprintf("Compared %d scenarios", len(results)))
			best := engine.Best(results)

			fmt.Fprintln(out, styleTitle.Render(fmt.Sprintf("Packing comparison (%d posters)", len(sizes))))
			fmt.Fprintf(out, "  %-22s %12s %12s %10s\n", "Scenario", "Canvas", "Bound area", "Waste")
			for i, r := range results {
				line := fmt.Sprintf("%-22s %12s %12d %9.1f%%",
					r.Scenario.Name, fmt.Sprintf("%dx%d", r.Width, r.Height), r.BoundingArea, r.WastePercent)
				if i == best {
					printSuccess(out, "%s", line)
				} else {
					fmt.Fprintln(out, "  "+line)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseDir, "base-dir", "", "directory for relative image paths (default: manifest directory)")
	settings.register(cmd)
	return cmd
}
