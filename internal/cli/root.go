// Package cli implements the scripttaste command-line interface.
//
// Commands:
//   - render: build a poster collage from a manifest or project file
//   - compare: compare packing strategies on a manifest
//   - config: write or print the persisted defaults
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/scripttaste/internal/project"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	return newRootCmd(os.Stderr).ExecuteContext(ctx)
}

// newRootCmd builds the command tree. Log output goes to logOut.
func newRootCmd(logOut io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "scripttaste",
		Short:        "ScriptTaste builds poster collages weighted by time watched",
		Long:         `ScriptTaste rescales show posters so their area tracks the time you spent watching, packs them into a tight rectangle and softens the leftover gaps with an iterative blur.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(logOut, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("scripttaste %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().String("config", "", "config file (default ~/.scripttaste/config.json, .toml also accepted)")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// configPath returns the --config value or the default config location.
func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return project.DefaultConfigPath()
}
