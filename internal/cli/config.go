package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/scripttaste/internal/model"
	"github.com/piwi3910/scripttaste/internal/project"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage persisted default settings",
	}
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(cmd)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
			}
			if err := project.SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Wrote default config")
			printFile(cmd.OutOrStdout(), "config", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(cmd)
			cfg, err := project.LoadAppConfig(path)
			if err != nil {
				return fmt.Errorf("load config %s: %w", path, err)
			}
			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			printDetail(cmd.OutOrStdout(), "%s", path)
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
