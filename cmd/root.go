package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/paso-threads/internal/cli"
	"github.com/thenoetrevino/paso-threads/internal/cli/styles"
	"github.com/thenoetrevino/paso-threads/internal/cli/thread"
	"github.com/thenoetrevino/paso-threads/internal/config"
	"github.com/thenoetrevino/paso-threads/internal/logging"
)

// NewRootCmd builds the paso-threads command tree
func NewRootCmd() *cobra.Command {
	var (
		configPath string
		instance   *cli.CLI
	)

	rootCmd := &cobra.Command{
		Use:   "paso-threads",
		Short: "Paso threads - nested comment trees for kanban tasks",
		Long: `Paso threads keeps the comments of kanban tasks as reply trees.

Seed files describe tasks with their flat comment lists and an optional
script of operations; the commands load them into the comment store and
render the resulting threads.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if err := logging.Init(cfg.SlogLevel()); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			styles.Init(cfg.ColorScheme)

			instance = cli.NewCLI(cfg)
			cmd.SetContext(cli.NewContext(cmd.Context(), instance))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if instance == nil {
				return nil
			}
			return instance.Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (defaults to $XDG_CONFIG_HOME/paso-threads/config.yaml)")

	rootCmd.AddCommand(thread.ShowCmd())
	rootCmd.AddCommand(thread.ApplyCmd())

	return rootCmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
