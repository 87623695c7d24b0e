// Package cli implements honeyctl, the operator tool for the honey shop:
// schema migrations, catalog seeding, admin setup and event watching.
package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	EnvFile string
}

// NewRootCommand creates the root command for honeyctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "honeyctl",
		Short: "Operator tool for the honey shop API",
		Long:  "honeyctl migrates the honey shop database, seeds the catalog, sets up the first administrator and tails order events.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.EnvFile == "" {
				return nil
			}
			if err := godotenv.Load(opts.EnvFile); err != nil {
				return fmt.Errorf("load env file %q: %w", opts.EnvFile, err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "load environment variables from this file first")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewSetupAdminCommand(opts))
	cmd.AddCommand(NewWatchEventsCommand(opts))

	return cmd
}
