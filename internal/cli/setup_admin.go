package cli

import (
	"context"
	"fmt"

	"honey-shop/internal/repository"
	"honey-shop/internal/service"

	"github.com/spf13/cobra"
)

const (
	DefaultAdminEmail    = "admin@honey.com"
	DefaultAdminPassword = "admin123"
)

// NewSetupAdminCommand creates the setup-admin command.
func NewSetupAdminCommand(rootOpts *RootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "setup-admin",
		Short: "Create the first administrator if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(rootOpts)
			if err != nil {
				return err
			}
			defer e.Close()

			db := e.db.DB()
			auth := service.NewAuthService(
				repository.NewUserRepository(db),
				repository.NewUnitOfWork(db),
				e.cfg.JWT.Secret,
				e.cfg.JWT.Expiry(),
			)

			user, created, err := auth.EnsureAdmin(context.Background(), email, password)
			if err != nil {
				return fmt.Errorf("setup admin: %w", err)
			}

			out := cmd.OutOrStdout()
			if !created {
				fmt.Fprintf(out, "an administrator already exists: %s\n", user.Email)
				return nil
			}
			fmt.Fprintf(out, "created administrator %s\n", user.Email)
			if password == DefaultAdminPassword {
				fmt.Fprintln(out, "warning: the default password is in use; change it before going live")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", DefaultAdminEmail, "administrator email")
	cmd.Flags().StringVar(&password, "password", DefaultAdminPassword, "administrator password")

	return cmd
}
