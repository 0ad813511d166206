package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"recipeapi/internal/repositories"
	"recipeapi/internal/services"
)

func newCreateSuperuserCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an account with staff and superuser rights",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(password) < services.MinPasswordLength {
				return fmt.Errorf("password must have at least %d characters", services.MinPasswordLength)
			}

			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			db, err := openMigrated(cfg, log)
			if err != nil {
				return err
			}
			defer closeDB(db, log)

			userService := services.NewUserService(repositories.NewGORMUserRepository(db), log.Named("users"))
			user, err := userService.CreateSuperuser(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Superuser %s created.\n", user)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the new superuser")
	cmd.Flags().StringVar(&password, "password", "", "password of the new superuser")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
