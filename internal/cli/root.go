// Package cli holds the recipeapi commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recipeapi/internal/config"
	"recipeapi/internal/database"
	"recipeapi/internal/logging"
)

// NewRootCmd builds the recipeapi command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "recipeapi",
		Short:         "Recipe API server and management commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newWaitForDBCmd())
	rootCmd.AddCommand(newCreateSuperuserCmd())
	return rootCmd
}

// setup loads the configuration and the logger every command needs.
func setup() (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// openMigrated connects and brings the schema up to date.
func openMigrated(cfg *config.Config, log *zap.SugaredLogger) (*gorm.DB, error) {
	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func closeDB(db *gorm.DB, log *zap.SugaredLogger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warnw("failed to close database", "error", err)
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	}
}
