package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"recipeapi/internal/database"
)

func newWaitForDBCmd() *cobra.Command {
	var interval, timeout time.Duration

	cmd := &cobra.Command{
		Use:   "wait-for-db",
		Short: "Block until the database accepts connections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			db, err := database.Open(cfg, log)
			if err != nil {
				return err
			}
			defer closeDB(db, log)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			ping := func(ctx context.Context) error { return database.Ping(ctx, db) }
			if err := database.WaitForDB(ctx, ping, interval, log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Database available!")
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Second, "delay between connection attempts")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "give up after this long (0 waits forever)")
	return cmd
}
