package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"recipeapi/internal/app"
	"recipeapi/internal/services"
	"recipeapi/internal/storage"
	"recipeapi/pkg/rabbitmq"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
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

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			images, err := storage.New(ctx, cfg)
			if err != nil {
				return err
			}

			var events services.EventPublisher
			if cfg.RabbitMQURL != "" {
				mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log.Named("rabbitmq"))
				if err != nil {
					return err
				}
				defer mqClient.Close()
				events = mqClient

				if err := mqClient.Consume(rabbitmq.LogEvents(log.Named("events"))); err != nil {
					log.Warnw("failed to start RabbitMQ consumer", "error", err)
				}
			} else {
				log.Info("RABBITMQ_URL not set, recipe events disabled")
			}

			server := app.NewApp(app.Deps{Config: cfg, DB: db, Images: images, Events: events, Log: log})

			errCh := make(chan error, 1)
			go func() {
				log.Infow("starting server", "addr", cfg.AppPort)
				errCh <- server.Listen(cfg.AppPort)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info("Shutting down server...")
			if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
				log.Warnw("error during Fiber shutdown", "error", err)
			}
			log.Info("Server gracefully stopped")
			return nil
		},
	}
}
