package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-probability-api/internal/server"
	"go.uber.org/zap"
)

func serverCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the weather probability HTTP server",
		Long:  `Start the HTTP server exposing /weather and /probability, plus health and metrics endpoints.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runServer(cmd.Context())
		},
	}
}

func (a *app) runServer(ctx context.Context) error {
	defer a.close()

	cfg := a.cfg

	a.log.Info("Starting weather probability server",
		zap.String("config_path", a.configPath),
		zap.String("provider", cfg.Provider.Type),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	srv, err := server.New(cfg, a.log, a.tele)
	if err != nil {
		a.log.Error("Failed to build server", zap.Error(err))
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			a.log.Error("Server error", zap.Error(err))
		}
		return err
	case <-ctx.Done():
		a.log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.log.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		a.log.Info("Server shutdown complete")
		return nil
	}
}
