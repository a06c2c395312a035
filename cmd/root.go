package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-probability-api/internal/config"
	"github.com/vzahanych/weather-probability-api/pkg/logger"
	"github.com/vzahanych/weather-probability-api/pkg/telemetry"
	"go.uber.org/zap"
)

// app carries what PersistentPreRunE builds for the subcommands.
type app struct {
	configPath string
	cfg        *config.Config
	log        *zap.Logger
	tele       *telemetry.Telemetry
	closed     bool
}

func rootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather-probability",
		Short: "Weather probability API",
		Long:  `An HTTP service answering monthly climate and weather-condition probability queries for a browser dashboard.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initializeServices(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")

	cmd.AddCommand(serverCmd(a))

	return cmd
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd().ExecuteContext(ctx)
}

func (a *app) initializeServices(ctx context.Context) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	a.log, err = logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	a.tele, err = telemetry.New(ctx, cfg.Telemetry, cfg.Version)
	if err != nil {
		a.log.Warn("Failed to initialize telemetry, tracing disabled", zap.Error(err))
		a.tele = telemetry.NewNoop()
	}

	return nil
}

// close flushes telemetry and logs. Subcommands defer it so it also runs
// when they fail; calling it more than once is a no-op.
func (a *app) close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	if a.tele != nil {
		if err := a.tele.Shutdown(context.Background()); err != nil && a.log != nil {
			a.log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return nil
}
