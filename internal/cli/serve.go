package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/orgball2608/vibestream/internal/app"
	"github.com/orgball2608/vibestream/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the session store and the local API until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New(logger.Opts{})

		application := fx.New(
			fx.Logger(log),
			app.Module,
		)

		if err := application.Start(context.Background()); err != nil {
			log.Error("Failed to start application", "error", err)
			return fmt.Errorf("failed to start: %w", err)
		}

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		if err := application.Stop(context.Background()); err != nil {
			log.Error("Failed to stop application", "error", err)
			return fmt.Errorf("failed to stop: %w", err)
		}
		return nil
	},
}
