package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/aline/pkg/log"
	"github.com/sandevgo/aline/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the chat services",
	Long:  `Starts the enabled chat front ends (terminal, Telegram) plus the intent bank watcher and the stats report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ctx, cfg, flushLog := bootstrap(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Str("storage", cfg.GetStorageBackend()).Msg("starting aline")

		services := NewServices(ctx, cfg, stop)

		srv.StartServices(ctx, stop, services)
		srv.ShutdownServices(ctx, services)

		logger.Info().Msg("aline has been shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
