package main

import (
	"github.com/sandevgo/aline/internal/config"
	"github.com/sandevgo/aline/internal/service/installer"
	"github.com/sandevgo/aline/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:          "install",
	Short:        "Create the runtime directory, .env and the default intent bank",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context(), "")
		defer flushLog()

		runtimePath := config.GetRuntimePath()
		state, err := installer.RunWizard(runtimePath)
		if err != nil {
			return err
		}

		log.FromCtx(ctx).Info().
			Str("path", runtimePath).
			Str("storage", state.App.Storage).
			Str("personality", state.App.Personality).
			Bool("telegram", state.App.EnableTelegram).
			Msg("installation complete, run 'aline start'")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
