package main

import (
	"github.com/joho/godotenv"
	"github.com/sandevgo/everebot/internal/config"
	"github.com/sandevgo/everebot/internal/service/installer"
	"github.com/sandevgo/everebot/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Create the runtime directory, .env and persona",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation process")

		runtimePath := config.GetRuntimePath()

		// run wizard (includes save step)
		state, err := installer.RunWizard(runtimePath)
		if err != nil {
			return err
		}

		envPath := config.AppConfig{RuntimePath: runtimePath}.GetEnvPath()
		if _, err := godotenv.Read(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("written .env file does not parse")
		}

		logger.Info().
			Str("transport", state.Settings.Transport).
			Str("generator", state.Settings.Generator).
			Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Installation complete! You can now run 'evere start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
