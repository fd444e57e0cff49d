package main

import (
	"github.com/deppfellow/quizbank/internal/config"
	"github.com/deppfellow/quizbank/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	cfg           *config.Config
	log           zerolog.Logger
	loggerService *logger.LoggerService
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "quizbank",
		Short:        "quiz question bank service",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.loggerService = logger.NewLoggerService(cfg.Observability)
			a.log = logger.NewLoggerWithService(cfg.Observability, a.loggerService)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.loggerService.Shutdown()
		},
	}

	root.AddCommand(
		newServeCmd(a),
		newMigrateCmd(a),
		newStatsCmd(a),
	)
	return root
}
