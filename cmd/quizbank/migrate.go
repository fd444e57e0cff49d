package main

import (
	"github.com/deppfellow/quizbank/internal/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "provision the quiz tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return database.Migrate(cmd.Context(), &a.log, a.cfg)
		},
	}
}
