package main

import (
	"context"

	"github.com/deppfellow/quizbank/internal/database"
	"github.com/deppfellow/quizbank/internal/lib/utils"
	"github.com/deppfellow/quizbank/internal/model"
	"github.com/deppfellow/quizbank/internal/repository"
	"github.com/deppfellow/quizbank/internal/service"
	"github.com/spf13/cobra"
)

type statsReport struct {
	ByType      []model.TypeCount   `json:"by_type"`
	ByUser      []model.UserCount   `json:"by_user"`
	Granularity model.Granularity   `json:"granularity"`
	ByPeriod    []model.PeriodCount `json:"by_period"`
}

func newStatsCmd(a *app) *cobra.Command {
	var granularity string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "print question counts by type, author and period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.stats(cmd.Context(), cmd, granularity)
		},
	}
	cmd.Flags().StringVar(&granularity, "granularity", "month", "period bucket: day, month or year")
	return cmd
}

func (a *app) stats(ctx context.Context, cmd *cobra.Command, granularity string) error {
	db, err := database.New(a.cfg, &a.log, a.loggerService)
	if err != nil {
		return err
	}
	defer db.Close()

	statistics := service.NewStatisticsService(repository.New(db))

	byType, err := statistics.CountByType(ctx)
	if err != nil {
		return err
	}
	byUser, err := statistics.CountByUser(ctx)
	if err != nil {
		return err
	}
	byPeriod, g, err := statistics.CountByPeriod(ctx, granularity)
	if err != nil {
		return err
	}

	return utils.PrintJSON(cmd.OutOrStdout(), statsReport{
		ByType:      byType,
		ByUser:      byUser,
		Granularity: g,
		ByPeriod:    byPeriod,
	})
}
