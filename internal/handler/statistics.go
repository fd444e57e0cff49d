package handler

import (
	"github.com/deppfellow/quizbank/internal/model"
	"github.com/deppfellow/quizbank/internal/server"
	"github.com/deppfellow/quizbank/internal/service"
	"github.com/labstack/echo/v4"
)

type StatisticsHandler struct {
	Handler
	statistics *service.StatisticsService
}

func NewStatisticsHandler(s *server.Server, statistics *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{
		Handler:    NewHandler(s),
		statistics: statistics,
	}
}

// PeriodResponse is the body of GET /api/statistics/by-period.
type PeriodResponse struct {
	Granularity model.Granularity   `json:"granularity"`
	Counts      []model.PeriodCount `json:"counts"`
}

func (h *StatisticsHandler) ByType(c echo.Context, _ *EmptyRequest) ([]model.TypeCount, error) {
	return h.statistics.CountByType(c.Request().Context())
}

func (h *StatisticsHandler) ByUser(c echo.Context, _ *EmptyRequest) ([]model.UserCount, error) {
	return h.statistics.CountByUser(c.Request().Context())
}

// ByPeriod falls back to month for a missing or unknown granularity and
// reports the one used.
func (h *StatisticsHandler) ByPeriod(c echo.Context, req *PeriodRequest) (PeriodResponse, error) {
	counts, g, err := h.statistics.CountByPeriod(c.Request().Context(), req.Value())
	if err != nil {
		return PeriodResponse{}, err
	}
	return PeriodResponse{Granularity: g, Counts: counts}, nil
}
