package service

import (
	"context"

	"github.com/deppfellow/quizbank/internal/model"
	"github.com/deppfellow/quizbank/internal/repository"
)

// StatisticsService reports aggregate counts over the question bank.
type StatisticsService struct {
	questions *repository.QuestionRepository
}

func NewStatisticsService(repos *repository.Repositories) *StatisticsService {
	return &StatisticsService{questions: repos.Questions}
}

func (s *StatisticsService) CountByType(ctx context.Context) ([]model.TypeCount, error) {
	return s.questions.CountByType(ctx)
}

func (s *StatisticsService) CountByUser(ctx context.Context) ([]model.UserCount, error) {
	return s.questions.CountByUser(ctx)
}

// CountByPeriod buckets questions by creation date. An empty or unknown
// granularity falls back to month; the one used is returned with the counts.
func (s *StatisticsService) CountByPeriod(ctx context.Context, granularity string) ([]model.PeriodCount, model.Granularity, error) {
	g := model.ParseGranularity(granularity)
	counts, err := s.questions.CountByPeriod(ctx, g)
	if err != nil {
		return nil, g, err
	}
	return counts, g, nil
}
