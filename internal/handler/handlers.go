package handler

import (
	"github.com/deppfellow/quizbank/internal/server"
	"github.com/deppfellow/quizbank/internal/service"
)

// Handlers groups every HTTP handler the router registers.
type Handlers struct {
	// Health serves GET /status.
	Health *HealthHandler

	// Question serves /api/questions and its sub-resources: check, answer,
	// choices and explanation.
	Question *QuestionHandler

	// Statistics serves the read-only counts under /api/statistics.
	Statistics *StatisticsHandler

	// User serves the user lookups under /api/users.
	User *UserHandler
}

// NewHandlers builds the handlers over the service container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(s),
		Question:   NewQuestionHandler(s, services.Question),
		Statistics: NewStatisticsHandler(s, services.Statistics),
		User:       NewUserHandler(s, services.User),
	}
}
