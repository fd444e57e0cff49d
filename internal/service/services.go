package service

import (
	"github.com/deppfellow/quizbank/internal/lib/job"
	"github.com/deppfellow/quizbank/internal/repository"
	"github.com/deppfellow/quizbank/internal/server"
)

type Services struct {
	Question   *QuestionService
	Statistics *StatisticsService
	User       *UserService
	Job        *job.JobService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	// A nil *job.JobService must not become a non-nil interface.
	var recorder LifecycleRecorder
	if s.Job != nil {
		recorder = s.Job
	}

	return &Services{
		Question:   NewQuestionService(s.DB, repos, s.Config.Quiz, recorder, s.Logger),
		Statistics: NewStatisticsService(repos),
		User:       NewUserService(repos),
		Job:        s.Job,
	}
}
