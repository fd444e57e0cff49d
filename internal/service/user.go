package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/quizbank/internal/errs"
	"github.com/deppfellow/quizbank/internal/model"
	"github.com/deppfellow/quizbank/internal/repository"
)

const usersTable = "users"

type UserService struct {
	users *repository.UserRepository
}

func NewUserService(repos *repository.Repositories) *UserService {
	return &UserService{users: repos.Users}
}

func (s *UserService) GetByName(ctx context.Context, name string) (model.User, error) {
	user, found, err := s.users.FindByName(ctx, name)
	if err != nil {
		return model.User{}, err
	}
	if !found {
		return model.User{}, &errs.DataError{
			Kind:    errs.KindNotFound,
			Table:   usersTable,
			Op:      "get_by_name",
			Message: fmt.Sprintf("user %q does not exist", name),
		}
	}
	return user, nil
}

// GetWithQuestions returns the user and their questions, newest first.
func (s *UserService) GetWithQuestions(ctx context.Context, id int64) (model.UserWithQuestions, error) {
	user, found, err := s.users.FindWithQuestions(ctx, id)
	if err != nil {
		return model.UserWithQuestions{}, err
	}
	if !found {
		return model.UserWithQuestions{}, errs.NewNotFound(usersTable, "get_with_questions", id)
	}
	if user.Questions == nil {
		user.Questions = []model.Question{}
	}
	return user, nil
}
