package handler

import (
	"github.com/deppfellow/quizbank/internal/model"
	"github.com/deppfellow/quizbank/internal/server"
	"github.com/deppfellow/quizbank/internal/service"
	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

func (h *UserHandler) FindByName(c echo.Context, req *UserByNameRequest) (model.User, error) {
	return h.users.GetByName(c.Request().Context(), req.Name)
}

func (h *UserHandler) Questions(c echo.Context, req *UserIDRequest) (model.UserWithQuestions, error) {
	return h.users.GetWithQuestions(c.Request().Context(), req.ID)
}
