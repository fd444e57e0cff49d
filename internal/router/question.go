package router

import (
	"net/http"

	"github.com/deppfellow/quizbank/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerQuestionRoutes(api *echo.Group, h *handler.Handlers) {
	questions := api.Group("/questions")

	questions.GET("", handler.Handle(h.Question.List, http.StatusOK))
	questions.POST("", handler.Handle(h.Question.Create, http.StatusCreated))
	questions.GET("/:id", handler.Handle(h.Question.Get, http.StatusOK))
	questions.PUT("/:id", handler.Handle(h.Question.Update, http.StatusOK))
	questions.DELETE("/:id", handler.HandleNoContent(h.Question.Delete, http.StatusNoContent))
	questions.POST("/:id/check", handler.Handle(h.Question.Check, http.StatusOK))
	questions.GET("/:id/answer", handler.Handle(h.Question.Answer, http.StatusOK))
	questions.GET("/:id/choices", handler.Handle(h.Question.Choices, http.StatusOK))
	questions.GET("/:id/explanation", handler.Handle(h.Question.Explanation, http.StatusOK))
}

func registerStatisticsRoutes(api *echo.Group, h *handler.Handlers) {
	statistics := api.Group("/statistics")

	statistics.GET("/by-type", handler.Handle(h.Statistics.ByType, http.StatusOK))
	statistics.GET("/by-user", handler.Handle(h.Statistics.ByUser, http.StatusOK))
	statistics.GET("/by-period", handler.Handle(h.Statistics.ByPeriod, http.StatusOK))
}

func registerUserRoutes(api *echo.Group, h *handler.Handlers) {
	users := api.Group("/users")

	users.GET("", handler.Handle(h.User.FindByName, http.StatusOK))
	users.GET("/:id/questions", handler.Handle(h.User.Questions, http.StatusOK))
}
