package handler

import (
	"github.com/deppfellow/quizbank/internal/model"
	"github.com/deppfellow/quizbank/internal/repository"
	"github.com/deppfellow/quizbank/internal/server"
	"github.com/deppfellow/quizbank/internal/service"
	"github.com/labstack/echo/v4"
)

// QuestionHandler exposes QuestionService over HTTP. Every method maps to one
// route registered in router/question.go; ids come from the :id path
// parameter.
type QuestionHandler struct {
	Handler
	questions *service.QuestionService
}

func NewQuestionHandler(s *server.Server, questions *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		Handler:   NewHandler(s),
		questions: questions,
	}
}

// List serves GET /api/questions?page=&limit=&type=.
func (h *QuestionHandler) List(c echo.Context, req *ListQuestionsRequest) (repository.Page[model.QuestionDetail], error) {
	return h.questions.FindAllPaginated(c.Request().Context(), req.Page, req.Limit, req.TypeFilter())
}

func (h *QuestionHandler) Get(c echo.Context, req *QuestionIDRequest) (model.QuestionDetail, error) {
	return h.questions.GetQuestionWithChoices(c.Request().Context(), req.ID)
}

// Create responds with the stored question as read back.
func (h *QuestionHandler) Create(c echo.Context, req *CreateQuestionRequest) (model.QuestionDetail, error) {
	ctx := c.Request().Context()

	id, err := h.questions.CreateQuestion(ctx, req.Input())
	if err != nil {
		return model.QuestionDetail{}, err
	}
	return h.questions.GetQuestionWithChoices(ctx, id)
}

func (h *QuestionHandler) Update(c echo.Context, req *UpdateQuestionRequest) (model.QuestionDetail, error) {
	ctx := c.Request().Context()

	if err := h.questions.UpdateQuestion(ctx, req.ID, req.Input()); err != nil {
		return model.QuestionDetail{}, err
	}
	return h.questions.GetQuestionWithChoices(ctx, req.ID)
}

func (h *QuestionHandler) Delete(c echo.Context, req *QuestionIDRequest) error {
	return h.questions.DeleteQuestion(c.Request().Context(), req.ID)
}

// Check serves POST /api/questions/:id/check with {"choice_id": n}.
func (h *QuestionHandler) Check(c echo.Context, req *CheckChoiceRequest) (model.ChoiceCheck, error) {
	return h.questions.CheckChoice(c.Request().Context(), req.ID, req.ChoiceID)
}

func (h *QuestionHandler) Answer(c echo.Context, req *QuestionIDRequest) (model.Answer, error) {
	return h.questions.GetAnswer(c.Request().Context(), req.ID)
}

// Choices serves GET /api/questions/:id/choices.
func (h *QuestionHandler) Choices(c echo.Context, req *QuestionIDRequest) ([]model.Choice, error) {
	return h.questions.GetChoices(c.Request().Context(), req.ID)
}

func (h *QuestionHandler) Explanation(c echo.Context, req *QuestionIDRequest) (model.Explanation, error) {
	return h.questions.GetExplanation(c.Request().Context(), req.ID)
}
