package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/deppfellow/quizbank/internal/errs"
	"github.com/deppfellow/quizbank/internal/model"
	"github.com/deppfellow/quizbank/internal/repository"
	"github.com/deppfellow/quizbank/internal/server"
	"github.com/deppfellow/quizbank/internal/service"
	"github.com/deppfellow/quizbank/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionHandler_ChoicesRoute(t *testing.T) {
	db := testutil.Database(t, time.Second)
	questions := service.NewQuestionService(db, repository.New(db), nil, nil, testutil.Logger(t))
	h := NewQuestionHandler(&server.Server{}, questions)

	e := echo.New()
	e.GET("/questions/:id/choices", Handle(h.Choices, http.StatusOK))

	id, err := questions.CreateQuestion(context.Background(), model.QuestionInput{
		Text: "Pick one",
		Type: model.QuestionTypeChoice,
		Choices: []model.ChoiceInput{
			{Text: "left", IsCorrect: true},
			{Text: "right"},
		},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/questions/"+strconv.FormatInt(id, 10)+"/choices", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.Choice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "left", got[0].Text)
	assert.Equal(t, "right", got[1].Text)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/questions/404/choices", nil), httptest.NewRecorder())
	c.SetPath("/questions/:id/choices")
	c.SetParamNames("id")
	c.SetParamValues("404")

	err = Handle(h.Choices, http.StatusOK)(c)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
