package job

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/deppfellow/quizbank/internal/model"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuestionLifecycleTask(t *testing.T) {
	at := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	task, err := NewQuestionLifecycleTask(QuestionLifecyclePayload{
		QuestionID: 12,
		Action:     ActionUpdated,
		Type:       model.QuestionTypeText,
		OccurredAt: at,
	})
	require.NoError(t, err)

	assert.Equal(t, TaskQuestionLifecycle, task.Type())

	var got QuestionLifecyclePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &got))
	assert.Equal(t, int64(12), got.QuestionID)
	assert.Equal(t, ActionUpdated, got.Action)
	assert.Equal(t, model.QuestionTypeText, got.Type)
	assert.True(t, at.Equal(got.OccurredAt))
}

func TestHandleQuestionLifecycleTask(t *testing.T) {
	logger := zerolog.Nop()
	j := &JobService{logger: &logger}

	task, err := NewQuestionLifecycleTask(QuestionLifecyclePayload{QuestionID: 1, Action: ActionDeleted})
	require.NoError(t, err)
	assert.NoError(t, j.handleQuestionLifecycleTask(context.Background(), task))

	bad := asynq.NewTask(TaskQuestionLifecycle, []byte("{"))
	err = j.handleQuestionLifecycleTask(context.Background(), bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}
