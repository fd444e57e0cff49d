package job

import (
	"encoding/json"
	"time"

	"github.com/deppfellow/quizbank/internal/model"
	"github.com/hibiken/asynq"
)

// TaskQuestionLifecycle is the asynq type of the audit task.
const TaskQuestionLifecycle = "question:lifecycle"

// LifecycleAction is what happened to a question.
type LifecycleAction string

const (
	ActionCreated LifecycleAction = "created"
	ActionUpdated LifecycleAction = "updated"
	ActionDeleted LifecycleAction = "deleted"
)

// QuestionLifecyclePayload is the JSON body of a TaskQuestionLifecycle task.
type QuestionLifecyclePayload struct {
	QuestionID int64              `json:"question_id"`
	Action     LifecycleAction    `json:"action"`
	Type       model.QuestionType `json:"type,omitempty"`
	OccurredAt time.Time          `json:"occurred_at"`
}

// NewQuestionLifecycleTask builds the audit task for a committed write.
func NewQuestionLifecycleTask(p QuestionLifecyclePayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskQuestionLifecycle,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("low"),
		asynq.Timeout(30*time.Second),
	), nil
}
