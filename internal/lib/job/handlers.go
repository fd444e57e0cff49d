package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deppfellow/quizbank/internal/model"
	"github.com/hibiken/asynq"
)

// RecordQuestionLifecycle enqueues the audit task for a committed question
// write. The write has already happened, so failures are logged and
// swallowed.
func (j *JobService) RecordQuestionLifecycle(ctx context.Context, questionID int64, action LifecycleAction, qType model.QuestionType) {
	task, err := NewQuestionLifecycleTask(QuestionLifecyclePayload{
		QuestionID: questionID,
		Action:     action,
		Type:       qType,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		j.logger.Warn().Err(err).Int64("question_id", questionID).Msg("failed to build question lifecycle task")
		return
	}

	if _, err := j.Client.EnqueueContext(ctx, task); err != nil {
		j.logger.Warn().
			Err(err).
			Int64("question_id", questionID).
			Str("action", string(action)).
			Msg("failed to enqueue question lifecycle task")
	}
}

// handleQuestionLifecycleTask writes the audit line for one event.
func (j *JobService) handleQuestionLifecycleTask(ctx context.Context, t *asynq.Task) error {
	var p QuestionLifecyclePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal question lifecycle payload: %w: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("task", TaskQuestionLifecycle).
		Int64("question_id", p.QuestionID).
		Str("action", string(p.Action)).
		Str("question_type", string(p.Type)).
		Time("occurred_at", p.OccurredAt).
		Msg("question lifecycle")

	return nil
}
