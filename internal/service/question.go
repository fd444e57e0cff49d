package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/deppfellow/quizbank/internal/config"
	"github.com/deppfellow/quizbank/internal/database"
	"github.com/deppfellow/quizbank/internal/errs"
	"github.com/deppfellow/quizbank/internal/lib/job"
	"github.com/deppfellow/quizbank/internal/model"
	"github.com/deppfellow/quizbank/internal/repository"
	"github.com/rs/zerolog"
)

const questionsTable = "questions"

// LifecycleRecorder is told about question writes after they commit.
type LifecycleRecorder interface {
	RecordQuestionLifecycle(ctx context.Context, questionID int64, action job.LifecycleAction, qType model.QuestionType)
}

// QuestionService assembles and writes whole questions: the question row and
// its choices, answer and explanation.
//
// Writes run in one transaction on one connection, with statements in
// program order. The exception is UpdateQuestion under the two_phase
// strategy, which commits twice.
type QuestionService struct {
	db       database.Executor
	repos    *repository.Repositories
	cfg      *config.QuizConfig
	recorder LifecycleRecorder
	logger   *zerolog.Logger
}

// NewQuestionService wires the service. recorder may be nil; cfg nil means
// the defaults.
func NewQuestionService(db database.Executor, repos *repository.Repositories, cfg *config.QuizConfig, recorder LifecycleRecorder, logger *zerolog.Logger) *QuestionService {
	if cfg == nil {
		cfg = config.DefaultQuizConfig()
	}
	return &QuestionService{
		db:       db,
		repos:    repos,
		cfg:      cfg,
		recorder: recorder,
		logger:   logger,
	}
}

func (s *QuestionService) record(ctx context.Context, id int64, action job.LifecycleAction, qType model.QuestionType) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordQuestionLifecycle(context.WithoutCancel(ctx), id, action, qType)
}

// GetQuestionWithChoices returns the question with author, explanation and,
// depending on its type, its choices or its answer.
func (s *QuestionService) GetQuestionWithChoices(ctx context.Context, id int64) (model.QuestionDetail, error) {
	return s.detail(ctx, id)
}

func (s *QuestionService) detail(ctx context.Context, id int64) (model.QuestionDetail, error) {
	detail, found, err := s.repos.Questions.FindDetail(ctx, id)
	if err != nil {
		return model.QuestionDetail{}, err
	}
	if !found {
		return model.QuestionDetail{}, errs.NewNotFound(questionsTable, "get", id)
	}

	if detail.Type == model.QuestionTypeText {
		answer, found, err := s.repos.Answers.FindByQuestionID(ctx, id)
		if err != nil {
			return model.QuestionDetail{}, err
		}
		if found {
			detail.AnswerText = &answer.AnswerText
		}
	}

	return detail, nil
}

// FindAllPaginated lists questions newest first with their dependents,
// optionally filtered by type. Dependents are loaded one question at a time.
// A question deleted between the page query and its detail query is left
// out of Data.
func (s *QuestionService) FindAllPaginated(ctx context.Context, page, limit int, typeFilter *model.QuestionType) (repository.Page[model.QuestionDetail], error) {
	if limit < 1 {
		limit = s.cfg.DefaultPageLimit
	}

	rows, err := s.repos.Questions.FindPage(ctx, page, limit, typeFilter)
	if err != nil {
		return repository.Page[model.QuestionDetail]{}, err
	}

	out := repository.Page[model.QuestionDetail]{
		Data:       make([]model.QuestionDetail, 0, len(rows.Data)),
		Pagination: rows.Pagination,
	}
	for _, q := range rows.Data {
		detail, err := s.detail(ctx, q.ID)
		if errs.KindOf(err) == errs.KindNotFound {
			continue
		}
		if err != nil {
			return repository.Page[model.QuestionDetail]{}, err
		}
		out.Data = append(out.Data, detail)
	}

	return out, nil
}

// CreateQuestion inserts the question, then its choices or answer, then the
// explanation, all in one transaction. Any failure leaves no rows behind.
func (s *QuestionService) CreateQuestion(ctx context.Context, in model.QuestionInput) (int64, error) {
	if err := validateQuestionInput(in, 0); err != nil {
		return 0, err
	}

	var id int64
	err := s.db.InTx(ctx, func(tx database.Executor) error {
		repos := s.repos.WithExecutor(tx)

		var err error
		id, err = repos.Questions.Insert(ctx, in.Text, in.Type, in.UserID)
		if err != nil {
			return err
		}

		if err := attachShape(ctx, repos, id, in); err != nil {
			return err
		}

		if in.Explanation != nil && *in.Explanation != "" {
			if _, err := repos.Explanations.CreateFor(ctx, id, *in.Explanation); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.record(ctx, id, job.ActionCreated, in.Type)
	return id, nil
}

// UpdateQuestion replaces the question's scalars and its whole dependent
// set. Existing choices and answers are always removed, then the new ones
// for the (possibly changed) type are attached. The explanation is replaced
// only when in.Explanation is non-nil.
//
// With the atomic strategy everything is one transaction. With two_phase the
// scalars and the removal commit first, leaving the question shapeless, and
// the new dependents are attached in a second transaction; if that fails the
// error is PartialUpdateFailure.
func (s *QuestionService) UpdateQuestion(ctx context.Context, id int64, in model.QuestionInput) error {
	if err := validateQuestionInput(in, id); err != nil {
		return err
	}

	var err error
	switch s.cfg.UpdateStrategy {
	case config.UpdateStrategyTwoPhase:
		err = s.updateTwoPhase(ctx, id, in)
	default:
		err = s.updateAtomic(ctx, id, in)
	}
	if err != nil {
		return err
	}

	s.record(ctx, id, job.ActionUpdated, in.Type)
	return nil
}

func (s *QuestionService) updateAtomic(ctx context.Context, id int64, in model.QuestionInput) error {
	return s.db.InTx(ctx, func(tx database.Executor) error {
		repos := s.repos.WithExecutor(tx)

		if err := reshape(ctx, repos, id, in); err != nil {
			return err
		}
		return attachShape(ctx, repos, id, in)
	})
}

func (s *QuestionService) updateTwoPhase(ctx context.Context, id int64, in model.QuestionInput) error {
	err := s.db.InTx(ctx, func(tx database.Executor) error {
		return reshape(ctx, s.repos.WithExecutor(tx), id, in)
	})
	if err != nil {
		return err
	}

	err = s.db.InTx(ctx, func(tx database.Executor) error {
		return attachShape(ctx, s.repos.WithExecutor(tx), id, in)
	})
	if err != nil {
		// The error is logged once at the boundary; this only traces state.
		s.logger.Debug().
			Err(err).
			Int64("question_id", id).
			Str("state", "shapeless").
			Msg("question update phase two failed")
		return errs.NewPartialUpdateFailure(questionsTable, "update", id, err)
	}

	return nil
}

// reshape updates the scalars, clears choices and answers and applies the
// explanation change. It is the first phase of every update.
func reshape(ctx context.Context, repos *repository.Repositories, id int64, in model.QuestionInput) error {
	affected, err := repos.Questions.UpdateScalars(ctx, id, in.Text, in.Type, in.UserID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.NewNotFound(questionsTable, "update", id)
	}

	if _, err := repos.Choices.DeleteByQuestionID(ctx, id); err != nil {
		return err
	}
	if _, err := repos.Answers.DeleteByQuestionID(ctx, id); err != nil {
		return err
	}

	if in.Explanation != nil {
		if _, err := repos.Explanations.DeleteByQuestionID(ctx, id); err != nil {
			return err
		}
		if *in.Explanation != "" {
			if _, err := repos.Explanations.CreateFor(ctx, id, *in.Explanation); err != nil {
				return err
			}
		}
	}

	return nil
}

// attachShape inserts the dependents the question type allows.
func attachShape(ctx context.Context, repos *repository.Repositories, id int64, in model.QuestionInput) error {
	switch in.Type {
	case model.QuestionTypeChoice:
		for _, c := range in.Choices {
			if _, err := repos.Choices.CreateFor(ctx, id, c); err != nil {
				return err
			}
		}
	case model.QuestionTypeText:
		if in.AnswerText != nil {
			if _, err := repos.Answers.CreateFor(ctx, id, *in.AnswerText); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeleteQuestion removes the explanation, choices, answers and finally the
// question in one transaction. When no question row was deleted the
// dependent deletions still commit and NotFound is returned.
func (s *QuestionService) DeleteQuestion(ctx context.Context, id int64) error {
	var affected int64
	err := s.db.InTx(ctx, func(tx database.Executor) error {
		repos := s.repos.WithExecutor(tx)

		if _, err := repos.Explanations.DeleteByQuestionID(ctx, id); err != nil {
			return err
		}
		if _, err := repos.Choices.DeleteByQuestionID(ctx, id); err != nil {
			return err
		}
		if _, err := repos.Answers.DeleteByQuestionID(ctx, id); err != nil {
			return err
		}

		var err error
		affected, err = repos.Questions.Delete(ctx, id)
		return err
	})
	if err != nil {
		return err
	}

	if affected == 0 {
		return errs.NewNotFound(questionsTable, "delete", id)
	}

	s.record(ctx, id, job.ActionDeleted, "")
	return nil
}

// CheckChoice tells whether choiceID is the correct option of a choice
// question, and which option is.
func (s *QuestionService) CheckChoice(ctx context.Context, questionID, choiceID int64) (model.ChoiceCheck, error) {
	const op = "check_choice"

	question, found, err := s.repos.Questions.FindByID(ctx, questionID)
	if err != nil {
		return model.ChoiceCheck{}, err
	}
	if !found {
		return model.ChoiceCheck{}, errs.NewNotFound(questionsTable, op, questionID)
	}
	if question.Type != model.QuestionTypeChoice {
		return model.ChoiceCheck{}, errs.NewConstraintViolation(questionsTable, op, questionID,
			"only choice questions can be checked", nil)
	}

	choice, found, err := s.repos.Choices.FindByID(ctx, choiceID)
	if err != nil {
		return model.ChoiceCheck{}, err
	}
	if !found || choice.QuestionID != questionID {
		return model.ChoiceCheck{}, errs.NewNotFound("choices", op, choiceID)
	}

	correct, found, err := s.repos.Choices.FindCorrect(ctx, questionID)
	if err != nil {
		return model.ChoiceCheck{}, err
	}

	check := model.ChoiceCheck{}
	if found {
		check.IsCorrect = correct.ID == choiceID
		check.CorrectChoiceID = &correct.ID
	}
	return check, nil
}

// GetAnswer returns the answer of a text question.
func (s *QuestionService) GetAnswer(ctx context.Context, questionID int64) (model.Answer, error) {
	const op = "get_answer"

	if err := s.requireQuestion(ctx, questionID, op); err != nil {
		return model.Answer{}, err
	}

	answer, found, err := s.repos.Answers.FindByQuestionID(ctx, questionID)
	if err != nil {
		return model.Answer{}, err
	}
	if !found {
		return model.Answer{}, errs.NewNotFound("answers", op, questionID)
	}
	return answer, nil
}

// GetChoices returns the options of a question in id order. Text questions
// have none.
func (s *QuestionService) GetChoices(ctx context.Context, questionID int64) ([]model.Choice, error) {
	if err := s.requireQuestion(ctx, questionID, "get_choices"); err != nil {
		return nil, err
	}
	return s.repos.Choices.FindByQuestionID(ctx, questionID)
}

// GetExplanation returns the explanation of a question.
func (s *QuestionService) GetExplanation(ctx context.Context, questionID int64) (model.Explanation, error) {
	const op = "get_explanation"

	if err := s.requireQuestion(ctx, questionID, op); err != nil {
		return model.Explanation{}, err
	}

	explanation, found, err := s.repos.Explanations.FindByQuestionID(ctx, questionID)
	if err != nil {
		return model.Explanation{}, err
	}
	if !found {
		return model.Explanation{}, errs.NewNotFound("explanations", op, questionID)
	}
	return explanation, nil
}

func (s *QuestionService) requireQuestion(ctx context.Context, id int64, op string) error {
	_, found, err := s.repos.Questions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return errs.NewNotFound(questionsTable, op, id)
	}
	return nil
}

// validateQuestionInput enforces the shape rules before any statement runs:
// non-blank text, a known type, choices only on choice questions, an answer
// only on text questions, non-blank choice texts and at most one correct
// choice. A choice question without a correct choice is accepted.
func validateQuestionInput(in model.QuestionInput, id int64) error {
	violation := func(format string, args ...any) error {
		return errs.NewConstraintViolation(questionsTable, "validate", id, fmt.Sprintf(format, args...), nil)
	}

	if strings.TrimSpace(in.Text) == "" {
		return violation("question text is required")
	}
	if !in.Type.Valid() {
		return violation("type must be one of: %s, %s", model.QuestionTypeChoice, model.QuestionTypeText)
	}

	switch in.Type {
	case model.QuestionTypeChoice:
		if in.AnswerText != nil {
			return violation("a choice question cannot have an answer")
		}
		correct := 0
		for i, c := range in.Choices {
			if strings.TrimSpace(c.Text) == "" {
				return violation("choice %d text is required", i+1)
			}
			if c.IsCorrect {
				correct++
			}
		}
		if correct > 1 {
			return violation("at most one choice can be correct, got %d", correct)
		}

	case model.QuestionTypeText:
		if len(in.Choices) > 0 {
			return violation("a text question cannot have choices")
		}
		if in.AnswerText != nil && strings.TrimSpace(*in.AnswerText) == "" {
			return violation("answer text cannot be blank")
		}
	}

	return nil
}
