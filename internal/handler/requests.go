package handler

import (
	"strings"

	"github.com/deppfellow/quizbank/internal/model"
	"github.com/deppfellow/quizbank/internal/validation"
)

type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}

type QuestionIDRequest struct {
	ID int64 `param:"id" validate:"required,gt=0"`
}

func (r *QuestionIDRequest) Validate() error {
	return validation.Struct(r)
}

type ListQuestionsRequest struct {
	Page  int    `query:"page" validate:"omitempty,gte=1"`
	Limit int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
	Type  string `query:"type" validate:"omitempty,oneof=choice text"`
}

func (r *ListQuestionsRequest) Validate() error {
	return validation.Struct(r)
}

// TypeFilter is nil when no type was requested.
func (r *ListQuestionsRequest) TypeFilter() *model.QuestionType {
	if r.Type == "" {
		return nil
	}
	t := model.QuestionType(r.Type)
	return &t
}

type ChoiceRequest struct {
	Text      string `json:"text" validate:"required,max=255"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionBody is the JSON body of create and update.
type QuestionBody struct {
	Text        string          `json:"text" validate:"required"`
	Type        string          `json:"type" validate:"required,oneof=choice text"`
	UserID      *int64          `json:"user_id" validate:"omitempty,gt=0"`
	Choices     []ChoiceRequest `json:"choices" validate:"omitempty,dive"`
	AnswerText  *string         `json:"answer_text"`
	Explanation *string         `json:"explanation"`
}

// Validate runs the tags, then the shape rules that span fields.
func (b *QuestionBody) Validate() error {
	if err := validation.Struct(b); err != nil {
		return err
	}
	return b.checkShape()
}

func (b *QuestionBody) checkShape() error {
	var shape validation.CustomValidationErrors
	if strings.TrimSpace(b.Text) == "" {
		shape = append(shape, validation.CustomValidationError{Field: "text", Message: "is required"})
	}
	switch model.QuestionType(b.Type) {
	case model.QuestionTypeChoice:
		if b.AnswerText != nil {
			shape = append(shape, validation.CustomValidationError{Field: "answer_text", Message: "not allowed on a choice question"})
		}
		correct := 0
		for _, c := range b.Choices {
			if c.IsCorrect {
				correct++
			}
		}
		if correct > 1 {
			shape = append(shape, validation.CustomValidationError{Field: "choices", Message: "at most one choice can be correct"})
		}
	case model.QuestionTypeText:
		if len(b.Choices) > 0 {
			shape = append(shape, validation.CustomValidationError{Field: "choices", Message: "not allowed on a text question"})
		}
	}
	if len(shape) > 0 {
		return shape
	}
	return nil
}

func (b *QuestionBody) Input() model.QuestionInput {
	in := model.QuestionInput{
		Text:        b.Text,
		Type:        model.QuestionType(b.Type),
		UserID:      b.UserID,
		AnswerText:  b.AnswerText,
		Explanation: b.Explanation,
	}
	for _, c := range b.Choices {
		in.Choices = append(in.Choices, model.ChoiceInput{Text: c.Text, IsCorrect: c.IsCorrect})
	}
	return in
}

type CreateQuestionRequest struct {
	QuestionBody
}

type UpdateQuestionRequest struct {
	ID int64 `param:"id" json:"-" validate:"required,gt=0"`
	QuestionBody
}

func (r *UpdateQuestionRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	return r.checkShape()
}

type CheckChoiceRequest struct {
	ID       int64 `param:"id" json:"-" validate:"required,gt=0"`
	ChoiceID int64 `json:"choice_id" validate:"required,gt=0"`
}

func (r *CheckChoiceRequest) Validate() error {
	return validation.Struct(r)
}

// PeriodRequest selects the bucket size of the by-period statistics. It is
// read from ?period= or, as an alias, ?granularity=; period wins when both
// are present. Unknown values fall back to month in the service.
type PeriodRequest struct {
	Period      string `query:"period"`
	Granularity string `query:"granularity"`
}

func (r *PeriodRequest) Validate() error {
	return nil
}

// Value is the requested granularity, empty when none was given.
func (r *PeriodRequest) Value() string {
	if r.Period != "" {
		return r.Period
	}
	return r.Granularity
}

type UserIDRequest struct {
	ID int64 `param:"id" validate:"required,gt=0"`
}

func (r *UserIDRequest) Validate() error {
	return validation.Struct(r)
}

type UserByNameRequest struct {
	Name string `query:"name" validate:"required"`
}

func (r *UserByNameRequest) Validate() error {
	return validation.Struct(r)
}
