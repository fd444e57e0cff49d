package service

import (
	"testing"

	"github.com/deppfellow/quizbank/internal/errs"
	"github.com/deppfellow/quizbank/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidateQuestionInput(t *testing.T) {
	tests := []struct {
		name    string
		in      model.QuestionInput
		wantErr string
	}{
		{
			name: "choice question with one correct",
			in: model.QuestionInput{Text: "2+2?", Type: model.QuestionTypeChoice, Choices: []model.ChoiceInput{
				{Text: "4", IsCorrect: true}, {Text: "5"},
			}},
		},
		{
			name: "choice question with no correct choice",
			in: model.QuestionInput{Text: "pick", Type: model.QuestionTypeChoice, Choices: []model.ChoiceInput{
				{Text: "a"}, {Text: "b"},
			}},
		},
		{
			name: "choice question without choices",
			in:   model.QuestionInput{Text: "pick", Type: model.QuestionTypeChoice},
		},
		{
			name: "text question with answer",
			in:   model.QuestionInput{Text: "meaning?", Type: model.QuestionTypeText, AnswerText: strPtr("42")},
		},
		{
			name: "text question without answer",
			in:   model.QuestionInput{Text: "meaning?", Type: model.QuestionTypeText},
		},
		{
			name:    "blank text",
			in:      model.QuestionInput{Text: "   ", Type: model.QuestionTypeText},
			wantErr: "question text is required",
		},
		{
			name:    "unknown type",
			in:      model.QuestionInput{Text: "q", Type: "essay"},
			wantErr: "type must be one of: choice, text",
		},
		{
			name: "two correct choices",
			in: model.QuestionInput{Text: "q", Type: model.QuestionTypeChoice, Choices: []model.ChoiceInput{
				{Text: "a", IsCorrect: true}, {Text: "b", IsCorrect: true},
			}},
			wantErr: "at most one choice can be correct, got 2",
		},
		{
			name: "blank choice",
			in: model.QuestionInput{Text: "q", Type: model.QuestionTypeChoice, Choices: []model.ChoiceInput{
				{Text: "a"}, {Text: ""},
			}},
			wantErr: "choice 2 text is required",
		},
		{
			name:    "answer on choice question",
			in:      model.QuestionInput{Text: "q", Type: model.QuestionTypeChoice, AnswerText: strPtr("x")},
			wantErr: "a choice question cannot have an answer",
		},
		{
			name: "choices on text question",
			in: model.QuestionInput{Text: "q", Type: model.QuestionTypeText, Choices: []model.ChoiceInput{
				{Text: "a"},
			}},
			wantErr: "a text question cannot have choices",
		},
		{
			name:    "blank answer",
			in:      model.QuestionInput{Text: "q", Type: model.QuestionTypeText, AnswerText: strPtr(" ")},
			wantErr: "answer text cannot be blank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateQuestionInput(tt.in, 5)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			var de *errs.DataError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, errs.KindConstraintViolation, de.Kind)
			assert.Equal(t, tt.wantErr, de.Message)
			assert.Equal(t, int64(5), de.ID)
			assert.Equal(t, "questions", de.Table)
		})
	}
}
