// Package model holds quizbank's row types and the aggregate views built
// from them.
package model

import "time"

// QuestionType decides which dependents a question may own.
type QuestionType string

const (
	// QuestionTypeChoice owns zero or more choices and no answer.
	QuestionTypeChoice QuestionType = "choice"
	// QuestionTypeText owns at most one answer and no choices.
	QuestionTypeText QuestionType = "text"
)

func (t QuestionType) Valid() bool {
	return t == QuestionTypeChoice || t == QuestionTypeText
}

// Question is a row of the questions table.
type Question struct {
	ID       int64        `db:"id" json:"id"`
	Text     string       `db:"text" json:"text"`
	Type     QuestionType `db:"type" json:"type"`
	UserID   *int64       `db:"user_id" json:"user_id"`
	CreateAt time.Time    `db:"create_at" json:"create_at"`
	UpdateAt time.Time    `db:"update_at" json:"update_at"`
}

type Choice struct {
	ID         int64  `db:"id" json:"id"`
	QuestionID int64  `db:"question_id" json:"question_id"`
	Text       string `db:"text" json:"text"`
	IsCorrect  bool   `db:"is_correct" json:"is_correct"`
}

type Answer struct {
	ID         int64  `db:"id" json:"id"`
	QuestionID int64  `db:"question_id" json:"question_id"`
	AnswerText string `db:"answer_text" json:"answer_text"`
}

type Explanation struct {
	ID              int64  `db:"id" json:"id"`
	QuestionID      int64  `db:"question_id" json:"question_id"`
	ExplanationText string `db:"explanation_text" json:"explanation_text"`
}

type User struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ChoiceView is a choice as embedded in a QuestionDetail.
type ChoiceView struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionDetail is a question with its dependents.
//
// Choices is never nil: text questions and choice questions without options
// carry an empty slice. AnswerText is only set for text questions.
type QuestionDetail struct {
	Question
	AuthorName  *string      `json:"author_name"`
	Explanation *string      `json:"explanation"`
	Choices     []ChoiceView `json:"choices"`
	AnswerText  *string      `json:"answer_text,omitempty"`
}

// ChoiceInput is one option of a question being written.
type ChoiceInput struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionInput is the full desired state of a question for create and
// update.
//
// On update a nil Explanation keeps the current one, a pointer to "" removes
// it and any other value replaces it. On create nil and "" both mean none.
type QuestionInput struct {
	Text        string        `json:"text"`
	Type        QuestionType  `json:"type"`
	UserID      *int64        `json:"user_id"`
	Choices     []ChoiceInput `json:"choices"`
	AnswerText  *string       `json:"answer_text"`
	Explanation *string       `json:"explanation"`
}

// ChoiceCheck is the verdict for a submitted choice.
type ChoiceCheck struct {
	IsCorrect       bool   `json:"is_correct"`
	CorrectChoiceID *int64 `json:"correct_choice_id"`
}

// UserWithQuestions is a user and every question attributed to them, newest
// first.
type UserWithQuestions struct {
	User
	Questions []Question `json:"questions"`
}
