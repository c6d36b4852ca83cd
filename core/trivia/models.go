package trivia

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/fsnd/core"
)

type Category struct {
	ID   int    `json:"id" db:"id"`
	Type string `json:"type" db:"type"`
}

type Question struct {
	ID         int    `json:"id" db:"id"`
	Question   string `json:"question" db:"question"`
	Answer     string `json:"answer" db:"answer"`
	Category   int    `json:"category" db:"category"`
	Difficulty int    `json:"difficulty" db:"difficulty"`
}

// CategoryMap maps category IDs to their type, the shape the frontend expects.
func CategoryMap(categories []Category) map[int]string {
	m := make(map[int]string, len(categories))
	for _, c := range categories {
		m[c.ID] = c.Type
	}
	return m
}

// NewQuestion contains information needed to create a new Question.
type NewQuestion struct {
	Question   string `json:"question" validate:"required,notblank"`
	Answer     string `json:"answer" validate:"required,notblank"`
	Category   int    `json:"category" validate:"required,gt=0"`
	Difficulty int    `json:"difficulty" validate:"difficulty"`
}

func (nq *NewQuestion) Validate(validate *validator.Validate) error {
	nq.Question = core.CleanString(nq.Question)
	nq.Answer = core.CleanString(nq.Answer)
	return validate.Struct(nq)
}

type SearchRequest struct {
	SearchTerm string `json:"searchTerm" validate:"required,notblank"`
}

func (sr *SearchRequest) Validate(validate *validator.Validate) error {
	sr.SearchTerm = core.CleanString(sr.SearchTerm)
	return validate.Struct(sr)
}

type QuizCategory struct {
	ID   int    `json:"id" validate:"gte=0"`
	Type string `json:"type"`
}

// QuizRequest asks for the next question of a quiz.
// QuizCategory.ID == 0 plays all categories.
type QuizRequest struct {
	PreviousQuestions []int        `json:"previous_questions" validate:"omitempty,dive,gt=0"`
	QuizCategory      QuizCategory `json:"quiz_category"`
}

func (qr *QuizRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(qr)
}

// QueryFilter applies AND on its set fields.
// Search is a case-insensitive substring match on Question.Question.
type QueryFilter struct {
	Category int
	Search   string
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
