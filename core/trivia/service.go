package trivia

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/fsnd/core"
)

var (
	// errors
	ErrCategoryNotFound = core.NewNotFoundError("category")
	ErrQuestionNotFound = core.NewNotFoundError("question")
	ErrQuizExhausted    = errors.New("no questions left to play")

	errUnknownCategory = "unknown category"
)

type Repository interface {
	// QueryCategories returns all categories ordered by type.
	QueryCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int, exec ...core.DBExecutor) (Category, error)
	// QueryQuestions returns one page of questions matching filter, plus the total number of matches.
	// The ordering always ends with the question ID so pages never overlap.
	QueryQuestions(ctx context.Context, filter QueryFilter, page core.Page, ordering []core.DBOrdering) ([]Question, int, error)
	GetQuestion(ctx context.Context, id int, exec ...core.DBExecutor) (Question, error)
	CreateQuestion(ctx context.Context, q Question, exec ...core.DBExecutor) (Question, error)
	// DeleteQuestion returns the number of deleted rows, or ErrQuestionNotFound.
	DeleteQuestion(ctx context.Context, id int, exec ...core.DBExecutor) (int, error)
	// RandomQuestion picks a question of categoryID (0: any) whose ID is not in excluded,
	// or returns ErrQuizExhausted.
	RandomQuestion(ctx context.Context, categoryID int, excluded []int) (Question, error)
}

type Service struct {
	tx       core.Transactor
	repo     Repository
	pageSize int
}

func NewService(tx core.Transactor, repo Repository, conf *core.Config) *Service {
	return &Service{
		tx:       tx,
		repo:     repo,
		pageSize: conf.Trivia.PageSize,
	}
}

// Page returns the requested page sized per config.
func (svc *Service) Page(number int) core.Page {
	return core.NewPage(number, svc.pageSize)
}

func (svc *Service) Categories(ctx context.Context) ([]Category, error) {
	return svc.repo.QueryCategories(ctx)
}

func (svc *Service) GetCategory(ctx context.Context, id int) (Category, error) {
	return svc.repo.GetCategory(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, page core.Page, ordering []core.DBOrdering) ([]Question, int, error) {
	filter.Clean()
	return svc.repo.QueryQuestions(ctx, filter, page, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Question, error) {
	return svc.repo.GetQuestion(ctx, id)
}

// Create stores a validated NewQuestion. An unknown category is a validation error.
func (svc *Service) Create(ctx context.Context, nq NewQuestion) (Question, error) {
	var q Question
	err := svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		if _, err := svc.repo.GetCategory(ctx, nq.Category, exec); err != nil {
			if errors.Cause(err) == ErrCategoryNotFound {
				return core.NewValidationError(nil, core.FieldError{Field: "category", Error: errUnknownCategory})
			}
			return errors.Wrap(err, "finding category")
		}

		var err error
		q, err = svc.repo.CreateQuestion(ctx, Question{
			Question:   nq.Question,
			Answer:     nq.Answer,
			Category:   nq.Category,
			Difficulty: nq.Difficulty,
		}, exec)
		return err
	})
	if err != nil {
		return Question{}, err
	}
	return q, nil
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		_, err := svc.repo.DeleteQuestion(ctx, id, exec)
		return err
	})
}

// NextQuizQuestion picks a random question that was not played yet.
// It returns ErrQuizExhausted once every question of the category has been played.
func (svc *Service) NextQuizQuestion(ctx context.Context, qr QuizRequest) (Question, error) {
	if qr.QuizCategory.ID > 0 {
		if _, err := svc.repo.GetCategory(ctx, qr.QuizCategory.ID); err != nil {
			return Question{}, err
		}
	}
	return svc.repo.RandomQuestion(ctx, qr.QuizCategory.ID, qr.PreviousQuestions)
}
