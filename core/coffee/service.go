package coffee

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/fsnd/core"
)

var (
	// errors
	ErrDrinkNotFound = core.NewNotFoundError("drink")
	ErrTitleExists   = errors.New("a drink with this title already exists")

	errNothingToUpdate = errors.New("one of title or recipe is required")
)

type Repository interface {
	// CheckTitleUniqueness returns ErrTitleExists if another drink, not in excludedIDs, has this title.
	CheckTitleUniqueness(ctx context.Context, title string, excludedIDs []int, exec ...core.DBExecutor) error
	// QueryDrinks returns the drinks matching filter, ordered by title unless told otherwise.
	QueryDrinks(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Drink, error)
	GetDrink(ctx context.Context, id int, exec ...core.DBExecutor) (Drink, error)
	CreateDrink(ctx context.Context, d Drink, exec ...core.DBExecutor) (Drink, error)
	UpdateDrink(ctx context.Context, d Drink, exec ...core.DBExecutor) (Drink, error)
	// DeleteDrink returns the number of deleted rows, or ErrDrinkNotFound.
	DeleteDrink(ctx context.Context, id int, exec ...core.DBExecutor) (int, error)
}

type Service struct {
	tx   core.Transactor
	repo Repository
}

func NewService(tx core.Transactor, repo Repository) *Service {
	return &Service{tx: tx, repo: repo}
}

// CheckUniqueness maps ErrTitleExists to a field validation error.
func (svc *Service) CheckUniqueness(ctx context.Context, title string, exclDrinks ...Drink) error {
	ids := make([]int, 0, len(exclDrinks))
	for _, d := range exclDrinks {
		ids = append(ids, d.ID)
	}
	return svc.trapTitleExists(svc.repo.CheckTitleUniqueness(ctx, title, ids))
}

func (svc *Service) trapTitleExists(err error) error {
	if err == nil {
		return nil
	}
	if errors.Cause(err) == ErrTitleExists {
		return core.NewValidationError(ErrTitleExists, core.FieldError{Field: "title", Error: ErrTitleExists.Error()})
	}
	return err
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, ordering []core.DBOrdering) ([]Drink, error) {
	filter.Clean()
	return svc.repo.QueryDrinks(ctx, filter, ordering)
}

func (svc *Service) GetByID(ctx context.Context, id int) (Drink, error) {
	return svc.repo.GetDrink(ctx, id)
}

func (svc *Service) Create(ctx context.Context, nd NewDrink) (Drink, error) {
	var d Drink
	err := svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		var err error
		d, err = svc.repo.CreateDrink(ctx, Drink{Title: nd.Title, Recipe: nd.Recipe}, exec)
		return err
	})
	if err != nil {
		return Drink{}, svc.trapTitleExists(err)
	}
	return d, nil
}

// Update applies the set fields of ud to the drink identified by id.
func (svc *Service) Update(ctx context.Context, id int, ud UpdateDrink) (Drink, error) {
	var d Drink
	err := svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		orig, err := svc.repo.GetDrink(ctx, id, exec)
		if err != nil {
			return err
		}
		if ud.Title != "" {
			orig.Title = ud.Title
		}
		if ud.Recipe != nil {
			orig.Recipe = ud.Recipe
		}
		d, err = svc.repo.UpdateDrink(ctx, orig, exec)
		return err
	})
	if err != nil {
		return Drink{}, svc.trapTitleExists(err)
	}
	return d, nil
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.tx.InTx(ctx, func(exec core.DBExecutor) error {
		_, err := svc.repo.DeleteDrink(ctx, id, exec)
		return err
	})
}
