package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/coffee"
)

const (
	drinkColumns = "id, title, recipe"
	drinkTable   = "coffee.drinks"
)

var drinkOrderFields = map[string]string{
	"id":    "id",
	"title": "title",
}

type coffeeRepository struct {
	db core.DBExecutor
}

var _ coffee.Repository = (*coffeeRepository)(nil) // interface compliance check

func NewCoffeeRepository(db *sqlx.DB) coffee.Repository {
	return &coffeeRepository{db: db}
}

func (repo coffeeRepository) CheckTitleUniqueness(ctx context.Context, title string, excludedIDs []int, exec ...core.DBExecutor) error {
	var where whereClause
	where.add("title = ?", title)
	if len(excludedIDs) > 0 {
		where.add("NOT (id = ANY(?))", int64s(excludedIDs))
	}

	var exists bool
	q := "SELECT EXISTS (SELECT 1 FROM " + drinkTable + where.String() + ")"
	if err := getExec(repo.db, exec).GetContext(ctx, &exists, q, where.args...); err != nil {
		return errors.Wrap(err, "checking drink uniqueness")
	}
	if exists {
		return coffee.ErrTitleExists
	}
	return nil
}

func (repo coffeeRepository) QueryDrinks(ctx context.Context, filter coffee.QueryFilter, ordering []core.DBOrdering) ([]coffee.Drink, error) {
	var where whereClause
	if filter.Search != "" {
		where.add("title ILIKE ?", containsPattern(filter.Search))
	}

	q := "SELECT " + drinkColumns + " FROM " + drinkTable + where.String() +
		" ORDER BY " + core.OrderByClause(ordering, drinkOrderFields, "id", core.DBOrdering{Field: "title", Ascending: true})

	drinks := make([]coffee.Drink, 0)
	if err := repo.db.SelectContext(ctx, &drinks, q, where.args...); err != nil {
		return nil, errors.Wrap(err, "querying drinks")
	}
	return drinks, nil
}

func (repo coffeeRepository) GetDrink(ctx context.Context, id int, exec ...core.DBExecutor) (coffee.Drink, error) {
	var d coffee.Drink
	err := getExec(repo.db, exec).GetContext(ctx, &d, "SELECT "+drinkColumns+" FROM "+drinkTable+" WHERE id = $1", id)
	if err != nil {
		return coffee.Drink{}, trapNoRowsErr(err, coffee.ErrDrinkNotFound, "finding drink by ID")
	}
	return d, nil
}

func (repo coffeeRepository) CreateDrink(ctx context.Context, d coffee.Drink, exec ...core.DBExecutor) (coffee.Drink, error) {
	err := getExec(repo.db, exec).GetContext(
		ctx, &d.ID,
		"INSERT INTO "+drinkTable+" (title, recipe) VALUES ($1, $2) RETURNING id",
		d.Title, d.Recipe,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return coffee.Drink{}, coffee.ErrTitleExists
		}
		return coffee.Drink{}, errors.Wrap(err, "inserting drink")
	}
	return d, nil
}

func (repo coffeeRepository) UpdateDrink(ctx context.Context, d coffee.Drink, exec ...core.DBExecutor) (coffee.Drink, error) {
	res, err := getExec(repo.db, exec).ExecContext(
		ctx,
		"UPDATE "+drinkTable+" SET title = $1, recipe = $2 WHERE id = $3",
		d.Title, d.Recipe, d.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return coffee.Drink{}, coffee.ErrTitleExists
		}
		return coffee.Drink{}, errors.Wrap(err, "updating drink")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return coffee.Drink{}, errors.Wrap(err, "updating drink")
	}
	if cnt == 0 {
		return coffee.Drink{}, coffee.ErrDrinkNotFound
	}
	return d, nil
}

func (repo coffeeRepository) DeleteDrink(ctx context.Context, id int, exec ...core.DBExecutor) (int, error) {
	res, err := getExec(repo.db, exec).ExecContext(ctx, "DELETE FROM "+drinkTable+" WHERE id = $1", id)
	if err != nil {
		return 0, errors.Wrap(err, "deleting drink")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting drink")
	}
	if cnt == 0 {
		return 0, coffee.ErrDrinkNotFound
	}
	return int(cnt), nil
}
