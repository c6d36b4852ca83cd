package inmemdb

import (
	"context"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/coffee"
)

type coffeeRepository struct {
	db *drinkTable
}

var _ coffee.Repository = (*coffeeRepository)(nil) // interface compliance check

func NewCoffeeRepository(db *DB) coffee.Repository {
	return &coffeeRepository{db: db.drinks}
}

func (repo *coffeeRepository) titleTaken(title string, excludedIDs []int) bool {
	for _, d := range repo.db.table {
		if d.Title == title && !isExcluded(d.ID, excludedIDs) {
			return true
		}
	}
	return false
}

func (repo *coffeeRepository) CheckTitleUniqueness(_ context.Context, title string, excludedIDs []int, _ ...core.DBExecutor) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if repo.titleTaken(title, excludedIDs) {
		return coffee.ErrTitleExists
	}
	return nil
}

func (repo *coffeeRepository) QueryDrinks(_ context.Context, filter coffee.QueryFilter, ordering []core.DBOrdering) ([]coffee.Drink, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	drinks := make([]coffee.Drink, 0, len(repo.db.table))
	for _, d := range repo.db.table {
		if filter.Search == "" || containsFold(d.Title, filter.Search) {
			drinks = append(drinks, d.Long())
		}
	}
	sortBy(
		len(drinks),
		func(i, j int) { drinks[i], drinks[j] = drinks[j], drinks[i] },
		ordering,
		map[string]compareFunc{
			"title": func(i, j int) int { return compareStrings(drinks[i].Title, drinks[j].Title) },
		},
		func(i, j int) int { return compareInts(drinks[i].ID, drinks[j].ID) },
		core.DBOrdering{Field: "title", Ascending: true},
	)
	return drinks, nil
}

func (repo *coffeeRepository) GetDrink(_ context.Context, id int, _ ...core.DBExecutor) (coffee.Drink, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if d, ok := repo.db.table[id]; ok {
		return d.Long(), nil
	}
	return coffee.Drink{}, coffee.ErrDrinkNotFound
}

func (repo *coffeeRepository) CreateDrink(_ context.Context, d coffee.Drink, _ ...core.DBExecutor) (coffee.Drink, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.titleTaken(d.Title, nil) {
		return coffee.Drink{}, coffee.ErrTitleExists
	}
	repo.db.pk++
	d = d.Long()
	d.ID = repo.db.pk
	repo.db.table[d.ID] = &d
	return d.Long(), nil
}

func (repo *coffeeRepository) UpdateDrink(_ context.Context, d coffee.Drink, _ ...core.DBExecutor) (coffee.Drink, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[d.ID]; !ok {
		return coffee.Drink{}, coffee.ErrDrinkNotFound
	}
	if repo.titleTaken(d.Title, []int{d.ID}) {
		return coffee.Drink{}, coffee.ErrTitleExists
	}
	d = d.Long()
	repo.db.table[d.ID] = &d
	return d.Long(), nil
}

func (repo *coffeeRepository) DeleteDrink(_ context.Context, id int, _ ...core.DBExecutor) (int, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return 0, coffee.ErrDrinkNotFound
	}
	delete(repo.db.table, id)
	return 1, nil
}
