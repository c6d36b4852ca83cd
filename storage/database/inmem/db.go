package inmemdb

import (
	"context"
	"sync"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/coffee"
	"github.com/trezcool/fsnd/core/trivia"
)

// DefaultCategories mirrors the categories seeded by the SQL migrations.
var DefaultCategories = []string{"Science", "Art", "Geography", "History", "Entertainment", "Sports"}

type (
	DB struct {
		txMu      sync.Mutex
		category  *categoryTable
		questions *questionTable
		drinks    *drinkTable
	}

	categoryTable struct {
		sync.RWMutex
		table map[int]*trivia.Category
	}

	questionTable struct {
		sync.RWMutex
		pk    int
		table map[int]*trivia.Question
	}

	drinkTable struct {
		sync.RWMutex
		pk    int
		table map[int]*coffee.Drink
	}
)

// Open returns an empty store holding the default categories.
func Open() *DB {
	return OpenWith(DefaultCategories)
}

// OpenWith returns an empty store holding categories, numbered from 1.
func OpenWith(categories []string) *DB {
	db := &DB{
		category:  &categoryTable{table: make(map[int]*trivia.Category)},
		questions: &questionTable{table: make(map[int]*trivia.Question)},
		drinks:    &drinkTable{table: make(map[int]*coffee.Drink)},
	}
	for i, typ := range categories {
		db.category.table[i+1] = &trivia.Category{ID: i + 1, Type: typ}
	}
	return db
}

// Reset drops every question and drink; categories are kept.
func (db *DB) Reset() {
	db.questions.Lock()
	db.questions.table = make(map[int]*trivia.Question)
	db.questions.Unlock()

	db.drinks.Lock()
	db.drinks.table = make(map[int]*coffee.Drink)
	db.drinks.Unlock()
}

type transactor struct {
	db *DB
}

var _ core.Transactor = (*transactor)(nil) // interface compliance check

// NewTransactor serializes units of work. There is no SQL connection, so fn receives a nil executor.
func NewTransactor(db *DB) core.Transactor {
	return &transactor{db: db}
}

func (t *transactor) InTx(_ context.Context, fn func(exec core.DBExecutor) error) error {
	t.db.txMu.Lock()
	defer t.db.txMu.Unlock()
	return fn(nil)
}
