package inmemdb

import (
	"context"
	"math/rand"
	"sort"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/trivia"
)

type triviaRepository struct {
	categories *categoryTable
	questions  *questionTable
}

var _ trivia.Repository = (*triviaRepository)(nil) // interface compliance check

func NewTriviaRepository(db *DB) trivia.Repository {
	return &triviaRepository{categories: db.category, questions: db.questions}
}

func (repo *triviaRepository) QueryCategories(context.Context) ([]trivia.Category, error) {
	repo.categories.RLock()
	defer repo.categories.RUnlock()

	categories := make([]trivia.Category, 0, len(repo.categories.table))
	for _, c := range repo.categories.table {
		categories = append(categories, *c)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Type != categories[j].Type {
			return categories[i].Type < categories[j].Type
		}
		return categories[i].ID < categories[j].ID
	})
	return categories, nil
}

func (repo *triviaRepository) GetCategory(_ context.Context, id int, _ ...core.DBExecutor) (trivia.Category, error) {
	repo.categories.RLock()
	defer repo.categories.RUnlock()

	if c, ok := repo.categories.table[id]; ok {
		return *c, nil
	}
	return trivia.Category{}, trivia.ErrCategoryNotFound
}

func (repo *triviaRepository) filter(filter trivia.QueryFilter) []trivia.Question {
	questions := make([]trivia.Question, 0, len(repo.questions.table))
	for _, q := range repo.questions.table {
		if filter.Category > 0 && q.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !containsFold(q.Question, filter.Search) {
			continue
		}
		questions = append(questions, *q)
	}
	return questions
}

func (repo *triviaRepository) QueryQuestions(
	_ context.Context,
	filter trivia.QueryFilter,
	page core.Page,
	ordering []core.DBOrdering,
) ([]trivia.Question, int, error) {
	repo.questions.RLock()
	defer repo.questions.RUnlock()

	questions := repo.filter(filter)
	sortBy(
		len(questions),
		func(i, j int) { questions[i], questions[j] = questions[j], questions[i] },
		ordering,
		map[string]compareFunc{
			"question":   func(i, j int) int { return compareStrings(questions[i].Question, questions[j].Question) },
			"category":   func(i, j int) int { return compareInts(questions[i].Category, questions[j].Category) },
			"difficulty": func(i, j int) int { return compareInts(questions[i].Difficulty, questions[j].Difficulty) },
		},
		func(i, j int) int { return compareInts(questions[i].ID, questions[j].ID) },
	)

	start, end := page.Slice(len(questions))
	return questions[start:end], len(questions), nil
}

func (repo *triviaRepository) GetQuestion(_ context.Context, id int, _ ...core.DBExecutor) (trivia.Question, error) {
	repo.questions.RLock()
	defer repo.questions.RUnlock()

	if q, ok := repo.questions.table[id]; ok {
		return *q, nil
	}
	return trivia.Question{}, trivia.ErrQuestionNotFound
}

func (repo *triviaRepository) CreateQuestion(_ context.Context, q trivia.Question, _ ...core.DBExecutor) (trivia.Question, error) {
	repo.questions.Lock()
	defer repo.questions.Unlock()

	repo.questions.pk++
	q.ID = repo.questions.pk
	repo.questions.table[q.ID] = &q
	return q, nil
}

func (repo *triviaRepository) DeleteQuestion(_ context.Context, id int, _ ...core.DBExecutor) (int, error) {
	repo.questions.Lock()
	defer repo.questions.Unlock()

	if _, ok := repo.questions.table[id]; !ok {
		return 0, trivia.ErrQuestionNotFound
	}
	delete(repo.questions.table, id)
	return 1, nil
}

func (repo *triviaRepository) RandomQuestion(_ context.Context, categoryID int, excluded []int) (trivia.Question, error) {
	repo.questions.RLock()
	defer repo.questions.RUnlock()

	candidates := make([]trivia.Question, 0)
	for _, q := range repo.filter(trivia.QueryFilter{Category: categoryID}) {
		if !isExcluded(q.ID, excluded) {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		return trivia.Question{}, trivia.ErrQuizExhausted
	}
	return candidates[rand.Intn(len(candidates))], nil
}
