package sqlxrepos

import (
	"context"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/trivia"
)

const (
	questionColumns = "id, question, answer, category, difficulty"
	questionTable   = "trivia.questions"
	categoryTable   = "trivia.categories"
)

var questionOrderFields = map[string]string{
	"id":         "id",
	"question":   "question",
	"category":   "category",
	"difficulty": "difficulty",
}

// countedQuestion is a Question row carrying the windowed count of all matches.
type countedQuestion struct {
	trivia.Question
	Total int `db:"total"`
}

type triviaRepository struct {
	db core.DBExecutor
}

var _ trivia.Repository = (*triviaRepository)(nil) // interface compliance check

func NewTriviaRepository(db *sqlx.DB) trivia.Repository {
	return &triviaRepository{db: db}
}

func (repo triviaRepository) QueryCategories(ctx context.Context) ([]trivia.Category, error) {
	categories := make([]trivia.Category, 0)
	if err := repo.db.SelectContext(ctx, &categories, "SELECT id, type FROM "+categoryTable+" ORDER BY type ASC, id ASC"); err != nil {
		return nil, errors.Wrap(err, "querying categories")
	}
	return categories, nil
}

func (repo triviaRepository) GetCategory(ctx context.Context, id int, exec ...core.DBExecutor) (trivia.Category, error) {
	var c trivia.Category
	err := getExec(repo.db, exec).GetContext(ctx, &c, "SELECT id, type FROM "+categoryTable+" WHERE id = $1", id)
	if err != nil {
		return trivia.Category{}, trapNoRowsErr(err, trivia.ErrCategoryNotFound, "finding category by ID")
	}
	return c, nil
}

func (repo triviaRepository) QueryQuestions(
	ctx context.Context,
	filter trivia.QueryFilter,
	page core.Page,
	ordering []core.DBOrdering,
) ([]trivia.Question, int, error) {
	var where whereClause
	if filter.Category > 0 {
		where.add("category = ?", filter.Category)
	}
	// questions with text matching the search keyword
	if filter.Search != "" {
		where.add("question ILIKE ?", containsPattern(filter.Search))
	}

	// the total comes from the same snapshot as the page
	q := "SELECT " + questionColumns + ", COUNT(*) OVER() AS total FROM " + questionTable + where.String() +
		" ORDER BY " + core.OrderByClause(ordering, questionOrderFields, "id")
	if page.Limit() > 0 {
		q += " LIMIT " + strconv.Itoa(page.Limit()) + " OFFSET " + strconv.Itoa(page.Offset())
	}

	var rows []countedQuestion
	if err := repo.db.SelectContext(ctx, &rows, q, where.args...); err != nil {
		return nil, 0, errors.Wrap(err, "querying questions")
	}

	questions := make([]trivia.Question, 0, len(rows))
	for _, r := range rows {
		questions = append(questions, r.Question)
	}
	if len(rows) > 0 {
		return questions, rows[0].Total, nil
	}
	if page.Offset() == 0 {
		return questions, 0, nil
	}

	// past the last page: no row carries the total
	var total int
	if err := repo.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM "+questionTable+where.String(), where.args...); err != nil {
		return nil, 0, errors.Wrap(err, "counting questions")
	}
	return questions, total, nil
}

func (repo triviaRepository) GetQuestion(ctx context.Context, id int, exec ...core.DBExecutor) (trivia.Question, error) {
	var q trivia.Question
	err := getExec(repo.db, exec).GetContext(ctx, &q, "SELECT "+questionColumns+" FROM "+questionTable+" WHERE id = $1", id)
	if err != nil {
		return trivia.Question{}, trapNoRowsErr(err, trivia.ErrQuestionNotFound, "finding question by ID")
	}
	return q, nil
}

func (repo triviaRepository) CreateQuestion(ctx context.Context, q trivia.Question, exec ...core.DBExecutor) (trivia.Question, error) {
	err := getExec(repo.db, exec).GetContext(
		ctx, &q.ID,
		"INSERT INTO "+questionTable+" (question, answer, category, difficulty) VALUES ($1, $2, $3, $4) RETURNING id",
		q.Question, q.Answer, q.Category, q.Difficulty,
	)
	if err != nil {
		return trivia.Question{}, errors.Wrap(err, "inserting question")
	}
	return q, nil
}

func (repo triviaRepository) DeleteQuestion(ctx context.Context, id int, exec ...core.DBExecutor) (int, error) {
	res, err := getExec(repo.db, exec).ExecContext(ctx, "DELETE FROM "+questionTable+" WHERE id = $1", id)
	if err != nil {
		return 0, errors.Wrap(err, "deleting question")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting question")
	}
	if cnt == 0 {
		return 0, trivia.ErrQuestionNotFound
	}
	return int(cnt), nil
}

func (repo triviaRepository) RandomQuestion(ctx context.Context, categoryID int, excluded []int) (trivia.Question, error) {
	var where whereClause
	if categoryID > 0 {
		where.add("category = ?", categoryID)
	}
	if len(excluded) > 0 {
		where.add("NOT (id = ANY(?))", int64s(excluded))
	}

	var q trivia.Question
	err := repo.db.GetContext(
		ctx, &q,
		"SELECT "+questionColumns+" FROM "+questionTable+where.String()+" ORDER BY random() LIMIT 1",
		where.args...,
	)
	if err != nil {
		return trivia.Question{}, trapNoRowsErr(err, trivia.ErrQuizExhausted, "picking random question")
	}
	return q, nil
}
