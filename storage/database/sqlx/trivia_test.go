package sqlxrepos

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/trivia"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "postgres")
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var questionCols = []string{"id", "question", "answer", "category", "difficulty"}

var countedQuestionCols = append(append([]string{}, questionCols...), "total")

func Test_triviaRepository_QueryQuestions(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTriviaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, question, answer, category, difficulty, COUNT(*) OVER() AS total FROM trivia.questions " +
			"WHERE category = $1 AND question ILIKE $2 ORDER BY difficulty DESC, id ASC LIMIT 10 OFFSET 10")).
		WithArgs(2, `%50\% title%`).
		WillReturnRows(sqlmock.NewRows(countedQuestionCols).
			AddRow(11, "This is my 50% Title case", "yes", 2, 4, 12).
			AddRow(14, "Another 50% title", "no", 2, 1, 12))

	questions, total, err := repo.QueryQuestions(
		context.Background(),
		trivia.QueryFilter{Category: 2, Search: "50% title"},
		core.NewPage(2, 10),
		[]core.DBOrdering{{Field: "difficulty"}, {Field: "; DROP TABLE", Ascending: true}},
	)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	assert.Equal(t, []trivia.Question{
		{ID: 11, Question: "This is my 50% Title case", Answer: "yes", Category: 2, Difficulty: 4},
		{ID: 14, Question: "Another 50% title", Answer: "no", Category: 2, Difficulty: 1},
	}, questions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_triviaRepository_QueryQuestions_noFilter(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTriviaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, question, answer, category, difficulty, COUNT(*) OVER() AS total FROM trivia.questions ORDER BY id ASC")).
		WillReturnRows(sqlmock.NewRows(countedQuestionCols))

	questions, total, err := repo.QueryQuestions(context.Background(), trivia.QueryFilter{}, core.NewPage(1, 0), nil)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, questions)
	assert.Empty(t, questions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_triviaRepository_QueryQuestions_pastLastPage(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTriviaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT id, question, answer, category, difficulty, COUNT(*) OVER() AS total FROM trivia.questions " +
			"WHERE category = $1 ORDER BY id ASC LIMIT 10 OFFSET 20")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows(countedQuestionCols))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM trivia.questions WHERE category = $1")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(15))

	questions, total, err := repo.QueryQuestions(context.Background(), trivia.QueryFilter{Category: 3}, core.NewPage(3, 10), nil)
	require.NoError(t, err)
	assert.Equal(t, 15, total)
	assert.Empty(t, questions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_triviaRepository_GetCategory(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTriviaRepository(db)
	query := regexp.QuoteMeta("SELECT id, type FROM trivia.categories WHERE id = $1")

	mock.ExpectQuery(query).WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"id", "type"}).AddRow(1, "Science"))
	mock.ExpectQuery(query).WithArgs(99).WillReturnRows(sqlmock.NewRows([]string{"id", "type"}))

	c, err := repo.GetCategory(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, trivia.Category{ID: 1, Type: "Science"}, c)

	_, err = repo.GetCategory(context.Background(), 99)
	assert.Equal(t, trivia.ErrCategoryNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_triviaRepository_CreateQuestion(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTriviaRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"INSERT INTO trivia.questions (question, answer, category, difficulty) VALUES ($1, $2, $3, $4) RETURNING id")).
		WithArgs("Who?", "Me", 3, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	q, err := repo.CreateQuestion(context.Background(), trivia.Question{Question: "Who?", Answer: "Me", Category: 3, Difficulty: 2})
	require.NoError(t, err)
	assert.Equal(t, trivia.Question{ID: 42, Question: "Who?", Answer: "Me", Category: 3, Difficulty: 2}, q)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_triviaRepository_DeleteQuestion(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTriviaRepository(db)
	query := regexp.QuoteMeta("DELETE FROM trivia.questions WHERE id = $1")

	mock.ExpectExec(query).WithArgs(5).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs(404).WillReturnResult(sqlmock.NewResult(0, 0))

	cnt, err := repo.DeleteQuestion(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 1, cnt)

	cnt, err = repo.DeleteQuestion(context.Background(), 404)
	assert.Equal(t, trivia.ErrQuestionNotFound, err)
	assert.Zero(t, cnt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func Test_triviaRepository_RandomQuestion(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTriviaRepository(db)
	query := regexp.QuoteMeta(
		"SELECT id, question, answer, category, difficulty FROM trivia.questions " +
			"WHERE category = $1 AND NOT (id = ANY($2)) ORDER BY random() LIMIT 1")

	mock.ExpectQuery(query).
		WithArgs(1, "{1,2}").
		WillReturnRows(sqlmock.NewRows(questionCols).AddRow(3, "Q3", "A3", 1, 1))
	mock.ExpectQuery(query).
		WithArgs(1, "{1,2,3}").
		WillReturnRows(sqlmock.NewRows(questionCols))

	q, err := repo.RandomQuestion(context.Background(), 1, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, q.ID)

	_, err = repo.RandomQuestion(context.Background(), 1, []int{1, 2, 3})
	assert.Equal(t, trivia.ErrQuizExhausted, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
