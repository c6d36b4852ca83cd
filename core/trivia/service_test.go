package trivia_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/trivia"
	inmemdb "github.com/trezcool/fsnd/storage/database/inmem"
	testutil "github.com/trezcool/fsnd/tests"
)

func newService(t *testing.T) (*trivia.Service, trivia.Repository) {
	t.Helper()
	db := inmemdb.Open()
	repo := inmemdb.NewTriviaRepository(db)
	return trivia.NewService(inmemdb.NewTransactor(db), repo, testutil.NewConfig()), repo
}

func TestService_Create(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	q, err := svc.Create(ctx, trivia.NewQuestion{Question: "Q?", Answer: "A", Category: 3, Difficulty: 2})
	require.NoError(t, err)
	assert.NotZero(t, q.ID)

	stored, err := repo.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q, stored)

	_, err = svc.Create(ctx, trivia.NewQuestion{Question: "Q?", Answer: "A", Category: 42, Difficulty: 2})
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	assert.Equal(t, []core.FieldError{{Field: "category", Error: "unknown category"}}, vErr.Fields)
}

func TestService_Query(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		testutil.CreateQuestion(t, repo, "What is the answer?", "42", 1, 1)
	}
	testutil.CreateQuestion(t, repo, "Which planet is red?", "Mars", 1, 3)

	questions, total, err := svc.Query(ctx, trivia.QueryFilter{}, svc.Page(2), nil)
	require.NoError(t, err)
	assert.Equal(t, 13, total)
	assert.Len(t, questions, 3)

	questions, total, err = svc.Query(ctx, trivia.QueryFilter{Search: "  PLANET "}, svc.Page(1), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Which planet is red?", questions[0].Question)
}

func TestService_Delete(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	q := testutil.CreateQuestion(t, repo, "Q?", "A", 1, 1)

	require.NoError(t, svc.Delete(ctx, q.ID))
	assert.True(t, core.IsNotFound(svc.Delete(ctx, q.ID)))
}

func TestService_NextQuizQuestion(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()
	q1 := testutil.CreateQuestion(t, repo, "Q1?", "A", 1, 1)
	q2 := testutil.CreateQuestion(t, repo, "Q2?", "A", 1, 1)
	art := testutil.CreateQuestion(t, repo, "Art?", "A", 2, 1)

	tests := []struct {
		name    string
		req     trivia.QuizRequest
		wantIDs []int
		wantErr error
	}{
		{name: "first of category", req: trivia.QuizRequest{QuizCategory: trivia.QuizCategory{ID: 1}}, wantIDs: []int{q1.ID, q2.ID}},
		{name: "skips played", req: trivia.QuizRequest{PreviousQuestions: []int{q1.ID}, QuizCategory: trivia.QuizCategory{ID: 1}}, wantIDs: []int{q2.ID}},
		{name: "any category", req: trivia.QuizRequest{PreviousQuestions: []int{q1.ID, q2.ID}}, wantIDs: []int{art.ID}},
		{name: "exhausted", req: trivia.QuizRequest{PreviousQuestions: []int{q1.ID, q2.ID}, QuizCategory: trivia.QuizCategory{ID: 1}}, wantErr: trivia.ErrQuizExhausted},
		{name: "unknown category", req: trivia.QuizRequest{QuizCategory: trivia.QuizCategory{ID: 9}}, wantErr: trivia.ErrCategoryNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := svc.NextQuizQuestion(ctx, tt.req)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Contains(t, tt.wantIDs, q.ID)
		})
	}
}
