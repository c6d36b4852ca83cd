package coffee_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/coffee"
	inmemdb "github.com/trezcool/fsnd/storage/database/inmem"
	testutil "github.com/trezcool/fsnd/tests"
)

var espresso = coffee.Ingredient{Name: "espresso", Color: "brown", Parts: 1}

func setup(t *testing.T) (*coffee.Service, coffee.Repository, *validator.Validate) {
	t.Helper()
	db := inmemdb.Open()
	repo := inmemdb.NewCoffeeRepository(db)
	validate, _ := testutil.NewValidator(testutil.NewConfig())
	return coffee.NewService(inmemdb.NewTransactor(db), repo), repo, validate
}

func fieldErrors(t *testing.T, err error) []core.FieldError {
	t.Helper()
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	return vErr.Fields
}

func TestNewDrink_Validate(t *testing.T) {
	svc, repo, validate := setup(t)
	ctx := context.Background()
	testutil.CreateDrink(t, repo, "Espresso", espresso)

	nd := coffee.NewDrink{Title: "  Ristretto ", Recipe: coffee.Recipe{{Name: " espresso ", Color: "brown", Parts: 1}}}
	require.NoError(t, nd.Validate(ctx, validate, svc))
	assert.Equal(t, "Ristretto", nd.Title)
	assert.Equal(t, "espresso", nd.Recipe[0].Name)

	nd = coffee.NewDrink{Title: "Espresso", Recipe: coffee.Recipe{espresso}}
	assert.Equal(t,
		[]core.FieldError{{Field: "title", Error: coffee.ErrTitleExists.Error()}},
		fieldErrors(t, nd.Validate(ctx, validate, svc)),
	)

	tooMany := make(coffee.Recipe, 11)
	for i := range tooMany {
		tooMany[i] = espresso
	}
	nd = coffee.NewDrink{Title: "Quad", Recipe: tooMany}
	var vErrs validator.ValidationErrors
	require.True(t, errors.As(nd.Validate(ctx, validate, svc), &vErrs))
	assert.Equal(t, "recipe", vErrs[0].Tag())
}

func TestUpdateDrink_Validate(t *testing.T) {
	svc, repo, validate := setup(t)
	ctx := context.Background()
	latte := testutil.CreateDrink(t, repo, "Latte", espresso)
	testutil.CreateDrink(t, repo, "Mocha", espresso)

	tests := []struct {
		name    string
		ud      coffee.UpdateDrink
		wantErr bool
	}{
		{name: "nothing", ud: coffee.UpdateDrink{Title: "   "}, wantErr: true},
		{name: "same title", ud: coffee.UpdateDrink{Title: "Latte"}},
		{name: "new title", ud: coffee.UpdateDrink{Title: "Flat White"}},
		{name: "taken title", ud: coffee.UpdateDrink{Title: "Mocha"}, wantErr: true},
		{name: "recipe only", ud: coffee.UpdateDrink{Recipe: coffee.Recipe{espresso}}},
		{name: "empty recipe", ud: coffee.UpdateDrink{Recipe: coffee.Recipe{}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ud.Validate(ctx, latte, validate, svc)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_CreateUpdateDelete(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	d, err := svc.Create(ctx, coffee.NewDrink{Title: "Latte", Recipe: coffee.Recipe{espresso}})
	require.NoError(t, err)

	_, err = svc.Create(ctx, coffee.NewDrink{Title: "Latte", Recipe: coffee.Recipe{espresso}})
	assert.Equal(t, []core.FieldError{{Field: "title", Error: coffee.ErrTitleExists.Error()}}, fieldErrors(t, err))

	milk := coffee.Ingredient{Name: "milk", Color: "grey", Parts: 2}
	updated, err := svc.Update(ctx, d.ID, coffee.UpdateDrink{Recipe: coffee.Recipe{espresso, milk}})
	require.NoError(t, err)
	assert.Equal(t, coffee.Drink{ID: d.ID, Title: "Latte", Recipe: coffee.Recipe{espresso, milk}}, updated)

	stored, err := repo.GetDrink(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)

	_, err = svc.Update(ctx, 404, coffee.UpdateDrink{Title: "Ghost"})
	assert.Equal(t, coffee.ErrDrinkNotFound, errors.Cause(err))

	require.NoError(t, svc.Delete(ctx, d.ID))
	assert.Equal(t, coffee.ErrDrinkNotFound, errors.Cause(svc.Delete(ctx, d.ID)))

	drinks, err := svc.Query(ctx, coffee.QueryFilter{}, nil)
	require.NoError(t, err)
	assert.Empty(t, drinks)
}
