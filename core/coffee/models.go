package coffee

import (
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/fsnd/core"
)

type Ingredient struct {
	Name  string `json:"name" validate:"required,notblank"`
	Color string `json:"color" validate:"required,notblank"`
	Parts int    `json:"parts" validate:"parts"`
}

// Recipe is stored as a JSON document. It decodes from either an array or a single ingredient.
type Recipe []Ingredient

func (r *Recipe) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var ing Ingredient
		if err := json.Unmarshal(data, &ing); err != nil {
			return err
		}
		*r = Recipe{ing}
		return nil
	}
	var ings []Ingredient
	if err := json.Unmarshal(data, &ings); err != nil {
		return err
	}
	*r = ings
	return nil
}

func (r Recipe) Value() (driver.Value, error) {
	if r == nil {
		r = Recipe{}
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil // lib/pq would send []byte as bytea
}

func (r *Recipe) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*r = nil
		return nil
	default:
		return errors.Errorf("cannot scan %T into Recipe", src)
	}
	return json.Unmarshal(data, r)
}

type Drink struct {
	ID     int    `json:"id" db:"id"`
	Title  string `json:"title" db:"title"`
	Recipe Recipe `json:"recipe" db:"recipe"`
}

// ShortIngredient only carries what is needed to draw the drink.
type ShortIngredient struct {
	Color string `json:"color"`
	Parts int    `json:"parts"`
}

// ShortDrink is the public representation of a Drink.
type ShortDrink struct {
	ID     int               `json:"id"`
	Title  string            `json:"title"`
	Recipe []ShortIngredient `json:"recipe"`
}

func (d Drink) Short() ShortDrink {
	recipe := make([]ShortIngredient, 0, len(d.Recipe))
	for _, ing := range d.Recipe {
		recipe = append(recipe, ShortIngredient{Color: ing.Color, Parts: ing.Parts})
	}
	return ShortDrink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

// Long is the detailed representation of a Drink, including ingredient names.
func (d Drink) Long() Drink {
	recipe := make(Recipe, len(d.Recipe))
	copy(recipe, d.Recipe)
	return Drink{ID: d.ID, Title: d.Title, Recipe: recipe}
}

func ShortDrinks(drinks []Drink) []ShortDrink {
	out := make([]ShortDrink, 0, len(drinks))
	for _, d := range drinks {
		out = append(out, d.Short())
	}
	return out
}

func LongDrinks(drinks []Drink) []Drink {
	out := make([]Drink, 0, len(drinks))
	for _, d := range drinks {
		out = append(out, d.Long())
	}
	return out
}

func cleanRecipe(r Recipe) {
	for i := range r {
		r[i].Name = core.CleanString(r[i].Name)
		r[i].Color = core.CleanString(r[i].Color)
	}
}

// NewDrink contains information needed to create a new Drink.
type NewDrink struct {
	Title  string `json:"title" validate:"required,notblank,max=80"`
	Recipe Recipe `json:"recipe" validate:"required,recipe,dive"`
}

func (nd *NewDrink) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nd.Title = core.CleanString(nd.Title)
	cleanRecipe(nd.Recipe)

	if err := validate.Struct(nd); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nd.Title)
}

// UpdateDrink defines what information may be provided to modify an existing Drink.
// Empty fields are left unchanged.
type UpdateDrink struct {
	Title  string `json:"title" validate:"omitempty,max=80"`
	Recipe Recipe `json:"recipe" validate:"recipe,dive"`
}

func (ud *UpdateDrink) Validate(ctx context.Context, origDrink Drink, validate *validator.Validate, svc *Service) error {
	ud.Title = core.CleanString(ud.Title)
	cleanRecipe(ud.Recipe)

	if ud.Title == "" && ud.Recipe == nil {
		return core.NewValidationError(errNothingToUpdate)
	}
	var err error
	if ud.Recipe == nil {
		err = validate.StructExcept(ud, "Recipe")
	} else {
		err = validate.Struct(ud)
	}
	if err != nil {
		return err
	}
	if ud.Title != "" && ud.Title != origDrink.Title {
		return svc.CheckUniqueness(ctx, ud.Title, origDrink)
	}
	return nil
}

// QueryFilter.Search does a case-insensitive match on Drink.Title.
type QueryFilter struct {
	Search string `query:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
