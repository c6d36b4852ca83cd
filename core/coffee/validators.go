package coffee

import (
	"fmt"
	"reflect"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/fsnd/core"
)

var (
	recipeTag = "recipe"
	partsTag  = "parts"
)

// InitValidators registers the coffee shop validators. Recipe limits come from the config.
func InitValidators(validate *validator.Validate, translator ut.Translator, conf core.CoffeeConfig) {
	_ = validate.RegisterValidation(recipeTag, recipeValidation(conf.MaxIngredients))
	core.RegisterCustomTranslation(
		validate, translator, recipeTag,
		fmt.Sprintf("a recipe must have between 1 and %d ingredients", conf.MaxIngredients),
	)

	_ = validate.RegisterValidation(partsTag, partsValidation(conf.MaxParts))
	core.RegisterCustomTranslation(
		validate, translator, partsTag,
		fmt.Sprintf("parts must be between 1 and %d", conf.MaxParts),
	)
}

// Custom Validators

// recipeValidation checks the number of ingredients.
func recipeValidation(maxIngredients int) validator.Func {
	return func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.Slice {
			return false
		}
		n := field.Len()
		return n >= 1 && n <= maxIngredients
	}
}

func partsValidation(maxParts int) validator.Func {
	return func(fl validator.FieldLevel) bool {
		p := int(fl.Field().Int())
		return p >= 1 && p <= maxParts
	}
}
