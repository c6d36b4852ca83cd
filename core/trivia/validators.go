package trivia

import (
	"fmt"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/fsnd/core"
)

var difficultyTag = "difficulty"

// InitValidators registers the trivia validators. Difficulty bounds come from the config.
func InitValidators(validate *validator.Validate, translator ut.Translator, conf core.TriviaConfig) {
	_ = validate.RegisterValidation(difficultyTag, difficultyValidation(conf.MinDifficulty, conf.MaxDifficulty))
	core.RegisterCustomTranslation(
		validate, translator, difficultyTag,
		fmt.Sprintf("difficulty must be between %d and %d", conf.MinDifficulty, conf.MaxDifficulty),
	)
}

// Custom Validators

func difficultyValidation(min, max int) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d := int(fl.Field().Int())
		return d >= min && d <= max
	}
}
