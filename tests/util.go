package testutil

import (
	"context"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/auth"
	"github.com/trezcool/fsnd/core/coffee"
	"github.com/trezcool/fsnd/core/trivia"
	authsvc "github.com/trezcool/fsnd/services/auth"
	logsvc "github.com/trezcool/fsnd/services/logger"
)

// NewConfig returns the configuration used by tests: HMAC tokens, in-memory storage, default limits.
func NewConfig() *core.Config {
	return &core.Config{
		TestMode: true,
		AppName:  "FSND",
		Env:      "TEST",
		Build:    "test",
		Server: core.ServerConfig{
			Address:         ":0",
			ShutdownTimeout: time.Second,
			CORSOrigins:     []string{"*"},
		},
		Database: core.DatabaseConfig{InMemory: true},
		Auth: core.AuthConfig{
			Mode:      core.AuthModeHMAC,
			Audience:  "fsnd-test",
			SecretKey: "test-secret",
		},
		Trivia: core.TriviaConfig{PageSize: 10, MinDifficulty: 1, MaxDifficulty: 5},
		Coffee: core.CoffeeConfig{MaxIngredients: 10, MaxParts: 10},
	}
}

// NewValidator returns a validator with every custom validation registered.
func NewValidator(conf *core.Config) (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	trivia.InitValidators(validate, translator, conf.Trivia)
	coffee.InitValidators(validate, translator, conf.Coffee)
	return validate, translator
}

// NewLogger returns a logger that discards everything.
func NewLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger(zap.NewNop().Sugar(), conf)
}

// Token mints a valid token holding perms.
func Token(t *testing.T, gate *authsvc.HMACGate, perms ...auth.Permission) string {
	raw := make([]string, 0, len(perms))
	for _, p := range perms {
		raw = append(raw, string(p))
	}
	token, err := gate.Mint("test|user", raw, time.Hour)
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token
}

func CreateQuestion(t *testing.T, repo trivia.Repository, question, answer string, category, difficulty int) trivia.Question {
	q, err := repo.CreateQuestion(context.Background(), trivia.Question{
		Question:   question,
		Answer:     answer,
		Category:   category,
		Difficulty: difficulty,
	})
	if err != nil {
		t.Fatalf("CreateQuestion() failed: %v", err)
	}
	return q
}

func CreateDrink(t *testing.T, repo coffee.Repository, title string, recipe ...coffee.Ingredient) coffee.Drink {
	d, err := repo.CreateDrink(context.Background(), coffee.Drink{Title: title, Recipe: recipe})
	if err != nil {
		t.Fatalf("CreateDrink() failed: %v", err)
	}
	return d
}
