package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/coffee"
	"github.com/trezcool/fsnd/core/trivia"
	appfs "github.com/trezcool/fsnd/fs"
)

type sampleData struct {
	Questions []struct {
		Question   string `json:"question"`
		Answer     string `json:"answer"`
		Category   string `json:"category"`
		Difficulty int    `json:"difficulty"`
	} `json:"questions"`
	Drinks []coffee.Drink `json:"drinks"`
}

func loadSampleData() (sampleData, error) {
	var data sampleData
	raw, err := appfs.FS.ReadFile(appfs.SeedFile)
	if err != nil {
		return data, errors.Wrap(err, "reading sample data")
	}
	if err = json.Unmarshal(raw, &data); err != nil {
		return data, errors.Wrap(err, "decoding sample data")
	}
	return data, nil
}

// seed inserts the sample questions and drinks that are not stored yet.
// Categories come from the migrations; a missing one is an error.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	data, err := loadSampleData()
	if err != nil {
		return err
	}

	categories, err := cli.triviaRepo.QueryCategories(ctx)
	if err != nil {
		return errors.Wrap(err, "querying categories")
	}
	categoryIDs := make(map[string]int, len(categories))
	for _, c := range categories {
		categoryIDs[c.Type] = c.ID
	}

	var nQuestions, nDrinks int
	for _, sq := range data.Questions {
		catID, ok := categoryIDs[sq.Category]
		if !ok {
			return errors.Errorf("category %q not found; run `migrate up` first", sq.Category)
		}
		found, err := cli.questionExists(ctx, sq.Question, catID)
		if err != nil {
			return err
		}
		if found {
			continue
		}
		q := trivia.Question{Question: sq.Question, Answer: sq.Answer, Category: catID, Difficulty: sq.Difficulty}
		if _, err = cli.triviaRepo.CreateQuestion(ctx, q); err != nil {
			return errors.Wrap(err, "creating question")
		}
		nQuestions++
	}

	for _, d := range data.Drinks {
		err := cli.coffeeRepo.CheckTitleUniqueness(ctx, d.Title, nil)
		if errors.Cause(err) == coffee.ErrTitleExists {
			continue
		}
		if err != nil {
			return err
		}
		if _, err = cli.coffeeRepo.CreateDrink(ctx, d); err != nil {
			return errors.Wrap(err, "creating drink")
		}
		nDrinks++
	}

	fmt.Fprintf(cli.out, "seeded %d questions and %d drinks\n", nQuestions, nDrinks)
	return nil
}

func (cli *commandLine) questionExists(ctx context.Context, question string, categoryID int) (bool, error) {
	matches, _, err := cli.triviaRepo.QueryQuestions(
		ctx,
		trivia.QueryFilter{Category: categoryID, Search: question},
		core.NewPage(1, 0),
		nil,
	)
	if err != nil {
		return false, errors.Wrap(err, "querying questions")
	}
	for _, q := range matches {
		if q.Question == question {
			return true, nil
		}
	}
	return false, nil
}
