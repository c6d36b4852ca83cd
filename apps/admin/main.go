package main

import (
	"fmt"
	"os"

	"github.com/trezcool/fsnd/core"
	logsvc "github.com/trezcool/fsnd/services/logger"
	"github.com/trezcool/fsnd/storage/database"
	inmemdb "github.com/trezcool/fsnd/storage/database/inmem"
	sqlxrepos "github.com/trezcool/fsnd/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	zl, err := logsvc.NewZap(conf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logsvc.NewRollbarLogger(zl.Named("admin"), conf)
	logger.Enable(false) // CLI errors are printed, not reported
	defer logger.Sync()

	cli := commandLine{conf: conf, out: os.Stdout}

	if needsStorage(os.Args) {
		if conf.Database.InMemory {
			db := inmemdb.Open()
			cli.triviaRepo = inmemdb.NewTriviaRepository(db)
			cli.coffeeRepo = inmemdb.NewCoffeeRepository(db)
		} else {
			if err = database.CreateIfNotExist(conf); err != nil {
				logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
			}
			db, err := database.Open(conf)
			if err != nil {
				logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
			}
			defer func() { _ = db.Close() }()

			cli.db = db
			cli.triviaRepo = sqlxrepos.NewTriviaRepository(db)
			cli.coffeeRepo = sqlxrepos.NewCoffeeRepository(db)
		}
	}

	if err = cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		logger.Sync()
		os.Exit(1)
	}
}
