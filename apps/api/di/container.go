package di

import (
	"fmt"
	"log"
	"net/http"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/fsnd/apps/api/echo"
	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/coffee"
	"github.com/trezcool/fsnd/core/trivia"
	authsvc "github.com/trezcool/fsnd/services/auth"
	logsvc "github.com/trezcool/fsnd/services/logger"
	"github.com/trezcool/fsnd/storage/database"
	inmemdb "github.com/trezcool/fsnd/storage/database/inmem"
	sqlxrepos "github.com/trezcool/fsnd/storage/database/sqlx"
)

// DBLoggerParam asks for the logger dedicated to storage.
type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Storage is what the app needs from the storage layer.
// DB is nil when running in memory.
type Storage struct {
	dig.Out
	DB         *sqlx.DB
	Tx         core.Transactor
	TriviaRepo trivia.Repository
	CoffeeRepo coffee.Repository
}

func newLogger(conf *core.Config) (*logsvc.RollbarLogger, error) {
	zl, err := logsvc.NewZap(conf)
	if err != nil {
		return nil, err
	}
	return logsvc.NewRollbarLogger(zl, conf), nil
}

func newDBLogger(logger *logsvc.RollbarLogger) core.Logger {
	return logger.Named("db")
}

func newStorage(conf *core.Config, loggerParam DBLoggerParam) Storage {
	if conf.Database.InMemory {
		loggerParam.Logger.Warn("using in-memory storage; data will not survive a restart")
		db := inmemdb.Open()
		return Storage{
			Tx:         inmemdb.NewTransactor(db),
			TriviaRepo: inmemdb.NewTriviaRepository(db),
			CoffeeRepo: inmemdb.NewCoffeeRepository(db),
		}
	}

	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return Storage{
		DB:         db,
		Tx:         database.NewTransactor(db),
		TriviaRepo: sqlxrepos.NewTriviaRepository(db),
		CoffeeRepo: sqlxrepos.NewCoffeeRepository(db),
	}
}

func newValidator(conf *core.Config) (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	trivia.InitValidators(validate, translator, conf.Trivia)
	coffee.InitValidators(validate, translator, conf.Coffee)
	return validate, translator
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(func(l *logsvc.RollbarLogger) core.Logger { return l }))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStorage))
	must(c.Provide(newValidator))
	must(c.Provide(newHTTPClient))
	must(c.Provide(authsvc.NewGate))
	must(c.Provide(trivia.NewService))
	must(c.Provide(coffee.NewService))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
