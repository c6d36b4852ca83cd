package main

import (
	"github.com/pkg/errors"

	"github.com/trezcool/fsnd/storage/database"
)

var (
	gooseRunFunc = database.RunMigrations // mockable

	errNoDatabase = errors.New("migrations need a database; in-memory storage is enabled")
)

func (cli *commandLine) migrate(args []string) error {
	if cli.conf.Database.InMemory {
		return errNoDatabase
	}
	return gooseRunFunc(cli.db, args[0], args[1:]...)
}
