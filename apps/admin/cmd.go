package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/coffee"
	"github.com/trezcool/fsnd/core/trivia"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf       *core.Config
	db         *sqlx.DB // nil with in-memory storage
	triviaRepo trivia.Repository
	coffeeRepo coffee.Repository
	out        io.Writer
}

// needsStorage reports whether the command in args talks to the database.
func needsStorage(args []string) bool {
	return len(args) > 1 && (args[1] == "migrate" || args[1] == "seed")
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, up-by-one, up-to, down, down-to, redo, reset, status, version, create, fix)")
	fmt.Fprintln(cli.out, "  seed - load the sample questions and drinks")
	fmt.Fprintln(cli.out, "  token -sub SUBJECT [-perms P1,P2] [-ttl 1h] - mint an HS256 access token")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	tokenCmd := flag.NewFlagSet("token", flag.ContinueOnError)
	tokenCmd.SetOutput(cli.out)
	tokenSub := tokenCmd.String("sub", "", "The token subject, e.g. auth0|admin.")
	tokenPerms := tokenCmd.String("perms", "", "Comma separated permissions, e.g. post:drinks,patch:drinks.")
	tokenTTL := tokenCmd.Duration("ttl", time.Hour, "How long the token stays valid.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "seed":
		return cli.seed()

	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			if err == flag.ErrHelp {
				return errHelp
			}
			return err
		}
		if strings.TrimSpace(*tokenSub) == "" {
			tokenCmd.Usage()
			return errHelp
		}
		secret := cli.conf.Auth.SecretKey
		if secret == "" {
			fmt.Fprint(cli.out, "Enter secret key:")
			raw, err := readPasswordFunc(int(syscall.Stdin))
			fmt.Fprintln(cli.out)
			if err != nil {
				return err
			}
			if len(raw) == 0 {
				tokenCmd.Usage()
				return errHelp
			}
			secret = string(raw)
		}
		return cli.token(*tokenSub, *tokenPerms, *tokenTTL, secret)

	default:
		cli.printUsage()
		return errHelp
	}
}
