package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/fsnd/core/auth"
	authsvc "github.com/trezcool/fsnd/services/auth"
)

// token prints an HS256 token for sub. perms is a comma separated list of known permissions.
func (cli *commandLine) token(sub, perms string, ttl time.Duration, secret string) error {
	if ttl <= 0 {
		return errors.Errorf("ttl must be positive (got %s)", ttl)
	}

	granted := make([]string, 0)
	for _, raw := range strings.Split(perms, ",") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		p, ok := auth.ParsePermission(raw)
		if !ok {
			return errors.Errorf("unknown permission %q", strings.TrimSpace(raw))
		}
		granted = append(granted, string(p))
	}

	conf := *cli.conf
	conf.Auth.SecretKey = secret
	token, err := authsvc.NewHMACGate(&conf).Mint(strings.TrimSpace(sub), granted, ttl)
	if err != nil {
		return errors.Wrap(err, "minting token")
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
