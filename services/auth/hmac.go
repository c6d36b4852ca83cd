package authsvc

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/auth"
)

// HMACGate verifies HS256 tokens signed with a shared secret.
// It also mints them, for local development and tests.
type HMACGate struct {
	secret   []byte
	issuer   string
	audience string
}

var _ auth.Gate = (*HMACGate)(nil) // interface compliance check

func NewHMACGate(conf *core.Config) *HMACGate {
	return &HMACGate{
		secret:   []byte(conf.Auth.SecretKey),
		issuer:   conf.AppName,
		audience: conf.Auth.Audience,
	}
}

func (g *HMACGate) Verify(_ context.Context, credential string) (auth.Identity, error) {
	claims, err := parse(credential, g.keyFunc, g.issuer, g.audience)
	if err != nil {
		return auth.Identity{}, err
	}
	return identity(claims)
}

func (g *HMACGate) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, withCause(errUnparsable, errors.Errorf("unexpected signing method %v", token.Header["alg"]))
	}
	return g.secret, nil
}

// Mint signs a token for subject holding perms. A nil perms omits the permissions claim.
func (g *HMACGate) Mint(subject string, perms []string, ttl time.Duration) (string, error) {
	now := jwt.TimeFunc()
	claims := &Claims{
		Issuer:    g.issuer,
		Subject:   subject,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
	if g.audience != "" {
		claims.Audience = audience{g.audience}
	}
	if perms != nil {
		claims.Permissions = &perms
	}

	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}
