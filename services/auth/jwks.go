package authsvc

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/auth"
)

// JWKSGate verifies RS256 access tokens issued by an Auth0 tenant.
type JWKSGate struct {
	issuer   string
	audience string
	keys     *jwksCache
}

var _ auth.Gate = (*JWKSGate)(nil) // interface compliance check

func NewJWKSGate(conf *core.Config, httpClient *http.Client) *JWKSGate {
	domain := strings.TrimSuffix(strings.TrimPrefix(conf.Auth.Domain, "https://"), "/")
	issuer := "https://" + domain + "/"
	return newJWKSGate(issuer, conf.Auth.Audience, issuer+".well-known/jwks.json", conf.Auth.JWKSTTL, httpClient)
}

func newJWKSGate(issuer, aud, jwksURL string, ttl time.Duration, httpClient *http.Client) *JWKSGate {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &JWKSGate{
		issuer:   issuer,
		audience: aud,
		keys:     newJWKSCache(httpClient, jwksURL, ttl),
	}
}

func (g *JWKSGate) Verify(ctx context.Context, credential string) (auth.Identity, error) {
	claims, err := parse(credential, g.keyFunc(ctx), g.issuer, g.audience)
	if err != nil {
		return auth.Identity{}, err
	}
	return identity(claims)
}

func (g *JWKSGate) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodRS256 {
			return nil, withCause(errUnparsable, errors.Errorf("unexpected signing method %v", token.Header["alg"]))
		}
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, errMalformed
		}
		key, err := g.keys.get(ctx, kid)
		if err != nil {
			return nil, withCause(errKeyNotFound, err)
		}
		return key, nil
	}
}

type (
	jwkSet struct {
		Keys []jwk `json:"keys"`
	}

	jwk struct {
		Kty string `json:"kty"`
		Kid string `json:"kid"`
		Use string `json:"use"`
		N   string `json:"n"`
		E   string `json:"e"`
	}
)

// jwksMinRefetch bounds how often a stale cache or an unknown kid may hit the tenant.
const jwksMinRefetch = 30 * time.Second

// jwksCache keeps the tenant's RSA signing keys by kid, refetched once stale or on an unknown kid.
type jwksCache struct {
	httpClient *http.Client
	url        string
	ttl        time.Duration
	limiter    *rate.Limiter

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

func newJWKSCache(httpClient *http.Client, url string, ttl time.Duration) *jwksCache {
	return &jwksCache{
		httpClient: httpClient,
		url:        url,
		ttl:        ttl,
		limiter:    rate.NewLimiter(rate.Every(jwksMinRefetch), 1),
		keys:       make(map[string]*rsa.PublicKey),
	}
}

func (c *jwksCache) get(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	key := c.keys[kid]
	stale := time.Since(c.fetchedAt) > c.ttl
	c.mu.RUnlock()

	if key != nil && !stale {
		return key, nil
	}
	if !c.limiter.Allow() {
		if key != nil {
			return key, nil
		}
		return nil, errors.Errorf("kid %q not found in jwks", kid)
	}

	if err := c.refresh(ctx); err != nil {
		if key != nil {
			return key, nil // keep serving the last known key while the tenant is unreachable
		}
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if key = c.keys[kid]; key == nil {
		return nil, errors.Errorf("kid %q not found in jwks", kid)
	}
	return key, nil
}

func (c *jwksCache) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return errors.Wrap(err, "building jwks request")
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "fetching jwks")
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return errors.Errorf("fetching jwks: %s", res.Status)
	}

	var set jwkSet
	if err = json.NewDecoder(res.Body).Decode(&set); err != nil {
		return errors.Wrap(err, "decoding jwks")
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" || k.Kid == "" || (k.Use != "" && k.Use != "sig") {
			continue
		}
		if pub, err := rsaPublicKey(k.N, k.E); err == nil {
			keys[k.Kid] = pub
		}
	}
	if len(keys) == 0 {
		return errors.New("jwks contained no usable keys")
	}

	c.mu.Lock()
	c.keys = keys
	c.fetchedAt = time.Now()
	c.mu.Unlock()
	return nil
}

func rsaPublicKey(nB64, eB64 string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(nB64)
	if err != nil {
		return nil, errors.Wrap(err, "decoding modulus")
	}
	eb, err := base64.RawURLEncoding.DecodeString(eB64)
	if err != nil {
		return nil, errors.Wrap(err, "decoding exponent")
	}

	e := 0
	for _, b := range eb {
		e = e<<8 + int(b)
	}
	if e == 0 {
		return nil, errors.New("invalid exponent")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: e}, nil
}
