package authsvc

import (
	"net/http"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/auth"
)

var (
	errMalformed      = auth.NewError(auth.KindUnauthenticated, auth.CodeInvalidHeader, "Authorization malformed.")
	errUnparsable     = auth.NewError(auth.KindUnauthenticated, auth.CodeInvalidHeader, "Unable to parse authentication token.")
	errKeyNotFound    = auth.NewError(auth.KindUnauthenticated, auth.CodeInvalidHeader, "Unable to find the appropriate key.")
	errIncorrectClaim = auth.NewError(auth.KindUnauthenticated, auth.CodeInvalidClaims, "Incorrect claims. Please, check the audience and issuer.")
)

// NewGate returns the Gate selected by conf.Auth.Mode.
func NewGate(conf *core.Config, httpClient *http.Client) (auth.Gate, error) {
	switch conf.Auth.Mode {
	case core.AuthModeAuth0:
		if conf.Auth.Domain == "" || conf.Auth.Audience == "" {
			return nil, errors.New("auth0 gate: domain and audience are required")
		}
		return NewJWKSGate(conf, httpClient), nil
	case core.AuthModeHMAC:
		if conf.Auth.SecretKey == "" {
			return nil, errors.New("hmac gate: secret key is required")
		}
		return NewHMACGate(conf), nil
	default:
		return nil, errors.Errorf("unknown auth mode %q", conf.Auth.Mode)
	}
}

// withCause copies a sentinel auth error and attaches cause for logging.
func withCause(sentinel *auth.Error, cause error) *auth.Error {
	return auth.NewError(sentinel.Kind, sentinel.Code, sentinel.Description, cause)
}

// parse verifies the token signature and time claims, then checks issuer and audience when set.
func parse(credential string, keyFunc jwt.Keyfunc, issuer, aud string) (*Claims, error) {
	claims := new(Claims)
	if _, err := jwt.ParseWithClaims(credential, claims, keyFunc); err != nil {
		return nil, translateParseError(err)
	}

	if issuer != "" && claims.Issuer != issuer {
		return nil, withCause(errIncorrectClaim, errors.Errorf("unexpected issuer %q", claims.Issuer))
	}
	if aud != "" && !claims.Audience.contains(aud) {
		return nil, withCause(errIncorrectClaim, errors.Errorf("audience %q not granted", aud))
	}
	return claims, nil
}

func translateParseError(err error) error {
	vErr, ok := err.(*jwt.ValidationError)
	if !ok {
		return withCause(errUnparsable, err)
	}

	switch {
	case vErr.Errors&jwt.ValidationErrorMalformed != 0:
		return withCause(errUnparsable, err)
	case vErr.Errors&jwt.ValidationErrorUnverifiable != 0:
		if aErr, ok := auth.AsError(vErr.Inner); ok {
			return aErr
		}
		return withCause(errKeyNotFound, err)
	case vErr.Errors&jwt.ValidationErrorSignatureInvalid != 0:
		return withCause(errUnparsable, err)
	case vErr.Errors&jwt.ValidationErrorExpired != 0:
		return withCause(auth.ErrTokenExpired, err)
	default:
		return withCause(errIncorrectClaim, err)
	}
}

func identity(claims *Claims) (auth.Identity, error) {
	if claims.Permissions == nil {
		return auth.Identity{}, auth.ErrNoPermissions
	}
	return auth.Identity{
		Subject:     claims.Subject,
		Permissions: auth.NewPermissionSet(*claims.Permissions...),
	}, nil
}
