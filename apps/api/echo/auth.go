package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/fsnd/core/auth"
)

const contextIdentityKey = "identity"

// bearerToken extracts the token from an `Authorization: Bearer <token>` header.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", auth.ErrHeaderMissing
	}
	parts := strings.Fields(header)
	switch {
	case len(parts) == 0 || !strings.EqualFold(parts[0], "bearer"):
		return "", auth.ErrNotBearer
	case len(parts) == 1:
		return "", auth.ErrTokenNotFound
	case len(parts) > 2:
		return "", auth.ErrNotBearerOnly
	}
	return parts[1], nil
}

func contextIdentity(ctx echo.Context) (auth.Identity, bool) {
	id, ok := ctx.Get(contextIdentityKey).(auth.Identity)
	return id, ok
}

// authMiddleware verifies the bearer token with gate and stores the caller's identity in the context.
func authMiddleware(gate auth.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token, err := bearerToken(ctx.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			id, err := gate.Verify(ctx.Request().Context(), token)
			if err != nil {
				if _, ok := auth.AsError(err); ok {
					return err
				}
				return errors.Wrap(err, "verifying token")
			}
			ctx.Set(contextIdentityKey, id)
			return next(ctx)
		}
	}
}

// requirePermission rejects callers lacking p before the handler runs.
func requirePermission(p auth.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, ok := contextIdentity(ctx)
			if !ok {
				return auth.ErrHeaderMissing
			}
			if err := auth.Check(id, p); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}

// requires returns the middleware chain guarding a route with permission p.
func (s *Server) requires(p auth.Permission) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{authMiddleware(s.gate), requirePermission(p)}
}
