package auth

import "github.com/pkg/errors"

// Kind classifies authorization failures.
type Kind int

const (
	// KindUnauthenticated covers missing, malformed, invalid or expired credentials.
	KindUnauthenticated Kind = iota + 1
	// KindForbidden means the credential is valid but lacks the required permission.
	KindForbidden
)

// Error codes
const (
	CodeHeaderMissing = "authorization_header_missing"
	CodeInvalidHeader = "invalid_header"
	CodeTokenExpired  = "token_expired"
	CodeInvalidClaims = "invalid_claims"
	CodeUnauthorized  = "unauthorized"
)

// Error is a standardized way to communicate auth failure modes.
type Error struct {
	Kind        Kind
	Code        string
	Description string
	Err         error // underlying cause, never shown to callers
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Description + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Description
}

func (e *Error) Unwrap() error { return e.Err }

func NewError(kind Kind, code, description string, cause ...error) *Error {
	e := &Error{Kind: kind, Code: code, Description: description}
	if len(cause) > 0 {
		e.Err = cause[0]
	}
	return e
}

var (
	ErrHeaderMissing = NewError(KindUnauthenticated, CodeHeaderMissing, "Authorization header is expected.")
	ErrNotBearer     = NewError(KindUnauthenticated, CodeInvalidHeader, `Authorization header must start with "Bearer".`)
	ErrTokenNotFound = NewError(KindUnauthenticated, CodeInvalidHeader, "Token not found.")
	ErrNotBearerOnly = NewError(KindUnauthenticated, CodeInvalidHeader, "Authorization header must be bearer token.")
	ErrTokenExpired  = NewError(KindUnauthenticated, CodeTokenExpired, "Token expired.")
	ErrNoPermissions = NewError(KindUnauthenticated, CodeInvalidClaims, "Permissions not included in JWT.")
	ErrForbidden     = NewError(KindForbidden, CodeUnauthorized, "Not authorized to perform this action.")
)

// AsError returns the *Error at the cause of err, if any.
func AsError(err error) (*Error, bool) {
	var aErr *Error
	if errors.As(errors.Cause(err), &aErr) {
		return aErr, true
	}
	return nil, false
}

// Check returns ErrForbidden unless id holds p.
func Check(id Identity, p Permission) error {
	if !id.Can(p) {
		return ErrForbidden
	}
	return nil
}
