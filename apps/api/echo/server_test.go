package echoapi_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/fsnd/core/auth"
	testutil "github.com/trezcool/fsnd/tests"
)

func TestServer_misc(t *testing.T) {
	app := setup(t)

	app.run(t, []httpTest{
		{
			name:     "home",
			path:     "/",
			wantData: []byte(`{"success": true, "message": "Welcome to the FSND API!"}`),
		},
		{
			name:     "trailing slash",
			path:     "/categories/",
			wantCode: http.StatusOK,
		},
		{
			name:     "unknown route",
			path:     "/nope",
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, newHTTPErr(http.StatusNotFound, "Not Found")),
		},
		{
			name:     "method not allowed",
			method:   http.MethodPut,
			path:     "/drinks/1",
			wantCode: http.StatusMethodNotAllowed,
			wantData: marshallObj(t, newHTTPErr(http.StatusMethodNotAllowed, "Method Not Allowed")),
		},
	})
}

func TestServer_requestID(t *testing.T) {
	app := setup(t)
	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestServer_metrics(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/drinks")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req, rec = newRequest(http.MethodGet, "/questions/lol")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req, rec = newRequest(http.MethodGet, "/metrics")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `fsnd_http_requests_total{method="GET",path="/drinks",status="200"} 1`)
	assert.Contains(t, body, `fsnd_http_requests_total{method="GET",path="/questions/:id",status="400"} 1`)
}

func TestServer_authorization(t *testing.T) {
	app := setup(t)

	expired, err := app.gate.Mint("test|user", []string{string(auth.PermPostDrinks)}, -time.Minute)
	require.NoError(t, err)
	noPerms, err := app.gate.Mint("test|user", nil, time.Hour)
	require.NoError(t, err)
	valid := testutil.Token(t, app.gate, auth.PermGetDrinksDetail)

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantErr  httpErr
	}{
		{
			name:     "missing header",
			wantCode: http.StatusUnauthorized,
			wantErr: httpErr{Error: http.StatusUnauthorized, Code: auth.CodeHeaderMissing,
				Message: "Authorization header is expected."},
		},
		{
			name:     "not bearer",
			header:   "Token " + valid,
			wantCode: http.StatusUnauthorized,
			wantErr: httpErr{Error: http.StatusUnauthorized, Code: auth.CodeInvalidHeader,
				Message: `Authorization header must start with "Bearer".`},
		},
		{
			name:     "token not found",
			header:   "Bearer",
			wantCode: http.StatusUnauthorized,
			wantErr:  httpErr{Error: http.StatusUnauthorized, Code: auth.CodeInvalidHeader, Message: "Token not found."},
		},
		{
			name:     "too many parts",
			header:   "Bearer " + valid + " extra",
			wantCode: http.StatusUnauthorized,
			wantErr: httpErr{Error: http.StatusUnauthorized, Code: auth.CodeInvalidHeader,
				Message: "Authorization header must be bearer token."},
		},
		{
			name:     "garbage token",
			header:   "Bearer garbage",
			wantCode: http.StatusUnauthorized,
			wantErr: httpErr{Error: http.StatusUnauthorized, Code: auth.CodeInvalidHeader,
				Message: "Unable to parse authentication token."},
		},
		{
			name:     "expired",
			header:   "Bearer " + expired,
			wantCode: http.StatusUnauthorized,
			wantErr:  httpErr{Error: http.StatusUnauthorized, Code: auth.CodeTokenExpired, Message: "Token expired."},
		},
		{
			name:     "no permissions claim",
			header:   "Bearer " + noPerms,
			wantCode: http.StatusUnauthorized,
			wantErr: httpErr{Error: http.StatusUnauthorized, Code: auth.CodeInvalidClaims,
				Message: "Permissions not included in JWT."},
		},
		{
			name:     "permission denied",
			header:   "bearer " + valid,
			wantCode: http.StatusForbidden,
			wantErr: httpErr{Error: http.StatusForbidden, Code: auth.CodeUnauthorized,
				Message: "Not authorized to perform this action."},
		},
	}

	body := []byte(`{"title": "Water", "recipe": {"name": "water", "color": "blue", "parts": 1}}`)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/drinks", body)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			app.ServeHTTP(rec, req)

			checkCodeAndData(t, httpTest{wantCode: tt.wantCode, wantData: marshallObj(t, tt.wantErr)}, rec)
		})
	}

	// nothing was stored
	req, rec := newRequest(http.MethodGet, "/drinks")
	app.ServeHTTP(rec, req)
	assert.JSONEq(t, `{"success": true, "drinks": []}`, rec.Body.String())

	t.Run("case-insensitive scheme", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/drinks-detail")
		req.Header.Set("Authorization", strings.ToUpper("bearer")+" "+valid)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
