package echoapi

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/fsnd/core"
	"github.com/trezcool/fsnd/core/auth"
)

var (
	errInvalidID    = echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	errInvalidPage  = echo.NewHTTPError(http.StatusBadRequest, "page must be a positive integer")
	errPageNotFound = core.NewNotFoundError("page")
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Success bool              `json:"success"`
	Error   int               `json:"error"`
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func fieldsMap(flds []core.FieldError) map[string]string {
	if len(flds) == 0 {
		return nil
	}
	m := make(map[string]string, len(flds))
	for _, fErr := range flds {
		m[fErr.Field] = fErr.Error
	}
	return m
}

// httpErrorHandler knows how to handle our errors.
// The server is gracefully shut down whenever a core shutdown error is caught.
func (s *Server) httpErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	resp := errorResponse{}

	switch origErr := errors.Cause(err).(type) {
	case *echo.HTTPError:
		if origErr.Internal != nil {
			if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
				origErr = herr
			}
		}
		resp.Error = origErr.Code
		if msg, ok := origErr.Message.(string); ok {
			resp.Message = msg
		} else {
			resp.Message = http.StatusText(origErr.Code)
		}
	case validator.ValidationErrors:
		resp.Error = http.StatusUnprocessableEntity
		vErr := core.TranslateValidationErrors(origErr, s.translator).(*core.ValidationError)
		resp.Message = vErr.Error()
		resp.Fields = fieldsMap(vErr.Fields)
	case *core.ValidationError:
		resp.Error = http.StatusUnprocessableEntity
		resp.Message = origErr.Error()
		resp.Fields = fieldsMap(origErr.Fields)
	case *core.NotFoundError:
		resp.Error = http.StatusNotFound
		resp.Message = origErr.Error()
	case *auth.Error:
		resp.Error = http.StatusUnauthorized
		if origErr.Kind == auth.KindForbidden {
			resp.Error = http.StatusForbidden
		}
		resp.Message = origErr.Description
		resp.Code = origErr.Code
	default: // any other error is a server error
		resp.Error = http.StatusInternalServerError
		resp.Message = http.StatusText(http.StatusInternalServerError)

		args := []interface{}{err, map[string]interface{}{
			"method":    ctx.Request().Method,
			"path":      ctx.Path(),
			"requestID": ctx.Response().Header().Get(echo.HeaderXRequestID),
		}}
		if id, ok := contextIdentity(ctx); ok {
			args = append(args, id)
		}
		s.logger.Error(fmt.Sprintf("%+v", err), args...)

		if core.IsShutdown(err) {
			s.signalShutdown()
		}
		if ctx.Echo().Debug {
			resp.Message = err.Error()
		}
	}

	if ctx.Request().Method == http.MethodHead { // Issue #608
		err = ctx.NoContent(resp.Error)
	} else {
		err = ctx.JSON(resp.Error, resp)
	}
	if err != nil {
		ctx.Echo().Logger.Error(err)
	}
}
