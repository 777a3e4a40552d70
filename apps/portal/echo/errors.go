package echoportal

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/session"
	"github.com/darasahq/darasa/services/schoolapi"
)

// newPortalHTTPErrorHandler maps session/backend errors onto the statuses the
// dashboard expects: typed login failures become inline-renderable messages,
// backend errors pass their status through, transient failures read as
// gateway errors.
func newPortalHTTPErrorHandler(logger core.Logger, translator ut.Translator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *schoolapi.APIError:
			code = origErr.StatusCode
			message = origErr.Detail
		default:
			switch origErr {
			case session.ErrInvalidCredentials:
				code = http.StatusUnauthorized
				message = origErr.Error()
			case session.ErrAccountNotFound:
				code = http.StatusNotFound
				message = origErr.Error()
			case session.ErrAccountSuspended:
				code = http.StatusForbidden
				message = origErr.Error()
			case session.ErrSessionExpired, session.ErrNoRefreshToken:
				code = http.StatusUnauthorized
				message = "session expired; sign in again"
			case schoolapi.ErrTimeout:
				code = http.StatusGatewayTimeout
				message = origErr.Error()
			case schoolapi.ErrUnavailable:
				code = http.StatusBadGateway
				message = origErr.Error()
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg
				logger.Error(msg, errors.Wrap(err, msg))

				// shutting down...
				if core.IsShutdown(err) {
					ctx.Echo().Logger.Error("shutdown signaled")
				}
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
