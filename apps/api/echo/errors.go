package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/user"
	i18nsvc "github.com/trezcool/campus/services/i18n"
)

var (
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
)

// redirectError is the gate sending a client to the login of a role.
type redirectError struct {
	Path string
	Role user.Role
}

func (err *redirectError) Error() string {
	return "login required: redirect to " + err.Path
}

type domainError struct {
	code      int
	messageID string
}

// domainErrors maps the core error taxonomy to status codes and message IDs.
var domainErrors = []struct {
	err error
	domainError
}{
	{core.ErrInvalidCredentials, domainError{http.StatusUnauthorized, "invalidCredentials"}},
	{core.ErrNotFound, domainError{http.StatusNotFound, "notFound"}},
	{core.ErrInvalidTransition, domainError{http.StatusConflict, "invalidTransition"}},
	{core.ErrPaymentsDisabled, domainError{http.StatusForbidden, "paymentsDisabled"}},
	{core.ErrAlreadyPaid, domainError{http.StatusConflict, "alreadyPaid"}},
	{core.ErrPermissionDenied, domainError{http.StatusForbidden, "permissionDenied"}},
}

// lookupDomainError finds the entry of a core sentinel.
// Causes of any other type (hashable or not) are not found.
func lookupDomainError(err error) (domainError, bool) {
	for _, de := range domainErrors {
		if core.Is(err, de.err) {
			return de.domainError, true
		}
	}
	return domainError{}, false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}
		reqCtx := ctx.Request().Context()
		cause := errors.Cause(err)

		switch origErr := cause.(type) {
		case *redirectError:
			ctx.Response().Header().Set(echo.HeaderLocation, origErr.Path)
			code = http.StatusUnauthorized
			message = echo.Map{
				"error":    i18nsvc.T(reqCtx, "loginRequired", map[string]interface{}{"Role": string(origErr.Role)}),
				"redirect": origErr.Path,
			}
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
			code = http.StatusBadRequest
			switch {
			case origErr.Err == core.ErrDuplicateEmail:
				message = map[string]string{"email": i18nsvc.T(reqCtx, "duplicateEmail")}
			case origErr.Fields != nil:
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			default:
				message = i18nsvc.T(reqCtx, "invalidData")
			}
		default:
			if de, ok := lookupDomainError(cause); ok {
				code = de.code
				message = i18nsvc.T(reqCtx, de.messageID)
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = i18nsvc.T(reqCtx, "internalError")

			args := []interface{}{errors.Wrap(err, msg)}
			if ident, iErr := getContextIdentity(ctx); iErr == nil {
				args = append(args, ident)
			}
			logger.Error(msg, args...)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
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
