package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/settings"
	i18nsvc "github.com/trezcool/campus/services/i18n"
)

const headerAcceptLanguage = "Accept-Language"

// localeMiddleware picks the message language from Accept-Language.
func localeMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		locale := i18nsvc.Match(ctx.Request().Header.Get(headerAcceptLanguage))
		req := ctx.Request()
		ctx.SetRequest(req.WithContext(i18nsvc.WithLocale(req.Context(), locale)))
		return next(ctx)
	}
}

// facultyEditMiddleware lets faculty through only while the admin allows them to edit students.
func facultyEditMiddleware(svc *settings.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			enabled, err := svc.FacultyCanEdit(ctx.Request().Context())
			if err != nil {
				return errors.Wrap(err, "reading admin settings")
			}
			if !enabled {
				return core.ErrPermissionDenied
			}
			return next(ctx)
		}
	}
}
