package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/application"
	"github.com/trezcool/campus/core/fee"
	"github.com/trezcool/campus/core/menu"
	"github.com/trezcool/campus/core/settings"
	"github.com/trezcool/campus/core/user"
	metricsvc "github.com/trezcool/campus/services/metrics"
)

type adminApi struct {
	usrSvc      *user.Service
	appSvc      *application.Service
	feeSvc      *fee.Service
	menuSvc     *menu.Service
	settingsSvc *settings.Service
	metrics     *metricsvc.Metrics
	validate    *validator.Validate
}

func registerAdminAPI(g *echo.Group, deps ServerDeps) {
	api := adminApi{
		usrSvc:      deps.UserSvc,
		appSvc:      deps.AppSvc,
		feeSvc:      deps.FeeSvc,
		menuSvc:     deps.MenuSvc,
		settingsSvc: deps.SettingsSvc,
		metrics:     deps.Metrics,
		validate:    deps.Validate,
	}

	sg := g.Group("/students")
	sg.GET("", api.students)
	sg.POST("", api.createStudent)
	sg.PUT("/:id", api.updateStudent)
	sg.DELETE("/:id", api.deleteStudent)
	sg.PUT("/:id/fees", api.setFees)
	sg.POST("/:id/fees/:category/toggle", api.toggleFee)

	fg := g.Group("/faculty")
	fg.GET("", api.faculty)
	fg.POST("", api.createFaculty)
	fg.PUT("/:id", api.updateFaculty)
	fg.DELETE("/:id", api.deleteFaculty)

	g.GET("/applications", api.applications)
	g.POST("/applications/:id/decision", api.decide)
	g.GET("/settings", api.settings)
	g.PUT("/settings", api.updateSettings)
	g.GET("/hostel-menu", api.hostelMenu)
	g.PUT("/hostel-menu", api.updateHostelMenu)
	g.GET("/reports", api.reports)
}

// Students

func (api *adminApi) students(ctx echo.Context) error {
	students, err := api.usrSvc.Students(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *adminApi) createStudent(ctx echo.Context) error {
	var data user.NewStudent
	if err := bindAndValidate(ctx, api.validate, &data, "NewStudent"); err != nil {
		return err
	}
	s, err := api.usrSvc.RegisterStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *adminApi) updateStudent(ctx echo.Context) error {
	var data user.UpdateStudent
	if err := bindAndValidate(ctx, api.validate, &data, "UpdateStudent"); err != nil {
		return err
	}
	s, err := api.usrSvc.UpdateStudent(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *adminApi) deleteStudent(ctx echo.Context) error {
	if err := api.usrSvc.DeleteStudent(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *adminApi) setFees(ctx echo.Context) error {
	var data fee.Amounts
	if err := bindAndValidate(ctx, api.validate, &data, "Amounts"); err != nil {
		return err
	}
	s, err := api.feeSvc.SetAmounts(ctx.Request().Context(), ctx.Param("id"), data.Fees)
	if err != nil {
		return errors.Wrap(err, "setting fee amounts")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *adminApi) toggleFee(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}
	item, err := api.feeSvc.OverrideToggle(ctx.Request().Context(), ident, ctx.Param("id"), ctx.Param("category"))
	if err != nil {
		return errors.Wrap(err, "toggling fee")
	}
	return ctx.JSON(http.StatusOK, item)
}

// Faculty

func (api *adminApi) faculty(ctx echo.Context) error {
	faculty, err := api.usrSvc.Faculty(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing faculty")
	}
	return ctx.JSON(http.StatusOK, faculty)
}

func (api *adminApi) createFaculty(ctx echo.Context) error {
	var data user.NewFaculty
	if err := bindAndValidate(ctx, api.validate, &data, "NewFaculty"); err != nil {
		return err
	}
	f, err := api.usrSvc.RegisterFaculty(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering faculty")
	}
	return ctx.JSON(http.StatusCreated, f)
}

func (api *adminApi) updateFaculty(ctx echo.Context) error {
	var data user.UpdateFaculty
	if err := bindAndValidate(ctx, api.validate, &data, "UpdateFaculty"); err != nil {
		return err
	}
	f, err := api.usrSvc.UpdateFaculty(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating faculty")
	}
	return ctx.JSON(http.StatusOK, f)
}

func (api *adminApi) deleteFaculty(ctx echo.Context) error {
	if err := api.usrSvc.DeleteFaculty(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting faculty")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Applications

func (api *adminApi) applications(ctx echo.Context) error {
	filter := new(application.Filter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to Filter")
	}
	if err := api.validate.Struct(filter); err != nil {
		return err
	}
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}
	apps, err := api.appSvc.ListFor(ctx.Request().Context(), ident, *filter)
	if err != nil {
		return errors.Wrap(err, "listing applications")
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *adminApi) decide(ctx echo.Context) error {
	var data application.Decision
	if err := bindAndValidate(ctx, api.validate, &data, "Decision"); err != nil {
		return err
	}
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}
	app, err := api.appSvc.DecideAs(ctx.Request().Context(), ident, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "deciding application")
	}
	if api.metrics != nil {
		api.metrics.RecordApplication(app.Type, app.Status)
	}
	return ctx.JSON(http.StatusOK, app)
}

// Settings & menu

func (api *adminApi) settings(ctx echo.Context) error {
	s, err := api.settingsSvc.Get(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting settings")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *adminApi) updateSettings(ctx echo.Context) error {
	var data settings.UpdateSettings
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSettings")
	}
	s, err := api.settingsSvc.Update(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "updating settings")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *adminApi) hostelMenu(ctx echo.Context) error {
	m, err := api.menuSvc.Get(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting hostel menu")
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *adminApi) updateHostelMenu(ctx echo.Context) error {
	var data menu.UpdateMenu
	if err := bindAndValidate(ctx, api.validate, &data, "UpdateMenu"); err != nil {
		return err
	}
	m, err := api.menuSvc.Update(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "updating hostel menu")
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *adminApi) reports(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()
	fees, err := api.feeSvc.Report(reqCtx)
	if err != nil {
		return errors.Wrap(err, "building fee report")
	}
	apps, err := api.appSvc.Summary(reqCtx)
	if err != nil {
		return errors.Wrap(err, "counting applications")
	}
	return ctx.JSON(http.StatusOK, ReportResponse{Fees: fees, Applications: apps})
}

type ReportResponse struct {
	Fees         fee.Report         `json:"fees"`
	Applications application.Counts `json:"applications"`
}
