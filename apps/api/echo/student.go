package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/application"
	"github.com/trezcool/campus/core/fee"
	"github.com/trezcool/campus/core/menu"
	"github.com/trezcool/campus/core/user"
	metricsvc "github.com/trezcool/campus/services/metrics"
)

type studentApi struct {
	usrSvc   *user.Service
	appSvc   *application.Service
	feeSvc   *fee.Service
	menuSvc  *menu.Service
	metrics  *metricsvc.Metrics
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, deps ServerDeps) {
	api := studentApi{
		usrSvc:   deps.UserSvc,
		appSvc:   deps.AppSvc,
		feeSvc:   deps.FeeSvc,
		menuSvc:  deps.MenuSvc,
		metrics:  deps.Metrics,
		validate: deps.Validate,
	}

	g.GET("/applications", api.applications)
	g.POST("/applications", api.apply)
	g.GET("/fees", api.fees)
	g.POST("/fees/:category/pay", api.pay)
	g.PUT("/career-path", api.setCareerPath)
	g.GET("/hostel-menu", api.hostelMenu)
	g.GET("/faculty", api.faculty)
}

// currentStudent re-reads the logged in student.
func (api *studentApi) currentStudent(ctx echo.Context) (user.Student, error) {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return user.Student{}, err
	}
	s, err := api.usrSvc.GetStudent(ctx.Request().Context(), ident.ID())
	if err != nil {
		return user.Student{}, errors.Wrap(err, "getting context student")
	}
	return s, nil
}

func (api *studentApi) applications(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}
	apps, err := api.appSvc.ListFor(ctx.Request().Context(), ident, application.Filter{})
	if err != nil {
		return errors.Wrap(err, "listing applications")
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *studentApi) apply(ctx echo.Context) error {
	var data application.NewApplication
	if err := bindAndValidate(ctx, api.validate, &data, "NewApplication"); err != nil {
		return err
	}
	s, err := api.currentStudent(ctx)
	if err != nil {
		return err
	}
	app, err := api.appSvc.Submit(ctx.Request().Context(), s, data)
	if err != nil {
		return errors.Wrap(err, "submitting application")
	}
	if api.metrics != nil {
		api.metrics.RecordApplication(app.Type, app.Status)
	}
	return ctx.JSON(http.StatusCreated, app)
}

func (api *studentApi) fees(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}
	st, err := api.feeSvc.Statement(ctx.Request().Context(), ident.ID())
	if err != nil {
		return errors.Wrap(err, "getting fee statement")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) pay(ctx echo.Context) error {
	var data fee.Payment
	if err := bindAndValidate(ctx, api.validate, &data, "Payment"); err != nil {
		return err
	}
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}
	category := ctx.Param("category")
	item, err := api.feeSvc.Pay(ctx.Request().Context(), ident.ID(), category, data.Mode)
	if err != nil {
		return errors.Wrap(err, "paying fee")
	}
	if api.metrics != nil {
		api.metrics.RecordPayment(category, data.Mode)
	}
	return ctx.JSON(http.StatusOK, item)
}

func (api *studentApi) setCareerPath(ctx echo.Context) error {
	var data CareerPathRequest
	if err := bindAndValidate(ctx, api.validate, &data, "CareerPathRequest"); err != nil {
		return err
	}
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}
	s, err := api.usrSvc.SetCareerPath(ctx.Request().Context(), ident.ID(), data.CareerPath)
	if err != nil {
		return errors.Wrap(err, "setting career path")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) hostelMenu(ctx echo.Context) error {
	m, err := api.menuSvc.Get(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "getting hostel menu")
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api *studentApi) faculty(ctx echo.Context) error {
	faculty, err := api.usrSvc.Faculty(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing faculty")
	}
	return ctx.JSON(http.StatusOK, faculty)
}

type CareerPathRequest struct {
	CareerPath string `json:"careerPath" validate:"required,careerpath"`
}

func (cr *CareerPathRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(cr)
}
