package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/application"
	"github.com/trezcool/campus/core/fee"
	"github.com/trezcool/campus/core/user"
	metricsvc "github.com/trezcool/campus/services/metrics"
)

type facultyApi struct {
	usrSvc   *user.Service
	appSvc   *application.Service
	feeSvc   *fee.Service
	metrics  *metricsvc.Metrics
	validate *validator.Validate
}

func registerFacultyAPI(g *echo.Group, deps ServerDeps) {
	api := facultyApi{
		usrSvc:   deps.UserSvc,
		appSvc:   deps.AppSvc,
		feeSvc:   deps.FeeSvc,
		metrics:  deps.Metrics,
		validate: deps.Validate,
	}

	g.GET("/applications", api.applications)
	g.POST("/applications/:id/decision", api.decide)
	g.GET("/students", api.students)
	g.PUT("/students/:id", api.updateStudent, facultyEditMiddleware(deps.SettingsSvc))
	g.GET("/fees", api.fees)
}

func (api *facultyApi) currentFaculty(ctx echo.Context) (user.Faculty, error) {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return user.Faculty{}, err
	}
	f, err := api.usrSvc.GetFaculty(ctx.Request().Context(), ident.ID())
	if err != nil {
		return user.Faculty{}, errors.Wrap(err, "getting context faculty")
	}
	return f, nil
}

func (api *facultyApi) applications(ctx echo.Context) error {
	f, err := api.currentFaculty(ctx)
	if err != nil {
		return err
	}
	apps, err := api.appSvc.ListFor(ctx.Request().Context(), user.FacultyIdentity(f), application.Filter{})
	if err != nil {
		return errors.Wrap(err, "listing applications")
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *facultyApi) decide(ctx echo.Context) error {
	var data application.Decision
	if err := bindAndValidate(ctx, api.validate, &data, "Decision"); err != nil {
		return err
	}
	f, err := api.currentFaculty(ctx)
	if err != nil {
		return err
	}
	app, err := api.appSvc.DecideAs(ctx.Request().Context(), user.FacultyIdentity(f), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "deciding application")
	}
	if api.metrics != nil {
		api.metrics.RecordApplication(app.Type, app.Status)
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *facultyApi) students(ctx echo.Context) error {
	f, err := api.currentFaculty(ctx)
	if err != nil {
		return err
	}
	students, err := api.usrSvc.StudentsInDepartment(ctx.Request().Context(), f.Department)
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	return ctx.JSON(http.StatusOK, students)
}

// updateStudent edits a student of the faculty's own department.
func (api *facultyApi) updateStudent(ctx echo.Context) error {
	var data user.UpdateStudent
	if err := bindAndValidate(ctx, api.validate, &data, "UpdateStudent"); err != nil {
		return err
	}
	f, err := api.currentFaculty(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	s, err := api.usrSvc.GetStudent(reqCtx, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "getting student")
	}
	if s.Department != f.Department {
		return core.ErrNotFound
	}
	if s, err = api.usrSvc.UpdateStudent(reqCtx, s.ID, data); err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *facultyApi) fees(ctx echo.Context) error {
	f, err := api.currentFaculty(ctx)
	if err != nil {
		return err
	}
	sums, err := api.feeSvc.DepartmentSummaries(ctx.Request().Context(), f.Department)
	if err != nil {
		return errors.Wrap(err, "summarizing department fees")
	}
	return ctx.JSON(http.StatusOK, sums)
}
