package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/user"
	metricsvc "github.com/trezcool/campus/services/metrics"
)

type sessionApi struct {
	auth     *authenticator
	usrSvc   *user.Service
	metrics  *metricsvc.Metrics
	validate *validator.Validate
}

func registerSessionAPI(g *echo.Group, auth *authenticator, deps ServerDeps) {
	api := sessionApi{
		auth:     auth,
		usrSvc:   deps.UserSvc,
		metrics:  deps.Metrics,
		validate: deps.Validate,
	}

	// un-authed endpoints
	for _, role := range user.Roles {
		rg := g.Group("/" + string(role))
		rg.POST("/login", api.login(role))

		// authed endpoints
		gate := auth.gate(role)
		rg.GET("/me", api.me, gate)
		rg.POST("/logout", api.logout, gate)
	}
	g.POST("/student/signup", api.studentSignup)
	g.POST("/faculty/signup", api.facultySignup)
	g.PUT("/student/password", api.changePassword, auth.gate(user.RoleStudent))
}

// Handlers

func (api *sessionApi) login(role user.Role) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		var data LoginRequest
		if err := bindAndValidate(ctx, api.validate, &data, "LoginRequest"); err != nil {
			return err
		}

		mgr, slot := api.auth.newSession(ctx)
		ident, err := mgr.Login(ctx.Request().Context(), data.Email, data.Password, role)
		if api.metrics != nil {
			api.metrics.RecordLogin(string(role), err == nil)
		}
		if err != nil {
			return errors.Wrap(err, "logging in")
		}
		return ctx.JSON(http.StatusOK, LoginResponse{Token: slot.token, Role: ident.Role, User: ident.Record()})
	}
}

func (api *sessionApi) me(ctx echo.Context) error {
	ident, err := getContextIdentity(ctx)
	if err != nil {
		return err
	}
	current, err := api.usrSvc.Lookup(ctx.Request().Context(), ident.Role, ident.ID())
	if err != nil {
		return errors.Wrap(err, "looking up identity")
	}
	return ctx.JSON(http.StatusOK, current.Record())
}

func (api *sessionApi) logout(ctx echo.Context) error {
	mgr, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	if err := mgr.Logout(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionApi) changePassword(ctx echo.Context) error {
	var data ChangePasswordRequest
	if err := bindAndValidate(ctx, api.validate, &data, "ChangePasswordRequest"); err != nil {
		return err
	}
	mgr, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	if err := mgr.ChangePassword(ctx.Request().Context(), data.OldPassword, data.NewPassword); err != nil {
		if core.Is(err, core.ErrInvalidCredentials) {
			return core.NewValidationError(err, core.FieldError{Field: "oldPassword", Error: "current password is incorrect"})
		}
		return errors.Wrap(err, "changing password")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Password has been changed."})
}

func (api *sessionApi) studentSignup(ctx echo.Context) error {
	var data user.StudentSignup
	if err := bindAndValidate(ctx, api.validate, &data, "StudentSignup"); err != nil {
		return err
	}
	s, err := api.usrSvc.RegisterStudent(ctx.Request().Context(), data.NewStudent())
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *sessionApi) facultySignup(ctx echo.Context) error {
	var data user.FacultySignup
	if err := bindAndValidate(ctx, api.validate, &data, "FacultySignup"); err != nil {
		return err
	}
	f, err := api.usrSvc.RegisterFaculty(ctx.Request().Context(), data.NewFaculty())
	if err != nil {
		return errors.Wrap(err, "registering faculty")
	}
	return ctx.JSON(http.StatusCreated, f)
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string      `json:"token"`
		Role  user.Role   `json:"role"`
		User  interface{} `json:"user"`
	}

	ChangePasswordRequest struct {
		OldPassword        string `json:"oldPassword" validate:"required"`
		NewPassword        string `json:"newPassword" validate:"required"`
		NewPasswordConfirm string `json:"newPasswordConfirm" validate:"required,eqfield=NewPassword"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}

func (cr *ChangePasswordRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(cr)
}
