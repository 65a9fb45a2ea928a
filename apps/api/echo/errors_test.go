package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core"
)

// commandError is a value error type that cannot be used as a map key.
type commandError struct {
	Code   int
	Labels []string
}

func (e commandError) Error() string { return "command failed" }

func TestAppHTTPErrorHandler(t *testing.T) {
	_, deps := setup(t)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantData string
	}{
		{
			name:     "wrapped domain error",
			err:      errors.Wrap(core.ErrAlreadyPaid, "paying fee"),
			wantCode: http.StatusConflict,
			wantData: `{"error":"This fee has already been paid"}`,
		},
		{
			name:     "unhashable cause",
			err:      errors.Wrap(commandError{Code: 13, Labels: []string{"x"}}, "listing students"),
			wantCode: http.StatusInternalServerError,
			wantData: `{"error":"Something went wrong, please try again later"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			shutdown := false
			handler := newAppHTTPErrorHandler(deps.Logger, deps.Translator, func() { shutdown = true })

			e := echo.New()
			rec := httptest.NewRecorder()
			ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/admin/students", nil), rec)

			require.NotPanics(t, func() { handler(tc.err, ctx) })
			assert.Equal(t, tc.wantCode, rec.Code)
			assert.JSONEq(t, tc.wantData, rec.Body.String())
			assert.False(t, shutdown)
		})
	}
}
