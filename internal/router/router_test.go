package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
)

func TestMethodFromForm(t *testing.T) {
	e := echo.New()
	e.Pre(middleware.MethodOverrideWithConfig(middleware.MethodOverrideConfig{
		Getter: methodFromForm("_method"),
	}))
	for _, m := range []string{http.MethodPatch, http.MethodDelete, http.MethodPost} {
		method := m
		e.Add(method, "/things/1", func(c echo.Context) error {
			return c.String(http.StatusOK, method)
		})
	}

	tests := []struct {
		name   string
		value  string
		status int
		want   string
	}{
		{"lower case patch", "patch", http.StatusOK, http.MethodPatch},
		{"upper case delete", "DELETE", http.StatusOK, http.MethodDelete},
		{"padded mixed case", " Delete ", http.StatusOK, http.MethodDelete},
		{"no override", "", http.StatusOK, http.MethodPost},
		{"unrouted method", "put", http.StatusMethodNotAllowed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			if tt.value != "" {
				form.Set("_method", tt.value)
			}
			req := httptest.NewRequest(http.MethodPost, "/things/1", strings.NewReader(form.Encode()))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.want != "" {
				assert.Equal(t, tt.want, rec.Body.String())
			}
		})
	}
}
