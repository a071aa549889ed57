package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/lottopool/lottopool/internal/api/handler"
)

func TestAdminOnly_Allows(t *testing.T) {
	for _, role := range []string{"SAAS_ADMIN", "POOL_ADMIN"} {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		c.Set(handler.CtxRole, role)

		called := false
		h := AdminOnly()(func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		})

		if err := h(c); err != nil {
			t.Fatalf("%s: handler error: %v", role, err)
		}
		if !called {
			t.Fatalf("%s: next handler not called", role)
		}
	}
}

func TestAdminOnly_ForbidsMembers(t *testing.T) {
	for _, role := range []string{"POOL_MEMBER", ""} {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.Set(handler.CtxRole, role)

		err := AdminOnly()(func(echo.Context) error {
			t.Fatalf("should not reach next handler")
			return nil
		})(c)

		if code := statusOf(t, err); code != http.StatusForbidden {
			t.Fatalf("%q: expected 403, got %d", role, code)
		}
	}
}
