package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lottopool/lottopool/internal/core/domain"
)

// Context keys set by middleware.Auth.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
	CtxEmail  = "email"
)

// ctxClaims reads the identity injected by the Auth middleware. A missing
// user id means the route was mounted without authentication.
func ctxClaims(c echo.Context) (userID string, role domain.Role, err error) {
	userID, _ = c.Get(CtxUserID).(string)
	r, _ := c.Get(CtxRole).(string)
	if userID == "" || r == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, domain.Role(r), nil
}
