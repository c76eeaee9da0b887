package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
)

// ctxActor reconstructs the authenticated actor from the claims injected by
// the Auth middleware. A missing user_id means the middleware did not run
// on this route; fail before any service call.
func ctxActor(c echo.Context) (domain.Actor, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	name, _ := c.Get("name").(string)
	roles, _ := c.Get("roles").([]string)

	return domain.Actor{ID: id, Name: name, Roles: roles}, nil
}
