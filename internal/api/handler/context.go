package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxActor extracts the authenticated actor injected by the Auth middleware
// and fast-fails before any service call: a missing user_id means the
// middleware did not run or the token carries no usable identity.
func ctxActor(c echo.Context) (actorID string, err error) {
	actorID, _ = c.Get("user_id").(string)
	if actorID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actorID, nil
}
