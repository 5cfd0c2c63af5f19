package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// CORS admits cross-origin requests only from the listed origins.  Requests
// without an Origin header (curl, server-to-server) pass untouched; a
// request from any other origin is rejected with 403.
func CORS(allowed []string) echo.MiddlewareFunc {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOriginFunc: func(origin string) (bool, error) {
			if set[origin] {
				return true, nil
			}
			return false, echo.NewHTTPError(http.StatusForbidden, "Not allowed by CORS")
		},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	})
}
