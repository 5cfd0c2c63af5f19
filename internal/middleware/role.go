package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/auth"
	"github.com/24045990CaseyRP/sg-green-plan-server/internal/authz"
)

// RequireRole returns a middleware that lets the request through only when
// the authenticated identity has one of roles.  It must run after
// Authenticate; a request without identity is rejected with 401, one with
// the wrong role with 403.
func RequireRole(roles ...auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied. No token provided."})
			}
			if err := authz.CheckRole(id, roles...); err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "Access denied"})
			}
			return next(c)
		}
	}
}

// Require turns a route's declared requirement into its middleware chain:
// nothing for public routes, Authenticate for authenticated ones, followed
// by RequireRole when roles are listed.
func Require(v Verifier, req authz.Requirement) []echo.MiddlewareFunc {
	if !req.Authenticated {
		return nil
	}
	chain := []echo.MiddlewareFunc{Authenticate(v)}
	if len(req.Roles) > 0 {
		chain = append(chain, RequireRole(req.Roles...))
	}
	return chain
}
