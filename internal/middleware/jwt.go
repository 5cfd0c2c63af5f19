package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // HTTP status codes for responses
	"strings"  // header parsing

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/auth"
)

// Verifier validates a raw session token.  *utils.TokenCodec implements it.
type Verifier interface {
	Verify(raw string) (auth.Identity, error)
}

// bearerToken extracts the credential from an Authorization header of the
// form "<scheme> <token>".  The scheme is not checked, so a token sent under
// another scheme still goes through verification.
func bearerToken(header string) (string, bool) {
	_, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate returns an Echo middleware that verifies the session token and stores the resulting identity on the context.  A missing
// credential is answered with 401; a credential that fails verification
// (expired, forged, malformed) with 403.
func Authenticate(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Access denied. No token provided."})
			}
			id, err := v.Verify(raw)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "Invalid or expired token"})
			}
			setIdentity(c, id)
			return next(c)
		}
	}
}
