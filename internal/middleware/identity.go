package middleware

// identity.go holds the context key for the verified caller.  Handlers never
// take a user id from the request body; they read it from here.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/24045990CaseyRP/sg-green-plan-server/internal/auth"
)

const identityKey = "identity"

func setIdentity(c echo.Context, id auth.Identity) { c.Set(identityKey, id) }

// IdentityFrom returns the identity stored by Authenticate.  ok is false on
// routes that did not authenticate.
func IdentityFrom(c echo.Context) (auth.Identity, bool) {
	id, ok := c.Get(identityKey).(auth.Identity)
	return id, ok
}

// userID returns the caller's id as a string, or "anon" when the request
// carries no identity.
func userID(c echo.Context) string {
	if id, ok := IdentityFrom(c); ok && id.ID != 0 {
		return strconv.FormatUint(id.ID, 10)
	}
	return "anon"
}
