package authz

import (
	"github.com/gofiber/fiber/v2"
)

const authContextKey = "authContext"

// AuthContext is the caller identity threaded explicitly into the gate.
// It is attached once by the authentication middleware and read-only from
// then on.
type AuthContext struct {
	UserID  string
	Role    Role
	Unidade Unidade
}

// Complete reports whether both identity and unidade were resolved.
func (a AuthContext) Complete() bool {
	return a.UserID != "" && a.Unidade != ""
}

// SetAuthContext attaches the caller context to the request.
func SetAuthContext(c *fiber.Ctx, actx AuthContext) {
	c.Locals(authContextKey, actx)
}

// AuthContextFrom extracts the caller context. The second return is false
// when no authentication middleware ran or the context is incomplete.
func AuthContextFrom(c *fiber.Ctx) (AuthContext, bool) {
	actx, ok := c.Locals(authContextKey).(AuthContext)
	if !ok || !actx.Complete() {
		return AuthContext{}, false
	}
	return actx, true
}
