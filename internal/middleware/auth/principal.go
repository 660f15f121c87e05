package auth

import (
	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// Principal is the normalized identity: the same shape no matter whether the
// request carried a bearer token or the dashboard session cookie.
type Principal struct {
	ID       uint
	Username string
	Roles    []string
}

func (p Principal) HasRole(name string) bool {
	for _, r := range p.Roles {
		if r == name {
			return true
		}
	}
	return false
}

func SetPrincipal(c echo.Context, p Principal) {
	c.Set(principalKey, p)
}

func FromContext(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}
