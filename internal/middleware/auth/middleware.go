package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/multilingual_crud/internal/i18n"
	"github.com/Skotchmaster/multilingual_crud/internal/tokens"
)

type Middleware struct {
	Issuer *tokens.Issuer
	Loc    *i18n.Localizer
}

func NewMiddleware(issuer *tokens.Issuer, loc *i18n.Localizer) *Middleware {
	return &Middleware{Issuer: issuer, Loc: loc}
}

// ResolvePrincipal recognizes both credential forms on every route it wraps:
// an Authorization bearer header first, the session cookie otherwise. It
// never rejects; anonymous requests simply carry no principal and the
// Require* middlewares decide.
func (m *Middleware) ResolvePrincipal(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if raw := bearerToken(c); raw != "" {
			if claims, err := m.Issuer.ParseAccessToken(raw); err == nil {
				if id, err := claims.UserID(); err == nil {
					SetPrincipal(c, Principal{ID: id, Username: claims.Username, Roles: claims.Roles})
				}
			}
			return next(c)
		}

		if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
			claims, err := m.Issuer.ParseAccessToken(cookie.Value)
			if err == nil {
				if id, idErr := claims.UserID(); idErr == nil {
					SetPrincipal(c, Principal{ID: id, Username: claims.Username, Roles: claims.Roles})
					// sliding renewal: the session only dies after the
					// configured period of inactivity
					if renewed, exp, signErr := m.Issuer.SignAccessToken(id, claims.Username, claims.Email, claims.Roles); signErr == nil {
						c.SetCookie(CreateCookie(SessionCookie, renewed, "/", exp))
					}
					return next(c)
				}
			}
			c.SetCookie(DeleteCookie(SessionCookie, "/"))
		}

		return next(c)
	}
}

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := FromContext(c); !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, m.Loc.Tr(c, i18n.KeyUnauthorized))
		}
		return next(c)
	}
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := FromContext(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, m.Loc.Tr(c, i18n.KeyUnauthorized))
		}
		if !p.HasRole("Admin") {
			return echo.NewHTTPError(http.StatusForbidden, m.Loc.Tr(c, i18n.KeyForbidden))
		}
		return next(c)
	}
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
