package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/multilingual_crud/internal/i18n"
	"github.com/Skotchmaster/multilingual_crud/internal/logging"
	authmw "github.com/Skotchmaster/multilingual_crud/internal/middleware/auth"
	"github.com/Skotchmaster/multilingual_crud/internal/service"
)

// WebHandler serves the server-rendered dashboard. The session is the same
// signed access token the API uses, carried in a cookie and renewed by the
// auth middleware on every request.
type WebHandler struct {
	Auth  *service.AuthService
	Users *service.UserService
	Loc   *i18n.Localizer
}

type loginPage struct {
	CSRF  string
	Error string
}

type dashboardPage struct {
	Username string
	IsAdmin  bool
	Users    []userResponse
	CSRF     string
}

func (h *WebHandler) Root(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/dashboard")
}

func (h *WebHandler) LoginForm(c echo.Context) error {
	if _, ok := authmw.FromContext(c); ok {
		return c.Redirect(http.StatusFound, "/dashboard")
	}
	csrf, _ := c.Get("csrf_token").(string)
	return c.Render(http.StatusOK, "login.html", loginPage{CSRF: csrf})
}

func (h *WebHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "web_login")
	csrf, _ := c.Get("csrf_token").(string)

	identifier := c.FormValue("usernameOrEmail")
	password := c.FormValue("password")
	autoCreate := c.FormValue("autoCreate") == "on" || c.FormValue("autoCreate") == "true"

	pair, err := h.Auth.LoginOrCreate(ctx, identifier, password, autoCreate)
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			msg = h.Loc.Tr(c, i18n.KeyInvalidCredentials)
		case errors.Is(err, service.ErrUserAlreadyExists):
			msg = h.Loc.Tr(c, i18n.KeyUserAlreadyExists)
		default:
			// never leak internals into the page
			l.Error("web_login_failed", "error", err)
			msg = h.Loc.Tr(c, i18n.KeyLoginError)
		}
		return c.Render(http.StatusOK, "login.html", loginPage{CSRF: csrf, Error: msg})
	}

	c.SetCookie(authmw.CreateCookie(authmw.SessionCookie, pair.AccessToken, "/", pair.AccessExp))
	l.Info("web_login_successful")
	return c.Redirect(http.StatusFound, "/dashboard")
}

func (h *WebHandler) Logout(c echo.Context) error {
	c.SetCookie(authmw.DeleteCookie(authmw.SessionCookie, "/"))
	return c.Redirect(http.StatusFound, "/login")
}

func (h *WebHandler) Dashboard(c echo.Context) error {
	principal, ok := authmw.FromContext(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/login")
	}

	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("dashboard_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}

	csrf, _ := c.Get("csrf_token").(string)
	return c.Render(http.StatusOK, "dashboard.html", dashboardPage{
		Username: principal.Username,
		IsAdmin:  principal.HasRole("Admin"),
		Users:    out,
		CSRF:     csrf,
	})
}
