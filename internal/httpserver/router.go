package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/multilingual_crud/internal/middleware/auth"
	"github.com/Skotchmaster/multilingual_crud/internal/middleware/csrf"
)

type Deps struct {
	AuthHandler  *AuthHandler
	UsersHandler *UsersHandler
	RolesHandler *RolesHandler
	WebHandler   *WebHandler
	AuthMW       *authmw.Middleware
	LocaleMW     echo.MiddlewareFunc
	StaticDir    string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api", d.LocaleMW, d.AuthMW.ResolvePrincipal)

	auth := api.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/login-or-create", d.AuthHandler.LoginOrCreate)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout)

	users := api.Group("/users", d.AuthMW.RequireAuth)
	users.GET("", d.UsersHandler.List)
	users.GET("/search", d.UsersHandler.SearchUsers)
	users.POST("", d.UsersHandler.Create, d.AuthMW.RequireAdmin)
	users.PUT("/:id", d.UsersHandler.Update)
	users.DELETE("/:id", d.UsersHandler.Delete, d.AuthMW.RequireAdmin)

	roles := api.Group("/roles", d.AuthMW.RequireAuth)
	roles.GET("", d.RolesHandler.List)
	roles.POST("", d.RolesHandler.Create, d.AuthMW.RequireAdmin)
	roles.DELETE("/:id", d.RolesHandler.Delete, d.AuthMW.RequireAdmin)

	web := e.Group("", d.LocaleMW, d.AuthMW.ResolvePrincipal, csrf.Middleware())
	web.GET("/", d.WebHandler.Root)
	web.GET("/login", d.WebHandler.LoginForm)
	web.POST("/login", d.WebHandler.Login)
	web.POST("/logout", d.WebHandler.Logout)
	web.GET("/dashboard", d.WebHandler.Dashboard)

	if d.StaticDir != "" {
		e.Static("/static", d.StaticDir)
	}
}
