package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/multilingual_crud/internal/bootstrap"
	"github.com/Skotchmaster/multilingual_crud/internal/config"
	"github.com/Skotchmaster/multilingual_crud/internal/i18n"
	authmw "github.com/Skotchmaster/multilingual_crud/internal/middleware/auth"
	"github.com/Skotchmaster/multilingual_crud/internal/repo"
	"github.com/Skotchmaster/multilingual_crud/internal/service"
	"github.com/Skotchmaster/multilingual_crud/internal/tokens"
)

const (
	seedAdminEmail    = "admin@example.com"
	seedAdminPassword = "Admin@12345"
)

type testEnv struct {
	e   *echo.Echo
	db  *gorm.DB
	loc *i18n.Localizer
}

type stubRenderer struct {
	tmpl *template.Template
}

func (r *stubRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		SeedAdminEmail:    seedAdminEmail,
		SeedAdminUsername: "admin",
		SeedAdminPassword: seedAdminPassword,
		SupportedLocales:  []string{"en", "hi", "bn"},
	}
	require.NoError(t, bootstrap.Run(context.Background(), db, cfg))

	issuer := &tokens.Issuer{
		Secret:   []byte("test-jwt-secret"),
		Issuer:   "test",
		Audience: "test-clients",
	}
	loc := i18n.New(cfg.SupportedLocales)
	r := repo.New(db)

	authSvc := &service.AuthService{Repo: r, Issuer: issuer}
	userSvc := &service.UserService{Repo: r}
	roleSvc := &service.RoleService{Repo: r}

	e := echo.New()
	e.Renderer = &stubRenderer{tmpl: template.Must(template.New("").Parse(
		`{{define "login.html"}}login error={{.Error}} csrf={{.CSRF}}{{end}}` +
			`{{define "dashboard.html"}}dashboard user={{.Username}} admin={{.IsAdmin}}{{end}}`,
	))}

	deps := Deps{
		AuthHandler:  &AuthHandler{Svc: authSvc, Loc: loc},
		UsersHandler: &UsersHandler{Svc: userSvc, Loc: loc},
		RolesHandler: &RolesHandler{Svc: roleSvc, Loc: loc},
		WebHandler:   &WebHandler{Auth: authSvc, Users: userSvc, Loc: loc},
		AuthMW:       authmw.NewMiddleware(issuer, loc),
		LocaleMW:     loc.Middleware(),
	}
	Register(e, &deps)

	return &testEnv{e: e, db: db, loc: loc}
}

func (env *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) login(t *testing.T, identifier, password string) authResponse {
	rec := env.do(http.MethodPost, "/api/auth/login", "", echo.Map{
		"usernameOrEmail": identifier,
		"password":        password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	return resp
}

func userPath(id uint) string { return fmt.Sprintf("/api/users/%d", id) }
func rolePath(id uint) string { return fmt.Sprintf("/api/roles/%d", id) }

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/health/ready", "", nil).Code)
}

func TestLoginEndpoint_SeedAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, seedAdminEmail, seedAdminPassword)
	env.login(t, "admin", seedAdminPassword)
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/auth/login", "", echo.Map{
		"usernameOrEmail": seedAdminEmail,
		"password":        "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), env.loc.T("en", i18n.KeyInvalidCredentials))
}

func TestLoginEndpoint_LocalizedError(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/auth/login?lang=hi", "", echo.Map{
		"usernameOrEmail": seedAdminEmail,
		"password":        "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), env.loc.T("hi", i18n.KeyInvalidCredentials))
}

func TestLoginOrCreateEndpoint_NoEnumeration(t *testing.T) {
	env := newTestEnv(t)

	wrongPw := env.do(http.MethodPost, "/api/auth/login-or-create", "", echo.Map{
		"usernameOrEmail": seedAdminEmail,
		"password":        "wrong",
	})
	unknown := env.do(http.MethodPost, "/api/auth/login-or-create", "", echo.Map{
		"usernameOrEmail": "nobody",
		"password":        "whatever",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	require.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrongPw.Body.String(), unknown.Body.String())
}

func TestLoginOrCreateEndpoint_AutoCreate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/auth/login-or-create", "", echo.Map{
		"usernameOrEmail": "newbie@x.com",
		"password":        "secret",
		"autoCreate":      true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// the derived credentials work on plain login afterwards
	env.login(t, "newbie", "secret")
}

func TestRefreshEndpoint(t *testing.T) {
	env := newTestEnv(t)
	pair := env.login(t, seedAdminEmail, seedAdminPassword)

	rec := env.do(http.MethodPost, "/api/auth/refresh", "", echo.Map{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, pair.RefreshToken, resp.RefreshToken)
	assert.NotEmpty(t, resp.AccessToken)

	rec = env.do(http.MethodPost, "/api/auth/refresh", "", echo.Map{"refreshToken": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutEndpoint_RevokesRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	pair := env.login(t, seedAdminEmail, seedAdminPassword)

	rec := env.do(http.MethodPost, "/api/auth/logout", "", echo.Map{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), env.loc.T("en", i18n.KeyLoggedOut))

	rec = env.do(http.MethodPost, "/api/auth/refresh", "", echo.Map{"refreshToken": pair.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEndToEnd_AdminCreatesUserWhoLogsIn(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, seedAdminEmail, seedAdminPassword)

	rec := env.do(http.MethodPost, "/api/users", admin.AccessToken, echo.Map{
		"username": "carol",
		"email":    "carol@example.com",
		"password": "carolpw",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	carol := env.login(t, "carol", "carolpw")

	rec = env.do(http.MethodGet, "/api/users", carol.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 2)

	// carol has no admin role, so creating users is off limits
	rec = env.do(http.MethodPost, "/api/users", carol.AccessToken, echo.Map{
		"username": "dave",
		"email":    "dave@example.com",
		"password": "davepw",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProtectedRoutes_RequireAuth(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/users", "/api/roles"} {
		rec := env.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}
