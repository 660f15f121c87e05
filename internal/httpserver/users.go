package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/multilingual_crud/internal/es"
	"github.com/Skotchmaster/multilingual_crud/internal/i18n"
	"github.com/Skotchmaster/multilingual_crud/internal/logging"
	authmw "github.com/Skotchmaster/multilingual_crud/internal/middleware/auth"
	"github.com/Skotchmaster/multilingual_crud/internal/service"
	"github.com/Skotchmaster/multilingual_crud/internal/util"
)

type UsersHandler struct {
	Svc    *service.UserService
	Search *es.UserIndex
	Loc    *i18n.Localizer
}

func (h *UsersHandler) List(c echo.Context) error {
	users, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UsersHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_create")

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, h.Loc.Tr(c, i18n.KeyInvalidBody))
	}

	user, err := h.Svc.Create(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusBadRequest, h.Loc.Tr(c, i18n.KeyEmailAlreadyExists))
		}
		l.Error("create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, userShortResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}

// Update lets an admin edit anyone and everyone else edit only themselves.
// A missing target reads as 404 before the permission check, matching the
// read semantics of the route.
func (h *UsersHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_update")

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, h.Loc.Tr(c, i18n.KeyNotFound))
	}

	if _, err := h.Svc.Get(ctx, uint(id)); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, h.Loc.Tr(c, i18n.KeyNotFound))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	principal, _ := authmw.FromContext(c)
	if !principal.HasRole("Admin") && principal.ID != uint(id) {
		l.Warn("update_forbidden", "status", 403, "target_id", id, "principal_id", principal.ID)
		return echo.NewHTTPError(http.StatusForbidden, h.Loc.Tr(c, i18n.KeyForbidden))
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, h.Loc.Tr(c, i18n.KeyInvalidBody))
	}

	user, err := h.Svc.Update(ctx, uint(id), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, h.Loc.Tr(c, i18n.KeyNotFound))
		case errors.Is(err, service.ErrEmailTaken):
			return echo.NewHTTPError(http.StatusBadRequest, h.Loc.Tr(c, i18n.KeyEmailAlreadyExists))
		}
		l.Error("update_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, userShortResponse{ID: user.ID, Username: user.Username, Email: user.Email})
}

func (h *UsersHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, h.Loc.Tr(c, i18n.KeyNotFound))
	}

	if err := h.Svc.Delete(ctx, uint(id)); err != nil {
		logging.FromContext(ctx).Error("delete_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *UsersHandler) SearchUsers(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, h.Loc.Tr(c, i18n.KeyInvalidBody))
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	total, users, err := h.Search.Search(c.Request().Context(), q, from, size)
	if err != nil {
		logging.FromContext(c.Request().Context()).Error("search_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "users": users})
}
