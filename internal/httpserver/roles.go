package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/multilingual_crud/internal/i18n"
	"github.com/Skotchmaster/multilingual_crud/internal/logging"
	"github.com/Skotchmaster/multilingual_crud/internal/service"
)

type RolesHandler struct {
	Svc *service.RoleService
	Loc *i18n.Localizer
}

func (h *RolesHandler) List(c echo.Context) error {
	roles, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, roles)
}

func (h *RolesHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "roles_create")

	var req createRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, h.Loc.Tr(c, i18n.KeyInvalidBody))
	}

	role, err := h.Svc.Create(ctx, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, service.ErrRoleExists) {
			return echo.NewHTTPError(http.StatusBadRequest, h.Loc.Tr(c, i18n.KeyRoleAlreadyExists))
		}
		l.Error("create_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, role)
}

func (h *RolesHandler) Delete(c echo.Context) error {
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
