package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/CemBlt/dent-admin-app/internal/platform/auth"
	"github.com/CemBlt/dent-admin-app/internal/platform/tenant"
	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/dashboard", h.GetDashboard, auth.RequireRole("admin", "staff"))
}

func (h *Handler) GetDashboard(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	d, err := h.svc.Build(c.Request().Context(), hospitalID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, d)
}
