package settings

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/CemBlt/dent-admin-app/internal/domain/appointment"
	"github.com/CemBlt/dent-admin-app/internal/platform/auth"
	"github.com/CemBlt/dent-admin-app/internal/platform/tenant"
	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("/settings", auth.RequireRole("admin", "staff"))
	readGroup.GET("", h.GetSettings)

	adminGroup := api.Group("/settings", auth.RequireRole("admin"))
	adminGroup.PUT("/:category", h.UpdateCategory)
	adminGroup.GET("/stats", h.GetStats)
	adminGroup.GET("/export", h.ExportJSON)
	adminGroup.GET("/export/appointments.xlsx", h.ExportAppointments)
}

func (h *Handler) GetSettings(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	s, err := h.svc.Get(c.Request().Context(), hospitalID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) UpdateCategory(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	var updates map[string]any
	dec := json.NewDecoder(c.Request().Body)
	dec.UseNumber()
	if err := dec.Decode(&updates); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
	}
	s, err := h.svc.Update(c.Request().Context(), hospitalID, c.Param("category"), updates)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) GetStats(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	st, err := h.svc.Stats(c.Request().Context(), hospitalID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) ExportJSON(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	exp, err := h.svc.Export(c.Request().Context(), hospitalID)
	if err != nil {
		return apperr.HTTP(err)
	}
	name := fmt.Sprintf("panel-export-%s.json", exp.ExportedAt.Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.JSONPretty(http.StatusOK, exp, "  ")
}

func (h *Handler) ExportAppointments(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	f, err := appointment.FilterFromQuery(c)
	if err != nil {
		return err
	}
	data, err := h.svc.ExportAppointments(c.Request().Context(), hospitalID, f)
	if err != nil {
		return apperr.HTTP(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="randevular.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, data)
}
