package location

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/CemBlt/dent-admin-app/internal/platform/auth"
)

type Handler struct {
	dir *Directory
}

func NewHandler(dir *Directory) *Handler {
	return &Handler{dir: dir}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/locations", auth.RequireRole("admin", "staff"))
	g.GET("/provinces", h.ListProvinces)
	g.GET("/provinces/:id/districts", h.ListDistricts)
	g.GET("/districts/:id/neighborhoods", h.ListNeighborhoods)
}

func (h *Handler) ListProvinces(c echo.Context) error {
	return c.JSON(http.StatusOK, h.dir.Provinces(c.Request().Context()))
}

func (h *Handler) ListDistricts(c echo.Context) error {
	if _, ok := h.dir.data.Province(c.Param("id")); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "province not found")
	}
	return c.JSON(http.StatusOK, h.dir.Districts(c.Request().Context(), c.Param("id")))
}

func (h *Handler) ListNeighborhoods(c echo.Context) error {
	if _, ok := h.dir.data.District(c.Param("id")); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "district not found")
	}
	return c.JSON(http.StatusOK, h.dir.Neighborhoods(c.Request().Context(), c.Param("id")))
}
