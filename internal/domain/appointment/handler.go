package appointment

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
	"github.com/CemBlt/dent-admin-app/internal/platform/auth"
	"github.com/CemBlt/dent-admin-app/internal/platform/tenant"
	"github.com/CemBlt/dent-admin-app/pkg/apperr"
	"github.com/CemBlt/dent-admin-app/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "staff"))
	readGroup.GET("/appointments", h.ListAppointments)
	readGroup.GET("/appointments/summary", h.GetSummary)
	readGroup.GET("/appointments/:id", h.GetAppointment)

	writeGroup := api.Group("", auth.RequireRole("admin", "staff"))
	writeGroup.PATCH("/appointments/:id", h.UpdateAppointment)

	adminGroup := api.Group("", auth.RequireRole("admin"))
	adminGroup.DELETE("/appointments/:id", h.DeleteAppointment)
	adminGroup.POST("/appointments/sweep", h.SweepOverdue)
}

// FilterFromQuery reads status, doctor_id, service_id, date_from and date_to.
func FilterFromQuery(c echo.Context) (Filter, error) {
	var f Filter
	if v := c.QueryParam("status"); v != "" {
		st, err := ParseStatus(v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		f.Status = st
	}
	if v := c.QueryParam("doctor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
		}
		f.DoctorID = &id
	}
	if v := c.QueryParam("service_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid service_id")
		}
		f.ServiceID = &id
	}
	if v := c.QueryParam("date_from"); v != "" {
		d, err := scheduling.ParseDate(v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid date_from")
		}
		f.From = d
	}
	if v := c.QueryParam("date_to"); v != "" {
		d, err := scheduling.ParseDate(v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid date_to")
		}
		f.To = d
	}
	return f, nil
}

func (h *Handler) ListAppointments(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	f, err := FilterFromQuery(c)
	if err != nil {
		return err
	}
	pg, err := pagination.Parse(c)
	if err != nil {
		return apperr.HTTP(err)
	}
	items, total, err := h.svc.List(c.Request().Context(), hospitalID, f, pg.Limit(), pg.Offset())
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) GetSummary(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	sum, err := h.svc.Summary(c.Request().Context(), hospitalID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *Handler) GetAppointment(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), hospitalID, id)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) UpdateAppointment(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Patch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Update(c.Request().Context(), hospitalID, id, p)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) DeleteAppointment(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), hospitalID, id); err != nil {
		return apperr.HTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SweepOverdue(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	n, err := h.svc.AutoCancelOverdue(c.Request().Context(), hospitalID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"cancelled": n,
		"cutoff":    h.svc.Cutoff(),
	})
}
