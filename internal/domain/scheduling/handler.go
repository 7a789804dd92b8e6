package scheduling

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
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
	readGroup := api.Group("", auth.RequireRole("admin", "staff"))
	readGroup.GET("/holidays", h.ListHolidays)
	readGroup.GET("/calendar", h.GetCalendar)
	readGroup.GET("/calendar/day", h.GetDayDetails)
	readGroup.GET("/availability/slot", h.CheckSlot)
	readGroup.GET("/doctors/:id/holidays", h.ListDoctorHolidays)

	writeGroup := api.Group("", auth.RequireRole("admin"))
	writeGroup.POST("/holidays", h.AddHoliday)
	writeGroup.DELETE("/holidays/:id", h.DeleteHoliday)
	writeGroup.POST("/doctors/:id/holidays", h.AddDoctorHoliday)
	writeGroup.DELETE("/doctors/:id/holidays/:holidayID", h.DeleteDoctorHoliday)
}

func optionalDoctorID(c echo.Context) (*uuid.UUID, error) {
	raw := c.QueryParam("doctor_id")
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
	}
	return &id, nil
}

// -- Calendar Handlers --

func (h *Handler) GetCalendar(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	now := h.svc.now()
	year, month := now.Year(), int(now.Month())
	if v := c.QueryParam("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
	}
	if v := c.QueryParam("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid month")
		}
	}
	doctorID, err := optionalDoctorID(c)
	if err != nil {
		return err
	}
	grid, err := h.svc.BuildCalendar(c.Request().Context(), hospitalID, year, month, doctorID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, grid)
}

func (h *Handler) GetDayDetails(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	date, err := ParseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	doctorID, err := optionalDoctorID(c)
	if err != nil {
		return err
	}
	details, err := h.svc.DayDetails(c.Request().Context(), hospitalID, date, doctorID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, details)
}

func (h *Handler) CheckSlot(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	date, err := ParseDate(c.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	doctorID, err := optionalDoctorID(c)
	if err != nil {
		return err
	}
	raw := c.QueryParam("time")
	blocked, err := h.svc.Resolver().IsSlotBlockedAt(c.Request().Context(), hospitalID, date, raw, doctorID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"date":    date,
		"time":    raw,
		"blocked": blocked,
	})
}

// -- Holiday Handlers --

func (h *Handler) ListHolidays(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListHospitalHolidays(c.Request().Context(), hospitalID)
	if err != nil {
		return apperr.HTTP(err)
	}
	if items == nil {
		items = []*Holiday{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) AddHoliday(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	var in HolidayInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hol := in.Holiday()
	if err := h.svc.AddHospitalHoliday(c.Request().Context(), hospitalID, hol); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, hol)
}

func (h *Handler) DeleteHoliday(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteHospitalHoliday(c.Request().Context(), hospitalID, id); err != nil {
		return apperr.HTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListDoctorHolidays(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListDoctorHolidays(c.Request().Context(), hospitalID, doctorID)
	if err != nil {
		return apperr.HTTP(err)
	}
	if items == nil {
		items = []*Holiday{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) AddDoctorHoliday(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in HolidayInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hol := in.Holiday()
	if err := h.svc.AddDoctorHoliday(c.Request().Context(), hospitalID, doctorID, hol); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, hol)
}

func (h *Handler) DeleteDoctorHoliday(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	id, err := uuid.Parse(c.Param("holidayID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid holiday id")
	}
	if err := h.svc.DeleteDoctorHoliday(c.Request().Context(), hospitalID, doctorID, id); err != nil {
		return apperr.HTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
