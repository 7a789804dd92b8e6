package review

import (
	"net/http"
	"strconv"

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
	readGroup := api.Group("/reviews", auth.RequireRole("admin", "staff"))
	readGroup.GET("", h.ListReviews)
	readGroup.GET("/stats", h.GetStats)

	writeGroup := api.Group("/reviews", auth.RequireRole("admin"))
	writeGroup.PUT("/:id/reply", h.Reply)
	writeGroup.DELETE("/:id/reply", h.DeleteReply)
}

func filterFromQuery(c echo.Context) (Filter, error) {
	var f Filter
	if v := c.QueryParam("doctor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
		}
		f.DoctorID = &id
	}
	for name, dst := range map[string]**float64{"min_rating": &f.MinRating, "max_rating": &f.MaxRating} {
		if v := c.QueryParam(name); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return f, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
			}
			*dst = &n
		}
	}
	for name, dst := range map[string]*scheduling.Date{"date_from": &f.From, "date_to": &f.To} {
		if v := c.QueryParam(name); v != "" {
			d, err := scheduling.ParseDate(v)
			if err != nil {
				return f, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
			}
			*dst = d
		}
	}
	if v := c.QueryParam("has_reply"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "invalid has_reply")
		}
		f.HasReply = &b
	}
	return f, nil
}

func (h *Handler) ListReviews(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	f, err := filterFromQuery(c)
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

func (h *Handler) Reply(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Reply string `json:"reply"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rv, err := h.svc.Reply(c.Request().Context(), hospitalID, id, body.Reply)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, rv)
}

func (h *Handler) DeleteReply(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rv, err := h.svc.DeleteReply(c.Request().Context(), hospitalID, id)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, rv)
}
