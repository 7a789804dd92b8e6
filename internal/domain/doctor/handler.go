package doctor

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
	"github.com/CemBlt/dent-admin-app/internal/platform/auth"
	"github.com/CemBlt/dent-admin-app/internal/platform/blobstore"
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
	readGroup := api.Group("/doctors", auth.RequireRole("admin", "staff"))
	readGroup.GET("", h.ListDoctors)
	readGroup.GET("/:id", h.GetDoctor)

	writeGroup := api.Group("/doctors", auth.RequireRole("admin"))
	writeGroup.POST("", h.CreateDoctor)
	writeGroup.PUT("/:id", h.UpdateDoctor)
	writeGroup.DELETE("/:id", h.DeleteDoctor)
	writeGroup.PUT("/:id/working-hours", h.UpdateWorkingHours)
	writeGroup.PUT("/:id/active", h.SetActive)
	writeGroup.POST("/:id/image", h.UploadImage)
}

func pathIDs(c echo.Context) (uuid.UUID, uuid.UUID, error) {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return hospitalID, id, nil
}

func (h *Handler) ListDoctors(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	f := Filter{Search: c.QueryParam("q")}
	if v := c.QueryParam("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid active")
		}
		f.Active = &active
	}
	if v := c.QueryParam("service_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid service_id")
		}
		f.ServiceID = &id
	}
	items, err := h.svc.List(c.Request().Context(), hospitalID, f)
	if err != nil {
		return apperr.HTTP(err)
	}
	if items == nil {
		items = []*Doctor{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	hospitalID, id, err := pathIDs(c)
	if err != nil {
		return err
	}
	d, err := h.svc.Get(c.Request().Context(), hospitalID, id)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.Create(c.Request().Context(), hospitalID, in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) UpdateDoctor(c echo.Context) error {
	hospitalID, id, err := pathIDs(c)
	if err != nil {
		return err
	}
	var in Input
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.Update(c.Request().Context(), hospitalID, id, in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDoctor(c echo.Context) error {
	hospitalID, id, err := pathIDs(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), hospitalID, id); err != nil {
		return apperr.HTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) UpdateWorkingHours(c echo.Context) error {
	hospitalID, id, err := pathIDs(c)
	if err != nil {
		return err
	}
	var hours scheduling.WorkingHours
	if err := c.Bind(&hours); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.UpdateWorkingHours(c.Request().Context(), hospitalID, id, hours)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) SetActive(c echo.Context) error {
	hospitalID, id, err := pathIDs(c)
	if err != nil {
		return err
	}
	var body struct {
		IsActive *bool `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.IsActive == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "is_active is required")
	}
	d, err := h.svc.SetActive(c.Request().Context(), hospitalID, id, *body.IsActive)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) UploadImage(c echo.Context) error {
	hospitalID, id, err := pathIDs(c)
	if err != nil {
		return err
	}
	up, closer, err := blobstore.FormFile(c, "file")
	if err != nil {
		return err
	}
	defer closer.Close()
	d, err := h.svc.UploadImage(c.Request().Context(), hospitalID, id, up)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.HTTP(err)
		}
		return blobstore.HTTPError(err)
	}
	return c.JSON(http.StatusOK, d)
}
