package hospital

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
	readGroup := api.Group("/hospital", auth.RequireRole("admin", "staff"))
	readGroup.GET("", h.GetHospital)

	writeGroup := api.Group("/hospital", auth.RequireRole("admin"))
	writeGroup.PUT("", h.UpdateGeneralInfo)
	writeGroup.PUT("/services", h.ReplaceServices)
	writeGroup.PUT("/working-hours", h.UpdateWorkingHours)
	writeGroup.POST("/logo", h.UploadLogo)
	writeGroup.POST("/gallery", h.AddGalleryImage)
	writeGroup.DELETE("/gallery/:index", h.RemoveGalleryImage)
}

// uploadError maps media and domain errors from an upload.
func uploadError(err error) error {
	if apperr.IsNotFound(err) || apperr.IsValidation(err) {
		return apperr.HTTP(err)
	}
	return blobstore.HTTPError(err)
}

func (h *Handler) GetHospital(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	hosp, err := h.svc.Get(c.Request().Context(), hospitalID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) UpdateGeneralInfo(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	var in GeneralInfo
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hosp, err := h.svc.UpdateGeneralInfo(c.Request().Context(), hospitalID, in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) ReplaceServices(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	var body struct {
		ServiceIDs []uuid.UUID `json:"service_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hosp, err := h.svc.ReplaceServices(c.Request().Context(), hospitalID, body.ServiceIDs)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) UpdateWorkingHours(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	var hours scheduling.WorkingHours
	if err := c.Bind(&hours); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hosp, err := h.svc.UpdateWorkingHours(c.Request().Context(), hospitalID, hours)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) UploadLogo(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	up, closer, err := blobstore.FormFile(c, "file")
	if err != nil {
		return err
	}
	defer closer.Close()
	hosp, err := h.svc.UploadLogo(c.Request().Context(), hospitalID, up)
	if err != nil {
		return uploadError(err)
	}
	return c.JSON(http.StatusOK, hosp)
}

func (h *Handler) AddGalleryImage(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	up, closer, err := blobstore.FormFile(c, "file")
	if err != nil {
		return err
	}
	defer closer.Close()
	hosp, err := h.svc.AddGalleryImage(c.Request().Context(), hospitalID, up)
	if err != nil {
		return uploadError(err)
	}
	return c.JSON(http.StatusCreated, hosp)
}

func (h *Handler) RemoveGalleryImage(c echo.Context) error {
	hospitalID, err := tenant.Require(c)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid index")
	}
	hosp, err := h.svc.RemoveGalleryImage(c.Request().Context(), hospitalID, index)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, hosp)
}
