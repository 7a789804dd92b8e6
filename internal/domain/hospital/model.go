package hospital

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

// MaxGalleryImages caps the hospital gallery.
const MaxGalleryImages = 5

type Hospital struct {
	ID               uuid.UUID               `json:"id"`
	Name             string                  `json:"name"`
	Address          string                  `json:"address"`
	Latitude         float64                 `json:"latitude"`
	Longitude        float64                 `json:"longitude"`
	Phone            string                  `json:"phone"`
	Email            string                  `json:"email"`
	Description      string                  `json:"description"`
	Image            string                  `json:"image"`
	Gallery          []string                `json:"gallery"`
	Services         []uuid.UUID             `json:"services"`
	WorkingHours     scheduling.WorkingHours `json:"working_hours"`
	ProvinceID       string                  `json:"province_id"`
	ProvinceName     string                  `json:"province_name"`
	DistrictID       string                  `json:"district_id"`
	DistrictName     string                  `json:"district_name"`
	NeighborhoodID   string                  `json:"neighborhood_id"`
	NeighborhoodName string                  `json:"neighborhood_name"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// GeneralInfo is the profile form.
type GeneralInfo struct {
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	Description    string  `json:"description"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	ProvinceID     string  `json:"province_id"`
	DistrictID     string  `json:"district_id"`
	NeighborhoodID string  `json:"neighborhood_id"`
}

func (g *GeneralInfo) Validate() error {
	g.Name = strings.TrimSpace(g.Name)
	g.Phone = strings.TrimSpace(g.Phone)
	g.Email = strings.TrimSpace(g.Email)
	if g.Name == "" {
		return apperr.Invalid("name", "name is required")
	}
	if g.Phone == "" {
		return apperr.Invalid("phone", "phone is required")
	}
	if _, err := mail.ParseAddress(g.Email); err != nil {
		return apperr.Invalid("email", "invalid email address")
	}
	if g.Latitude < -90 || g.Latitude > 90 {
		return apperr.Invalid("latitude", "latitude must be between -90 and 90")
	}
	if g.Longitude < -180 || g.Longitude > 180 {
		return apperr.Invalid("longitude", "longitude must be between -180 and 180")
	}
	return nil
}
