package doctor

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

type Doctor struct {
	ID           uuid.UUID               `json:"id"`
	HospitalID   uuid.UUID               `json:"hospital_id"`
	Name         string                  `json:"name"`
	Surname      string                  `json:"surname"`
	Specialty    string                  `json:"specialty"`
	Bio          string                  `json:"bio"`
	Services     []uuid.UUID             `json:"services"`
	WorkingHours scheduling.WorkingHours `json:"working_hours"`
	Image        string                  `json:"image"`
	IsActive     bool                    `json:"is_active"`
	CreatedAt    time.Time               `json:"created_at"`
}

func (d *Doctor) FullName() string {
	return strings.TrimSpace(d.Name + " " + d.Surname)
}

// Input is the create/update form. IsActive defaults to true on create and
// keeps the stored value on update when omitted.
type Input struct {
	Name      string      `json:"name"`
	Surname   string      `json:"surname"`
	Specialty string      `json:"specialty"`
	Bio       string      `json:"bio"`
	Services  []uuid.UUID `json:"services"`
	IsActive  *bool       `json:"is_active"`
}

func (in *Input) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.Specialty = strings.TrimSpace(in.Specialty)
	in.Bio = strings.TrimSpace(in.Bio)
	if in.Name == "" {
		return apperr.Invalid("name", "name is required")
	}
	if in.Surname == "" {
		return apperr.Invalid("surname", "surname is required")
	}
	if in.Specialty == "" {
		return apperr.Invalid("specialty", "specialty is required")
	}
	return nil
}

type Filter struct {
	Active    *bool
	ServiceID *uuid.UUID
	Search    string
}
