package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

// MedicalService is an entry of the global treatment catalog.
type MedicalService struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

// Input is the create/update payload. A nil Price keeps the stored price on
// update and means 0 on create.
type Input struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
}

func (in *Input) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return apperr.Invalid("name", "name is required")
	}
	if len(in.Name) > 200 {
		return apperr.Invalid("name", "name must be at most 200 characters")
	}
	if in.Price != nil && *in.Price < 0 {
		return apperr.Invalid("price", "price must not be negative")
	}
	return nil
}

func (in Input) apply(s *MedicalService) {
	s.Name = in.Name
	s.Description = in.Description
	if in.Price != nil {
		s.Price = *in.Price
	}
}
