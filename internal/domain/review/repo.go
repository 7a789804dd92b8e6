package review

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// ListItems returns every review of the hospital with its rating and
	// names, newest first.
	ListItems(ctx context.Context, hospitalID uuid.UUID) ([]*Item, error)
	GetByID(ctx context.Context, hospitalID, id uuid.UUID) (*Review, error)
	SetReply(ctx context.Context, hospitalID, id uuid.UUID, reply *string, repliedAt *time.Time) error
	// HospitalRatings returns every hospital score given to the hospital.
	HospitalRatings(ctx context.Context, hospitalID uuid.UUID) ([]int, error)
}
