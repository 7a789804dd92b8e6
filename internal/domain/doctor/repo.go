package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	List(ctx context.Context, hospitalID uuid.UUID, f Filter) ([]*Doctor, error)
	GetByID(ctx context.Context, hospitalID, id uuid.UUID) (*Doctor, error)
	Create(ctx context.Context, d *Doctor) error
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, hospitalID, id uuid.UUID) error
}
