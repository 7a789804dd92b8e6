package hospital

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	Create(ctx context.Context, h *Hospital) error
	// Update writes every mutable column of h.
	Update(ctx context.Context, h *Hospital) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context) ([]*Hospital, error)
}
