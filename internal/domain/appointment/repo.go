package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
)

type Repository interface {
	GetByID(ctx context.Context, hospitalID, id uuid.UUID) (*Appointment, error)
	// Search returns matching appointments newest first. limit <= 0 returns all.
	Search(ctx context.Context, hospitalID uuid.UUID, f Filter, limit, offset int) ([]*Appointment, int, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, hospitalID, id uuid.UUID) error
	// ListOverdue returns pending appointments dated strictly before cutoff.
	ListOverdue(ctx context.Context, hospitalID uuid.UUID, cutoff scheduling.Date) ([]*Appointment, error)
	Summary(ctx context.Context, hospitalID uuid.UUID, today scheduling.Date) (*Summary, error)
	CountByService(ctx context.Context, hospitalID uuid.UUID) (map[uuid.UUID]int, error)
}

// ContactLookup resolves where hospital-level notifications go.
type ContactLookup interface {
	ContactEmail(ctx context.Context, hospitalID uuid.UUID) (string, error)
}
