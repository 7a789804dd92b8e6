package settings

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

type Repository interface {
	// Get returns the stored settings, or nil when none were saved.
	Get(ctx context.Context, hospitalID uuid.UUID) (Settings, error)
	Save(ctx context.Context, hospitalID uuid.UUID, s Settings) error
}

// DataSource reads tenant data for statistics and export.
type DataSource interface {
	// Counts returns row counts keyed by table name.
	Counts(ctx context.Context, hospitalID uuid.UUID) (map[string]int, error)
	// Dump returns each table's rows as a JSON array keyed by table name.
	Dump(ctx context.Context, hospitalID uuid.UUID) (map[string]json.RawMessage, error)
}
