package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CemBlt/dent-admin-app/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) Get(ctx context.Context, hospitalID uuid.UUID) (Settings, error) {
	var raw []byte
	err := r.conn(ctx).QueryRow(ctx, `SELECT data FROM panel_settings WHERE hospital_id = $1`, hospitalID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

func (r *repoPG) Save(ctx context.Context, hospitalID uuid.UUID, s Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx, `
		INSERT INTO panel_settings (hospital_id, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (hospital_id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		hospitalID, raw)
	return err
}

// tenantTables are scoped by hospital_id; globalTables are shared.
var (
	tenantTables = []string{"appointments", "doctors", "holidays", "reviews", "ratings"}
	globalTables = []string{"services", "users"}
)

type dataSourcePG struct{ pool *pgxpool.Pool }

func NewDataSourcePG(pool *pgxpool.Pool) DataSource { return &dataSourcePG{pool: pool} }

func (r *dataSourcePG) conn(ctx context.Context) db.Querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *dataSourcePG) Counts(ctx context.Context, hospitalID uuid.UUID) (map[string]int, error) {
	out := make(map[string]int, len(tenantTables)+len(globalTables))
	q := r.conn(ctx)
	for _, t := range tenantTables {
		var n int
		if err := q.QueryRow(ctx, `SELECT count(*) FROM `+t+` WHERE hospital_id = $1`, hospitalID).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", t, err)
		}
		out[t] = n
	}
	for _, t := range globalTables {
		var n int
		if err := q.QueryRow(ctx, `SELECT count(*) FROM `+t).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", t, err)
		}
		out[t] = n
	}
	return out, nil
}

func (r *dataSourcePG) Dump(ctx context.Context, hospitalID uuid.UUID) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(tenantTables)+len(globalTables)+1)
	q := r.conn(ctx)
	dump := func(name, query string, args ...interface{}) error {
		var raw []byte
		if err := q.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
			return fmt.Errorf("dump %s: %w", name, err)
		}
		out[name] = raw
		return nil
	}
	if err := dump("hospital", `SELECT to_jsonb(h) FROM hospitals h WHERE h.id = $1`, hospitalID); err != nil {
		return nil, err
	}
	for _, t := range tenantTables {
		if err := dump(t, `SELECT COALESCE(jsonb_agg(to_jsonb(x)), '[]'::jsonb) FROM `+t+` x WHERE x.hospital_id = $1`, hospitalID); err != nil {
			return nil, err
		}
	}
	for _, t := range globalTables {
		query := `SELECT COALESCE(jsonb_agg(to_jsonb(x)), '[]'::jsonb) FROM ` + t + ` x`
		if t == "users" {
			// Only patients with an appointment at this hospital.
			query += ` WHERE x.id IN (SELECT user_id FROM appointments WHERE hospital_id = $1)`
			if err := dump(t, query, hospitalID); err != nil {
				return nil, err
			}
			continue
		}
		if err := dump(t, query); err != nil {
			return nil, err
		}
	}
	return out, nil
}
