package hospital

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CemBlt/dent-admin-app/internal/platform/db"
	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const hospitalCols = `id, name, address, latitude, longitude, phone, email, description,
	image, gallery, services, working_hours,
	province_id, province_name, district_id, district_name, neighborhood_id, neighborhood_name,
	created_at, updated_at`

func scanHospital(row pgx.Row) (*Hospital, error) {
	var h Hospital
	err := row.Scan(&h.ID, &h.Name, &h.Address, &h.Latitude, &h.Longitude, &h.Phone, &h.Email, &h.Description,
		&h.Image, &h.Gallery, &h.Services, &h.WorkingHours,
		&h.ProvinceID, &h.ProvinceName, &h.DistrictID, &h.DistrictName, &h.NeighborhoodID, &h.NeighborhoodName,
		&h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("hospital")
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error) {
	return scanHospital(r.conn(ctx).QueryRow(ctx, `SELECT `+hospitalCols+` FROM hospitals WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context) ([]*Hospital, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+hospitalCols+` FROM hospitals ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Hospital
	for rows.Next() {
		h, err := scanHospital(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, rows.Err()
}

func (r *repoPG) Create(ctx context.Context, h *Hospital) error {
	h.ID = uuid.New()
	if h.Gallery == nil {
		h.Gallery = []string{}
	}
	if h.Services == nil {
		h.Services = []uuid.UUID{}
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO hospitals (id, name, address, latitude, longitude, phone, email, description,
			image, gallery, services, working_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`,
		h.ID, h.Name, h.Address, h.Latitude, h.Longitude, h.Phone, h.Email, h.Description,
		h.Image, h.Gallery, h.Services, h.WorkingHours,
	).Scan(&h.CreatedAt, &h.UpdatedAt)
}

func (r *repoPG) Update(ctx context.Context, h *Hospital) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE hospitals SET
			name = $2, address = $3, latitude = $4, longitude = $5, phone = $6, email = $7,
			description = $8, image = $9, gallery = $10, services = $11, working_hours = $12,
			province_id = $13, province_name = $14, district_id = $15, district_name = $16,
			neighborhood_id = $17, neighborhood_name = $18, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		h.ID, h.Name, h.Address, h.Latitude, h.Longitude, h.Phone, h.Email,
		h.Description, h.Image, h.Gallery, h.Services, h.WorkingHours,
		h.ProvinceID, h.ProvinceName, h.DistrictID, h.DistrictName,
		h.NeighborhoodID, h.NeighborhoodName,
	).Scan(&h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("hospital")
	}
	return err
}

func (r *repoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM hospitals WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}
