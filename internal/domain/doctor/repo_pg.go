package doctor

import (
	"context"
	"errors"
	"fmt"

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

const doctorCols = `id, hospital_id, name, surname, specialty, bio, services, working_hours, image, is_active, created_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.HospitalID, &d.Name, &d.Surname, &d.Specialty, &d.Bio,
		&d.Services, &d.WorkingHours, &d.Image, &d.IsActive, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("doctor")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repoPG) List(ctx context.Context, hospitalID uuid.UUID, f Filter) ([]*Doctor, error) {
	query := `SELECT ` + doctorCols + ` FROM doctors WHERE hospital_id = $1`
	args := []interface{}{hospitalID}
	idx := 2

	if f.Active != nil {
		query += fmt.Sprintf(` AND is_active = $%d`, idx)
		args = append(args, *f.Active)
		idx++
	}
	if f.ServiceID != nil {
		query += fmt.Sprintf(` AND $%d = ANY(services)`, idx)
		args = append(args, *f.ServiceID)
		idx++
	}
	if f.Search != "" {
		query += fmt.Sprintf(` AND (name || ' ' || surname || ' ' || specialty) ILIKE $%d`, idx)
		args = append(args, "%"+f.Search+"%")
	}
	query += ` ORDER BY name, surname`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, hospitalID, id uuid.UUID) (*Doctor, error) {
	return scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE hospital_id = $1 AND id = $2`, hospitalID, id))
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	if d.Services == nil {
		d.Services = []uuid.UUID{}
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctors (id, hospital_id, name, surname, specialty, bio, services, working_hours, image, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`,
		d.ID, d.HospitalID, d.Name, d.Surname, d.Specialty, d.Bio, d.Services, d.WorkingHours, d.Image, d.IsActive,
	).Scan(&d.CreatedAt)
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	if d.Services == nil {
		d.Services = []uuid.UUID{}
	}
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctors SET name = $3, surname = $4, specialty = $5, bio = $6, services = $7,
			working_hours = $8, image = $9, is_active = $10
		WHERE hospital_id = $1 AND id = $2`,
		d.HospitalID, d.ID, d.Name, d.Surname, d.Specialty, d.Bio, d.Services, d.WorkingHours, d.Image, d.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("doctor")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, hospitalID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctors WHERE hospital_id = $1 AND id = $2`, hospitalID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("doctor")
	}
	return nil
}
