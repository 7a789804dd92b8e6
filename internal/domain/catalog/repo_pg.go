package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CemBlt/dent-admin-app/internal/platform/db"
	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

type serviceRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &serviceRepoPG{pool: pool} }

func (r *serviceRepoPG) conn(ctx context.Context) db.Querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const serviceCols = `id, name, description, price, created_at`

func scanService(row pgx.Row) (*MedicalService, error) {
	var s MedicalService
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("service")
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serviceRepoPG) List(ctx context.Context) ([]*MedicalService, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+serviceCols+` FROM services ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*MedicalService
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *serviceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*MedicalService, error) {
	return scanService(r.conn(ctx).QueryRow(ctx, `SELECT `+serviceCols+` FROM services WHERE id = $1`, id))
}

func (r *serviceRepoPG) Create(ctx context.Context, s *MedicalService) error {
	s.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO services (id, name, description, price)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		s.ID, s.Name, s.Description, s.Price).Scan(&s.CreatedAt)
}

func (r *serviceRepoPG) Update(ctx context.Context, s *MedicalService) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE services SET name = $2, description = $3, price = $4
		WHERE id = $1`,
		s.ID, s.Name, s.Description, s.Price)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("service")
	}
	return nil
}

func (r *serviceRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("service")
	}
	return nil
}

func (r *serviceRepoPG) Missing(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT x FROM unnest($1::uuid[]) AS x
		WHERE NOT EXISTS (SELECT 1 FROM services s WHERE s.id = x)`, ids)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
}

type assignmentsPG struct{ pool *pgxpool.Pool }

func NewAssignmentsPG(pool *pgxpool.Pool) Assignments { return &assignmentsPG{pool: pool} }

func (r *assignmentsPG) conn(ctx context.Context) db.Querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *assignmentsPG) RemoveEverywhere(ctx context.Context, serviceID uuid.UUID) error {
	q := r.conn(ctx)
	if _, err := q.Exec(ctx, `UPDATE doctors SET services = array_remove(services, $1) WHERE $1 = ANY(services)`, serviceID); err != nil {
		return err
	}
	_, err := q.Exec(ctx, `UPDATE hospitals SET services = array_remove(services, $1) WHERE $1 = ANY(services)`, serviceID)
	return err
}

func (r *assignmentsPG) AssignDoctors(ctx context.Context, hospitalID, serviceID uuid.UUID, doctorIDs []uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctors SET services = CASE
			WHEN id = ANY($3::uuid[]) THEN
				CASE WHEN $2 = ANY(services) THEN services ELSE array_append(services, $2) END
			ELSE array_remove(services, $2)
		END
		WHERE hospital_id = $1`,
		hospitalID, serviceID, doctorIDs)
	return err
}

func (r *assignmentsPG) UnknownDoctors(ctx context.Context, hospitalID uuid.UUID, doctorIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(doctorIDs) == 0 {
		return nil, nil
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT x FROM unnest($2::uuid[]) AS x
		WHERE NOT EXISTS (SELECT 1 FROM doctors d WHERE d.id = x AND d.hospital_id = $1)`,
		hospitalID, doctorIDs)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
}
