package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
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

const apptCols = `a.id, a.user_id, a.hospital_id, a.doctor_id, a.service_id, a.date, a.time,
	a.status, a.notes, COALESCE(u.name || ' ' || u.surname, ''), COALESCE(d.name || ' ' || d.surname, ''),
	COALESCE(s.name, ''), a.created_at`

const apptFrom = ` FROM appointments a
	LEFT JOIN users u ON u.id = a.user_id
	LEFT JOIN doctors d ON d.id = a.doctor_id
	LEFT JOIN services s ON s.id = a.service_id`

func (r *repoPG) scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.UserID, &a.HospitalID, &a.DoctorID, &a.ServiceID, &a.Date, &a.RawTime,
		&a.Status, &a.Notes, &a.PatientName, &a.DoctorName, &a.ServiceName, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("appointment")
	}
	if err != nil {
		return nil, err
	}
	a.Time = scheduling.LenientClockTime(a.RawTime)
	return &a, nil
}

func (r *repoPG) GetByID(ctx context.Context, hospitalID, id uuid.UUID) (*Appointment, error) {
	return r.scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+apptFrom+` WHERE a.hospital_id = $1 AND a.id = $2`, hospitalID, id))
}

func (r *repoPG) Search(ctx context.Context, hospitalID uuid.UUID, f Filter, limit, offset int) ([]*Appointment, int, error) {
	where := ` WHERE a.hospital_id = $1`
	args := []interface{}{hospitalID}
	idx := 2

	if f.Status != "" {
		where += fmt.Sprintf(` AND a.status = $%d`, idx)
		args = append(args, f.Status)
		idx++
	}
	if f.DoctorID != nil {
		where += fmt.Sprintf(` AND a.doctor_id = $%d`, idx)
		args = append(args, *f.DoctorID)
		idx++
	}
	if f.ServiceID != nil {
		where += fmt.Sprintf(` AND a.service_id = $%d`, idx)
		args = append(args, *f.ServiceID)
		idx++
	}
	if !f.From.IsZero() {
		where += fmt.Sprintf(` AND a.date >= $%d`, idx)
		args = append(args, f.From)
		idx++
	}
	if !f.To.IsZero() {
		where += fmt.Sprintf(` AND a.date <= $%d`, idx)
		args = append(args, f.To)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments a`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + apptCols + apptFrom + where + ` ORDER BY a.date DESC, a.time DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, idx, idx+1)
		args = append(args, limit, offset)
	}

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET status = $3, notes = $4, updated_at = NOW()
		WHERE hospital_id = $1 AND id = $2`,
		a.HospitalID, a.ID, a.Status, a.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("appointment")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, hospitalID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE hospital_id = $1 AND id = $2`, hospitalID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("appointment")
	}
	return nil
}

func (r *repoPG) ListOverdue(ctx context.Context, hospitalID uuid.UUID, cutoff scheduling.Date) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+apptCols+apptFrom+` WHERE a.hospital_id = $1 AND a.status = $2 AND a.date < $3 ORDER BY a.date`,
		hospitalID, StatusPending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) Summary(ctx context.Context, hospitalID uuid.UUID, today scheduling.Date) (*Summary, error) {
	var s Summary
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COUNT(*) FILTER (WHERE date = $2)
		FROM appointments WHERE hospital_id = $1`, hospitalID, today,
	).Scan(&s.Total, &s.Pending, &s.Completed, &s.Cancelled, &s.Today)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) CountByService(ctx context.Context, hospitalID uuid.UUID) (map[uuid.UUID]int, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT service_id, COUNT(*) FROM appointments
		WHERE hospital_id = $1 AND service_id IS NOT NULL
		GROUP BY service_id`, hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		out[id] = n
	}
	return out, rows.Err()
}
