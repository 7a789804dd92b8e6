package scheduling

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

// =========== Holiday Repository ===========

type holidayRepoPG struct{ pool *pgxpool.Pool }

func NewHolidayRepoPG(pool *pgxpool.Pool) HolidayRepository { return &holidayRepoPG{pool: pool} }

func (r *holidayRepoPG) conn(ctx context.Context) db.Querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const holidayCols = `id, hospital_id, doctor_id, date, reason, is_full_day, start_time, end_time, created_at`

// scanHoliday reads start_time and end_time as text. A malformed stored time
// becomes the zero ClockTime, so the holiday still lists but covers nothing.
func (r *holidayRepoPG) scanHoliday(row pgx.Row) (*Holiday, error) {
	var h Holiday
	var start, end *string
	err := row.Scan(&h.ID, &h.HospitalID, &h.DoctorID, &h.Date, &h.Reason, &h.IsFullDay,
		&start, &end, &h.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("holiday")
	}
	if err != nil {
		return nil, err
	}
	if start != nil {
		h.StartTime = LenientClockTime(*start)
	}
	if end != nil {
		h.EndTime = LenientClockTime(*end)
	}
	return &h, nil
}

func (r *holidayRepoPG) Create(ctx context.Context, h *Holiday) error {
	h.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO holidays (id, hospital_id, doctor_id, date, reason, is_full_day, start_time, end_time)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at`,
		h.ID, h.HospitalID, h.DoctorID, h.Date, h.Reason, h.IsFullDay, h.StartTime, h.EndTime,
	).Scan(&h.CreatedAt)
}

func (r *holidayRepoPG) GetByID(ctx context.Context, hospitalID, id uuid.UUID) (*Holiday, error) {
	return r.scanHoliday(r.conn(ctx).QueryRow(ctx,
		`SELECT `+holidayCols+` FROM holidays WHERE hospital_id = $1 AND id = $2`, hospitalID, id))
}

func (r *holidayRepoPG) Delete(ctx context.Context, hospitalID, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM holidays WHERE hospital_id = $1 AND id = $2`, hospitalID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("holiday")
	}
	return nil
}

func (r *holidayRepoPG) List(ctx context.Context, hospitalID uuid.UUID, q HolidayQuery) ([]*Holiday, error) {
	query := `SELECT ` + holidayCols + ` FROM holidays WHERE hospital_id = $1`
	args := []interface{}{hospitalID}
	idx := 2

	if !q.From.IsZero() {
		query += fmt.Sprintf(` AND date >= $%d`, idx)
		args = append(args, q.From)
		idx++
	}
	if !q.To.IsZero() {
		query += fmt.Sprintf(` AND date <= $%d`, idx)
		args = append(args, q.To)
		idx++
	}
	if q.HospitalWideOnly {
		query += ` AND doctor_id IS NULL`
	} else if q.DoctorID != nil {
		query += fmt.Sprintf(` AND doctor_id = $%d`, idx)
		args = append(args, *q.DoctorID)
	}
	query += ` ORDER BY date, start_time NULLS FIRST`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Holiday
	for rows.Next() {
		h, err := r.scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, h)
	}
	return items, rows.Err()
}

func (r *holidayRepoPG) DeleteByDoctor(ctx context.Context, hospitalID, doctorID uuid.UUID) (int, error) {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM holidays WHERE hospital_id = $1 AND doctor_id = $2`, hospitalID, doctorID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// =========== Hours Repository ===========

type hoursRepoPG struct{ pool *pgxpool.Pool }

func NewHoursRepoPG(pool *pgxpool.Pool) HoursRepository { return &hoursRepoPG{pool: pool} }

func (r *hoursRepoPG) conn(ctx context.Context) db.Querier {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *hoursRepoPG) HospitalHours(ctx context.Context, hospitalID uuid.UUID) (WorkingHours, error) {
	var w WorkingHours
	err := r.conn(ctx).QueryRow(ctx, `SELECT working_hours FROM hospitals WHERE id = $1`, hospitalID).Scan(&w)
	if errors.Is(err, pgx.ErrNoRows) {
		return w, apperr.NotFound("hospital")
	}
	return w, err
}

const doctorHoursCols = `id, name || ' ' || surname, is_active, working_hours`

func scanDoctorHours(row pgx.Row) (*DoctorHours, error) {
	var d DoctorHours
	err := row.Scan(&d.DoctorID, &d.Name, &d.IsActive, &d.Hours)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("doctor")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *hoursRepoPG) DoctorHours(ctx context.Context, hospitalID, doctorID uuid.UUID) (*DoctorHours, error) {
	return scanDoctorHours(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorHoursCols+` FROM doctors WHERE hospital_id = $1 AND id = $2`, hospitalID, doctorID))
}

func (r *hoursRepoPG) ListDoctorHours(ctx context.Context, hospitalID uuid.UUID) ([]*DoctorHours, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doctorHoursCols+` FROM doctors WHERE hospital_id = $1 ORDER BY name, surname`, hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*DoctorHours
	for rows.Next() {
		d, err := scanDoctorHours(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
