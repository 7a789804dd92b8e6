package review

import (
	"context"
	"errors"
	"time"

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

const reviewCols = `r.id, r.user_id, r.hospital_id, r.doctor_id, r.appointment_id, r.comment, r.reply, r.replied_at, r.created_at`

func scanReview(row pgx.Row) (*Review, error) {
	var rv Review
	err := row.Scan(&rv.ID, &rv.UserID, &rv.HospitalID, &rv.DoctorID, &rv.AppointmentID,
		&rv.Comment, &rv.Reply, &rv.RepliedAt, &rv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("review")
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *repoPG) ListItems(ctx context.Context, hospitalID uuid.UUID) ([]*Item, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+reviewCols+`,
			rt.doctor_rating, rt.hospital_rating,
			COALESCE(u.name || ' ' || u.surname, ''),
			COALESCE(d.name || ' ' || d.surname, '')
		FROM reviews r
		LEFT JOIN ratings rt ON rt.appointment_id = r.appointment_id
		LEFT JOIN users u ON u.id = r.user_id
		LEFT JOIN doctors d ON d.id = r.doctor_id
		WHERE r.hospital_id = $1
		ORDER BY r.created_at DESC`, hospitalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var (
			rv               Review
			docRate, hosRate *int
			patient, doctor  string
		)
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.HospitalID, &rv.DoctorID, &rv.AppointmentID,
			&rv.Comment, &rv.Reply, &rv.RepliedAt, &rv.CreatedAt,
			&docRate, &hosRate, &patient, &doctor); err != nil {
			return nil, err
		}
		var rating *Rating
		if docRate != nil || hosRate != nil {
			rating = &Rating{AppointmentID: rv.AppointmentID, HospitalID: rv.HospitalID}
			if docRate != nil {
				rating.DoctorRating = *docRate
			}
			if hosRate != nil {
				rating.HospitalRating = *hosRate
			}
		}
		items = append(items, newItem(rv, rating, patient, doctor))
	}
	return items, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, hospitalID, id uuid.UUID) (*Review, error) {
	return scanReview(r.conn(ctx).QueryRow(ctx,
		`SELECT `+reviewCols+` FROM reviews r WHERE r.hospital_id = $1 AND r.id = $2`, hospitalID, id))
}

func (r *repoPG) SetReply(ctx context.Context, hospitalID, id uuid.UUID, reply *string, repliedAt *time.Time) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE reviews SET reply = $3, replied_at = $4 WHERE hospital_id = $1 AND id = $2`,
		hospitalID, id, reply, repliedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("review")
	}
	return nil
}

func (r *repoPG) HospitalRatings(ctx context.Context, hospitalID uuid.UUID) ([]int, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT COALESCE(hospital_rating, 0) FROM ratings WHERE hospital_id = $1`, hospitalID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int])
}
