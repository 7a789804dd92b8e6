package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

// RecentWindow is how far back a review counts as recent in statistics.
const RecentWindow = 30 * 24 * time.Hour

type Review struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	HospitalID    uuid.UUID  `json:"hospital_id"`
	DoctorID      *uuid.UUID `json:"doctor_id"`
	AppointmentID uuid.UUID  `json:"appointment_id"`
	Comment       string     `json:"comment"`
	Reply         *string    `json:"reply"`
	RepliedAt     *time.Time `json:"replied_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (r *Review) HasReply() bool { return r.Reply != nil && *r.Reply != "" }

// Rating is the score pair left with an appointment, 1 to 5 each.
type Rating struct {
	AppointmentID  uuid.UUID `json:"appointment_id"`
	HospitalID     uuid.UUID `json:"hospital_id"`
	DoctorRating   int       `json:"doctor_rating"`
	HospitalRating int       `json:"hospital_rating"`
}

// Average is the mean of the doctor and hospital scores.
func (r *Rating) Average() float64 {
	return float64(r.DoctorRating+r.HospitalRating) / 2
}

// Item is a review joined with its rating and display names.
type Item struct {
	Review
	Rating      *Rating `json:"rating"`
	AvgRating   float64 `json:"avg_rating"`
	HasReply    bool    `json:"has_reply"`
	PatientName string  `json:"patient_name"`
	DoctorName  string  `json:"doctor_name"`
}

func newItem(r Review, rating *Rating, patient, doctor string) *Item {
	it := &Item{Review: r, Rating: rating, HasReply: r.HasReply(), PatientName: patient, DoctorName: doctor}
	if rating != nil {
		it.AvgRating = rating.Average()
	}
	return it
}

// Filter narrows a review list. Rating bounds only apply to reviews that have
// a rating; date bounds are inclusive calendar dates of CreatedAt.
type Filter struct {
	DoctorID  *uuid.UUID
	MinRating *float64
	MaxRating *float64
	From      scheduling.Date
	To        scheduling.Date
	HasReply  *bool
}

func (f Filter) Validate() error {
	if f.MinRating != nil && (*f.MinRating < 0 || *f.MinRating > 5) {
		return apperr.Invalid("min_rating", "must be between 0 and 5")
	}
	if f.MaxRating != nil && (*f.MaxRating < 0 || *f.MaxRating > 5) {
		return apperr.Invalid("max_rating", "must be between 0 and 5")
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return apperr.Invalid("date_to", "must not be before date_from")
	}
	return nil
}

func (f Filter) Matches(it *Item) bool {
	if f.DoctorID != nil && (it.DoctorID == nil || *it.DoctorID != *f.DoctorID) {
		return false
	}
	if it.Rating != nil {
		if f.MinRating != nil && it.AvgRating < *f.MinRating {
			return false
		}
		if f.MaxRating != nil && it.AvgRating > *f.MaxRating {
			return false
		}
	}
	created := scheduling.DateOf(it.CreatedAt)
	if !f.From.IsZero() && created.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && created.After(f.To) {
		return false
	}
	if f.HasReply != nil && it.HasReply != *f.HasReply {
		return false
	}
	return true
}

type Stats struct {
	TotalReviews    int     `json:"total_reviews"`
	AverageRating   float64 `json:"average_rating"`
	RepliedCount    int     `json:"replied_count"`
	NotRepliedCount int     `json:"not_replied_count"`
	RecentCount     int     `json:"recent_count"`
}
