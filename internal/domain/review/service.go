package review

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

// MaxReplyLength bounds a hospital reply.
const MaxReplyLength = 2000

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// SetClock replaces the time source used for reply timestamps and the recent
// window.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// List returns the matching reviews, newest first, and the total match count.
// A limit of 0 returns everything.
func (s *Service) List(ctx context.Context, hospitalID uuid.UUID, f Filter, limit, offset int) ([]*Item, int, error) {
	if err := f.Validate(); err != nil {
		return nil, 0, err
	}
	all, err := s.repo.ListItems(ctx, hospitalID)
	if err != nil {
		return nil, 0, err
	}
	matched := make([]*Item, 0, len(all))
	for _, it := range all {
		if f.Matches(it) {
			matched = append(matched, it)
		}
	}
	total := len(matched)
	if offset > total {
		offset = total
	}
	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

// Latest returns the n newest reviews.
func (s *Service) Latest(ctx context.Context, hospitalID uuid.UUID, n int) ([]*Item, error) {
	items, _, err := s.List(ctx, hospitalID, Filter{}, n, 0)
	return items, err
}

// Stats counts reviews and averages the hospital scores, rounded to one
// decimal place.
func (s *Service) Stats(ctx context.Context, hospitalID uuid.UUID) (*Stats, error) {
	items, err := s.repo.ListItems(ctx, hospitalID)
	if err != nil {
		return nil, err
	}
	avg, err := s.AverageRating(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	since := s.now().Add(-RecentWindow)
	st := &Stats{TotalReviews: len(items), AverageRating: avg}
	for _, it := range items {
		if it.HasReply {
			st.RepliedCount++
		}
		if !it.CreatedAt.Before(since) {
			st.RecentCount++
		}
	}
	st.NotRepliedCount = st.TotalReviews - st.RepliedCount
	return st, nil
}

// AverageRating is the mean hospital score, 0 without ratings.
func (s *Service) AverageRating(ctx context.Context, hospitalID uuid.UUID) (float64, error) {
	scores, err := s.repo.HospitalRatings(ctx, hospitalID)
	if err != nil {
		return 0, err
	}
	if len(scores) == 0 {
		return 0, nil
	}
	sum := 0
	for _, v := range scores {
		sum += v
	}
	return math.Round(float64(sum)/float64(len(scores))*10) / 10, nil
}

// Reply adds or replaces the hospital's reply.
func (s *Service) Reply(ctx context.Context, hospitalID, id uuid.UUID, text string) (*Review, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Invalid("reply", "reply must not be empty")
	}
	if len([]rune(text)) > MaxReplyLength {
		return nil, apperr.Invalid("reply", "reply must be at most %d characters", MaxReplyLength)
	}
	now := s.now().UTC()
	if err := s.repo.SetReply(ctx, hospitalID, id, &text, &now); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, hospitalID, id)
}

// DeleteReply clears the reply and its timestamp.
func (s *Service) DeleteReply(ctx context.Context, hospitalID, id uuid.UUID) (*Review, error) {
	if err := s.repo.SetReply(ctx, hospitalID, id, nil, nil); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, hospitalID, id)
}
