package appointment

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
	"github.com/CemBlt/dent-admin-app/internal/platform/metrics"
	"github.com/CemBlt/dent-admin-app/pkg/apperr"
)

// DefaultGraceDays is how long a pending appointment may stay pending after
// its date before the sweep cancels it.
const DefaultGraceDays = 5

// SlotResolver loads hospital-wide closures for slot checks.
type SlotResolver interface {
	Window(ctx context.Context, hospitalID uuid.UUID, from, to scheduling.Date) (*scheduling.Window, error)
}

type Service struct {
	repo      Repository
	slots     SlotResolver
	notifier  Notifier
	graceDays int
	now       func() time.Time
	logger    zerolog.Logger
}

func NewService(repo Repository, slots SlotResolver, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		slots:     slots,
		notifier:  NopNotifier{},
		graceDays: DefaultGraceDays,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *Service) SetNotifier(n Notifier) { s.notifier = n }

// SetGraceDays overrides DefaultGraceDays. Negative values are ignored.
func (s *Service) SetGraceDays(days int) {
	if days >= 0 {
		s.graceDays = days
	}
}

// SetClock replaces the time source used for "today".
func (s *Service) SetClock(now func() time.Time) { s.now = now }

func (s *Service) today() scheduling.Date { return scheduling.DateOf(s.now()) }

// Cutoff is the first date not considered overdue.
func (s *Service) Cutoff() scheduling.Date { return s.today().AddDays(-s.graceDays) }

func (s *Service) Get(ctx context.Context, hospitalID, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, hospitalID, id)
}

// Filter returns every appointment matching f.
func (s *Service) Filter(ctx context.Context, hospitalID uuid.UUID, f Filter) ([]*Appointment, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	items, _, err := s.repo.Search(ctx, hospitalID, f, 0, 0)
	return items, err
}

// List sweeps overdue appointments, then returns one page of matches, each
// flagged when its slot falls inside a hospital-wide holiday. A failed sweep
// is logged and does not fail the listing.
func (s *Service) List(ctx context.Context, hospitalID uuid.UUID, f Filter, limit, offset int) ([]*ListItem, int, error) {
	if err := f.Validate(); err != nil {
		return nil, 0, err
	}
	if _, err := s.AutoCancelOverdue(ctx, hospitalID); err != nil {
		s.logger.Warn().Err(err).Str("hospital_id", hospitalID.String()).Msg("overdue sweep failed")
	}

	items, total, err := s.repo.Search(ctx, hospitalID, f, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*ListItem, 0, len(items))
	if len(items) == 0 {
		return out, total, nil
	}

	from, to := items[0].Date, items[0].Date
	for _, a := range items[1:] {
		if a.Date.Before(from) {
			from = a.Date
		}
		if a.Date.After(to) {
			to = a.Date
		}
	}
	window, err := s.slots.Window(ctx, hospitalID, from, to)
	if err != nil {
		return nil, 0, err
	}
	for _, a := range items {
		out = append(out, &ListItem{Appointment: a, Blocked: window.IsSlotBlocked(a.Date, a.Time)})
	}
	return out, total, nil
}

// Update applies p. Status may only move out of pending; completed and
// cancelled are final. Setting the current status again is allowed.
func (s *Service) Update(ctx context.Context, hospitalID, id uuid.UUID, p Patch) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, hospitalID, id)
	if err != nil {
		return nil, err
	}

	changed := false
	if p.Status != nil {
		next, err := ParseStatus(string(*p.Status))
		if err != nil {
			return nil, err
		}
		if next != a.Status {
			if a.Status.Terminal() {
				return nil, apperr.Invalid("status", "cannot change a %s appointment to %s", a.Status, next)
			}
			a.Status = next
			changed = true
		}
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update appointment %s: %w", id, err)
	}
	if changed {
		metrics.IncStatusChange(string(a.Status))
		s.notifier.StatusChanged(ctx, a)
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, hospitalID, id uuid.UUID) error {
	return s.repo.Delete(ctx, hospitalID, id)
}

// AutoCancelOverdue cancels pending appointments dated before today minus the
// grace window and returns how many were cancelled. Read and writes are not
// atomic: a record changed concurrently between them is still cancelled.
func (s *Service) AutoCancelOverdue(ctx context.Context, hospitalID uuid.UUID) (int, error) {
	cutoff := s.Cutoff()
	overdue, err := s.repo.ListOverdue(ctx, hospitalID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list overdue: %w", err)
	}

	n := 0
	for _, a := range overdue {
		if a.Status != StatusPending || !a.Date.Before(cutoff) {
			continue
		}
		a.Status = StatusCancelled
		if err := s.repo.Update(ctx, a); err != nil {
			metrics.AddAutoCancelled(n)
			return n, fmt.Errorf("cancel appointment %s: %w", a.ID, err)
		}
		n++
	}

	metrics.AddAutoCancelled(n)
	if n > 0 {
		s.logger.Info().Str("hospital_id", hospitalID.String()).Int("count", n).
			Str("cutoff", cutoff.String()).Msg("cancelled overdue appointments")
		s.notifier.OverdueCancelled(ctx, hospitalID, n, cutoff)
	}
	return n, nil
}

func (s *Service) Summary(ctx context.Context, hospitalID uuid.UUID) (*Summary, error) {
	return s.repo.Summary(ctx, hospitalID, s.today())
}

// Today returns today's appointments in time order.
func (s *Service) Today(ctx context.Context, hospitalID uuid.UUID) ([]*Appointment, error) {
	today := s.today()
	items, _, err := s.repo.Search(ctx, hospitalID, Filter{From: today, To: today}, 0, 0)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].RawTime < items[j].RawTime })
	return items, nil
}

func (s *Service) CountByService(ctx context.Context, hospitalID uuid.UUID) (map[uuid.UUID]int, error) {
	return s.repo.CountByService(ctx, hospitalID)
}
