package appointment

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/CemBlt/dent-admin-app/internal/domain/scheduling"
	"github.com/CemBlt/dent-admin-app/internal/platform/notification"
)

// Notifier is told about status changes. Implementations must not block.
type Notifier interface {
	StatusChanged(ctx context.Context, a *Appointment)
	OverdueCancelled(ctx context.Context, hospitalID uuid.UUID, count int, cutoff scheduling.Date)
}

type NopNotifier struct{}

func (NopNotifier) StatusChanged(context.Context, *Appointment) {}
func (NopNotifier) OverdueCancelled(context.Context, uuid.UUID, int, scheduling.Date) {}

// MailNotifier emails the hospital's contact address.
type MailNotifier struct {
	manager  *notification.Manager
	contacts ContactLookup
	logger   zerolog.Logger
}

func NewMailNotifier(mgr *notification.Manager, contacts ContactLookup, logger zerolog.Logger) *MailNotifier {
	return &MailNotifier{manager: mgr, contacts: contacts, logger: logger}
}

func (m *MailNotifier) recipient(ctx context.Context, hospitalID uuid.UUID) string {
	email, err := m.contacts.ContactEmail(ctx, hospitalID)
	if err != nil {
		m.logger.Warn().Err(err).Str("hospital_id", hospitalID.String()).Msg("no contact email for notification")
		return ""
	}
	return email
}

func (m *MailNotifier) StatusChanged(ctx context.Context, a *Appointment) {
	m.manager.Dispatch(a.HospitalID, notification.TemplateStatusChanged, map[string]string{
		"status": string(a.Status),
		"date":   a.Date.String(),
		"time":   a.RawTime,
		"doctor": a.DoctorName,
	}, m.recipient(ctx, a.HospitalID))
}

func (m *MailNotifier) OverdueCancelled(ctx context.Context, hospitalID uuid.UUID, count int, cutoff scheduling.Date) {
	m.manager.Dispatch(hospitalID, notification.TemplateOverdueCanceled, map[string]string{
		"count":  strconv.Itoa(count),
		"cutoff": cutoff.String(),
	}, m.recipient(ctx, hospitalID))
}
