// Package notification sends templated email notifications and keeps a short
// in-memory history of what was sent.
package notification

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/CemBlt/dent-admin-app/internal/platform/auth"
	"github.com/CemBlt/dent-admin-app/internal/platform/metrics"
)

// ---------------------------------------------------------------------------
// Notification
// ---------------------------------------------------------------------------

// Notification represents a single outbound email.
type Notification struct {
	ID           string            `json:"id"`
	HospitalID   uuid.UUID         `json:"hospital_id"`
	Recipient    string            `json:"recipient"`
	Subject      string            `json:"subject"`
	Body         string            `json:"body"`
	TemplateID   string            `json:"template_id,omitempty"`
	TemplateData map[string]string `json:"template_data,omitempty"`
	Status       string            `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	SentAt       *time.Time        `json:"sent_at,omitempty"`
	Error        string            `json:"error,omitempty"`
}

// EmailSender is the interface for sending email messages.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// ---------------------------------------------------------------------------
// Template Engine
// ---------------------------------------------------------------------------

const (
	TemplateStatusChanged   = "appointment-status-changed"
	TemplateOverdueCanceled = "appointments-overdue-cancelled"
)

// Template defines a reusable notification template.
type Template struct {
	ID      string `json:"id"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TemplateEngine renders {{key}} placeholders.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine creates a TemplateEngine with the panel templates registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]*Template)}
	e.RegisterTemplate(Template{
		ID:      TemplateStatusChanged,
		Subject: "Randevu durumu güncellendi: {{status}}",
		Body:    "{{date}} {{time}} tarihli randevu ({{doctor}}) durumu {{status}} olarak güncellendi.",
	})
	e.RegisterTemplate(Template{
		ID:      TemplateOverdueCanceled,
		Subject: "{{count}} randevu otomatik iptal edildi",
		Body:    "{{cutoff}} tarihinden önceki bekleyen {{count}} randevu otomatik olarak iptal edildi.",
	})
	return e
}

// RegisterTemplate adds or replaces a template in the engine.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render performs {{key}} replacement. Keys absent from data are left as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (subject, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template %q not found", templateID)
	}

	subject, body = t.Subject, t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, nil
}

// ---------------------------------------------------------------------------
// Manager
// ---------------------------------------------------------------------------

const historyLimit = 500

// Manager sends notifications and records the outcome.
type Manager struct {
	sender    EmailSender
	templates *TemplateEngine
	logger    zerolog.Logger

	mu      sync.RWMutex
	history []*Notification

	inflight sync.WaitGroup
}

func NewManager(sender EmailSender, tpl *TemplateEngine, logger zerolog.Logger) *Manager {
	return &Manager{sender: sender, templates: tpl, logger: logger}
}

// Send delivers n and records the result. The returned error is the delivery
// error, if any; n is recorded either way.
func (m *Manager) Send(ctx context.Context, n *Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now().UTC()
	n.Status = "pending"

	err := m.sender.SendEmail(ctx, n.Recipient, n.Subject, n.Body)
	if err != nil {
		n.Status = "failed"
		n.Error = err.Error()
		metrics.IncNotificationFailure("email")
	} else {
		n.Status = "sent"
		sentAt := time.Now().UTC()
		n.SentAt = &sentAt
	}

	m.mu.Lock()
	m.history = append(m.history, n)
	if len(m.history) > historyLimit {
		m.history = m.history[len(m.history)-historyLimit:]
	}
	m.mu.Unlock()
	return err
}

// SendFromTemplate renders a template and sends the result.
func (m *Manager) SendFromTemplate(ctx context.Context, hospitalID uuid.UUID, templateID string, data map[string]string, recipient string) (*Notification, error) {
	subject, body, err := m.templates.Render(templateID, data)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	n := &Notification{
		HospitalID:   hospitalID,
		Recipient:    recipient,
		Subject:      subject,
		Body:         body,
		TemplateID:   templateID,
		TemplateData: data,
	}
	return n, m.Send(ctx, n)
}

// Dispatch sends in the background. Failures are logged, never returned.
func (m *Manager) Dispatch(hospitalID uuid.UUID, templateID string, data map[string]string, recipient string) {
	if recipient == "" {
		return
	}
	m.inflight.Add(1)
	go func() {
		defer m.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := m.SendFromTemplate(ctx, hospitalID, templateID, data, recipient); err != nil {
			m.logger.Warn().Err(err).
				Str("hospital_id", hospitalID.String()).
				Str("template", templateID).
				Msg("notification delivery failed")
		}
	}()
}

// Drain waits for dispatched notifications to finish or for ctx to expire.
func (m *Manager) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notifications still in flight: %w", ctx.Err())
	}
}

// Recent returns up to limit notifications for a hospital, newest first.
func (m *Manager) Recent(hospitalID uuid.UUID, limit int) []*Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Notification
	for i := len(m.history) - 1; i >= 0 && len(out) < limit; i-- {
		if m.history[i].HospitalID == hospitalID {
			out = append(out, m.history[i])
		}
	}
	return out
}

// Stats returns counts of a hospital's notifications grouped by status.
func (m *Manager) Stats(hospitalID uuid.UUID) map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := map[string]int{"sent": 0, "failed": 0}
	for _, n := range m.history {
		if n.HospitalID == hospitalID {
			stats[n.Status]++
		}
	}
	return stats
}

// ---------------------------------------------------------------------------
// HTTP Handler
// ---------------------------------------------------------------------------

// Handler exposes the notification history.
type Handler struct {
	manager  *Manager
	tenantID func(c echo.Context) (uuid.UUID, error)
}

// NewHandler creates a Handler. tenantID resolves the hospital of a request.
func NewHandler(mgr *Manager, tenantID func(c echo.Context) (uuid.UUID, error)) *Handler {
	return &Handler{manager: mgr, tenantID: tenantID}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	admin := g.Group("", auth.RequireRole("admin"))
	admin.GET("/notifications", h.HandleList)
	admin.GET("/notifications/stats", h.HandleStats)
}

// HandleList handles GET /notifications.
func (h *Handler) HandleList(c echo.Context) error {
	hospitalID, err := h.tenantID(c)
	if err != nil {
		return err
	}
	list := h.manager.Recent(hospitalID, 100)
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if list == nil {
		list = []*Notification{}
	}
	return c.JSON(http.StatusOK, list)
}

// HandleStats handles GET /notifications/stats.
func (h *Handler) HandleStats(c echo.Context) error {
	hospitalID, err := h.tenantID(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.manager.Stats(hospitalID))
}
