package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
	HealthDown     = "down"
)

// PoolStats is the JSON view of pgxpool.Stat.
type PoolStats struct {
	Total    int32  `json:"total"`
	Idle     int32  `json:"idle"`
	InUse    int32  `json:"in_use"`
	Max      int32  `json:"max"`
	Acquires int64  `json:"acquires"`
	WaitTime string `json:"wait_time"`
}

func statsOf(s *pgxpool.Stat) *PoolStats {
	return &PoolStats{
		Total:    s.TotalConns(),
		Idle:     s.IdleConns(),
		InUse:    s.AcquiredConns(),
		Max:      s.MaxConns(),
		Acquires: s.AcquireCount(),
		WaitTime: s.AcquireDuration().String(),
	}
}

// HealthReport is the body of GET /health/db.
type HealthReport struct {
	Status        string     `json:"status"`
	LatencyMS     int64      `json:"latency_ms"`
	SchemaVersion int        `json:"schema_version"`
	WantSchema    int        `json:"want_schema,omitempty"`
	Error         string     `json:"error,omitempty"`
	Pool          *PoolStats `json:"pool,omitempty"`
}

// HealthChecker reports whether the database answers and whether its schema
// has caught up with the migrations shipped in the binary.
type HealthChecker struct {
	ping       func(ctx context.Context) error
	version    func(ctx context.Context) (int, error)
	stats      func() *PoolStats
	wantSchema int
	timeout    time.Duration
}

// NewHealthChecker checks pool. wantSchema is the newest migration version the
// binary knows about; 0 skips the schema comparison.
func NewHealthChecker(pool *pgxpool.Pool, wantSchema int) *HealthChecker {
	return &HealthChecker{
		ping:       pool.Ping,
		version:    func(ctx context.Context) (int, error) { return SchemaVersion(ctx, pool) },
		stats:      func() *PoolStats { return statsOf(pool.Stat()) },
		wantSchema: wantSchema,
		timeout:    5 * time.Second,
	}
}

func (h *HealthChecker) Check(ctx context.Context) HealthReport {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	rep := HealthReport{Status: HealthOK, WantSchema: h.wantSchema}
	if h.stats != nil {
		rep.Pool = h.stats()
	}

	start := time.Now()
	err := h.ping(ctx)
	rep.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		rep.Status = HealthDown
		rep.Error = err.Error()
		return rep
	}

	v, err := h.version(ctx)
	if err != nil {
		rep.Status = HealthDegraded
		rep.Error = err.Error()
		return rep
	}
	rep.SchemaVersion = v
	if h.wantSchema > 0 && v < h.wantSchema {
		rep.Status = HealthDegraded
		rep.Error = "pending migrations"
	}
	return rep
}

// Handler serves the report: 200 when ok or degraded, 503 when down.
func (h *HealthChecker) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		rep := h.Check(c.Request().Context())
		code := http.StatusOK
		if rep.Status == HealthDown {
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, rep)
	}
}
