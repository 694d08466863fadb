package overview

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/hengshuofushi123/greenledger/internal/instrumentation"
)

// ErrRecomputeInFlight is returned when a recomputation is requested while
// another one is already running. The running one will publish its result;
// the caller should read the cache rather than retry.
var ErrRecomputeInFlight = errors.New("overview: recompute already in flight")

// Computer produces a fresh overview payload.
type Computer interface {
	Build(ctx context.Context) (*Overview, error)
}

// Snapshot is one immutable published overview. Readers get a pointer and
// never see a half-written payload.
type Snapshot struct {
	Payload    *Overview
	ComputedAt time.Time
}

// Info describes the cache state for the inspection endpoint.
type Info struct {
	Fresh       bool       `json:"fresh"`
	Recomputing bool       `json:"recomputing"`
	ComputedAt  *time.Time `json:"computed_at,omitempty"`
	AgeSeconds  float64    `json:"age_seconds"`
	TTLSeconds  float64    `json:"ttl_seconds"`
}

// Manager materializes the overview and serves it from memory. A snapshot
// stays valid for the TTL; reads never block on recomputation. At most one
// recomputation runs at a time, guarded by a compare-and-swap flag, so a
// stampede of stale reads costs one computation, not many.
type Manager struct {
	compute Computer
	ttl     time.Duration
	logger  *slog.Logger
	metrics *instrumentation.Metrics

	snap     atomic.Pointer[Snapshot]
	inFlight atomic.Bool

	// now is replaceable in tests.
	now func() time.Time
}

// NewManager builds a cache manager around a computer. metrics may be nil.
func NewManager(compute Computer, ttl time.Duration, logger *slog.Logger, metrics *instrumentation.Metrics) *Manager {
	return &Manager{
		compute: compute,
		ttl:     ttl,
		logger:  logger.With("component", "overview_cache"),
		metrics: metrics,
		now:     time.Now,
	}
}

// Get returns the current snapshot payload without blocking. When the cache
// is stale or empty it returns what it has (possibly nil) and triggers an
// asynchronous recomputation; the refreshed payload is visible to later
// calls. fresh reports whether the returned payload is within its TTL.
func (m *Manager) Get(ctx context.Context) (payload *Overview, fresh bool) {
	s := m.snap.Load()
	if s != nil {
		payload = s.Payload
		fresh = m.fresh(s)
	}
	if fresh {
		if m.metrics != nil {
			m.metrics.OverviewHits.Inc()
		}
		return payload, true
	}
	if m.metrics != nil {
		m.metrics.OverviewStale.Inc()
	}
	// Detached from the request context: the refresh outlives the caller.
	go func() {
		if err := m.Recompute(context.Background()); err != nil && !errors.Is(err, ErrRecomputeInFlight) {
			m.logger.Error("background recompute failed", "error", err)
		}
	}()
	return payload, false
}

// Recompute runs one full computation and publishes the result. If another
// recomputation is already running it returns ErrRecomputeInFlight without
// doing any work. On failure the previous snapshot stays published.
func (m *Manager) Recompute(ctx context.Context) error {
	if !m.inFlight.CompareAndSwap(false, true) {
		return ErrRecomputeInFlight
	}
	defer m.inFlight.Store(false)

	if m.metrics != nil {
		m.metrics.RecomputeRuns.Inc()
	}
	start := m.now()
	payload, err := m.compute.Build(ctx)
	elapsed := m.now().Sub(start)
	if m.metrics != nil {
		m.metrics.RecomputeSeconds.Observe(elapsed.Seconds())
	}
	if err != nil {
		if m.metrics != nil {
			m.metrics.RecomputeFailures.Inc()
		}
		m.logger.Error("recompute failed", "error", err, "elapsed", elapsed)
		return err
	}

	m.snap.Store(&Snapshot{Payload: payload, ComputedAt: m.now()})
	m.logger.Info("overview recomputed", "elapsed", elapsed, "projects", payload.ProjectCount)
	return nil
}

// ForceRefresh expires the current snapshot and recomputes synchronously.
// Until the recomputation publishes, readers keep seeing the old payload,
// just marked stale. Returns ErrRecomputeInFlight when a recomputation is
// already running; the expiry still takes effect in that case.
func (m *Manager) ForceRefresh(ctx context.Context) error {
	if s := m.snap.Load(); s != nil {
		expired := *s
		expired.ComputedAt = time.Time{}
		m.snap.CompareAndSwap(s, &expired)
	}
	return m.Recompute(ctx)
}

// State reports the cache state without touching the payload.
func (m *Manager) State() Info {
	info := Info{
		Recomputing: m.inFlight.Load(),
		TTLSeconds:  m.ttl.Seconds(),
	}
	if s := m.snap.Load(); s != nil && !s.ComputedAt.IsZero() {
		t := s.ComputedAt
		info.ComputedAt = &t
		info.AgeSeconds = m.now().Sub(t).Seconds()
		info.Fresh = m.fresh(s)
	}
	return info
}

// Run computes immediately and then on every interval tick until the context
// is cancelled. Ticks that land while a recomputation is still running are
// skipped by the in-flight guard.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	m.logger.Info("refresh loop started", "interval", interval)
	if err := m.Recompute(ctx); err != nil && !errors.Is(err, ErrRecomputeInFlight) {
		m.logger.Error("initial recompute failed", "error", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("refresh loop stopped")
			return
		case <-ticker.C:
			if err := m.Recompute(ctx); err != nil && !errors.Is(err, ErrRecomputeInFlight) {
				m.logger.Error("scheduled recompute failed", "error", err)
			}
		}
	}
}

func (m *Manager) fresh(s *Snapshot) bool {
	if s.ComputedAt.IsZero() {
		return false
	}
	return m.now().Sub(s.ComputedAt) < m.ttl
}
