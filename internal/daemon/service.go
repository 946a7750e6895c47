// Package daemon provides the long-running import watcher.
package daemon

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/claimtrack/internal/calendar"
	"github.com/theirongolddev/claimtrack/internal/log"
	"github.com/theirongolddev/claimtrack/internal/model"
	"github.com/theirongolddev/claimtrack/internal/period"
	"github.com/theirongolddev/claimtrack/internal/pipeline"
	"github.com/theirongolddev/claimtrack/internal/source"
	"github.com/theirongolddev/claimtrack/internal/store"
)

// Config controls the watcher runtime behavior.
type Config struct {
	ImportDir    string
	Preset       period.Preset
	Period       period.Options
	Interval     time.Duration
	EventsBuffer int
	Logger       *log.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Snapshot is the summary of the watched window after one poll.
type Snapshot struct {
	At          time.Time       `json:"at"`
	Window      period.Window   `json:"window"`
	Claims      int             `json:"claims"`
	Payments    int             `json:"payments"`
	Dropped     int             `json:"dropped_payments"`
	ClaimsTotal decimal.Decimal `json:"claims_total"`
	PaidTotal   decimal.Decimal `json:"payments_total"`
	Outstanding decimal.Decimal `json:"outstanding"`
	PaidRatio   float64         `json:"paid_ratio"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Claims      int             `json:"claims"`
	Payments    int             `json:"payments"`
	ClaimsTotal decimal.Decimal `json:"claims_total"`
	PaidTotal   decimal.Decimal `json:"payments_total"`
	Outstanding decimal.Decimal `json:"outstanding"`
	WindowMoved bool            `json:"window_moved,omitempty"`
}

// IsZero reports whether nothing changed.
func (d Delta) IsZero() bool {
	return d.Claims == 0 &&
		d.Payments == 0 &&
		d.ClaimsTotal.IsZero() &&
		d.PaidTotal.IsZero() &&
		d.Outstanding.IsZero() &&
		!d.WindowMoved
}

// Event types.
const (
	EventSnapshot = "snapshot"
	EventDelta    = "delta"
)

// Event is emitted on the first poll and whenever the snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
	Imported  int       `json:"imported_files"`
}

// Status describes the watcher between polls.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	ImportDir       string    `json:"import_dir"`
	Preset          string    `json:"preset"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service re-imports the watched directory on an interval and publishes
// summary changes to subscribers.
type Service struct {
	cfg Config
	st  *store.Store
	log *log.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a watcher writing into st.
func New(cfg Config, st *store.Store) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	l := cfg.Logger
	if l == nil {
		l = log.Discard()
	}

	return &Service{
		cfg:       cfg,
		st:        st,
		log:       l.WithComponent(log.ComponentWatch),
		startedAt: cfg.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run polls until ctx is canceled. The first poll happens immediately.
func (s *Service) Run(ctx context.Context) error {
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

func (s *Service) pollOnce(ctx context.Context) {
	start := time.Now()
	imported, r, w, err := s.load(ctx)
	now := s.cfg.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.Warn("poll failed", log.FieldError, err)
		return
	}

	snap := snapshotFromSummary(pipeline.Summarize(r, w), len(r.Dropped), now)
	snap.Window = w

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: EventSnapshot, Timestamp: now, Snapshot: snap, Imported: imported}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.IsZero() {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: EventDelta, Timestamp: now, Snapshot: snap, Delta: delta, Imported: imported}
		publish = true
	}
	s.mu.Unlock()

	s.log.Debug("poll finished",
		log.FieldOperation, log.OpImport,
		log.FieldCount, imported,
		log.FieldWindow, w.String(),
		log.FieldDuration, time.Since(start).Milliseconds())

	if publish {
		s.publishEvent(ev)
	}
}

// load imports changed files and reads the watched window back from the store.
// The window is resolved on every poll so rolling presets follow the clock.
func (s *Service) load(ctx context.Context) (int, pipeline.Report, period.Window, error) {
	imported := 0
	if s.cfg.ImportDir != "" {
		files, err := source.ScanDir(s.cfg.ImportDir)
		if err != nil {
			return 0, pipeline.Report{}, period.Window{}, err
		}
		res, err := pipeline.Import(ctx, files, s.st, false, nil)
		if err != nil {
			return 0, pipeline.Report{}, period.Window{}, err
		}
		for _, e := range res.Errors {
			s.log.Warn("file skipped", log.FieldError, e)
		}
		imported = res.Imported
	}

	w := period.ResolveAt(s.cfg.Preset, s.cfg.Period, calendar.FromTime(s.cfg.Now()))
	r, err := pipeline.LoadReport(ctx, s.st, w)
	return imported, r, w, err
}

func snapshotFromSummary(stats model.SummaryStats, dropped int, at time.Time) Snapshot {
	return Snapshot{
		At:          at,
		Claims:      stats.ClaimCount,
		Payments:    stats.PaymentCount,
		Dropped:     dropped,
		ClaimsTotal: stats.ClaimsTotal,
		PaidTotal:   stats.PaymentsTotal,
		Outstanding: stats.Outstanding,
		PaidRatio:   stats.PaidRatio,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Claims:      curr.Claims - prev.Claims,
		Payments:    curr.Payments - prev.Payments,
		ClaimsTotal: curr.ClaimsTotal.Sub(prev.ClaimsTotal),
		PaidTotal:   curr.PaidTotal.Sub(prev.PaidTotal),
		Outstanding: curr.Outstanding.Sub(prev.Outstanding),
		WindowMoved: curr.Window != prev.Window,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

// Events returns a copy of the buffered events, oldest first.
func (s *Service) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

// Status reports the watcher's current state.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		ImportDir:       s.cfg.ImportDir,
		Preset:          string(s.cfg.Preset),
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

// Subscribe returns a channel receiving events published from now on and a
// func that unsubscribes. Slow readers miss events rather than block polling.
func (s *Service) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, max(buffer, 1))

	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
