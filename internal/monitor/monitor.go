// Package monitor runs the read -> lookup -> display loop.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/aqmatrix/frames"
	"github.com/coreman2200/aqmatrix/internal/led"
)

const DefaultInterval = 5 * time.Second

// Snapshot is what the matrix currently shows.
type Snapshot struct {
	FrameID  uint64          `json:"frame_id"`
	T        int64           `json:"t"`
	Category frames.Category `json:"category"`
	AQI      float64         `json:"aqi,omitempty"`
	HasAQI   bool            `json:"has_aqi"`
	Words    frames.Frame    `json:"words"`
	Rows     []string        `json:"rows"`
}

// Sink receives a snapshot after every step.
type Sink interface {
	Publish(s Snapshot)
}

type Monitor struct {
	src      Source
	drv      led.Driver
	sinks    []Sink
	interval time.Duration

	stepMu  sync.Mutex
	shown   bool
	frameID uint64

	mu   sync.RWMutex
	last Snapshot
}

func New(src Source, drv led.Driver, interval time.Duration, sinks ...Sink) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		src:      src,
		drv:      drv,
		sinks:    sinks,
		interval: interval,
	}
}

// Step reads the source once and updates the matrix. Source failures and
// unknown categories fall back to the Unknown frame; only driver failures and
// a done ctx are returned.
func (m *Monitor) Step(ctx context.Context) (Snapshot, error) {
	m.stepMu.Lock()
	defer m.stepMu.Unlock()
	if err := ctx.Err(); err != nil {
		return m.Last(), err
	}

	r, err := m.src.Read(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("source read failed; showing unknown")
		r = Reading{Category: frames.Unknown, At: time.Now()}
	}
	f, err := frames.Lookup(r.Category)
	if err != nil {
		log.Warn().Err(err).Str("category", string(r.Category)).Msg("no frame for category; showing unknown")
		r.Category = frames.Unknown
		f = frames.MustLookup(frames.Unknown)
	}

	prev := m.Last()
	if !m.shown || prev.Category != r.Category {
		if err := m.drv.Show(f); err != nil {
			log.Error().Err(err).Str("category", string(r.Category)).Msg("show failed")
			return prev, fmt.Errorf("monitor: show %s: %w", r.Category, err)
		}
		m.shown = true
		m.frameID++
		log.Info().Str("category", string(r.Category)).Uint64("frame_id", m.frameID).Msg("frame changed")
	}

	at := r.At
	if at.IsZero() {
		at = time.Now()
	}
	s := Snapshot{
		FrameID:  m.frameID,
		T:        at.UnixNano(),
		Category: r.Category,
		AQI:      r.AQI,
		HasAQI:   r.HasAQI,
		Words:    f,
		Rows:     f.Lines(),
	}
	m.mu.Lock()
	m.last = s
	m.mu.Unlock()

	for _, sink := range m.sinks {
		sink.Publish(s)
	}
	return s, nil
}

// Run steps immediately and then once per interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	_, _ = m.Step(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, _ = m.Step(ctx)
		}
	}
}

// Last returns the most recent snapshot.
func (m *Monitor) Last() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}
