package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/coreman2200/aqmatrix/frames"
	"github.com/coreman2200/aqmatrix/internal/aqi"
)

// Reading is one air-quality observation.
type Reading struct {
	Category frames.Category
	AQI      float64
	HasAQI   bool
	At       time.Time
}

// Source is a producer of readings, e.g. a sensor or a web API poller.
type Source interface {
	Read(ctx context.Context) (Reading, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (Reading, error)

func (f SourceFunc) Read(ctx context.Context) (Reading, error) { return f(ctx) }

type fixed struct{ c frames.Category }

// Fixed always reports c.
func Fixed(c frames.Category) Source { return fixed{c: c} }

func (f fixed) Read(ctx context.Context) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}
	return Reading{Category: f.c, At: time.Now()}, nil
}

// Cycle steps through every category, one per Read. Used as the demo source.
type Cycle struct {
	mu    sync.Mutex
	order []frames.Category
	i     int
}

func NewCycle() *Cycle {
	return &Cycle{order: frames.Categories()}
}

func (c *Cycle) Read(ctx context.Context) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cat := c.order[c.i]
	c.i = (c.i + 1) % len(c.order)
	return Reading{Category: cat, At: time.Now()}, nil
}

// Push holds the latest reading handed to it, e.g. by the HTTP ingestion
// endpoint. It reports Unknown until something is set.
type Push struct {
	mu  sync.RWMutex
	r   Reading
	set bool
}

func NewPush() *Push { return &Push{} }

// Set records a category directly.
func (p *Push) Set(c frames.Category) error {
	if !c.Valid() {
		return &frames.UnknownCategoryError{Category: c}
	}
	p.store(Reading{Category: c, At: time.Now()})
	return nil
}

// SetAQI records an AQI value and its category.
func (p *Push) SetAQI(v float64) frames.Category {
	c := aqi.Classify(v)
	p.store(Reading{Category: c, AQI: v, HasAQI: true, At: time.Now()})
	return c
}

func (p *Push) store(r Reading) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.r = r
	p.set = true
}

func (p *Push) Read(ctx context.Context) (Reading, error) {
	if err := ctx.Err(); err != nil {
		return Reading{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.set {
		return Reading{Category: frames.Unknown, At: time.Now()}, nil
	}
	return p.r, nil
}
