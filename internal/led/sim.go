package led

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/aqmatrix/frames"
)

// Sim prints frames as text, for running without hardware.
type Sim struct {
	mu     sync.Mutex
	w      io.Writer
	shown  uint64
	closed bool
}

func NewSim(w io.Writer) *Sim {
	if w == nil {
		w = io.Discard
	}
	return &Sim{w: w}
}

func (s *Sim) Show(f frames.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.shown++
	if _, err := fmt.Fprintf(s.w, "%s\n\n", f); err != nil {
		return fmt.Errorf("led: sim write: %w", err)
	}
	log.Debug().Uint64("shown", s.shown).Int("lit", f.Count()).Msg("sim frame")
	return nil
}

// Shown returns how many frames have been drawn.
func (s *Sim) Shown() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shown
}

func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
