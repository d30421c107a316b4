package led

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/coreman2200/aqmatrix/frames"
)

// Driver abstracts an LED matrix output sink.
type Driver interface {
	// Show pushes a frame to the matrix. The matrix keeps it until the next Show.
	Show(f frames.Frame) error
	// Close releases resources.
	Close() error
}

var ErrClosed = errors.New("led: driver closed")

// ParseColor reads "#RRGGBB" or "RRGGBB" into an opaque color.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("led: color %q: want RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("led: color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// scale dims c by b in [0,1].
func scale(c color.NRGBA, b float64) color.NRGBA {
	if b < 0 {
		b = 0
	}
	if b > 1 {
		b = 1
	}
	return color.NRGBA{
		R: uint8(float64(c.R) * b),
		G: uint8(float64(c.G) * b),
		B: uint8(float64(c.B) * b),
		A: 255,
	}
}
