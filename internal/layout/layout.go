package layout

import "github.com/coreman2200/aqmatrix/frames"

// Matrix describes how a rows x cols LED panel is wired.
type Matrix struct {
	Rows int
	Cols int
	// Serpentine wiring runs odd rows right to left.
	Serpentine bool
	// FlipX mirrors every row, for panels fed from the right edge.
	FlipX bool
}

// Default is the 8x13 frame geometry wired progressively.
func Default() Matrix {
	return Matrix{Rows: frames.Rows, Cols: frames.Cols}
}

// Index maps row, col -> linear LED index (0..N-1), or -1 when out of range.
func (m Matrix) Index(row, col int) int {
	if row < 0 || row >= m.Rows || col < 0 || col >= m.Cols {
		return -1
	}
	xx := col
	if m.FlipX {
		xx = m.Cols - 1 - xx
	}
	if m.Serpentine && row%2 == 1 {
		xx = m.Cols - 1 - xx
	}
	return row*m.Cols + xx
}

func (m Matrix) Count() int {
	return m.Rows * m.Cols
}
