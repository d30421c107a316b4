package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsProgressive(t *testing.T) {
	m := Default()
	assert.Equal(t, 104, m.Count())
	assert.Equal(t, 0, m.Index(0, 0))
	assert.Equal(t, 12, m.Index(0, 12))
	assert.Equal(t, 13, m.Index(1, 0))
	assert.Equal(t, 103, m.Index(7, 12))
}

func TestSerpentine(t *testing.T) {
	m := Matrix{Rows: 3, Cols: 4, Serpentine: true}
	assert.Equal(t, 3, m.Index(0, 3))
	assert.Equal(t, 7, m.Index(1, 0), "odd rows run backwards")
	assert.Equal(t, 4, m.Index(1, 3))
	assert.Equal(t, 8, m.Index(2, 0))
}

func TestFlipX(t *testing.T) {
	m := Matrix{Rows: 2, Cols: 4, FlipX: true}
	assert.Equal(t, 3, m.Index(0, 0))
	assert.Equal(t, 4, m.Index(1, 3))

	m.Serpentine = true
	assert.Equal(t, 4, m.Index(1, 0))
}

func TestIndexOutOfRange(t *testing.T) {
	m := Default()
	for _, rc := range [][2]int{{-1, 0}, {0, -1}, {8, 0}, {0, 13}} {
		assert.Equal(t, -1, m.Index(rc[0], rc[1]))
	}
}

func TestIndexIsBijective(t *testing.T) {
	for _, m := range []Matrix{Default(), {Rows: 8, Cols: 13, Serpentine: true}, {Rows: 8, Cols: 13, FlipX: true, Serpentine: true}} {
		seen := map[int]bool{}
		for r := 0; r < m.Rows; r++ {
			for c := 0; c < m.Cols; c++ {
				i := m.Index(r, c)
				assert.False(t, seen[i], "index %d used twice", i)
				seen[i] = true
			}
		}
		assert.Len(t, seen, m.Count())
	}
}
