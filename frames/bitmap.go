package frames

import (
	"image"
	"image/color"
	"math/bits"
	"strings"
)

// Matrix geometry. Pixels are packed row-major, least significant bit first:
// pixel i = row*Cols + col lives in word i/32 at bit i%32.
const (
	Rows   = 8
	Cols   = 13
	Pixels = Rows * Cols
)

// paddingMask covers the bits of the last word past Pixels.
const paddingMask uint32 = 0xFFFFFFFF &^ (1<<(Pixels%32) - 1)

func locate(row, col int) (word int, off uint8, ok bool) {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return 0, 0, false
	}
	i := row*Cols + col
	return i / 32, uint8(i % 32), true
}

func getbit(w uint32, off uint8) bool {
	return w&(1<<off) != 0
}

func setbit(w uint32, off uint8, on bool) uint32 {
	var mask uint32 = 1 << off
	if on {
		return w | mask
	}
	return w &^ mask
}

// Pixel reports whether the pixel at row, col is lit. Out of range is unlit.
func (f Frame) Pixel(row, col int) bool {
	w, off, ok := locate(row, col)
	if !ok {
		return false
	}
	return getbit(f[w], off)
}

// Set returns a copy of f with the pixel at row, col switched on or off.
func (f Frame) Set(row, col int, on bool) Frame {
	w, off, ok := locate(row, col)
	if ok {
		f[w] = setbit(f[w], off, on)
	}
	return f
}

// Grid unpacks f into rows of pixels.
func (f Frame) Grid() [Rows][Cols]bool {
	var g [Rows][Cols]bool
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			g[r][c] = f.Pixel(r, c)
		}
	}
	return g
}

// Encode packs a pixel grid into a Frame.
func Encode(g [Rows][Cols]bool) Frame {
	var f Frame
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			if g[r][c] {
				f = f.Set(r, c, true)
			}
		}
	}
	return f
}

// Count returns the number of lit pixels.
func (f Frame) Count() int {
	n := 0
	for i, w := range f {
		if i == Words-1 {
			w &^= paddingMask
		}
		n += bits.OnesCount32(w)
	}
	return n
}

// Padding returns the bits of f that fall outside the matrix.
func (f Frame) Padding() uint32 {
	return f[Words-1] & paddingMask
}

// Image renders f as a Cols x Rows image.
func (f Frame) Image(on, off color.NRGBA) *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, Cols, Rows))
	for y := 0; y < Rows; y++ {
		for x := 0; x < Cols; x++ {
			if f.Pixel(y, x) {
				im.SetNRGBA(x, y, on)
			} else {
				im.SetNRGBA(x, y, off)
			}
		}
	}
	return im
}

// Lines renders f as one string per row, '#' for lit and '.' for unlit.
func (f Frame) Lines() []string {
	out := make([]string, 0, Rows)
	var b strings.Builder
	for r := 0; r < Rows; r++ {
		b.Reset()
		for c := 0; c < Cols; c++ {
			if f.Pixel(r, c) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		out = append(out, b.String())
	}
	return out
}

func (f Frame) String() string {
	return strings.Join(f.Lines(), "\n")
}
