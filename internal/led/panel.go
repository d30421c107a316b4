package led

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/coreman2200/aqmatrix/frames"
	"github.com/coreman2200/aqmatrix/internal/layout"
)

// RefreshRate is the WS2812 bit rate in kHz; the SPI clock runs at 3x plus slack.
const RefreshRate physic.Frequency = 800

// SPIConfig selects the SPI port for a WS2812 strip matrix.
type SPIConfig struct {
	Dev  string           // spireg name, "" for the first port
	Freq physic.Frequency // 0 uses ((RefreshRate*3)+100) kHz
}

// Panel draws frames onto a periph display.Drawer that addresses the matrix
// as a single strip of pixels in wiring order.
type Panel struct {
	mu         sync.Mutex
	drawer     display.Drawer
	port       spi.PortCloser
	matrix     layout.Matrix
	on         color.NRGBA
	brightness float64
	closed     bool
}

func NewPanel(d display.Drawer, m layout.Matrix, on color.NRGBA, brightness float64) *Panel {
	return &Panel{
		drawer:     d,
		matrix:     m,
		on:         on,
		brightness: brightness,
	}
}

// NewSPIPanel drives an nrzled strip on an already opened port.
func NewSPIPanel(p spi.Port, freq physic.Frequency, m layout.Matrix, on color.NRGBA, brightness float64) (*Panel, error) {
	if freq == 0 {
		freq = ((RefreshRate * 3) + 100) * physic.KiloHertz
	}
	opts := nrzled.Opts{
		NumPixels: m.Count(),
		Channels:  3,
		Freq:      freq,
	}
	d, err := nrzled.NewSPI(p, &opts)
	if err != nil {
		return nil, fmt.Errorf("led: nrzled: %w", err)
	}
	return NewPanel(d, m, on, brightness), nil
}

// OpenSPI initializes the host drivers and opens the named SPI port.
func OpenSPI(cfg SPIConfig, m layout.Matrix, on color.NRGBA, brightness float64) (*Panel, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("led: host init: %w", err)
	}
	port, err := spireg.Open(cfg.Dev)
	if err != nil {
		return nil, fmt.Errorf("led: open spi %q: %w", cfg.Dev, err)
	}
	p, err := NewSPIPanel(port, cfg.Freq, m, on, brightness)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	p.port = port
	return p, nil
}

// strip lays f out as a 1-pixel-high image indexed by LED position.
func (p *Panel) strip(f frames.Frame) *image.NRGBA {
	n := p.matrix.Count()
	im := image.NewNRGBA(image.Rect(0, 0, n, 1))
	lit := scale(p.on, p.brightness)
	dark := color.NRGBA{A: 255}
	for r := 0; r < p.matrix.Rows; r++ {
		for c := 0; c < p.matrix.Cols; c++ {
			px := dark
			if f.Pixel(r, c) {
				px = lit
			}
			im.SetNRGBA(p.matrix.Index(r, c), 0, px)
		}
	}
	return im
}

func (p *Panel) Show(f frames.Frame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if err := p.drawer.Draw(p.drawer.Bounds(), p.strip(f), image.Point{}); err != nil {
		return fmt.Errorf("led: draw: %w", err)
	}
	return nil
}

// Close blanks the matrix and releases the port if the panel opened it.
func (p *Panel) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	err := p.drawer.Halt()
	if p.port != nil {
		if cerr := p.port.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("led: close: %w", err)
	}
	return nil
}

func (p *Panel) String() string {
	return fmt.Sprintf("panel{%s %dx%d}", p.drawer, p.matrix.Rows, p.matrix.Cols)
}
