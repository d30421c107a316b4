// Package aqi classifies US EPA Air Quality Index values into frame categories.
package aqi

import (
	"errors"
	"math"

	"github.com/coreman2200/aqmatrix/frames"
)

// MaxIndex is the top of the reported AQI scale.
const MaxIndex = 500

var ErrInvalidConcentration = errors.New("aqi: invalid concentration")

// Band is one AQI category range, inclusive on both ends.
type Band struct {
	Lo, Hi   int
	Category frames.Category
}

var bands = []Band{
	{0, 50, frames.Good},
	{51, 100, frames.Moderate},
	{101, 150, frames.UnhealthyForSensitiveGroups},
	{151, 200, frames.Unhealthy},
	{201, 300, frames.VeryUnhealthy},
	{301, math.MaxInt32, frames.Hazardous},
}

// Bands returns the category ranges in ascending order.
func Bands() []Band {
	out := make([]Band, len(bands))
	copy(out, bands)
	return out
}

// Classify maps an AQI value to its category. Negative or non-finite values
// are Unknown.
func Classify(index float64) frames.Category {
	if math.IsNaN(index) || math.IsInf(index, 0) || index < 0 {
		return frames.Unknown
	}
	i := math.Round(index)
	for _, b := range bands {
		if i <= float64(b.Hi) {
			return b.Category
		}
	}
	return frames.Hazardous
}

type breakpoint struct {
	cLo, cHi float64
	iLo, iHi int
}

// PM2.5 breakpoints (µg/m³, 24h), 2024 revision.
var pm25 = []breakpoint{
	{0.0, 9.0, 0, 50},
	{9.1, 35.4, 51, 100},
	{35.5, 55.4, 101, 150},
	{55.5, 125.4, 151, 200},
	{125.5, 225.4, 201, 300},
	{225.5, 325.4, 301, 500},
}

// FromPM25 converts a PM2.5 concentration in µg/m³ to an AQI value.
// Concentrations are truncated to 0.1 before interpolation; anything past the
// last breakpoint reports MaxIndex.
func FromPM25(ugm3 float64) (int, error) {
	if math.IsNaN(ugm3) || ugm3 < 0 {
		return 0, ErrInvalidConcentration
	}
	c := math.Floor(ugm3*10+1e-9) / 10
	for _, bp := range pm25 {
		if c <= bp.cHi {
			v := float64(bp.iHi-bp.iLo)/(bp.cHi-bp.cLo)*(c-bp.cLo) + float64(bp.iLo)
			return int(math.Round(v)), nil
		}
	}
	return MaxIndex, nil
}
