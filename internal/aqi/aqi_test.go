package aqi

import (
	"math"
	"testing"

	"github.com/coreman2200/aqmatrix/frames"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		in   float64
		want frames.Category
	}{
		{0, frames.Good},
		{50, frames.Good},
		{50.4, frames.Good},
		{50.5, frames.Moderate},
		{100, frames.Moderate},
		{101, frames.UnhealthyForSensitiveGroups},
		{150, frames.UnhealthyForSensitiveGroups},
		{151, frames.Unhealthy},
		{200, frames.Unhealthy},
		{201, frames.VeryUnhealthy},
		{300, frames.VeryUnhealthy},
		{301, frames.Hazardous},
		{999, frames.Hazardous},
		{-1, frames.Unknown},
		{math.NaN(), frames.Unknown},
		{math.Inf(1), frames.Unknown},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Classify(c.in), "aqi=%v", c.in)
	}
}

func TestBandsCoverCategories(t *testing.T) {
	bs := Bands()
	require.Len(t, bs, 6)
	for i, b := range bs {
		assert.True(t, b.Category.Valid())
		assert.Equal(t, b.Category, Classify(float64(b.Lo)))
		if i > 0 {
			assert.Equal(t, bs[i-1].Hi+1, b.Lo, "bands must be contiguous")
		}
	}
	// every category but unknown has a band
	assert.Equal(t, len(frames.Categories())-1, len(bs))
}

func TestFromPM25(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{9.0, 50},
		{9.1, 51},
		{12.0, 56},
		{35.4, 100},
		{35.49, 100},
		{55.5, 151},
		{325.4, 500},
		{900, MaxIndex},
	}
	for _, c := range cases {
		got, err := FromPM25(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "pm2.5=%v", c.in)
	}

	for _, bad := range []float64{-0.1, math.NaN()} {
		_, err := FromPM25(bad)
		assert.ErrorIs(t, err, ErrInvalidConcentration)
	}
}
