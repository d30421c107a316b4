// Command aqframe prints air-quality matrix frames.
//
//	aqframe -category hazardous
//	aqframe -all
//	aqframe -aqi 137
//	aqframe -pm25 42.1
package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/aqmatrix/frames"
	"github.com/coreman2200/aqmatrix/internal/aqi"
)

func main() {
	var (
		category = flag.String("category", "", "category to print")
		all      = flag.Bool("all", false, "print every frame")
		index    = flag.Float64("aqi", math.NaN(), "classify an AQI value and print its frame")
		pm25     = flag.Float64("pm25", math.NaN(), "classify a PM2.5 concentration (µg/m³)")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	switch {
	case *all:
		for _, c := range frames.Categories() {
			show(c)
		}
	case !math.IsNaN(*pm25):
		v, err := aqi.FromPM25(*pm25)
		if err != nil {
			log.Error().Err(err).Float64("pm25", *pm25).Msg("cannot classify")
			os.Exit(2)
		}
		log.Info().Float64("pm25", *pm25).Int("aqi", v).Msg("converted")
		show(aqi.Classify(float64(v)))
	case !math.IsNaN(*index):
		show(aqi.Classify(*index))
	case *category != "":
		c, err := frames.ParseCategory(*category)
		if err != nil {
			exitUnknown(err)
		}
		show(c)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func show(c frames.Category) {
	f, err := frames.Lookup(c)
	if err != nil {
		exitUnknown(err)
	}
	fmt.Printf("%s  {0x%x, 0x%x, 0x%x, 0x%x}\n%s\n\n", c, f[0], f[1], f[2], f[3], f)
}

func exitUnknown(err error) {
	if errors.Is(err, frames.ErrUnknownCategory) {
		log.Error().Err(err).Strs("valid", categoryNames()).Msg("unknown category")
	} else {
		log.Error().Err(err).Msg("lookup failed")
	}
	os.Exit(2)
}

func categoryNames() []string {
	cs := frames.Categories()
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}
