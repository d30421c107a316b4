package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Matrix struct {
	Rows       int  `yaml:"rows"`
	Cols       int  `yaml:"cols"`
	Serpentine bool `yaml:"serpentine"`
	FlipX      bool `yaml:"flip_x"`
}

type SPI struct {
	Dev     string `yaml:"dev"`      // spireg name, e.g. "SPI0.0"; empty picks the first port
	SpeedHz int    `yaml:"speed_hz"` // 0 uses the nrzled default
}

type Config struct {
	Driver     string  `yaml:"driver"` // "sim" | "spi"
	Source     string  `yaml:"source"` // "demo" | "fixed" | "push"
	Category   string  `yaml:"category"`
	IntervalMs int     `yaml:"interval_ms"`
	Color      string  `yaml:"color"`
	Brightness float64 `yaml:"brightness"`
	Addr       string  `yaml:"addr"`
	LogLevel   string  `yaml:"log_level"`

	Matrix Matrix `yaml:"matrix"`
	SPI    SPI    `yaml:"spi,omitempty"`
}

func Default() *Config {
	return &Config{
		Driver:     "sim",
		Source:     "demo",
		Category:   "unknown",
		IntervalMs: 5000,
		Color:      "#FFFFFF",
		Brightness: 0.5,
		Addr:       ":8080",
		LogLevel:   "info",
		Matrix:     Matrix{Rows: 8, Cols: 13},
	}
}

// Load reads path over the defaults, so a partial file only overrides the
// keys it sets.
func Load(path string) (*Config, error) {
	c := Default()
	if err := Overlay(path, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Overlay reads path into c, leaving fields the file does not mention as they are.
func Overlay(path string, c *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// LoadEnvFile loads a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: env file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides c with AQM_* environment variables. Malformed numbers
// are reported and leave the field unchanged.
func ApplyEnv(c *Config) error {
	var errs []string
	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, set func(string) error) {
		if v := os.Getenv(key); v != "" {
			if err := set(v); err != nil {
				errs = append(errs, key+": "+err.Error())
			}
		}
	}

	str("AQM_DRIVER", &c.Driver)
	str("AQM_SOURCE", &c.Source)
	str("AQM_CATEGORY", &c.Category)
	str("AQM_COLOR", &c.Color)
	str("AQM_ADDR", &c.Addr)
	str("AQM_LOG_LEVEL", &c.LogLevel)
	str("AQM_SPI_DEV", &c.SPI.Dev)
	num("AQM_INTERVAL_MS", func(v string) error {
		n, err := strconv.Atoi(v)
		if err == nil {
			c.IntervalMs = n
		}
		return err
	})
	num("AQM_BRIGHTNESS", func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			c.Brightness = f
		}
		return err
	})
	num("AQM_SPI_SPEED_HZ", func(v string) error {
		n, err := strconv.Atoi(v)
		if err == nil {
			c.SPI.SpeedHz = n
		}
		return err
	})

	if len(errs) > 0 {
		return fmt.Errorf("config: bad environment: %s", strings.Join(errs, "; "))
	}
	return nil
}
