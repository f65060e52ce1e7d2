// Package config loads the atlasbench configuration from a JSONC file.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tailscale/hujson"
)

var (
	errConfigFileRead = errors.New("cannot read config file")

	// ErrInvalid is wrapped by every parse or validation failure.
	ErrInvalid = errors.New("invalid config")
)

// Config holds all atlasbench options. Durations are strings in the file
// ("10s", "250ms").
type Config struct {
	// Font is a path to an OpenType/TrueType file; empty selects Go Mono.
	Font     string  `json:"font,omitempty"`
	FontSize float64 `json:"font_size"` //nolint:tagliatelle // snake_case for config file

	// CellWidth/CellHeight override the cell size derived from the font.
	CellWidth  int `json:"cell_width,omitempty"`  //nolint:tagliatelle
	CellHeight int `json:"cell_height,omitempty"` //nolint:tagliatelle

	Slots  int    `json:"slots"`
	Policy string `json:"policy"` // lru | 2q

	Workers  int      `json:"workers"`
	Duration Duration `json:"duration"`
	// Runes is the size of the code point range drawn from, starting at
	// U+0021; ZipfS > 1 sets the skew.
	Runes int     `json:"runes"`
	ZipfS float64 `json:"zipf_s"` //nolint:tagliatelle
	Seed  int64   `json:"seed,omitempty"`

	MetricsAddr string `json:"metrics_addr,omitempty"` //nolint:tagliatelle
	PprofAddr   string `json:"pprof_addr,omitempty"`   //nolint:tagliatelle
	// DumpDir receives one PNG per texture layer after the run.
	DumpDir string `json:"dump_dir,omitempty"` //nolint:tagliatelle
	Verbose bool   `json:"verbose,omitempty"`
}

// Duration is a time.Duration that reads from a JSON string.
type Duration time.Duration

// UnmarshalJSON accepts "1m30s" style strings.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		FontSize:    16,
		Slots:       2500,
		Policy:      "lru",
		Workers:     4,
		Duration:    Duration(5 * time.Second),
		Runes:       5000,
		ZipfS:       1.1,
		MetricsAddr: ":8080",
	}
}

// Load returns the defaults overlaid with the file at path, validated.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that apply further
// overrides (command-line flags) and validate the result themselves.
func Read(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", errConfigFileRead, path, err)
	}
	if err := Parse(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w %s: %w", ErrInvalid, path, err)
	}
	return cfg, nil
}

// Parse decodes JSONC data over cfg; fields absent from data keep their
// current values. Unknown fields are rejected.
func Parse(data []byte, cfg *Config) error {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("invalid JSONC: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	switch {
	case c.FontSize <= 0:
		return fmt.Errorf("%w: font_size must be > 0, got %v", ErrInvalid, c.FontSize)
	case c.CellWidth < 0 || c.CellHeight < 0:
		return fmt.Errorf("%w: cell size must not be negative", ErrInvalid)
	case (c.CellWidth == 0) != (c.CellHeight == 0):
		return fmt.Errorf("%w: set both cell_width and cell_height or neither", ErrInvalid)
	case c.Slots <= 0:
		return fmt.Errorf("%w: slots must be > 0, got %d", ErrInvalid, c.Slots)
	case c.Policy != "lru" && c.Policy != "2q":
		return fmt.Errorf("%w: unknown policy %q (use lru or 2q)", ErrInvalid, c.Policy)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be > 0, got %d", ErrInvalid, c.Workers)
	case c.Duration <= 0:
		return fmt.Errorf("%w: duration must be > 0", ErrInvalid)
	case c.Runes <= 0:
		return fmt.Errorf("%w: runes must be > 0, got %d", ErrInvalid, c.Runes)
	case c.ZipfS <= 1:
		return fmt.Errorf("%w: zipf_s must be > 1, got %v", ErrInvalid, c.ZipfS)
	}
	return nil
}
