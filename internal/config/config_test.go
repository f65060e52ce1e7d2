package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atlasbench.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_JSONCOverlay(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `{
		// comments and trailing commas are fine
		"slots": 100,
		"policy": "2q",
		"duration": "250ms",
		"cell_width": 8,
		"cell_height": 16,
	}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := DefaultConfig()
	want.Slots = 100
	want.Policy = "2q"
	want.Duration = Duration(250 * time.Millisecond)
	want.CellWidth, want.CellHeight = 8, 16
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"syntax", `{"slots": }`},
		{"unknown field", `{"slotz": 10}`},
		{"bad duration", `{"duration": "soon"}`},
		{"numeric duration", `{"duration": 5}`},
		{"zero slots", `{"slots": 0}`},
		{"policy", `{"policy": "arc"}`},
		{"half cell", `{"cell_width": 8}`},
		{"flat zipf", `{"zipf_s": 1.0}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Load(writeFile(t, tt.body)); !errors.Is(err, ErrInvalid) {
				t.Fatalf("want ErrInvalid, got %v", err)
			}
		})
	}
}

// Read leaves range checks to the caller.
func TestRead_DefersValidation(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `{"slots": 0}`)
	cfg, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if cfg.Slots != 0 {
		t.Fatalf("Slots = %d, want 0 from the file", cfg.Slots)
	}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Validate: want ErrInvalid, got %v", err)
	}
	if _, err := Read(writeFile(t, `{"slots": }`)); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Read must still reject bad syntax, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil || errors.Is(err, ErrInvalid) {
		t.Fatalf("want read error, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("read error must wrap os.ErrNotExist, got %v", err)
	}
}

func TestDuration_RoundTrip(t *testing.T) {
	t.Parallel()

	d := Duration(90 * time.Second)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"1m30s"` {
		t.Fatalf("MarshalJSON = %s", b)
	}
}
