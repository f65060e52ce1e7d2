package prom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/IvanBrykalov/tileatlas/atlas"
	"github.com/IvanBrykalov/tileatlas/cache"
)

// gather flattens a registry into "name{labels}" => value.
func gather(t *testing.T, reg *prometheus.Registry) map[string]float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "tile" {
					continue
				}
				name += "{" + lp.GetName() + "=" + lp.GetValue() + "}"
			}
			out[name] = value(mf.GetType(), m)
		}
	}
	return out
}

func value(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	default:
		return -1
	}
}

func TestAdapter_Direct(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	a := New(reg, "tileatlas", "test", prometheus.Labels{"tile": "glyph"})

	a.Hit()
	a.Hit()
	a.Miss()
	a.Evict(cache.EvictCapacity)
	a.Evict(cache.EvictForced)
	a.Evict(cache.EvictForced)
	a.Size(3, 42)
	a.Rasterized()
	a.RasterizeFailed()
	a.Uploaded(256)
	a.Uploaded(256)
	a.FreeSlots(7)

	want := map[string]float64{
		"tileatlas_test_hits_total":                         2,
		"tileatlas_test_misses_total":                       1,
		"tileatlas_test_evictions_total{reason=capacity}":   1,
		"tileatlas_test_evictions_total{reason=forced}":     2,
		"tileatlas_test_size_entries":                       3,
		"tileatlas_test_size_cost":                          42,
		"tileatlas_test_rasterizations_total{result=ok}":    1,
		"tileatlas_test_rasterizations_total{result=error}": 1,
		"tileatlas_test_uploaded_bytes_total":               512,
		"tileatlas_test_free_slots":                         7,
	}
	if diff := cmp.Diff(want, gather(t, reg)); diff != "" {
		t.Fatalf("metrics mismatch (-want +got):\n%s", diff)
	}
}

// One adapter wired into both metric hooks of a real atlas.
func TestAdapter_Atlas(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg, "tileatlas", "", nil)

	blank := atlas.RasterizerFunc(func(int) (*atlas.Bitmap, error) { return &atlas.Bitmap{}, nil })
	a, err := atlas.New(blank, atlas.NewMemoryTexture(), atlas.Options{
		CellWidth: 8, CellHeight: 8, Slots: 2,
		Metrics: m, CacheMetrics: m,
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []int{1, 2, 1, 3} {
		if _, err := a.LocationFor(id); err != nil {
			t.Fatal(err)
		}
	}

	got := gather(t, reg)
	checks := map[string]float64{
		"tileatlas_hits_total":                      1,
		"tileatlas_misses_total":                    3,
		"tileatlas_rasterizations_total{result=ok}": 3,
		"tileatlas_evictions_total{reason=forced}":  1,
		"tileatlas_uploaded_bytes_total":            3 * 8 * 8 * 4,
		"tileatlas_free_slots":                      0,
		"tileatlas_size_entries":                    2,
	}
	for name, want := range checks {
		if got[name] != want {
			t.Errorf("%s = %v, want %v", name, got[name], want)
		}
	}
}
