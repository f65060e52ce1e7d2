// Command atlasbench drives a glyph atlas with a synthetic Zipf workload and
// exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/tileatlas/atlas"
	"github.com/IvanBrykalov/tileatlas/font"
	"github.com/IvanBrykalov/tileatlas/internal/config"
	pmet "github.com/IvanBrykalov/tileatlas/metrics/prom"
	"github.com/IvanBrykalov/tileatlas/policy"
	"github.com/IvanBrykalov/tileatlas/policy/twoq"
)

// firstRune is the code point of the most frequent Zipf rank.
const firstRune = 0x21

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}

	// ---- pprof server (on DefaultServeMux) ----
	if cfg.PprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", cfg.PprofAddr)
			log.Println(http.ListenAndServe(cfg.PprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "tileatlas", "bench", nil)
	if cfg.MetricsAddr != "" {
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Printf("metrics: serving at %s", cfg.MetricsAddr)
			log.Println(http.ListenAndServe(cfg.MetricsAddr, nil))
		}()
	}

	h, err := openFace(font.NewManager(font.FaceOptions{}), cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer h.Release()
	face := h.Face()
	cw, ch := cfg.CellWidth, cfg.CellHeight
	if cw == 0 {
		if cw, ch, err = face.CellSize(); err != nil {
			log.Fatal(err)
		}
	}

	// ---- Build atlas ----
	opt := atlas.Options{
		CellWidth:    cw,
		CellHeight:   ch,
		Slots:        cfg.Slots,
		Policy:       newPolicy(cfg),
		Metrics:      metrics,
		CacheMetrics: metrics,
	}
	if cfg.Verbose {
		opt.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	tex := atlas.NewMemoryTexture()
	a, err := atlas.New(face, tex, opt)
	if err != nil {
		log.Fatal(err)
	}

	// ---- Load generation ----
	var total, missing uint64
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Duration))
	defer cancel()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < cfg.Workers; w++ {
		w := w
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(cfg.Seed + int64(w)*9973))
			localZipf := rand.NewZipf(localR, cfg.ZipfS, 1, uint64(cfg.Runes-1))

			for ctx.Err() == nil {
				atomic.AddUint64(&total, 1)
				id := firstRune + int(localZipf.Uint64())
				if _, err := a.LocationFor(id); err != nil {
					if atlas.IsFatal(err) {
						return err
					}
					// Gaps in the font's coverage are expected.
					atomic.AddUint64(&missing, 1)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("atlas failed: %v", err)
	}
	elapsed := time.Since(start)

	// ---- Report ----
	st := a.Stats()
	ops := atomic.LoadUint64(&total)
	lookups := st.Hits + st.Misses
	hitRate := 0.0
	if lookups > 0 {
		hitRate = float64(st.Hits) / float64(lookups) * 100
	}

	fmt.Printf("font=%q size=%v cell=%dx%d geometry=%v policy=%s\n",
		face.Name(), face.Size(), cw, ch, a.Geometry(), cfg.Policy)
	fmt.Printf("workers=%d runes=%d zipf_s=%v dur=%v seed=%d\n",
		cfg.Workers, cfg.Runes, cfg.ZipfS, elapsed, cfg.Seed)
	fmt.Printf("ops=%d (%.0f ops/s)  missing-glyphs=%d\n",
		ops, float64(ops)/elapsed.Seconds(), atomic.LoadUint64(&missing))
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%  evictions=%d  rasterizations=%d\n",
		st.Hits, st.Misses, hitRate, st.Evictions, st.Rasterizations)
	fmt.Printf("slots=%d  resident=%d  free=%d\n", st.Slots, st.Resident, st.Free)

	if cfg.DumpDir != "" {
		paths, err := dumpLayers(cfg.DumpDir, tex)
		if err != nil {
			log.Fatal(err)
		}
		for _, p := range paths {
			log.Printf("dump: wrote %s", p)
		}
	}
}

// loadConfig reads the config file named by --config and applies the flags
// that were set explicitly on top of it.
func loadConfig(args []string) (config.Config, error) {
	def := config.DefaultConfig()

	fs := flag.NewFlagSet("atlasbench", flag.ContinueOnError)
	var (
		path        = fs.StringP("config", "c", "", "JSONC config file")
		fontPath    = fs.String("font", def.Font, "font file (empty = Go Mono)")
		fontSize    = fs.Float64("size", def.FontSize, "font size in pixels")
		cellW       = fs.Int("cell-width", 0, "cell width (0 = from font)")
		cellH       = fs.Int("cell-height", 0, "cell height (0 = from font)")
		slots       = fs.Int("slots", def.Slots, "atlas slots")
		pol         = fs.String("policy", def.Policy, "eviction policy: lru | 2q")
		workers     = fs.IntP("workers", "w", def.Workers, "number of worker goroutines")
		duration    = fs.DurationP("duration", "d", time.Duration(def.Duration), "benchmark duration")
		runes       = fs.Int("runes", def.Runes, "code point range size, starting at U+0021")
		zipfS       = fs.Float64("zipf-s", def.ZipfS, "Zipf s > 1 (skew)")
		seed        = fs.Int64("seed", 0, "random seed (0 = time based)")
		metricsAddr = fs.String("http", def.MetricsAddr, "serve Prometheus metrics at addr; empty = disabled")
		pprofAddr   = fs.String("pprof", def.PprofAddr, "serve pprof at addr (e.g. :6060); empty = disabled")
		dumpDir     = fs.String("dump", def.DumpDir, "write atlas layers as PNG into dir")
		verbose     = fs.BoolP("verbose", "v", false, "log atlas activity to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Read(*path)
	if err != nil {
		return config.Config{}, err
	}

	// Flags override the file only when given.
	overrides := map[string]func(){
		"font":        func() { cfg.Font = *fontPath },
		"size":        func() { cfg.FontSize = *fontSize },
		"cell-width":  func() { cfg.CellWidth = *cellW },
		"cell-height": func() { cfg.CellHeight = *cellH },
		"slots":       func() { cfg.Slots = *slots },
		"policy":      func() { cfg.Policy = *pol },
		"workers":     func() { cfg.Workers = *workers },
		"duration":    func() { cfg.Duration = config.Duration(*duration) },
		"runes":       func() { cfg.Runes = *runes },
		"zipf-s":      func() { cfg.ZipfS = *zipfS },
		"seed":        func() { cfg.Seed = *seed },
		"http":        func() { cfg.MetricsAddr = *metricsAddr },
		"pprof":       func() { cfg.PprofAddr = *pprofAddr },
		"dump":        func() { cfg.DumpDir = *dumpDir },
		"verbose":     func() { cfg.Verbose = *verbose },
	}
	fs.Visit(func(f *flag.Flag) {
		if set, ok := overrides[f.Name]; ok {
			set()
		}
	})
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openFace takes the configured face from m; the caller releases it.
func openFace(m *font.Manager, cfg config.Config) (*font.Handle, error) {
	h, err := m.Face(cfg.Font, cfg.FontSize)
	if err != nil {
		return nil, fmt.Errorf("open font: %w", err)
	}
	return h, nil
}

func newPolicy(cfg config.Config) policy.Policy[int, atlas.Slot] {
	if cfg.Policy == "2q" {
		// split 2Q queues as a simple default
		return twoq.New[int, atlas.Slot](cfg.Slots/4, cfg.Slots/2)
	}
	return nil // nil => LRU by default
}
