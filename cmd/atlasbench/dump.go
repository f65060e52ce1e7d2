package main

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/IvanBrykalov/tileatlas/atlas"
)

// dumpLayers writes every texture layer to dir as layer-NN.png and returns
// the written paths. Files are replaced atomically so a viewer never sees a
// half-written image.
func dumpLayers(dir string, tex *atlas.MemoryTexture) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("dump: %w", err)
	}
	paths := make([]string, 0, tex.Layers())
	var buf bytes.Buffer
	for i := 0; i < tex.Layers(); i++ {
		buf.Reset()
		if err := png.Encode(&buf, tex.Layer(i)); err != nil {
			return paths, fmt.Errorf("dump: encode layer %d: %w", i, err)
		}
		path := filepath.Join(dir, fmt.Sprintf("layer-%02d.png", i))
		if err := atomic.WriteFile(path, &buf); err != nil {
			return paths, fmt.Errorf("dump: write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
