// Package atlas packs frequently changing bitmaps (rendered glyphs, tiles)
// into a fixed set of equally sized cells of a layered texture.
//
// An Atlas couples a bounded cache (package cache) with a SlotPool. The
// renderer asks LocationFor(id) once per visible tile per frame. On a hit
// the cached cell is returned and its recency bumped. On a miss the atlas
// rasterizes the content into a scratch cell, then takes a free cell
// (evicting the least recently used content when none is free) and uploads
// the scratch cell to the Texture.
//
// # Geometry
//
// Plan picks the layer size with a first-fit search over power-of-two sizes
// and spreads the cells over as many layers as needed. Cells are numbered
// row-major, layer after layer; slot 0 is handed out first.
//
// # Invariants
//
//   - free slots + resident content == total slots, after every call,
//     including the error paths.
//   - A miss never needs the cache to evict during insertion: a slot is freed
//     and taken before the new entry is inserted.
//   - Bitmap placement never writes outside the target cell.
//
// # Errors
//
// ErrCapacityViolation is returned by New for unusable sizes.
// ErrRasterization is recoverable and leaves no trace in the atlas.
// ErrUpload is fatal: the atlas refuses further work (see IsFatal).
package atlas
