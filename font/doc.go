// Package font rasterizes characters of an OpenType/TrueType font into
// coverage bitmaps for package atlas.
//
// A Face parses the font once (golang.org/x/image/font/sfnt), renders glyph
// outlines with golang.org/x/image/vector and keeps recent bitmaps in a
// bounded cache, so re-rasterizing content evicted from an atlas is cheap.
// Faces are safe for concurrent use; concurrent requests for the same
// character share one rasterization.
//
// A Manager hands out shared faces by (path, size) and drops them, along
// with their parsed font, once the last Handle is released.
package font
