package atlas

import "errors"

// Atlas errors.
var (
	// ErrCapacityViolation is returned at construction when the requested
	// slot count or cell size cannot describe a usable atlas.
	ErrCapacityViolation = errors.New("atlas: capacity violation")

	// ErrRasterization is returned by LocationFor when the rasterizer cannot
	// produce a usable bitmap. The atlas is unchanged and the call can be
	// retried with other content.
	ErrRasterization = errors.New("atlas: rasterization failed")

	// ErrMalformedBitmap is returned when a bitmap's metrics do not match
	// its coverage buffer.
	ErrMalformedBitmap = errors.New("atlas: malformed bitmap")

	// ErrUpload is returned when the texture rejects an upload. It is fatal:
	// the atlas refuses further work afterwards.
	ErrUpload = errors.New("atlas: texture upload failed")

	// ErrTextureBounds is returned by MemoryTexture for an upload outside
	// the allocated layers.
	ErrTextureBounds = errors.New("atlas: upload outside texture bounds")
)
