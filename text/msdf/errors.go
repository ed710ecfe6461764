package msdf

import "errors"

// Sentinel errors for msdf package.
var (
	// ErrAllocationFailed is returned when glyph allocation in atlas fails.
	ErrAllocationFailed = errors.New("msdf: failed to allocate glyph in atlas")

	// ErrLengthMismatch is returned when keys and outlines have different lengths.
	ErrLengthMismatch = errors.New("msdf: keys and outlines must have same length")

	// ErrFontLoadFailed is returned when the primary or a fallback font
	// cannot be parsed or opened.
	ErrFontLoadFailed = errors.New("msdf: font load failed")

	// ErrAtlasFull is returned when the shelf packer cannot place a glyph
	// because no shelf transition fits within the atlas height.
	ErrAtlasFull = errors.New("msdf: atlas full")

	// ErrGpuAllocFailed is returned when texture, sampler, or metrics
	// buffer creation fails on the device.
	ErrGpuAllocFailed = errors.New("msdf: gpu allocation failed")

	// ErrIoError is returned by Save/Load on filesystem failures.
	ErrIoError = errors.New("msdf: io error")

	// ErrNoGPUResources is returned by UploadPending when called before
	// CreateGPUResources.
	ErrNoGPUResources = errors.New("msdf: gpu resources not created")
)
