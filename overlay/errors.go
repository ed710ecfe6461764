package overlay

import "errors"

var (
	// ErrUnknownPlugin is returned by Registry.Get for an unregistered name.
	ErrUnknownPlugin = errors.New("unknown plugin")
	// ErrLayerFailed marks a layer that failed init/render and will not
	// be retried, per the spec's layer-local failure handling.
	ErrLayerFailed = errors.New("layer failed")
	// ErrNoShaderForCodepoint is returned when a custom-glyph codepoint
	// has no configured shader mapping.
	ErrNoShaderForCodepoint = errors.New("no shader mapped for codepoint")
)
