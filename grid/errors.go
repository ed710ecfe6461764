package grid

import "errors"

// ErrInvalidSize is returned by Resize when cols or rows is not positive.
var ErrInvalidSize = errors.New("grid: cols and rows must both be positive")
