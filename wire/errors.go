package wire

import "errors"

var (
	ErrBadMagic       = errors.New("wire: bad frame magic")
	ErrOversizedFrame = errors.New("wire: frame exceeds sanity limits")
	ErrShortFrame     = errors.New("wire: truncated frame")
	ErrUnknownEvent   = errors.New("wire: unknown input event type")
	ErrBadPayloadSize = errors.New("wire: input payload size out of allow-list")
)
