package wire

import "encoding/binary"

// Input event type tags.
const (
	EventMouseMove   uint8 = 0
	EventMouseButton uint8 = 1
	EventMouseScroll uint8 = 2
	EventKeyDown     uint8 = 3
	EventKeyUp       uint8 = 4
	EventTextInput   uint8 = 5
	EventResize      uint8 = 6
	EventCellSize    uint8 = 7
)

// InputHeaderSize is size_of<InputHeader>.
const InputHeaderSize = 1 + 1 + 2

// MaxTextInputSize is the sanity cap on TEXT_INPUT payload size.
const MaxTextInputSize = 1024

// payloadSize is the fixed payload size per event type, or -1 for
// variable-length (TEXT_INPUT only, capped at MaxTextInputSize).
var payloadSize = map[uint8]int{
	EventMouseMove:   4,
	EventMouseButton: 6,
	EventMouseScroll: 8,
	EventKeyDown:     9,
	EventKeyUp:       9,
	EventTextInput:   -1,
	EventResize:      4,
	EventCellSize:    1,
}

// InputHeader precedes every event body on the wire.
type InputHeader struct {
	Type     uint8
	Reserved uint8
	DataSize uint16
}

// DecodeInputHeader parses a 4-byte InputHeader.
func DecodeInputHeader(b []byte) InputHeader {
	return InputHeader{
		Type:     b[0],
		Reserved: b[1],
		DataSize: binary.LittleEndian.Uint16(b[2:4]),
	}
}

// EncodeInputHeader serializes h into 4 bytes.
func EncodeInputHeader(h InputHeader) []byte {
	buf := make([]byte, InputHeaderSize)
	buf[0] = h.Type
	buf[1] = h.Reserved
	binary.LittleEndian.PutUint16(buf[2:], h.DataSize)
	return buf
}

// ValidatePayloadSize checks dataSize against the per-type allow-list
// and sanity caps: fixed types must match exactly, TEXT_INPUT must not
// exceed MaxTextInputSize.
func ValidatePayloadSize(eventType uint8, dataSize int) error {
	want, ok := payloadSize[eventType]
	if !ok {
		return ErrUnknownEvent
	}
	if want == -1 {
		if dataSize > MaxTextInputSize {
			return ErrBadPayloadSize
		}
		return nil
	}
	if dataSize != want {
		return ErrBadPayloadSize
	}
	return nil
}

// MouseMove is the MOUSE_MOVE(0) payload.
type MouseMove struct{ X, Y int16 }

func DecodeMouseMove(b []byte) MouseMove {
	return MouseMove{X: int16(binary.LittleEndian.Uint16(b[0:2])), Y: int16(binary.LittleEndian.Uint16(b[2:4]))}
}

// MouseButton is the MOUSE_BUTTON(1) payload.
type MouseButton struct {
	X, Y    int16
	Button  uint8
	Pressed bool
}

func DecodeMouseButton(b []byte) MouseButton {
	return MouseButton{
		X:       int16(binary.LittleEndian.Uint16(b[0:2])),
		Y:       int16(binary.LittleEndian.Uint16(b[2:4])),
		Button:  b[4],
		Pressed: b[5] != 0,
	}
}

// MouseScroll is the MOUSE_SCROLL(2) payload.
type MouseScroll struct{ X, Y, DX, DY int16 }

func DecodeMouseScroll(b []byte) MouseScroll {
	return MouseScroll{
		X:  int16(binary.LittleEndian.Uint16(b[0:2])),
		Y:  int16(binary.LittleEndian.Uint16(b[2:4])),
		DX: int16(binary.LittleEndian.Uint16(b[4:6])),
		DY: int16(binary.LittleEndian.Uint16(b[6:8])),
	}
}

// KeyEvent is the KEY_DOWN(3)/KEY_UP(4) payload.
type KeyEvent struct {
	Keycode  uint32
	Scancode uint32
	Mods     uint8
}

func DecodeKeyEvent(b []byte) KeyEvent {
	return KeyEvent{
		Keycode:  binary.LittleEndian.Uint32(b[0:4]),
		Scancode: binary.LittleEndian.Uint32(b[4:8]),
		Mods:     b[8],
	}
}

// Resize is the RESIZE payload.
type Resize struct{ Width, Height uint16 }

func DecodeResize(b []byte) Resize {
	return Resize{
		Width:  binary.LittleEndian.Uint16(b[0:2]),
		Height: binary.LittleEndian.Uint16(b[2:4]),
	}
}

// CellSize is the CELL_SIZE payload.
type CellSize struct{ CellHeight uint8 }

func DecodeCellSize(b []byte) CellSize { return CellSize{CellHeight: b[0]} }

// Event is one fully-parsed input record handed to a Demux's callback.
type Event struct {
	Type    uint8
	Payload []byte
}

// Demux incrementally parses a byte stream of InputHeader-prefixed
// records, one TCP connection's worth at a time. Data arrives in
// arbitrary chunks (a single read may split a header or a body across
// calls); Demux buffers partial records and reports only complete ones.
type Demux struct {
	headerBuf     []byte
	readingHeader bool
	current       InputHeader
	body          []byte
	needed        int
}

// NewDemux returns a Demux ready to parse a fresh connection's stream.
func NewDemux() *Demux {
	return &Demux{readingHeader: true, needed: InputHeaderSize}
}

// FeedData appends chunk to the parse buffer and invokes onEvent once
// per complete record it yields, in order. It returns the first error
// encountered (header validation failure); parsing stops at that
// point, leaving the Demux's state undefined for further feeds.
func (d *Demux) FeedData(chunk []byte, onEvent func(Event)) error {
	for len(chunk) > 0 {
		if d.readingHeader {
			take := d.needed - len(d.headerBuf)
			if take > len(chunk) {
				take = len(chunk)
			}
			d.headerBuf = append(d.headerBuf, chunk[:take]...)
			chunk = chunk[take:]
			if len(d.headerBuf) < d.needed {
				continue
			}
			h := DecodeInputHeader(d.headerBuf)
			if err := ValidatePayloadSize(h.Type, int(h.DataSize)); err != nil {
				return err
			}
			d.current = h
			d.headerBuf = d.headerBuf[:0]
			d.readingHeader = false
			d.needed = int(h.DataSize)
			d.body = d.body[:0]
			if d.needed == 0 {
				onEvent(Event{Type: h.Type, Payload: nil})
				d.readingHeader = true
				d.needed = InputHeaderSize
			}
			continue
		}

		take := d.needed - len(d.body)
		if take > len(chunk) {
			take = len(chunk)
		}
		d.body = append(d.body, chunk[:take]...)
		chunk = chunk[take:]
		if len(d.body) < d.needed {
			continue
		}
		payload := make([]byte, len(d.body))
		copy(payload, d.body)
		onEvent(Event{Type: d.current.Type, Payload: payload})
		d.readingHeader = true
		d.needed = InputHeaderSize
	}
	return nil
}
