package wire

import (
	"encoding/binary"
	"testing"
)

func mouseMoveRecord(x, y int16) []byte {
	body := make([]byte, 4)
	binary.LittleEndian.PutUint16(body[0:], uint16(x))
	binary.LittleEndian.PutUint16(body[2:], uint16(y))
	h := EncodeInputHeader(InputHeader{Type: EventMouseMove, DataSize: uint16(len(body))})
	return append(h, body...)
}

func TestValidatePayloadSize(t *testing.T) {
	if err := ValidatePayloadSize(EventMouseMove, 4); err != nil {
		t.Errorf("expected MOUSE_MOVE/4 to validate, got %v", err)
	}
	if err := ValidatePayloadSize(EventMouseMove, 5); err != ErrBadPayloadSize {
		t.Errorf("expected ErrBadPayloadSize for wrong fixed size, got %v", err)
	}
	if err := ValidatePayloadSize(EventTextInput, MaxTextInputSize+1); err != ErrBadPayloadSize {
		t.Errorf("expected ErrBadPayloadSize beyond MaxTextInputSize, got %v", err)
	}
	if err := ValidatePayloadSize(EventTextInput, MaxTextInputSize); err != nil {
		t.Errorf("expected MaxTextInputSize itself to validate, got %v", err)
	}
	if err := ValidatePayloadSize(200, 4); err != ErrUnknownEvent {
		t.Errorf("expected ErrUnknownEvent for unregistered type, got %v", err)
	}
}

func TestDemux_WholeRecordInOneFeed(t *testing.T) {
	d := NewDemux()
	record := mouseMoveRecord(10, -20)

	var got []Event
	if err := d.FeedData(record, func(e Event) { got = append(got, e) }); err != nil {
		t.Fatalf("FeedData: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	mv := DecodeMouseMove(got[0].Payload)
	if mv.X != 10 || mv.Y != -20 {
		t.Errorf("got %+v", mv)
	}
}

// TestDemux_SplitAcrossSevenFeeds exercises a single MOUSE_MOVE record
// split byte-by-arbitrary-chunk across seven FeedData calls, mirroring
// a record arriving across multiple short reads.
func TestDemux_SplitAcrossSevenFeeds(t *testing.T) {
	record := mouseMoveRecord(100, 200)
	splits := [][2]int{{0, 1}, {1, 3}, {3, 4}, {4, 5}, {5, 6}, {6, 7}, {7, 8}}
	if len(record) != 8 {
		t.Fatalf("expected an 8-byte record (4 header + 4 body), got %d", len(record))
	}

	d := NewDemux()
	var got []Event
	for _, sp := range splits {
		if err := d.FeedData(record[sp[0]:sp[1]], func(e Event) { got = append(got, e) }); err != nil {
			t.Fatalf("FeedData: %v", err)
		}
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 event from the split feed, got %d", len(got))
	}
	mv := DecodeMouseMove(got[0].Payload)
	if mv.X != 100 || mv.Y != 200 {
		t.Errorf("got %+v", mv)
	}
}

func TestDemux_MultipleRecordsInOneChunk(t *testing.T) {
	buf := append(mouseMoveRecord(1, 2), mouseMoveRecord(3, 4)...)

	d := NewDemux()
	var got []Event
	if err := d.FeedData(buf, func(e Event) { got = append(got, e) }); err != nil {
		t.Fatalf("FeedData: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
}

func TestDemux_RejectsBadPayloadSize(t *testing.T) {
	h := EncodeInputHeader(InputHeader{Type: EventMouseMove, DataSize: 99})
	d := NewDemux()
	if err := d.FeedData(h, func(Event) {}); err != ErrBadPayloadSize {
		t.Errorf("expected ErrBadPayloadSize, got %v", err)
	}
}

func TestDemux_ZeroLengthPayload(t *testing.T) {
	h := EncodeInputHeader(InputHeader{Type: EventCellSize, Reserved: 0, DataSize: 1})
	body := []byte{18}
	var got []Event
	d := NewDemux()
	if err := d.FeedData(append(h, body...), func(e Event) { got = append(got, e) }); err != nil {
		t.Fatalf("FeedData: %v", err)
	}
	if len(got) != 1 || DecodeCellSize(got[0].Payload).CellHeight != 18 {
		t.Errorf("got %+v", got)
	}
}
