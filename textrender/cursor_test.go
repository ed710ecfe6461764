package textrender

import (
	"testing"
	"time"
)

func TestBlinker_TogglesAfterPeriod(t *testing.T) {
	b := NewBlinker(500 * time.Millisecond)
	t0 := time.Unix(0, 0)

	visible, changed := b.Update(t0, true)
	if !visible {
		t.Error("expected visible at t0")
	}
	if changed {
		t.Error("first Update should not report a change")
	}

	visible, changed = b.Update(t0.Add(600*time.Millisecond), true)
	if visible {
		t.Error("expected hidden after one half-period")
	}
	if !changed {
		t.Error("expected change after crossing half-period")
	}
}

func TestBlinker_DisabledIsAlwaysHidden(t *testing.T) {
	b := NewBlinker(500 * time.Millisecond)
	t0 := time.Unix(0, 0)

	b.Update(t0, true)
	visible, changed := b.Update(t0.Add(10*time.Millisecond), false)
	if visible {
		t.Error("expected hidden when disabled")
	}
	if !changed {
		t.Error("expected change on enabled->disabled transition")
	}

	visible, changed = b.Update(t0.Add(20*time.Millisecond), false)
	if visible || changed {
		t.Error("expected stable hidden state while still disabled")
	}
}
