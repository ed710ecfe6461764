package textrender

import "time"

// Blinker drives cursor visibility from an external time source with
// a configurable on/off half-period (default 500ms/500ms).
type Blinker struct {
	period    time.Duration
	lastFlip  time.Time
	visible   bool
	enabled   bool
	initAt    time.Time
	hasInit   bool
}

// NewBlinker creates a blinker with the given half-period.
func NewBlinker(period time.Duration) Blinker {
	return Blinker{period: period, visible: true}
}

// Update advances the blinker to now and returns the current
// visibility and whether it changed since the previous call. When
// enabled is false the cursor is always invisible and never reported
// as changing due to blink (only the enabled transition itself counts
// as a change).
func (b *Blinker) Update(now time.Time, enabled bool) (visible bool, changed bool) {
	if !b.hasInit {
		b.initAt = now
		b.lastFlip = now
		b.hasInit = true
	}

	wasVisible := b.enabled && b.visible
	b.enabled = enabled

	if !enabled {
		changed = wasVisible
		return false, changed
	}

	if now.Sub(b.lastFlip) >= b.period {
		periods := now.Sub(b.lastFlip) / b.period
		if periods < 1 {
			periods = 1
		}
		b.visible = (int64(periods)%2 == 0) != b.visible
		b.lastFlip = b.lastFlip.Add(periods * b.period)
	}

	nowVisible := b.visible
	return nowVisible, nowVisible != wasVisible
}
