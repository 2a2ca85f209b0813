package logic

import "time"

// Button debounces a single push-button line and distinguishes short
// presses from long holds. A change of level is accepted only after it
// has held for the debounce window; anything faster is absorbed
// silently. ShortPress fires on the stable press edge, LongPress fires
// exactly once per continuous hold, and release re-arms both.
type Button struct {
	debounce time.Duration
	hold     time.Duration

	raw      bool
	rawSince time.Time
	sawRaw   bool

	primed    bool
	pressed   bool
	pressedAt time.Time
	longFired bool
}

// NewButton creates a Button with the given debounce window and
// long-press hold threshold.
func NewButton(debounce, hold time.Duration) *Button {
	return &Button{debounce: debounce, hold: hold}
}

// Poll feeds one sample of the logical button level and returns the
// event it produced, if any. The first stable level after startup is
// taken as baseline and produces no event, matching the behavior of a
// button that was already held when the process started.
func (b *Button) Poll(pressed bool, now time.Time) ButtonEvent {
	if !b.sawRaw || pressed != b.raw {
		b.raw = pressed
		b.rawSince = now
		b.sawRaw = true
	}

	if b.primed && pressed == b.pressed {
		if b.pressed && !b.longFired && now.Sub(b.pressedAt) >= b.hold {
			b.longFired = true
			return LongPress
		}
		return NoEvent
	}

	// Level differs from the stable state (or no baseline yet); it must
	// hold for the full debounce window before it is accepted.
	if now.Sub(b.rawSince) < b.debounce {
		return NoEvent
	}

	b.pressed = pressed
	if !b.primed {
		b.primed = true
		if b.pressed {
			b.pressedAt = now
			b.longFired = false
		}
		return NoEvent
	}

	if b.pressed {
		b.pressedAt = now
		b.longFired = false
		return ShortPress
	}

	// Stable release: clear the press timer.
	b.pressedAt = time.Time{}
	return NoEvent
}

// Pressed returns the current stable (debounced) level.
func (b *Button) Pressed() bool {
	return b.pressed
}
