package coreterm

import "time"

// Tick advances time-driven state that has no natural trigger from parsed
// input, namely the cursor blink phase. Hosts call this from their own
// render loop or timer; it is the only entry point that takes a clock
// value rather than deriving one internally, so callers fully control
// pacing and stay free of wall-clock reads from this package.
func (t *Terminal) Tick(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.cursor.blinks() || t.modes&ModeBlinkingCursor == 0 {
		return
	}

	if t.lastBlinkTick.IsZero() {
		t.lastBlinkTick = now
		return
	}

	if now.Sub(t.lastBlinkTick) >= cursorBlinkInterval {
		t.cursor.BlinkOn = !t.cursor.BlinkOn
		t.lastBlinkTick = now
	}
}
