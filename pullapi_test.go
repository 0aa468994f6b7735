package coreterm

import (
	"testing"
	"time"

	"github.com/coreterm/coreterm/internal/vtparse"
)

func TestTakeRepliesDrainsAndResets(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b[6n") // DSR cursor position report

	replies := term.TakeReplies()
	if len(replies) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(replies))
	}

	if again := term.TakeReplies(); again != nil {
		t.Errorf("expected nil after drain, got %v", again)
	}
}

func TestTakeEventsRecordsBell(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x07")

	events := term.TakeEvents()
	if len(events) != 1 || events[0].Kind != EventBell {
		t.Fatalf("expected 1 bell event, got %v", events)
	}

	if again := term.TakeEvents(); again != nil {
		t.Errorf("expected nil after drain, got %v", again)
	}
}

func TestTakeEventsRecordsTitleChange(t *testing.T) {
	term := New(WithSize(24, 80))

	term.WriteString("\x1b]0;hello\x07")

	events := term.TakeEvents()
	if len(events) != 1 || events[0].Kind != EventTitleChanged || events[0].Title != "hello" {
		t.Fatalf("expected title event, got %v", events)
	}
}

func TestTakeDamageCoalescesSpans(t *testing.T) {
	term := New(WithSize(24, 80))
	term.TakeDamage() // drain initial state

	term.WriteString("abc")

	damage := term.TakeDamage()
	if len(damage.Spans) != 1 {
		t.Fatalf("expected 1 span, got %d: %v", len(damage.Spans), damage.Spans)
	}
	span := damage.Spans[0]
	if span.Row != 0 || span.StartCol != 0 || span.EndCol != 3 {
		t.Errorf("expected row 0 cols [0,3), got %+v", span)
	}

	if empty := term.TakeDamage(); len(empty.Spans) != 0 {
		t.Errorf("expected no damage after drain, got %v", empty.Spans)
	}
}

func TestTakeDamageFullInvalidateOnBufferSwitch(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("hello")
	term.TakeDamage() // drain the write above

	term.WriteString("\x1b[?1049h") // enter alternate screen
	damage := term.TakeDamage()
	if !damage.FullInvalidate {
		t.Fatalf("expected full invalidate entering alt screen, got %+v", damage)
	}

	term.WriteString("\x1b[?1049l") // leave alternate screen
	damage = term.TakeDamage()
	if !damage.FullInvalidate {
		t.Fatalf("expected full invalidate leaving alt screen, got %+v", damage)
	}
}

func TestInputWideCharWrapBlanksVacatedColumn(t *testing.T) {
	term := New(WithSize(24, 3))

	term.WriteString("abc")
	term.Goto(0, 2) // back onto the last column, which holds 'c'
	term.WriteString("中") // wide char needs 2 cells, doesn't fit, wraps

	snap := term.Snapshot(SnapshotDetailFull)
	lastCell := snap.Lines[0].Cells[2]
	if lastCell.Char != " " {
		t.Errorf("expected vacated last column to be blanked, got %q", lastCell.Char)
	}
}

func TestSendKeyArrowCursorMode(t *testing.T) {
	term := New(WithSize(24, 80))

	got := term.SendKey(KeyEvent{Key: KeyUp})
	if string(got) != "\x1b[A" {
		t.Errorf("expected CSI A in normal mode, got %q", got)
	}

	term.SetMode(vtparse.DECModeCursorKeys)
	got = term.SendKey(KeyEvent{Key: KeyUp})
	if string(got) != "\x1bOA" {
		t.Errorf("expected SS3 A in application mode, got %q", got)
	}
}

func TestSendKeyCtrlLetter(t *testing.T) {
	term := New(WithSize(24, 80))

	got := term.SendKey(KeyEvent{Rune: 'c', Ctrl: true})
	if len(got) != 1 || got[0] != 0x03 {
		t.Errorf("expected ETX (0x03) for Ctrl-C, got %v", got)
	}
}

func TestSendKeyMouseRequiresReportingMode(t *testing.T) {
	term := New(WithSize(24, 80))

	if got := term.SendKey(KeyEvent{IsMouse: true, Button: MouseButtonLeft}); got != nil {
		t.Errorf("expected nil with no mouse mode set, got %v", got)
	}

	term.SetMode(vtparse.DECModeReportMouseClicks)
	term.SetMode(vtparse.DECModeSGRMouse)
	got := term.SendKey(KeyEvent{IsMouse: true, Button: MouseButtonLeft, MouseX: 4, MouseY: 2})
	if string(got) != "\x1b[<0;5;3M" {
		t.Errorf("expected SGR mouse report, got %q", got)
	}
}

func TestWrapBracketedPaste(t *testing.T) {
	term := New(WithSize(24, 80))

	if got := string(term.WrapBracketedPaste("hi")); got != "hi" {
		t.Errorf("expected unwrapped text, got %q", got)
	}

	term.SetMode(vtparse.DECModeBracketedPaste)
	if got := string(term.WrapBracketedPaste("hi")); got != "\x1b[200~hi\x1b[201~" {
		t.Errorf("expected bracketed text, got %q", got)
	}
}

func TestTickFlipsBlinkPhaseWhenEnabled(t *testing.T) {
	term := New(WithSize(24, 80))
	term.SetMode(vtparse.DECModeBlinkingCursor)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	term.Tick(base)

	before := term.cursor.BlinkOn
	term.Tick(base.Add(600 * time.Millisecond))
	if term.cursor.BlinkOn == before {
		t.Errorf("expected blink phase to flip after interval elapsed")
	}
}

func TestResizeRejectsInvalidDimensions(t *testing.T) {
	term := New(WithSize(24, 80))

	if err := term.Resize(0, 10); err != ErrInvalidDimensions {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
	if err := term.Resize(10, 80); err != nil {
		t.Errorf("expected no error on valid resize, got %v", err)
	}
}

func TestSnapshotRegionBounds(t *testing.T) {
	term := New(WithSize(24, 80))
	term.WriteString("hello")

	_, err := term.SnapshotRegion(Rect{Top: 0, Left: 0, Bottom: 100, Right: 80}, SnapshotDetailFull)
	if err != ErrRegionOutOfBounds {
		t.Errorf("expected ErrRegionOutOfBounds, got %v", err)
	}

	region, err := term.SnapshotRegion(Rect{Top: 0, Left: 0, Bottom: 1, Right: 5}, SnapshotDetailFull)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if region.Size.Rows != 1 || region.Size.Cols != 5 {
		t.Errorf("expected 1x5 region, got %+v", region.Size)
	}
}
