package coreterm

import "fmt"

// Key names a non-printable key for KeyEvent.Key. Printable keys are sent
// as KeyEvent.Rune instead and don't need an entry here.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyBackspace
	KeyTab
	KeyEnter
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// MouseButton identifies which button a mouse event reports.
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonMiddle
	MouseButtonRight
	MouseButtonRelease
	MouseButtonWheelUp
	MouseButtonWheelDown
)

// KeyEvent is a structured input event a host translates into PTY bytes
// via SendKey. Exactly one of Rune or Key should be set for a key event;
// IsMouse selects the mouse-event fields instead.
type KeyEvent struct {
	Rune  rune
	Key   Key
	Shift bool
	Alt   bool
	Ctrl  bool

	IsMouse bool
	MouseX  int // 0-based column
	MouseY  int // 0-based row
	Button  MouseButton
	Motion  bool // true for a motion report rather than a press/release
}

// SendKey translates a structured key or mouse event into the bytes the
// host should write back to the PTY, honoring cursor-key mode and the active
// mouse reporting mode/encoding. Bracketed paste is not applied here; pasted
// text is wrapped by WrapBracketedPaste.
func (t *Terminal) SendKey(ev KeyEvent) []byte {
	t.mu.RLock()
	modes := t.modes
	t.mu.RUnlock()

	if ev.IsMouse {
		return encodeMouseEvent(ev, modes)
	}
	return encodeKeyEvent(ev, modes)
}

func encodeKeyEvent(ev KeyEvent, modes TerminalMode) []byte {
	if ev.Key == KeyNone && ev.Rune != 0 {
		if ev.Ctrl && ev.Rune >= 'a' && ev.Rune <= 'z' {
			return []byte{byte(ev.Rune-'a') + 1}
		}
		if ev.Alt {
			return append([]byte{0x1b}, []byte(string(ev.Rune))...)
		}
		return []byte(string(ev.Rune))
	}

	cursorApp := modes&ModeCursorKeys != 0
	arrow := func(final byte) []byte {
		if cursorApp {
			return []byte{0x1b, 'O', final}
		}
		return []byte{0x1b, '[', final}
	}

	switch ev.Key {
	case KeyUp:
		return arrow('A')
	case KeyDown:
		return arrow('B')
	case KeyRight:
		return arrow('C')
	case KeyLeft:
		return arrow('D')
	case KeyHome:
		return arrow('H')
	case KeyEnd:
		return arrow('F')
	case KeyPageUp:
		return []byte("\x1b[5~")
	case KeyPageDown:
		return []byte("\x1b[6~")
	case KeyInsert:
		return []byte("\x1b[2~")
	case KeyDelete:
		return []byte("\x1b[3~")
	case KeyBackspace:
		return []byte{0x7f}
	case KeyTab:
		if ev.Shift {
			return []byte("\x1b[Z")
		}
		return []byte{0x09}
	case KeyEnter:
		return []byte{0x0d}
	case KeyEscape:
		return []byte{0x1b}
	case KeyF1:
		return []byte("\x1bOP")
	case KeyF2:
		return []byte("\x1bOQ")
	case KeyF3:
		return []byte("\x1bOR")
	case KeyF4:
		return []byte("\x1bOS")
	case KeyF5:
		return []byte("\x1b[15~")
	case KeyF6:
		return []byte("\x1b[17~")
	case KeyF7:
		return []byte("\x1b[18~")
	case KeyF8:
		return []byte("\x1b[19~")
	case KeyF9:
		return []byte("\x1b[20~")
	case KeyF10:
		return []byte("\x1b[21~")
	case KeyF11:
		return []byte("\x1b[23~")
	case KeyF12:
		return []byte("\x1b[24~")
	}
	return nil
}

// WrapBracketedPaste wraps text in the bracketed-paste markers if that mode
// is currently enabled, otherwise returns it unchanged.
func (t *Terminal) WrapBracketedPaste(text string) []byte {
	t.mu.RLock()
	enabled := t.modes&ModeBracketedPaste != 0
	t.mu.RUnlock()

	if !enabled {
		return []byte(text)
	}
	return []byte("\x1b[200~" + text + "\x1b[201~")
}

func encodeMouseEvent(ev KeyEvent, modes TerminalMode) []byte {
	reportAny := modes&(ModeReportMouseClicks|ModeReportCellMouseMotion|ModeReportAllMouseMotion) != 0
	if !reportAny {
		return nil
	}
	if ev.Motion && modes&(ModeReportCellMouseMotion|ModeReportAllMouseMotion) == 0 {
		return nil
	}

	btn := mouseButtonCode(ev)
	if ev.Shift {
		btn |= 4
	}
	if ev.Alt {
		btn |= 8
	}
	if ev.Ctrl {
		btn |= 16
	}
	if ev.Motion {
		btn |= 32
	}

	if modes&ModeSGRMouse != 0 {
		final := byte('M')
		releaseBtn := btn
		if ev.Button == MouseButtonRelease {
			final = 'm'
			releaseBtn = btn &^ 3
		}
		return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", releaseBtn, ev.MouseX+1, ev.MouseY+1, final))
	}

	// Legacy X10/normal encoding: coordinates clamped to the 1-223 range
	// the single-byte scheme can represent (223 = 255 - 32).
	x, y := ev.MouseX+1, ev.MouseY+1
	if x > 223 {
		x = 223
	}
	if y > 223 {
		y = 223
	}
	return []byte{0x1b, '[', 'M', byte(32 + btn), byte(32 + x), byte(32 + y)}
}

func mouseButtonCode(ev KeyEvent) int {
	switch ev.Button {
	case MouseButtonLeft:
		return 0
	case MouseButtonMiddle:
		return 1
	case MouseButtonRight:
		return 2
	case MouseButtonRelease:
		return 3
	case MouseButtonWheelUp:
		return 64
	case MouseButtonWheelDown:
		return 65
	default:
		return 3
	}
}
