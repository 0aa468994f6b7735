package coreterm

import "github.com/coreterm/coreterm/internal/vtparse"

// CharsetState tracks the four designated character sets (G0-G3), which of them
// is locked into GL (the invoking slot for GL-range bytes), and a pending
// single-shift override (SS2/SS3, good for exactly one character).
type CharsetState struct {
	g           [4]vtparse.Charset
	gl          vtparse.CharsetIndex
	singleShift vtparse.CharsetIndex
	hasShift    bool
}

// NewCharsetState returns charset state with all four slots at US-ASCII and G0 invoked.
func NewCharsetState() CharsetState {
	return CharsetState{
		g:  [4]vtparse.Charset{vtparse.CharsetASCII, vtparse.CharsetASCII, vtparse.CharsetASCII, vtparse.CharsetASCII},
		gl: vtparse.CharsetIndexG0,
	}
}

// Designate assigns a charset to one of the G0-G3 slots (ESC ( / ) / * / + Fs).
func (cs *CharsetState) Designate(index vtparse.CharsetIndex, charset vtparse.Charset) {
	if index >= vtparse.CharsetIndexG0 && index <= vtparse.CharsetIndexG3 {
		cs.g[index] = charset
	}
}

// LockShift invokes a slot into GL for all subsequent GL-range bytes (SI, SO, LS2, LS3).
func (cs *CharsetState) LockShift(index vtparse.CharsetIndex) {
	if index >= vtparse.CharsetIndexG0 && index <= vtparse.CharsetIndexG3 {
		cs.gl = index
	}
}

// SingleShift invokes a slot for exactly the next character (SS2, SS3).
func (cs *CharsetState) SingleShift(index vtparse.CharsetIndex) {
	cs.singleShift = index
	cs.hasShift = true
}

// Active returns the slot a GL-range byte currently resolves through: the
// pending single shift if one was requested, otherwise the locked GL slot.
func (cs *CharsetState) Active() vtparse.CharsetIndex {
	if cs.hasShift {
		return cs.singleShift
	}
	return cs.gl
}

// Translate maps r through the active slot's charset and clears any pending single shift.
func (cs *CharsetState) Translate(r rune) rune {
	idx := cs.Active()
	cs.hasShift = false

	switch cs.g[idx] {
	case vtparse.CharsetLineDrawing:
		return translateLineDrawing(r)
	case vtparse.CharsetUK:
		if r == '#' {
			return '£'
		}
		return r
	case vtparse.CharsetDECTechnical:
		return translateDECTechnical(r)
	default:
		return r
	}
}

// translateLineDrawing maps the VT100 DEC Special Graphics character set.
func translateLineDrawing(r rune) rune {
	switch r {
	case '`':
		return '◆'
	case 'a':
		return '▒'
	case 'b':
		return '␉'
	case 'c':
		return '␌'
	case 'd':
		return '␍'
	case 'e':
		return '␊'
	case 'f':
		return '°'
	case 'g':
		return '±'
	case 'h':
		return '␤'
	case 'i':
		return '␋'
	case 'j':
		return '┘'
	case 'k':
		return '┐'
	case 'l':
		return '┌'
	case 'm':
		return '└'
	case 'n':
		return '┼'
	case 'o':
		return '⎺'
	case 'p':
		return '⎻'
	case 'q':
		return '─'
	case 'r':
		return '⎼'
	case 's':
		return '⎽'
	case 't':
		return '├'
	case 'u':
		return '┤'
	case 'v':
		return '┴'
	case 'w':
		return '┬'
	case 'x':
		return '│'
	case 'y':
		return '≤'
	case 'z':
		return '≥'
	case '{':
		return 'π'
	case '|':
		return '≠'
	case '}':
		return '£'
	case '~':
		return '·'
	default:
		return r
	}
}

// translateDECTechnical maps a narrow subset of the DEC Technical character set.
func translateDECTechnical(r rune) rune {
	switch r {
	case 'a':
		return '√'
	case 'b':
		return '∫'
	case 'c':
		return '∞'
	case 'd':
		return 'π'
	case 'e':
		return '≥'
	case 'f':
		return '≤'
	case 'g':
		return '≈'
	default:
		return r
	}
}
