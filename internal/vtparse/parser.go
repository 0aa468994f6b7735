package vtparse

import (
	"encoding/base64"
	"image/color"
	"strconv"
	"strings"
)

type state int

const (
	stateGround state = iota
	stateEscape
	stateEscapeIntermediate
	stateCsiEntry
	stateCsiParam
	stateCsiIntermediate
	stateCsiIgnore
	stateOscString
	stateDcsEntry
	stateDcsParam
	stateDcsIntermediate
	stateDcsPassthrough
	stateDcsIgnore
	stateSosPmApcString
)

// maxStringLen bounds OSC/DCS/APC/PM/SOS payload accumulation. A sequence
// that grows past this aborts as if CAN had been received, matching how a
// real terminal protects itself from a runaway or malicious host.
const maxStringLen = 8 << 20

// stringKind names which string-collecting control introduced the current
// stateSosPmApcString run, since all three share one collection path.
type stringKind int

const (
	kindNone stringKind = iota
	kindAPC
	kindPM
	kindSOS
)

// Parser turns a raw byte stream into semantic calls against a Handler,
// implementing the DEC/ECMA-48 escape-sequence state machine.
type Parser struct {
	handler Handler

	state state

	// CSI/DCS parameter accumulation. params groups semicolon-separated
	// values; each group may itself hold colon-separated sub-parameters
	// (used by SGR truecolor and Sixel parameters).
	params       [][]int64
	curParamOpen bool // true once any digit of the current group has been seen
	private      byte // '?', '>', '=', '<', or 0
	intermediate []byte

	// OSC / DCS-passthrough / APC / PM / SOS payload accumulation.
	strBuf   []byte
	strKind  stringKind
	dcsFinal byte

	// UTF-8 decode buffer, used only in stateGround.
	utf8Buf       []byte
	utf8Remaining int
	utf8Need      int
}

// NewParser returns a Parser that drives h as it interprets bytes written to it.
func NewParser(h Handler) *Parser {
	return &Parser{handler: h, state: stateGround}
}

// Write feeds data into the parser, dispatching semantic calls to the Handler
// as complete sequences are recognized. It never returns an error; all bytes
// are always consumed.
func (p *Parser) Write(data []byte) (int, error) {
	for _, b := range data {
		p.feed(b)
	}
	return len(data), nil
}

func (p *Parser) feed(b byte) {
	// CAN/SUB abort any escape sequence in progress and return to ground.
	if (b == 0x18 || b == 0x1a) && p.state != stateGround {
		p.resetSequence()
		p.state = stateGround
		return
	}

	switch p.state {
	case stateGround:
		p.feedGround(b)
	case stateEscape:
		p.feedEscape(b)
	case stateEscapeIntermediate:
		p.feedEscapeIntermediate(b)
	case stateCsiEntry, stateCsiParam:
		p.feedCsiParam(b)
	case stateCsiIntermediate:
		p.feedCsiIntermediate(b)
	case stateCsiIgnore:
		p.feedCsiIgnore(b)
	case stateOscString:
		p.feedOscString(b)
	case stateDcsEntry, stateDcsParam:
		p.feedDcsParam(b)
	case stateDcsIntermediate:
		p.feedDcsIntermediate(b)
	case stateDcsPassthrough:
		p.feedDcsPassthrough(b)
	case stateDcsIgnore:
		p.feedDcsIgnore(b)
	case stateSosPmApcString:
		p.feedSosPmApcString(b)
	}
}

func (p *Parser) resetSequence() {
	p.params = nil
	p.curParamOpen = false
	p.private = 0
	p.intermediate = nil
	p.strBuf = nil
	p.strKind = kindNone
	p.dcsFinal = 0
}

// --- Ground ---

func (p *Parser) feedGround(b byte) {
	if p.utf8Remaining > 0 {
		if b&0xC0 == 0x80 {
			p.utf8Buf = append(p.utf8Buf, b)
			p.utf8Remaining--
			if p.utf8Remaining == 0 {
				p.handler.Input(decodeUTF8(p.utf8Buf, p.utf8Need))
				p.utf8Buf = nil
			}
			return
		}
		// Invalid continuation byte: emit replacement and reprocess b fresh.
		p.handler.Input(0xFFFD)
		p.utf8Buf = nil
		p.utf8Remaining = 0
		p.feedGround(b)
		return
	}

	switch {
	case b == 0x1b:
		p.state = stateEscape
	case b == 0x07:
		p.handler.Bell()
	case b == 0x08:
		p.handler.Backspace()
	case b == 0x09:
		p.handler.Tab(1)
	case b == 0x0a, b == 0x0b, b == 0x0c:
		p.handler.LineFeed()
	case b == 0x0d:
		p.handler.CarriageReturn()
	case b == 0x0e: // SO - lock shift to G1
		p.handler.SetActiveCharset(1)
	case b == 0x0f: // SI - lock shift to G0
		p.handler.SetActiveCharset(0)
	case b >= 0x20 && b < 0x7f:
		p.handler.Input(rune(b))
	case b >= 0xc2 && b < 0xe0:
		p.utf8Buf = []byte{b}
		p.utf8Remaining = 1
		p.utf8Need = 2
	case b >= 0xe0 && b < 0xf0:
		p.utf8Buf = []byte{b}
		p.utf8Remaining = 2
		p.utf8Need = 3
	case b >= 0xf0 && b < 0xf8:
		p.utf8Buf = []byte{b}
		p.utf8Remaining = 3
		p.utf8Need = 4
	default:
		// Ignore other C0/C1/invalid bytes.
	}
}

func decodeUTF8(buf []byte, need int) rune {
	if len(buf) != need {
		return 0xFFFD
	}
	switch need {
	case 2:
		if buf[0]&0xE0 == 0xC0 {
			return rune(buf[0]&0x1F)<<6 | rune(buf[1]&0x3F)
		}
	case 3:
		if buf[0]&0xF0 == 0xE0 {
			return rune(buf[0]&0x0F)<<12 | rune(buf[1]&0x3F)<<6 | rune(buf[2]&0x3F)
		}
	case 4:
		if buf[0]&0xF8 == 0xF0 {
			return rune(buf[0]&0x07)<<18 | rune(buf[1]&0x3F)<<12 | rune(buf[2]&0x3F)<<6 | rune(buf[3]&0x3F)
		}
	}
	return 0xFFFD
}

// --- Escape ---

func (p *Parser) feedEscape(b byte) {
	switch {
	case b == '[':
		p.resetSequence()
		p.state = stateCsiEntry
	case b == ']':
		p.resetSequence()
		p.state = stateOscString
	case b == 'P':
		p.resetSequence()
		p.state = stateDcsEntry
	case b == 'X':
		p.resetSequence()
		p.strKind = kindSOS
		p.state = stateSosPmApcString
	case b == '^':
		p.resetSequence()
		p.strKind = kindPM
		p.state = stateSosPmApcString
	case b == '_':
		p.resetSequence()
		p.strKind = kindAPC
		p.state = stateSosPmApcString
	case b == '7':
		p.handler.SaveCursorPosition()
		p.state = stateGround
	case b == '8':
		p.handler.RestoreCursorPosition()
		p.state = stateGround
	case b == 'c':
		p.handler.ResetState()
		p.state = stateGround
	case b == 'D':
		p.handler.LineFeed()
		p.state = stateGround
	case b == 'M':
		p.handler.ReverseIndex()
		p.state = stateGround
	case b == 'E':
		p.handler.CarriageReturn()
		p.handler.LineFeed()
		p.state = stateGround
	case b == 'H':
		p.handler.HorizontalTabSet()
		p.state = stateGround
	case b == 'N':
		p.handler.SingleShift(CharsetIndexG2)
		p.state = stateGround
	case b == 'O':
		p.handler.SingleShift(CharsetIndexG3)
		p.state = stateGround
	case b == '=':
		p.handler.SetKeypadApplicationMode()
		p.state = stateGround
	case b == '>':
		p.handler.UnsetKeypadApplicationMode()
		p.state = stateGround
	case b == '(' || b == ')' || b == '*' || b == '+':
		p.intermediate = []byte{b}
		p.state = stateEscapeIntermediate
	case b == '#':
		p.intermediate = []byte{b}
		p.state = stateEscapeIntermediate
	case b == '%':
		p.intermediate = []byte{b}
		p.state = stateEscapeIntermediate
	case b >= 0x20 && b <= 0x2f:
		p.intermediate = append(p.intermediate, b)
		p.state = stateEscapeIntermediate
	default:
		p.state = stateGround
	}
}

func (p *Parser) feedEscapeIntermediate(b byte) {
	if b >= 0x20 && b <= 0x2f {
		p.intermediate = append(p.intermediate, b)
		return
	}
	p.state = stateGround
	if len(p.intermediate) == 0 {
		return
	}

	switch p.intermediate[0] {
	case '(':
		p.handler.ConfigureCharset(CharsetIndexG0, charsetFromFinal(b))
	case ')':
		p.handler.ConfigureCharset(CharsetIndexG1, charsetFromFinal(b))
	case '*':
		p.handler.ConfigureCharset(CharsetIndexG2, charsetFromFinal(b))
	case '+':
		p.handler.ConfigureCharset(CharsetIndexG3, charsetFromFinal(b))
	case '#':
		if b == '8' {
			p.handler.Decaln()
		}
	case '%':
		// UTF-8/8-bit selection (ESC % G / ESC % @) - no distinct GL state kept.
	}
}

func charsetFromFinal(b byte) Charset {
	switch b {
	case '0':
		return CharsetLineDrawing
	case 'A':
		return CharsetUK
	case 'B':
		return CharsetASCII
	case '<', '>', '4', '5', '6', '7', '9', '`', 'F', 'H':
		return CharsetDECTechnical
	default:
		return CharsetUnknown
	}
}

// --- CSI ---

func (p *Parser) feedCsiParam(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.appendDigit(b)
	case b == ';':
		p.params = append(p.params, nil)
		p.curParamOpen = false
	case b == ':':
		// New sub-parameter within the current group (e.g. 38:2:r:g:b).
		if len(p.params) == 0 {
			p.params = append(p.params, nil)
		}
		p.curParamOpen = false
	case b == '?' || b == '>' || b == '=' || b == '<':
		if len(p.params) == 0 && !p.curParamOpen {
			p.private = b
		} else {
			p.state = stateCsiIgnore
		}
	case b >= 0x20 && b <= 0x2f:
		p.intermediate = append(p.intermediate, b)
		p.state = stateCsiIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.dispatchCSI(b)
		p.state = stateGround
	default:
		p.state = stateCsiIgnore
	}
}

func (p *Parser) appendDigit(b byte) {
	if len(p.params) == 0 {
		p.params = append(p.params, nil)
	}
	group := len(p.params) - 1
	if !p.curParamOpen {
		p.params[group] = append(p.params[group], 0)
		p.curParamOpen = true
	}
	last := len(p.params[group]) - 1
	p.params[group][last] = p.params[group][last]*10 + int64(b-'0')
}

func (p *Parser) feedCsiIntermediate(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		p.intermediate = append(p.intermediate, b)
	case b >= 0x40 && b <= 0x7e:
		p.dispatchCSI(b)
		p.state = stateGround
	default:
		p.state = stateCsiIgnore
	}
}

func (p *Parser) feedCsiIgnore(b byte) {
	if b >= 0x40 && b <= 0x7e {
		p.state = stateGround
	}
}

// param returns the first element of the n-th (0-based) semicolon group, or
// def when it is absent or zero.
func (p *Parser) param(n int, def int64) int64 {
	if n >= len(p.params) || len(p.params[n]) == 0 || p.params[n][0] == 0 {
		return def
	}
	return p.params[n][0]
}

func (p *Parser) dispatchCSI(final byte) {
	h := p.handler
	n := int(p.param(0, 1))
	n0 := int(p.param(0, 0))

	if len(p.intermediate) > 0 {
		p.dispatchCSIIntermediate(final, n, n0)
		return
	}

	if p.private == '?' {
		p.dispatchCSIPrivate(final, n, n0)
		return
	}
	if p.private == '>' || p.private == '=' || p.private == '<' {
		p.dispatchCSIMarker(final, n, n0)
		return
	}

	switch final {
	case 'A':
		h.MoveUp(n)
	case 'B':
		h.MoveDown(n)
	case 'C':
		h.MoveForward(n)
	case 'D':
		h.MoveBackward(n)
	case 'E':
		h.MoveDownCr(n)
	case 'F':
		h.MoveUpCr(n)
	case 'G', '`':
		h.GotoCol(n - 1)
	case 'H', 'f':
		h.Goto(int(p.param(0, 1))-1, int(p.param(1, 1))-1)
	case 'I':
		h.MoveForwardTabs(n)
	case 'J':
		h.ClearScreen(clearModeFromParam(n0))
	case 'K':
		h.ClearLine(lineClearModeFromParam(n0))
	case 'L':
		h.InsertBlankLines(n)
	case 'M':
		h.DeleteLines(n)
	case 'P':
		h.DeleteChars(n)
	case 'S':
		h.ScrollUp(n)
	case 'T':
		h.ScrollDown(n)
	case 'X':
		h.EraseChars(n)
	case 'Z':
		h.MoveBackwardTabs(n)
	case '@':
		h.InsertBlank(n)
	case 'a':
		h.MoveForward(n)
	case 'd':
		h.GotoLine(n - 1)
	case 'e':
		h.MoveDown(n)
	case 'g':
		h.ClearTabs(tabClearModeFromParam(n0))
	case 'h':
		if mode, ok := decModeFromANSI(n0); ok {
			h.SetMode(mode)
		}
	case 'l':
		if mode, ok := decModeFromANSI(n0); ok {
			h.UnsetMode(mode)
		}
	case 'm':
		p.dispatchSGR()
	case 'n':
		h.DeviceStatus(n0)
	case 'r':
		top := int(p.param(0, 1))
		bottom := int(p.param(1, 0))
		h.SetScrollingRegion(top, bottom)
	case 's':
		h.SaveCursorPosition()
	case 'u':
		h.RestoreCursorPosition()
	case 'c':
		h.IdentifyTerminal(0)
	case 't':
		p.dispatchWindowOp(n0)
	}
}

func (p *Parser) dispatchCSIIntermediate(final byte, n, n0 int) {
	h := p.handler
	switch p.intermediate[0] {
	case ' ':
		if final == 'q' {
			h.SetCursorStyle(cursorStyleFromParam(n0))
		}
	}
}

func (p *Parser) dispatchCSIPrivate(final byte, n, n0 int) {
	h := p.handler
	switch final {
	case 'h':
		if mode, ok := decModeFromPrivate(n0); ok {
			h.SetMode(mode)
		}
	case 'l':
		if mode, ok := decModeFromPrivate(n0); ok {
			h.UnsetMode(mode)
		}
	case 'u':
		h.ReportKeyboardMode()
	case 'n':
		h.DeviceStatus(n0)
	case 'm':
		if n0 == 4 {
			h.ReportModifyOtherKeys()
		}
	case 'c':
		h.IdentifyTerminal('?')
	}
}

func (p *Parser) dispatchCSIMarker(final byte, n, n0 int) {
	h := p.handler
	switch {
	case p.private == '>' && final == 'u':
		h.PushKeyboardMode(KeyboardMode(n0))
	case p.private == '<' && final == 'u':
		h.PopKeyboardMode(n)
	case p.private == '=' && final == 'u':
		h.SetKeyboardMode(KeyboardMode(p.param(0, 0)), keyboardBehaviorFromParam(int(p.param(1, 1))))
	case p.private == '>' && final == 'm':
		if p.param(0, -1) == 4 {
			h.SetModifyOtherKeys(modifyOtherKeysFromParam(int(p.param(1, 0))))
		}
	case p.private == '>' && final == 'c':
		h.IdentifyTerminal('>')
	}
}

func (p *Parser) dispatchWindowOp(n0 int) {
	h := p.handler
	switch n0 {
	case 14:
		h.TextAreaSizePixels()
	case 16:
		h.CellSizePixels()
	case 18:
		h.TextAreaSizeChars()
	case 22:
		h.PushTitle()
	case 23:
		h.PopTitle()
	}
}

func clearModeFromParam(n int) ClearMode {
	switch n {
	case 1:
		return ClearModeAbove
	case 2:
		return ClearModeAll
	case 3:
		return ClearModeSaved
	default:
		return ClearModeBelow
	}
}

func lineClearModeFromParam(n int) LineClearMode {
	switch n {
	case 1:
		return LineClearModeLeft
	case 2:
		return LineClearModeAll
	default:
		return LineClearModeRight
	}
}

func tabClearModeFromParam(n int) TabulationClearMode {
	if n == 3 {
		return TabulationClearModeAll
	}
	return TabulationClearModeCurrent
}

func cursorStyleFromParam(n int) CursorStyle {
	switch n {
	case 0, 1:
		return CursorStyleBlinkingBlock
	case 2:
		return CursorStyleSteadyBlock
	case 3:
		return CursorStyleBlinkingUnderline
	case 4:
		return CursorStyleSteadyUnderline
	case 5:
		return CursorStyleBlinkingBar
	case 6:
		return CursorStyleSteadyBar
	default:
		return CursorStyleBlinkingBlock
	}
}

func keyboardBehaviorFromParam(n int) KeyboardModeBehavior {
	switch n {
	case 2:
		return KeyboardModeBehaviorUnion
	case 3:
		return KeyboardModeBehaviorDifference
	default:
		return KeyboardModeBehaviorReplace
	}
}

func modifyOtherKeysFromParam(n int) ModifyOtherKeys {
	switch n {
	case 1:
		return ModifyOtherKeysExceptWellDefined
	case 2:
		return ModifyOtherKeysAll
	default:
		return ModifyOtherKeysOff
	}
}

func decModeFromANSI(n int) (DECMode, bool) {
	switch n {
	case 4:
		return DECModeInsert, true
	case 20:
		return DECModeLineFeedNewLine, true
	default:
		return 0, false
	}
}

func decModeFromPrivate(n int) (DECMode, bool) {
	switch n {
	case 1:
		return DECModeCursorKeys, true
	case 3:
		return DECModeColumnMode, true
	case 6:
		return DECModeOrigin, true
	case 7:
		return DECModeLineWrap, true
	case 12:
		return DECModeBlinkingCursor, true
	case 25:
		return DECModeShowCursor, true
	case 1000:
		return DECModeReportMouseClicks, true
	case 1002:
		return DECModeReportCellMouseMotion, true
	case 1003:
		return DECModeReportAllMouseMotion, true
	case 1004:
		return DECModeReportFocusInOut, true
	case 1005:
		return DECModeUTF8Mouse, true
	case 1006:
		return DECModeSGRMouse, true
	case 1007:
		return DECModeAlternateScroll, true
	case 1042:
		return DECModeUrgencyHints, true
	case 1049:
		return DECModeSwapScreenAndSetRestoreCursor, true
	case 2004:
		return DECModeBracketedPaste, true
	default:
		return 0, false
	}
}

// --- SGR ---

func (p *Parser) dispatchSGR() {
	if len(p.params) == 0 {
		p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeReset})
		return
	}

	for i := 0; i < len(p.params); i++ {
		group := p.params[i]
		code := int64(0)
		if len(group) > 0 {
			code = group[0]
		}

		switch {
		case code == 0:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeReset})
		case code == 1:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeBold})
		case code == 2:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeDim})
		case code == 3:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeItalic})
		case code == 4:
			kind := CharAttributeUnderline
			if len(group) > 1 {
				switch group[1] {
				case 2:
					kind = CharAttributeDoubleUnderline
				case 3:
					kind = CharAttributeCurlyUnderline
				case 4:
					kind = CharAttributeDottedUnderline
				case 5:
					kind = CharAttributeDashedUnderline
				}
			}
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: kind})
		case code == 5:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeBlinkSlow})
		case code == 6:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeBlinkFast})
		case code == 7:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeReverse})
		case code == 8:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeHidden})
		case code == 9:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeStrike})
		case code == 21:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeCancelBoldDim})
		case code == 22:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeCancelBold})
		case code == 23:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeCancelItalic})
		case code == 24:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeCancelUnderline})
		case code == 25:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeCancelBlink})
		case code == 27:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeCancelReverse})
		case code == 28:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeCancelHidden})
		case code == 29:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeCancelStrike})
		case code >= 30 && code <= 37:
			n := int(code - 30)
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeForeground, NamedColor: &n})
		case code == 38:
			attr, consumed := p.extendedColor(CharAttributeForeground, p.params[i:])
			p.handler.SetTerminalCharAttribute(attr)
			i += consumed
		case code == 39:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeForeground})
		case code >= 40 && code <= 47:
			n := int(code - 40)
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeBackground, NamedColor: &n})
		case code == 48:
			attr, consumed := p.extendedColor(CharAttributeBackground, p.params[i:])
			p.handler.SetTerminalCharAttribute(attr)
			i += consumed
		case code == 49:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeBackground})
		case code == 58:
			attr, consumed := p.extendedColor(CharAttributeUnderlineColor, p.params[i:])
			p.handler.SetTerminalCharAttribute(attr)
			i += consumed
		case code == 59:
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeUnderlineColor})
		case code >= 90 && code <= 97:
			n := int(code - 90 + 8)
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeForeground, NamedColor: &n})
		case code >= 100 && code <= 107:
			n := int(code - 100 + 8)
			p.handler.SetTerminalCharAttribute(CharAttribute{Attr: CharAttributeBackground, NamedColor: &n})
		}
	}
}

// extendedColor parses a 38/48/58 sequence, which may arrive either as
// colon-separated sub-parameters within one group (38:2:r:g:b) or as
// separate semicolon groups (38;2;r;g;b). It returns the resolved
// attribute and how many extra semicolon groups it consumed (0 if the
// color was entirely within the first group's sub-parameters).
func (p *Parser) extendedColor(kind CharAttributeKind, groups [][]int64) (CharAttribute, int) {
	first := groups[0]
	if len(first) > 1 {
		// Colon sub-parameter form: first[0] is 38/48/58, first[1] is 2 or 5.
		switch first[1] {
		case 2:
			if len(first) >= 5 {
				return CharAttribute{Attr: kind, RGBColor: &RGBColor{R: byte(first[2]), G: byte(first[3]), B: byte(first[4])}}, 0
			}
		case 5:
			if len(first) >= 3 {
				return CharAttribute{Attr: kind, IndexedColor: &IndexedColorRef{Index: uint8(first[2])}}, 0
			}
		}
		return CharAttribute{Attr: kind}, 0
	}

	if len(groups) < 2 {
		return CharAttribute{Attr: kind}, 0
	}
	switch first0(groups[1]) {
	case 2:
		if len(groups) >= 5 {
			return CharAttribute{Attr: kind, RGBColor: &RGBColor{
				R: byte(first0(groups[2])), G: byte(first0(groups[3])), B: byte(first0(groups[4])),
			}}, 4
		}
	case 5:
		if len(groups) >= 3 {
			return CharAttribute{Attr: kind, IndexedColor: &IndexedColorRef{Index: uint8(first0(groups[2]))}}, 2
		}
	}
	return CharAttribute{Attr: kind}, 1
}

func first0(group []int64) int64 {
	if len(group) == 0 {
		return 0
	}
	return group[0]
}

// --- OSC ---

func (p *Parser) feedOscString(b byte) {
	if b == 0x07 {
		p.dispatchOSC(string(p.strBuf))
		p.resetSequence()
		p.state = stateGround
		return
	}
	if b == 0x1b {
		// Tentatively ESC; only confirmed as ST if followed by '\'.
		p.strBuf = append(p.strBuf, b)
		p.state = stateOscString
		p.checkOscST()
		return
	}
	p.strBuf = append(p.strBuf, b)
	if len(p.strBuf) > maxStringLen {
		p.resetSequence()
		p.state = stateGround
	}
}

func (p *Parser) checkOscST() {
	if len(p.strBuf) >= 2 && p.strBuf[len(p.strBuf)-2] == 0x1b && p.strBuf[len(p.strBuf)-1] == '\\' {
		p.dispatchOSC(string(p.strBuf[:len(p.strBuf)-2]))
		p.resetSequence()
		p.state = stateGround
	}
}

func (p *Parser) dispatchOSC(s string) {
	sep := strings.IndexByte(s, ';')
	var num, rest string
	if sep < 0 {
		num = s
	} else {
		num, rest = s[:sep], s[sep+1:]
	}

	h := p.handler
	switch num {
	case "0", "1", "2":
		h.SetTitle(rest)
	case "4":
		p.dispatchOSC4(rest)
	case "7":
		h.SetWorkingDirectory(rest)
	case "8":
		p.dispatchOSC8(rest)
	case "9":
		h.DesktopNotification(&NotificationPayload{Data: []byte(rest)})
	case "10":
		p.dispatchDynamicColor("10", 256, rest)
	case "11":
		p.dispatchDynamicColor("11", 257, rest)
	case "12":
		p.dispatchDynamicColor("12", 258, rest)
	case "52":
		p.dispatchOSC52(rest)
	case "99":
		p.dispatchOSC99(rest)
	case "104":
		p.dispatchOSC104(rest)
	case "133":
		p.dispatchOSC133(rest)
	case "1337":
		p.dispatchOSC1337(rest)
	}
}

func (p *Parser) dispatchOSC4(rest string) {
	parts := strings.Split(rest, ";")
	for i := 0; i+1 < len(parts); i += 2 {
		idx, err := strconv.Atoi(parts[i])
		if err != nil {
			continue
		}
		spec := parts[i+1]
		if spec == "?" {
			p.handler.SetDynamicColor(strconv.Itoa(4)+";"+parts[i], idx, "\x07")
			continue
		}
		if c, ok := parseColorSpec(spec); ok {
			p.handler.SetColor(idx, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
}

func (p *Parser) dispatchOSC104(rest string) {
	if rest == "" {
		for i := 0; i < 256; i++ {
			p.handler.ResetColor(i)
		}
		return
	}
	for _, part := range strings.Split(rest, ";") {
		if idx, err := strconv.Atoi(part); err == nil {
			p.handler.ResetColor(idx)
		}
	}
}

func (p *Parser) dispatchDynamicColor(prefix string, index int, rest string) {
	if rest == "?" {
		p.handler.SetDynamicColor(prefix, index, "\x07")
		return
	}
	if c, ok := parseColorSpec(rest); ok {
		p.handler.SetColor(index, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	}
}

func (p *Parser) dispatchOSC8(rest string) {
	sep := strings.IndexByte(rest, ';')
	if sep < 0 {
		p.handler.SetHyperlink(nil)
		return
	}
	params, uri := rest[:sep], rest[sep+1:]
	if uri == "" {
		p.handler.SetHyperlink(nil)
		return
	}
	id := ""
	for _, kv := range strings.Split(params, ":") {
		if strings.HasPrefix(kv, "id=") {
			id = strings.TrimPrefix(kv, "id=")
		}
	}
	p.handler.SetHyperlink(&Hyperlink{ID: id, URI: uri})
}

func (p *Parser) dispatchOSC52(rest string) {
	sep := strings.IndexByte(rest, ';')
	if sep < 0 {
		return
	}
	clipboards, payload := rest[:sep], rest[sep+1:]
	if len(clipboards) == 0 {
		return
	}
	clip := clipboards[0]
	if payload == "?" {
		p.handler.ClipboardLoad(clip, "\x07")
		return
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return
	}
	p.handler.ClipboardStore(clip, data)
}

func (p *Parser) dispatchOSC133(rest string) {
	parts := strings.SplitN(rest, ";", 2)
	var mark ShellIntegrationMark
	switch parts[0] {
	case "A":
		mark = PromptStart
	case "B":
		mark = CommandStart
	case "C":
		mark = CommandExecuted
	case "D":
		mark = CommandFinished
	default:
		return
	}
	exitCode := -1
	if mark == CommandFinished && len(parts) > 1 {
		if n, err := strconv.Atoi(strings.SplitN(parts[1], ";", 2)[0]); err == nil {
			exitCode = n
		}
	}
	p.handler.ShellIntegrationMark(mark, exitCode)
}

func (p *Parser) dispatchOSC1337(rest string) {
	const prefix = "SetUserVar="
	if !strings.HasPrefix(rest, prefix) {
		return
	}
	kv := strings.TrimPrefix(rest, prefix)
	eq := strings.IndexByte(kv, '=')
	if eq < 0 {
		return
	}
	name, encoded := kv[:eq], kv[eq+1:]
	value, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return
	}
	p.handler.SetUserVar(name, string(value))
}

func (p *Parser) dispatchOSC99(rest string) {
	sep := strings.IndexByte(rest, ';')
	var meta, body string
	if sep < 0 {
		meta = rest
	} else {
		meta, body = rest[:sep], rest[sep+1:]
	}

	payload := &NotificationPayload{}
	base64Encoded := false
	for _, kv := range strings.Split(meta, ":") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch k {
		case "i":
			payload.ID = v
		case "d":
			payload.Done = v == "1"
		case "p":
			payload.PayloadType = v
		case "e":
			payload.Encoding = v
			base64Encoded = v == "1"
		case "a":
			payload.Actions = strings.Split(v, ",")
		case "c":
			payload.TrackClose = v == "1"
		case "w":
			if n, err := strconv.Atoi(v); err == nil {
				payload.Timeout = n
			}
		case "n":
			payload.AppName = v
		case "t":
			payload.Type = v
		case "f":
			payload.IconName = v
		case "g":
			payload.IconCacheID = v
		case "s":
			payload.Sound = v
		case "u":
			if n, err := strconv.Atoi(v); err == nil {
				payload.Urgency = n
			}
		case "o":
			payload.Occasion = v
		}
	}

	if base64Encoded {
		if decoded, err := base64.StdEncoding.DecodeString(body); err == nil {
			payload.Data = decoded
		}
	} else {
		payload.Data = []byte(body)
	}

	p.handler.DesktopNotification(payload)
}

func parseColorSpec(spec string) (RGBColor, bool) {
	if strings.HasPrefix(spec, "rgb:") {
		parts := strings.Split(strings.TrimPrefix(spec, "rgb:"), "/")
		if len(parts) != 3 {
			return RGBColor{}, false
		}
		r, ok1 := parseHexComponent(parts[0])
		g, ok2 := parseHexComponent(parts[1])
		b, ok3 := parseHexComponent(parts[2])
		if !ok1 || !ok2 || !ok3 {
			return RGBColor{}, false
		}
		return RGBColor{R: r, G: g, B: b}, true
	}
	if strings.HasPrefix(spec, "#") && len(spec) == 7 {
		v, err := strconv.ParseUint(spec[1:], 16, 32)
		if err != nil {
			return RGBColor{}, false
		}
		return RGBColor{R: byte(v >> 16), G: byte(v >> 8), B: byte(v)}, true
	}
	return RGBColor{}, false
}

func parseHexComponent(s string) (byte, bool) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	if len(s) > 2 {
		// 4-digit-per-channel form: scale down to 8 bits.
		v >>= uint(4 * (len(s) - 2))
	}
	return byte(v), true
}

// --- DCS ---

func (p *Parser) feedDcsParam(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.appendDigit(b)
	case b == ';':
		p.params = append(p.params, nil)
		p.curParamOpen = false
	case b == '?' || b == '>' || b == '=':
		p.private = b
	case b >= 0x20 && b <= 0x2f:
		p.intermediate = append(p.intermediate, b)
		p.state = stateDcsIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.dcsFinal = b
		p.strBuf = nil
		p.state = stateDcsPassthrough
	default:
		p.state = stateDcsIgnore
	}
}

func (p *Parser) feedDcsIntermediate(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		p.intermediate = append(p.intermediate, b)
	case b >= 0x40 && b <= 0x7e:
		p.dcsFinal = b
		p.strBuf = nil
		p.state = stateDcsPassthrough
	default:
		p.state = stateDcsIgnore
	}
}

func (p *Parser) feedDcsPassthrough(b byte) {
	if b == 0x1b {
		p.strBuf = append(p.strBuf, b)
		if len(p.strBuf) >= 2 && p.strBuf[len(p.strBuf)-2] == 0x1b && p.strBuf[len(p.strBuf)-1] == '\\' {
			p.dispatchDCS(p.strBuf[:len(p.strBuf)-2])
			p.resetSequence()
			p.state = stateGround
		}
		return
	}
	p.strBuf = append(p.strBuf, b)
	if len(p.strBuf) > maxStringLen {
		p.resetSequence()
		p.state = stateGround
	}
}

func (p *Parser) feedDcsIgnore(b byte) {
	if b == 0x1b {
		p.state = stateGround
	}
}

func (p *Parser) dispatchDCS(data []byte) {
	if p.dcsFinal == 'q' {
		params := make([][]uint16, len(p.params))
		for i, group := range p.params {
			row := make([]uint16, len(group))
			for j, v := range group {
				row[j] = uint16(v)
			}
			params[i] = row
		}
		p.handler.SixelReceived(params, data)
	}
}

// --- SOS/PM/APC ---

func (p *Parser) feedSosPmApcString(b byte) {
	if b == 0x07 {
		p.dispatchStringTerminated()
		return
	}
	if b == 0x1b {
		p.strBuf = append(p.strBuf, b)
		if len(p.strBuf) >= 2 && p.strBuf[len(p.strBuf)-2] == 0x1b && p.strBuf[len(p.strBuf)-1] == '\\' {
			p.strBuf = p.strBuf[:len(p.strBuf)-2]
			p.dispatchStringTerminated()
		}
		return
	}
	p.strBuf = append(p.strBuf, b)
	if len(p.strBuf) > maxStringLen {
		p.resetSequence()
		p.state = stateGround
	}
}

func (p *Parser) dispatchStringTerminated() {
	data := p.strBuf
	switch p.strKind {
	case kindAPC:
		p.handler.ApplicationCommandReceived(data)
	case kindPM:
		p.handler.PrivacyMessageReceived(data)
	case kindSOS:
		p.handler.StartOfStringReceived(data)
	}
	p.resetSequence()
	p.state = stateGround
}
