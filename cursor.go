package coreterm

import (
	"time"

	"github.com/coreterm/coreterm/internal/vtparse"
)

// cursorBlinkInterval is the on/off half-period for a blinking cursor style.
const cursorBlinkInterval = 530 * time.Millisecond

// maxSavedCursors bounds the DECSC/DECRC save stack. Deepest entry is dropped on overflow.
const maxSavedCursors = 10

// Cursor tracks the current position and rendering style (0-based coordinates).
type Cursor struct {
	Row     int
	Col     int
	Style   vtparse.CursorStyle
	Visible bool

	// BlinkOn is the current phase of a blinking style; Tick flips it.
	BlinkOn bool

	// saved is a bounded LIFO stack of DECSC snapshots, most recent last.
	saved []SavedCursor
}

// blinks reports whether the cursor's style blinks.
func (c *Cursor) blinks() bool {
	switch c.Style {
	case vtparse.CursorStyleBlinkingBlock, vtparse.CursorStyleBlinkingUnderline, vtparse.CursorStyleBlinkingBar:
		return true
	default:
		return false
	}
}

// NewCursor creates a cursor at (0, 0) with blinking block style, visible.
func NewCursor() *Cursor {
	return &Cursor{
		Row:     0,
		Col:     0,
		Style:   vtparse.CursorStyleBlinkingBlock,
		Visible: true,
		BlinkOn: true,
	}
}

// Push saves a cursor snapshot, dropping the oldest entry if the stack is full.
func (c *Cursor) Push(s SavedCursor) {
	if len(c.saved) >= maxSavedCursors {
		c.saved = c.saved[1:]
	}
	c.saved = append(c.saved, s)
}

// Pop removes and returns the most recent saved snapshot. ok is false if the stack is empty.
func (c *Cursor) Pop() (s SavedCursor, ok bool) {
	if len(c.saved) == 0 {
		return SavedCursor{}, false
	}
	s = c.saved[len(c.saved)-1]
	c.saved = c.saved[:len(c.saved)-1]
	return s, true
}

// Peek returns the most recent saved snapshot without removing it.
func (c *Cursor) Peek() (s SavedCursor, ok bool) {
	if len(c.saved) == 0 {
		return SavedCursor{}, false
	}
	return c.saved[len(c.saved)-1], true
}

// SavedCursor stores cursor position, cell attributes, and charset state for restoration.
// Pushed onto the Cursor stack by DECSC and by entering the alternate screen.
type SavedCursor struct {
	Row          int
	Col          int
	Attrs        CellTemplate
	OriginMode   bool
	CharsetState CharsetState
}

// CellTemplate defines default attributes applied to newly written characters.
// Modified by SGR (Select Graphic Rendition) escape sequences.
type CellTemplate struct {
	Cell
}

// NewCellTemplate creates a template with default attributes (default foreground/background colors, no flags).
func NewCellTemplate() CellTemplate {
	return CellTemplate{
		Cell: NewCell(),
	}
}
