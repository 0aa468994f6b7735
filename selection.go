package coreterm

import "strings"

// SelectionMode controls how a selection's start/end positions are
// interpreted when extracting text.
type SelectionMode int

const (
	// SelectionStream selects a continuous run of text from start to end,
	// following line wrap (like dragging a mouse across text).
	SelectionStream SelectionMode = iota
	// SelectionBlock selects a rectangular column range on every row the
	// selection spans, independent of each row's content length.
	SelectionBlock
	// SelectionLine selects whole lines, ignoring the column of Start/End.
	SelectionLine
)

// selectionLine returns the cells for a scrollback-relative row: row >= 0
// addresses the active buffer directly, row < 0 addresses scrollback with
// -1 being the line immediately above row 0. Callers must hold t.mu.
func (t *Terminal) selectionLine(row int) []Cell {
	if row >= 0 {
		if row >= t.rows {
			return nil
		}
		line := make([]Cell, t.cols)
		for col := 0; col < t.cols; col++ {
			line[col] = *t.activeBuffer.Cell(row, col)
		}
		return line
	}

	sb := t.activeBuffer.ScrollbackProvider()
	if sb == nil {
		return nil
	}
	index := sb.Len() + row
	if index < 0 {
		return nil
	}
	return sb.Line(index)
}

// SetSelectionMode sets the interpretation mode used by CopySelection.
func (t *Terminal) SetSelectionMode(mode SelectionMode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selection.Mode = mode
}

func cellsToText(cells []Cell, fromCol, toCol int) string {
	if cells == nil {
		return ""
	}
	if toCol > len(cells) {
		toCol = len(cells)
	}
	if fromCol < 0 {
		fromCol = 0
	}
	if fromCol >= toCol {
		return ""
	}

	var b strings.Builder
	for _, c := range cells[fromCol:toCol] {
		if c.HasFlag(CellFlagWideCharSpacer) {
			continue
		}
		b.WriteRune(c.Char)
		for _, r := range c.Combining {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// CopySelection returns the text currently covered by the active selection,
// honoring its mode (stream, block, or line) and resolving scrollback-relative
// rows via the active buffer's ScrollbackProvider. Returns "" if no selection
// is active.
func (t *Terminal) CopySelection() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.selection.Active {
		return ""
	}

	start, end := t.selection.Start, t.selection.End
	if end.Before(start) {
		start, end = end, start
	}

	var lines []string
	for row := start.Row; row <= end.Row; row++ {
		cells := t.selectionLine(row)

		fromCol, toCol := 0, t.cols
		switch t.selection.Mode {
		case SelectionStream:
			if row == start.Row {
				fromCol = start.Col
			}
			if row == end.Row {
				toCol = end.Col
			}
		case SelectionBlock:
			fromCol, toCol = start.Col, end.Col
		case SelectionLine:
			// whole row, defaults already cover it
		}

		lines = append(lines, cellsToText(cells, fromCol, toCol))
	}

	return strings.Join(lines, "\n")
}
