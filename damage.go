package coreterm

import "sort"

// DamageSpan is a contiguous run of changed columns within one row.
type DamageSpan struct {
	Row      int
	StartCol int
	EndCol   int // exclusive
}

// DamageSet is the set of screen regions that changed since the last
// TakeDamage call. FullInvalidate, when true, means the whole visible
// screen changed and Spans should be ignored.
type DamageSet struct {
	FullInvalidate bool
	Spans          []DamageSpan
}

// TakeDamage atomically drains and returns the accumulated damage for the
// active buffer, coalescing adjacent dirty cells within each row into spans.
// It is built on top of the per-cell CellFlagDirty bit the buffer already
// maintains (SetCell sets it on every write; old and new values are not
// compared); this call is what turns that into the row-span contract
// consumers want. Switching which buffer is active (entering or leaving the
// alternate screen) sets FullInvalidate instead of reporting per-cell spans,
// since the whole visible screen changed at once; the per-cell dirty bits
// are cleared in that case too.
func (t *Terminal) TakeDamage() DamageSet {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pendingFullInvalidate {
		t.pendingFullInvalidate = false
		t.activeBuffer.ClearAllDirty()
		return DamageSet{FullInvalidate: true}
	}

	if !t.activeBuffer.HasDirty() {
		return DamageSet{}
	}

	positions := t.activeBuffer.DirtyCells()
	t.activeBuffer.ClearAllDirty()

	if len(positions) == 0 {
		return DamageSet{}
	}

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Before(positions[j])
	})

	var spans []DamageSpan
	cur := DamageSpan{Row: positions[0].Row, StartCol: positions[0].Col, EndCol: positions[0].Col + 1}
	for _, p := range positions[1:] {
		if p.Row == cur.Row && p.Col <= cur.EndCol {
			if p.Col+1 > cur.EndCol {
				cur.EndCol = p.Col + 1
			}
			continue
		}
		spans = append(spans, cur)
		cur = DamageSpan{Row: p.Row, StartCol: p.Col, EndCol: p.Col + 1}
	}
	spans = append(spans, cur)

	return DamageSet{Spans: spans}
}
