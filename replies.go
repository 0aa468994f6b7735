package coreterm

// TakeReplies atomically drains and returns all pending host replies (CPR,
// DA, OSC query replies) in the order the triggering commands were
// processed. This is the pull-style counterpart to ResponseProvider; both
// observe the same reply bytes, so a host may use either or both.
func (t *Terminal) TakeReplies() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.replies) == 0 {
		return nil
	}
	out := t.replies
	t.replies = nil
	return out
}
