// Package history implements browser-style back/forward navigation over
// folder ids.
//
// A History is not safe for concurrent use; callers serialize access.
package history

import "tableflip.dev/finder/pkg/folder"

// DefaultLimit is the default number of entries kept on the back stack.
const DefaultLimit = 100

// History is a back stack, a forward stack and the current folder.
type History struct {
	back    []string
	forward []string
	current string
	limit   int
}

// New returns a History positioned at the root. A limit of zero or less
// selects DefaultLimit.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{current: folder.RootID, limit: limit}
}

// Current is the folder being viewed.
func (h *History) Current() string {
	return h.current
}

// GoTo makes id current, remembering the previous folder and discarding the
// forward stack. Going to the current folder changes nothing.
func (h *History) GoTo(id string) {
	if folder.IsRoot(id) {
		id = folder.RootID
	}
	if id == h.current {
		return
	}
	h.back = append(h.back, h.current)
	if over := len(h.back) - h.limit; over > 0 {
		h.back = append([]string(nil), h.back[over:]...)
	}
	h.forward = h.forward[:0]
	h.current = id
}

// GoBack steps back. It reports false and changes nothing when there is no
// history.
func (h *History) GoBack() (string, bool) {
	if len(h.back) == 0 {
		return h.current, false
	}
	prev := h.back[len(h.back)-1]
	h.back = h.back[:len(h.back)-1]
	h.forward = append(h.forward, h.current)
	h.current = prev
	return prev, true
}

// GoForward undoes a GoBack.
func (h *History) GoForward() (string, bool) {
	if len(h.forward) == 0 {
		return h.current, false
	}
	next := h.forward[len(h.forward)-1]
	h.forward = h.forward[:len(h.forward)-1]
	h.back = append(h.back, h.current)
	h.current = next
	return next, true
}

func (h *History) CanGoBack() bool {
	return len(h.back) > 0
}

func (h *History) CanGoForward() bool {
	return len(h.forward) > 0
}

// Remove drops every stack entry for id and reports whether id is also the
// current folder, in which case the caller should Replace it.
func (h *History) Remove(id string) bool {
	h.back = h.prune(h.back, id)
	h.forward = h.prune(h.forward, id)
	return h.current == id
}

// Replace swaps the current folder without recording history.
func (h *History) Replace(id string) {
	if folder.IsRoot(id) {
		id = folder.RootID
	}
	h.current = id
	h.back = h.prune(h.back, "")
	h.forward = h.prune(h.forward, "")
}

// prune removes id from stack, collapses runs of the same folder and drops a
// top entry equal to the current folder.
func (h *History) prune(stack []string, id string) []string {
	out := stack[:0]
	for _, s := range stack {
		if s == id {
			continue
		}
		if n := len(out); n > 0 && out[n-1] == s {
			continue
		}
		out = append(out, s)
	}
	for len(out) > 0 && out[len(out)-1] == h.current {
		out = out[:len(out)-1]
	}
	return out
}

// Reset returns to the root with empty stacks.
func (h *History) Reset() {
	h.back = nil
	h.forward = nil
	h.current = folder.RootID
}

// Snapshot is a copy of the history state.
type Snapshot struct {
	Back    []string `json:"back"`
	Current string   `json:"current"`
	Forward []string `json:"forward"`
}

// Snapshot copies both stacks, oldest entry first.
func (h *History) Snapshot() Snapshot {
	return Snapshot{
		Back:    append([]string{}, h.back...),
		Current: h.current,
		Forward: append([]string{}, h.forward...),
	}
}

// Restore puts h back into the state captured by s.
func (h *History) Restore(s Snapshot) {
	h.back = append([]string(nil), s.Back...)
	h.forward = append([]string(nil), s.Forward...)
	h.current = s.Current
	if h.current == "" {
		h.current = folder.RootID
	}
}
