// Package focus tracks which on-screen target holds keyboard focus.
//
// A terminal program has no DOM, so widgets that need "is this element
// still mounted" and "what is focused right now" share a Ring instead.
// Targets attach while they are rendered and detach when they are not.
// Tab order is the order in which targets were first attached and is kept
// across detach/re-attach cycles.
package focus

// Ring is a set of focus targets with a single focused id.
// The zero value is not usable; call NewRing.
type Ring struct {
	order    []string
	attached map[string]bool
	tabbable map[string]bool
	focused  string
}

// NewRing creates an empty ring with nothing focused.
func NewRing() *Ring {
	return &Ring{
		attached: make(map[string]bool),
		tabbable: make(map[string]bool),
	}
}

// Attach marks id as rendered. Tabbable targets take part in Next/Prev.
// Attaching an already attached id only updates its tabbable flag.
func (r *Ring) Attach(id string, tabbable bool) {
	if id == "" {
		return
	}
	if !r.seen(id) {
		r.order = append(r.order, id)
	}
	r.attached[id] = true
	r.tabbable[id] = tabbable
}

// Detach marks id as no longer rendered. If it held focus, focus is
// dropped rather than moved.
func (r *Ring) Detach(id string) {
	delete(r.attached, id)
	delete(r.tabbable, id)
	if r.focused == id {
		r.focused = ""
	}
}

// Attached reports whether id is currently rendered.
func (r *Ring) Attached(id string) bool {
	return r.attached[id]
}

// Tabbable reports whether id is attached and in the tab order.
func (r *Ring) Tabbable(id string) bool {
	return r.attached[id] && r.tabbable[id]
}

// Focus moves focus to id. It fails for detached targets.
func (r *Ring) Focus(id string) bool {
	if !r.attached[id] {
		return false
	}
	r.focused = id
	return true
}

// Focused returns the focused id, or "" when nothing holds focus.
func (r *Ring) Focused() string {
	return r.focused
}

// IsFocused reports whether id holds focus.
func (r *Ring) IsFocused(id string) bool {
	return id != "" && r.focused == id
}

// Blur drops focus.
func (r *Ring) Blur() {
	r.focused = ""
}

// Next focuses the next tabbable target, wrapping around.
// It returns the newly focused id ("" if nothing is tabbable).
func (r *Ring) Next() string {
	return r.step(1)
}

// Prev focuses the previous tabbable target, wrapping around.
func (r *Ring) Prev() string {
	return r.step(-1)
}

// Targets returns the attached ids in tab order.
func (r *Ring) Targets() []string {
	var ids []string
	for _, id := range r.order {
		if r.attached[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

func (r *Ring) step(dir int) string {
	n := len(r.order)
	if n == 0 {
		return ""
	}

	start := r.index(r.focused)
	if start < 0 {
		// Nothing focused: Next starts at the first target, Prev at the last.
		if dir > 0 {
			start = n - 1
		} else {
			start = 0
		}
	}

	for i := 1; i <= n; i++ {
		id := r.order[((start+dir*i)%n+n)%n]
		if r.Tabbable(id) {
			r.focused = id
			return id
		}
	}
	return r.focused
}

func (r *Ring) index(id string) int {
	if id == "" {
		return -1
	}
	for i, v := range r.order {
		if v == id {
			return i
		}
	}
	return -1
}

func (r *Ring) seen(id string) bool {
	return r.index(id) >= 0
}
