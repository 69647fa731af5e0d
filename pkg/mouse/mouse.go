// Package mouse resolves terminal mouse events into actions on named
// screen regions.
//
// Widgets register the rectangle they occupy after rendering (render, then
// measure), and the program feeds every tea.MouseMsg through a Handler to
// learn which region was clicked, double-clicked or hovered.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DoubleClickThreshold is the maximum gap between two presses on the same
// region for the second one to count as a double-click.
const DoubleClickThreshold = 400 * time.Millisecond

// Rect is a screen rectangle. W and H are exclusive bounds.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named, hit-testable area.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds the regions of the last rendered frame.
// Regions added later take priority over earlier overlapping ones.
type HitMap struct {
	regions []Region
}

// NewHitMap creates an empty hit map.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// Add registers a region.
func (h *HitMap) Add(id string, rect Rect, data any) {
	h.regions = append(h.regions, Region{ID: id, Rect: rect, Data: data})
}

// AddRect registers a region from its coordinates.
func (h *HitMap) AddRect(id string, x, y, w, h2 int, data any) {
	h.Add(id, Rect{X: x, Y: y, W: w, H: h2}, data)
}

// Test returns the topmost region containing (x, y), or nil.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			return &h.regions[i]
		}
	}
	return nil
}

// Clear removes every region. Call it at the start of each render.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// Regions returns the registered regions in insertion order.
func (h *HitMap) Regions() []Region {
	return h.regions
}

// ActionType identifies what a mouse event means for the UI.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionHover
	ActionRelease
)

func (a ActionType) String() string {
	switch a {
	case ActionClick:
		return "click"
	case ActionDoubleClick:
		return "dblclick"
	case ActionHover:
		return "hover"
	case ActionRelease:
		return "release"
	default:
		return "none"
	}
}

// Action is the resolved meaning of a mouse event.
// Region is nil when the event hit no registered region.
type Action struct {
	Type   ActionType
	Region *Region
	X, Y   int
}

// RegionID returns the id of the hit region, or "".
func (a Action) RegionID() string {
	if a.Region == nil {
		return ""
	}
	return a.Region.ID
}

// ClickResult is the outcome of HandleClick.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler combines a hit map with click timing state.
type Handler struct {
	HitMap *HitMap

	lastClickID   string
	lastClickTime time.Time
	hoverID       string

	// now is swapped in tests.
	now func() time.Time
}

// NewHandler creates a handler with an empty hit map.
func NewHandler() *Handler {
	return &Handler{
		HitMap: NewHitMap(),
		now:    time.Now,
	}
}

// HandleClick hit-tests a press and detects double-clicks. A double-click
// resets the timer, so a third quick press counts as a single click again.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	now := h.now()

	if region == nil {
		h.lastClickID = ""
		return ClickResult{}
	}

	double := region.ID == h.lastClickID && now.Sub(h.lastClickTime) <= DoubleClickThreshold
	if double {
		h.lastClickID = ""
		h.lastClickTime = time.Time{}
	} else {
		h.lastClickID = region.ID
		h.lastClickTime = now
	}

	return ClickResult{Region: region, IsDoubleClick: double}
}

// HoverID returns the id of the region under the pointer at the last
// motion event.
func (h *Handler) HoverID() string {
	return h.hoverID
}

// HandleMouse turns a Bubble Tea mouse message into an Action.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	action := Action{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return action
		}
		result := h.HandleClick(msg.X, msg.Y)
		action.Region = result.Region
		if result.IsDoubleClick {
			action.Type = ActionDoubleClick
		} else {
			action.Type = ActionClick
		}

	case tea.MouseActionMotion:
		action.Region = h.HitMap.Test(msg.X, msg.Y)
		action.Type = ActionHover
		h.hoverID = action.RegionID()

	case tea.MouseActionRelease:
		action.Region = h.HitMap.Test(msg.X, msg.Y)
		action.Type = ActionRelease
	}

	return action
}

// Clear resets the hit map and hover state.
func (h *Handler) Clear() {
	h.HitMap.Clear()
	h.hoverID = ""
}
