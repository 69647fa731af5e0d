package editable

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/editable/pkg/focus"
)

type triggerField struct {
	ring   *focus.Ring
	s      *Session
	write  *Write
	edit   *Trigger
	save   *Trigger
	cancel *Trigger
}

func newTriggerField(t *testing.T, opts ...Option) *triggerField {
	t.Helper()
	ring := focus.NewRing()
	s := New(append([]Option{WithField("msg"), WithFocus(ring)}, opts...)...)
	return &triggerField{
		ring:   ring,
		s:      s,
		write:  NewWrite(s, WithDefaultValue("draft"), WithCursorMode(cursor.CursorStatic)),
		edit:   NewTrigger(s, EditTrigger, "Edit"),
		save:   NewTrigger(s, SaveTrigger, "Save"),
		cancel: NewTrigger(s, CancelTrigger, "Cancel"),
	}
}

func (f *triggerField) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	dispatch(t, f.s, msg, f.write, f.edit, f.save, f.cancel)
}

func TestTriggerVisibility(t *testing.T) {
	f := newTriggerField(t)

	check := func(state string, edit, save, cancel bool) {
		t.Helper()
		for _, tc := range []struct {
			tr   *Trigger
			want bool
		}{{f.edit, edit}, {f.save, save}, {f.cancel, cancel}} {
			if tc.tr.Visible() != tc.want {
				t.Errorf("%s: %v visible = %v, want %v", state, tc.tr.Kind(), tc.tr.Visible(), tc.want)
			}
			if f.ring.Attached(tc.tr.ID()) != tc.want {
				t.Errorf("%s: %v attached = %v, want %v", state, tc.tr.Kind(), f.ring.Attached(tc.tr.ID()), tc.want)
			}
			if (tc.tr.View() != "") != tc.want {
				t.Errorf("%s: %v view = %q", state, tc.tr.Kind(), tc.tr.View())
			}
		}
	}

	check("previewing", true, false, false)
	f.send(t, click(f.edit.ID()))
	check("editing", false, true, true)
}

func TestTriggerOperations(t *testing.T) {
	var saved []string
	c := &counter{}
	opts := append(c.options(), OnSave(func(_ context.Context, v string, _ *Helpers) error {
		saved = append(saved, v)
		return nil
	}))
	f := newTriggerField(t, opts...)

	f.send(t, click(f.edit.ID()))
	if !f.s.IsEditing() || c.enter != 1 {
		t.Fatalf("edit trigger: editing=%v enters=%d", f.s.IsEditing(), c.enter)
	}

	f.send(t, click(f.cancel.ID()))
	if f.s.IsEditing() || c.cancel != 1 || len(saved) != 0 {
		t.Fatalf("cancel trigger: editing=%v cancels=%d saves=%v", f.s.IsEditing(), c.cancel, saved)
	}

	f.send(t, click(f.edit.ID()))
	f.send(t, keyRunes("!"))
	f.send(t, click(f.save.ID()))
	if f.s.IsEditing() || len(saved) != 1 || saved[0] != "draft!" {
		t.Errorf("save trigger: editing=%v saves=%v", f.s.IsEditing(), saved)
	}
	if c.exit != 2 {
		t.Errorf("exits = %d, want 2", c.exit)
	}
}

func TestTriggerKeyPress(t *testing.T) {
	f := newTriggerField(t, WithDeactivation(DeactivateEscapeKey|DeactivateEnterKey))

	f.ring.Focus(f.edit.ID())
	f.send(t, keyEnter)
	if !f.s.IsEditing() {
		t.Fatal("enter on focused edit trigger should start editing")
	}

	f.ring.Focus(f.cancel.ID())
	f.send(t, keySpace)
	if f.s.IsEditing() {
		t.Fatal("space on focused cancel trigger should cancel")
	}

	// Focus was on the edit trigger when editing began and it is attached
	// again, so it gets focus back.
	if !f.ring.IsFocused(f.edit.ID()) {
		t.Errorf("focus = %q, want the edit trigger", f.ring.Focused())
	}
}

func TestTriggerIgnoresUnfocusedKeys(t *testing.T) {
	f := newTriggerField(t)

	if ok, _ := f.edit.Update(keyEnter); ok {
		t.Error("unfocused trigger consumed a key")
	}
	if f.s.IsEditing() {
		t.Error("unfocused trigger started editing")
	}
}

func TestEditTriggerRespectsDisabled(t *testing.T) {
	f := newTriggerField(t, WithDisabled(true))

	f.send(t, click(f.edit.ID()))

	if f.s.IsEditing() {
		t.Error("disabled session entered edit mode from the edit trigger")
	}
	if f.edit.View() != f.edit.Styles.ButtonDisabled.Render("Edit") {
		t.Errorf("expected disabled button, got %q", f.edit.View())
	}
}

func TestTriggerOnClickRunsFirst(t *testing.T) {
	var order []string
	f := newTriggerField(t, OnEnter(func() { order = append(order, "enter") }))
	f.edit.OnClick = func() tea.Cmd {
		order = append(order, "click")
		return nil
	}

	f.send(t, click(f.edit.ID()))

	if strings.Join(order, ",") != "click,enter" {
		t.Errorf("order = %v, want [click enter]", order)
	}
}

func TestControlsView(t *testing.T) {
	f := newTriggerField(t)
	controls := NewControls(f.s)

	if controls.Visible() || controls.View(f.save.View(), f.cancel.View()) != "" {
		t.Error("controls must not render while previewing")
	}

	f.s.Enter()

	view := controls.View(f.save.View(), "", f.cancel.View())
	if !strings.Contains(view, "Save") || !strings.Contains(view, "Cancel") {
		t.Errorf("View() = %q, want both triggers", view)
	}
	if strings.Index(view, "Save") > strings.Index(view, "Cancel") {
		t.Errorf("View() = %q, want items in order", view)
	}
}
