// Package editable provides click-to-edit fields for Bubble Tea programs.
//
// A field is one Session plus any number of surfaces bound to it. The
// session owns the edit state; surfaces only translate gestures into
// session operations and render according to IsEditing.
//
// # Quick Start
//
//	ring := focus.NewRing()
//	title := editable.New(
//	    editable.WithField("title"),
//	    editable.WithFocus(ring),
//	    editable.OnSave(func(ctx context.Context, v string, h *editable.Helpers) error {
//	        return store.Put(ctx, "title", v)
//	    }),
//	)
//	preview := editable.NewPreview(title, func() string { return m.title })
//	input := editable.NewWrite(title, editable.WithDefaultValue(m.title))
//
//	// In Update(): the session sees every message, then surfaces in
//	// order until one consumes it. Without the early stop, the Enter
//	// that opens the input would also reach the input and save it.
//	cmds = append(cmds, title.Update(msg))
//	for _, sf := range []interface{ Update(tea.Msg) (bool, tea.Cmd) }{preview, input} {
//	    ok, cmd := sf.Update(msg)
//	    cmds = append(cmds, cmd)
//	    if ok {
//	        break
//	    }
//	}
//
//	// Mouse messages go through a mouse.Handler first:
//	action := handler.HandleMouse(mouseMsg)
//	preview.Update(action)
//
// # Operations
//
//   - Enter - start editing (ignored while editing or disabled)
//   - Exit - stop editing; OnExit always fires, focus is restored next tick
//   - Cancel - OnCancel, then Exit
//   - Save - run OnSave on a command; exit on success, stay on failure,
//     or follow Helpers.ExitWriteMode / Helpers.Cancel
//
// # Surfaces
//
//   - Preview - read-only value; click, double-click or Enter/Space start editing
//   - Write - textinput or textarea; Escape cancels, Enter or
//     modifier+Enter and blur save, per the deactivation set
//   - Trigger - Edit, Save and Cancel buttons
//   - Controls - wrapper rendered only while editing
//
// Building a surface without a session panics with *UsageError.
package editable
