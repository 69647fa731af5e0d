package editable

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// SaveFunc commits an edited value. It runs on a Bubble Tea command
// goroutine, so it may block. A non-nil error keeps the session in edit
// mode unless h.ExitWriteMode or h.Cancel was called.
type SaveFunc func(ctx context.Context, value string, h *Helpers) error

// FocusTracker is the focus capability a session and its surfaces need
// from the surrounding program. Surfaces attach their targets while
// rendered and detach them when hidden. *focus.Ring implements it.
type FocusTracker interface {
	Attach(id string, tabbable bool)
	Detach(id string)
	Attached(id string) bool
	Focus(id string) bool
	Focused() string
}

// Sender delivers a message to the running program from any goroutine.
// *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// ValueSource yields the value handed to the save callback.
type ValueSource interface {
	Value() string
}

// ValueFunc adapts a function to ValueSource.
type ValueFunc func() string

// Value calls f.
func (f ValueFunc) Value() string { return f() }

// StaticValue is a fixed caller-supplied value.
type StaticValue string

// Value returns the string itself.
func (v StaticValue) Value() string { return string(v) }

// Config is the serialisable part of a session's options. Nil mode sets
// mean "use the default".
type Config struct {
	Activation       *Activation   `json:"activation,omitempty" yaml:"activation,omitempty"`
	Deactivation     *Deactivation `json:"deactivation,omitempty" yaml:"deactivation,omitempty"`
	DefaultEditing   bool          `json:"default_editing,omitempty" yaml:"default_editing,omitempty"`
	SelectAllOnFocus bool          `json:"select_all_on_focus,omitempty" yaml:"select_all_on_focus,omitempty"`
	Disabled         bool          `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// Option configures a Session.
type Option func(*Session)

// WithConfig applies the settings present in cfg. Unset modes and false
// flags leave earlier options alone.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		if cfg.Activation != nil {
			a := *cfg.Activation
			s.activation = &a
		}
		if cfg.Deactivation != nil {
			d := *cfg.Deactivation
			s.deactivation = &d
		}
		s.editing = s.editing || cfg.DefaultEditing
		s.selectAll = s.selectAll || cfg.SelectAllOnFocus
		s.disabled = s.disabled || cfg.Disabled
	}
}

// OnEnter sets the callback fired after the session enters edit mode.
func OnEnter(fn func()) Option {
	return func(s *Session) { s.onEnter = fn }
}

// OnExit sets the callback fired after every exit, whether it came from
// save, cancel or a programmatic Exit.
func OnExit(fn func()) Option {
	return func(s *Session) { s.onExit = fn }
}

// OnSave sets the save callback.
func OnSave(fn SaveFunc) Option {
	return func(s *Session) { s.onSave = fn }
}

// OnSaved sets a callback run on the update loop when a save succeeds,
// before the session leaves edit mode. Callers record the committed value
// there so the preview never renders the old one.
func OnSaved(fn func(value string)) Option {
	return func(s *Session) { s.onSaved = fn }
}

// OnCancel sets the callback fired before a cancel exits, typically used
// to revert an externally held draft.
func OnCancel(fn func()) Option {
	return func(s *Session) { s.onCancel = fn }
}

// WithActivation sets the gestures that start editing.
func WithActivation(a Activation) Option {
	return func(s *Session) { s.activation = &a }
}

// WithDeactivation sets the gestures that end editing. Without it the
// default depends on whether the write surface is multi-line.
func WithDeactivation(d Deactivation) Option {
	return func(s *Session) { s.deactivation = &d }
}

// WithDefaultEditing opens the session in edit mode.
func WithDefaultEditing(editing bool) Option {
	return func(s *Session) { s.editing = editing }
}

// WithSelectAllOnFocus selects the whole value when the write surface
// mounts.
func WithSelectAllOnFocus(on bool) Option {
	return func(s *Session) { s.selectAll = on }
}

// WithDisabled starts the session disabled.
func WithDisabled(disabled bool) Option {
	return func(s *Session) { s.disabled = disabled }
}

// WithField names the session. The name is used in logs, errors, focus
// target ids and SaveDoneMsg.
func WithField(name string) Option {
	return func(s *Session) { s.field = name }
}

// WithFocus sets the focus tracker shared by the program's surfaces.
// Without it the session keeps a private ring, so its own surfaces still
// see focus move between them but nothing outside can blur the input.
func WithFocus(f FocusTracker) Option {
	return func(s *Session) {
		if f != nil {
			s.focus = f
		}
	}
}

// WithSender lets save helpers reach the program immediately instead of
// waiting for the save callback to return.
func WithSender(snd Sender) Option {
	return func(s *Session) { s.sender = snd }
}

// WithContext sets the context passed to the save callback.
func WithContext(ctx context.Context) Option {
	return func(s *Session) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// WithLogger sets the logger for transition debugging.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithValue sets the value source read at save time. A write surface
// registered later replaces it.
func WithValue(src ValueSource) Option {
	return func(s *Session) { s.source = src }
}
