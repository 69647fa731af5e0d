package editable

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/editable/pkg/focus"
)

var sessionSeq atomic.Uint64

const (
	requestNone int32 = iota
	requestExit
	requestCancel
)

// Session is the edit state of one field. It is either previewing
// (initial) or editing; saving and cancelling are steps on the way back to
// previewing, not states of their own.
//
// All methods must be called from the Bubble Tea update loop. Save
// callbacks run on command goroutines and reach the session only through
// messages.
//
// Saves are not serialised. A second Save issued while the first is still
// running races with it: each completion runs its own exit logic, and the
// last one wins. Callers that need "cancel wins" cancel the context passed
// via WithContext inside their own callback and call Helpers.ExitWriteMode.
type Session struct {
	id    uint64
	field string

	editing   bool
	disabled  bool
	selectAll bool

	activation   *Activation
	deactivation *Deactivation

	onEnter  func()
	onExit   func()
	onCancel func()
	onSave   SaveFunc
	onSaved  func(value string)

	focus  FocusTracker
	sender Sender
	ctx    context.Context
	log    *slog.Logger
	source ValueSource

	prevFocus       string
	previewID       string
	previewTabbable bool

	surfaces []func(editing bool) tea.Cmd

	saveSeq  uint64
	inflight map[uint64]*saveToken
}

// New creates a session. It starts previewing unless WithDefaultEditing
// or Config.DefaultEditing says otherwise.
func New(opts ...Option) *Session {
	s := &Session{
		id:       sessionSeq.Add(1),
		focus:    focus.NewRing(),
		ctx:      context.Background(),
		log:      slog.New(slog.DiscardHandler),
		inflight: make(map[uint64]*saveToken),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.field == "" {
		s.field = fmt.Sprintf("field-%d", s.id)
	}
	return s
}

// Field returns the session's name.
func (s *Session) Field() string { return s.field }

// IsEditing reports whether the write surface should be shown.
func (s *Session) IsEditing() bool { return s.editing }

// IsDisabled reports whether Enter is suppressed.
func (s *Session) IsDisabled() bool { return s.disabled }

// SetDisabled toggles the disabled flag. It does not leave edit mode.
func (s *Session) SetDisabled(disabled bool) { s.disabled = disabled }

// SelectAllOnFocus reports whether the write surface selects its value
// when it mounts.
func (s *Session) SelectAllOnFocus() bool { return s.selectAll }

// Activation returns the configured activation set or the default.
func (s *Session) Activation() Activation {
	if s.activation == nil {
		return DefaultActivation
	}
	return *s.activation
}

// Deactivation returns the configured deactivation set or the default for
// the given kind of write surface.
func (s *Session) Deactivation(multiline bool) Deactivation {
	if s.deactivation == nil {
		return DefaultDeactivation(multiline)
	}
	return *s.deactivation
}

// Config returns the session's settings in serialisable form.
func (s *Session) Config() Config {
	a := s.Activation()
	cfg := Config{
		Activation:       &a,
		SelectAllOnFocus: s.selectAll,
		Disabled:         s.disabled,
		DefaultEditing:   s.editing,
	}
	if s.deactivation != nil {
		d := *s.deactivation
		cfg.Deactivation = &d
	}
	return cfg
}

// SetSender sets the sender after construction, for programs that build
// their sessions before the tea.Program exists.
func (s *Session) SetSender(snd Sender) { s.sender = snd }

// Focus returns the focus tracker shared with the surfaces.
func (s *Session) Focus() FocusTracker { return s.focus }

// Value reads the current value from the registered source.
func (s *Session) Value() string {
	if s.source == nil {
		return ""
	}
	return s.source.Value()
}

// RegisterInput makes src the value read at save time. Write surfaces call
// it when they are created.
func (s *Session) RegisterInput(src ValueSource) {
	s.source = src
}

// Enter switches to edit mode. It does nothing while already editing or
// disabled; in that case OnEnter does not fire.
func (s *Session) Enter() tea.Cmd {
	if s.editing {
		s.log.Debug("enter ignored: already editing", "field", s.field)
		return nil
	}
	if s.disabled {
		s.log.Debug("enter ignored: disabled", "field", s.field)
		return nil
	}

	s.prevFocus = s.focus.Focused()
	s.editing = true
	cmd := s.notify()
	s.log.Debug("enter write mode", "field", s.field, "prev_focus", s.prevFocus)

	if s.onEnter != nil {
		s.onEnter()
	}
	return cmd
}

// Exit leaves edit mode without reading the value. OnExit fires after the
// state flips. Focus is restored on the next message so the preview is
// already rendered when it happens.
func (s *Session) Exit() tea.Cmd {
	if !s.editing {
		return nil
	}

	s.editing = false
	cmd := s.notify()
	s.log.Debug("exit write mode", "field", s.field)

	if s.onExit != nil {
		s.onExit()
	}

	id := s.id
	return tea.Batch(cmd, func() tea.Msg {
		return restoreFocusMsg{session: id}
	})
}

// Cancel fires OnCancel and exits. The current value is never read.
func (s *Session) Cancel() tea.Cmd {
	if !s.editing {
		return nil
	}
	s.log.Debug("cancel", "field", s.field)
	if s.onCancel != nil {
		s.onCancel()
	}
	return s.Exit()
}

// Save reads the current value and runs the save callback on a command.
// When the callback returns, the session exits on success and stays in
// edit mode on failure, unless the callback used its Helpers to force an
// exit. A SaveDoneMsg follows once everything has settled.
func (s *Session) Save() tea.Cmd {
	if !s.editing {
		return nil
	}

	value := s.Value()
	field := s.field

	if s.onSave == nil {
		s.log.Debug("save without callback", "field", field)
		return tea.Batch(s.Exit(), func() tea.Msg {
			return SaveDoneMsg{Field: field, Value: value, Exited: true}
		})
	}

	s.saveSeq++
	tok := &saveToken{seq: s.saveSeq}
	s.inflight[tok.seq] = tok
	if len(s.inflight) > 1 {
		s.log.Debug("save started while another is in flight", "field", field, "in_flight", len(s.inflight))
	}

	h := &Helpers{session: s.id, token: tok, sender: s.sender}
	fn, ctx, id := s.onSave, s.ctx, s.id
	s.log.Debug("save", "field", field, "seq", tok.seq)

	return func() tea.Msg {
		err := fn(ctx, value, h)
		return saveResultMsg{session: id, seq: tok.seq, value: value, err: err}
	}
}

// Update handles the session's own messages. Route every message through
// it; messages addressed to other sessions are ignored.
func (s *Session) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case helperMsg:
		if msg.session != s.id {
			return nil
		}
		tok, ok := s.inflight[msg.seq]
		if !ok {
			return nil
		}
		return s.applyRequest(tok)

	case saveResultMsg:
		if msg.session != s.id {
			return nil
		}
		return s.finishSave(msg)

	case restoreFocusMsg:
		if msg.session != s.id || s.editing {
			return nil
		}
		s.restoreFocus()
	}
	return nil
}

func (s *Session) finishSave(msg saveResultMsg) tea.Cmd {
	tok := s.inflight[msg.seq]
	delete(s.inflight, msg.seq)

	if msg.err == nil && s.onSaved != nil {
		s.onSaved(msg.value)
	}

	var cmds []tea.Cmd
	switch {
	case tok != nil && tok.handled:
		// Forced exit already applied through the sender.
	case tok != nil && tok.requested.Load() != requestNone:
		cmds = append(cmds, s.applyRequest(tok))
	case msg.err == nil:
		cmds = append(cmds, s.Exit())
	}

	var err error
	if msg.err != nil {
		err = &SaveError{Field: s.field, Value: msg.value, Err: msg.err}
		if s.editing {
			s.log.Debug("save failed, staying in write mode", "field", s.field, "err", msg.err)
		} else {
			s.log.Debug("save failed after forced exit", "field", s.field, "err", msg.err)
		}
	}

	done := SaveDoneMsg{Field: s.field, Value: msg.value, Err: err, Exited: !s.editing}
	cmds = append(cmds, func() tea.Msg { return done })
	return tea.Batch(cmds...)
}

func (s *Session) applyRequest(tok *saveToken) tea.Cmd {
	if tok.handled {
		return nil
	}
	tok.handled = true
	if tok.requested.Load() == requestCancel {
		return s.Cancel()
	}
	s.log.Debug("forced exit from save callback", "field", s.field, "seq", tok.seq)
	return s.Exit()
}

// restoreFocus prefers the target focused before Enter, then the preview
// if it is in the tab order. Otherwise focus stays wherever it is.
func (s *Session) restoreFocus() {
	prev := s.prevFocus
	s.prevFocus = ""

	switch {
	case prev != "" && s.focus.Attached(prev):
		s.focus.Focus(prev)
	case s.previewID != "" && s.previewTabbable && s.focus.Attached(s.previewID):
		s.focus.Focus(s.previewID)
	default:
		return
	}
	s.log.Debug("focus restored", "field", s.field, "target", s.focus.Focused())
}

// subscribe registers a surface to be told about every state flip. The
// surface mounts or unmounts in the callback, before lifecycle callbacks
// fire.
func (s *Session) subscribe(fn func(editing bool) tea.Cmd) {
	s.surfaces = append(s.surfaces, fn)
}

func (s *Session) notify() tea.Cmd {
	var cmds []tea.Cmd
	for _, fn := range s.surfaces {
		cmds = append(cmds, fn(s.editing))
	}
	return tea.Batch(cmds...)
}

func (s *Session) setPreviewTarget(id string, tabbable bool) {
	s.previewID = id
	s.previewTabbable = tabbable
}

// Helpers is handed to the save callback. Its methods are safe to call
// from the callback's goroutine. Only the first request per save counts.
type Helpers struct {
	session uint64
	token   *saveToken
	sender  Sender
}

// ExitWriteMode leaves edit mode regardless of the save outcome and
// suppresses the automatic exit that would follow a successful save.
func (h *Helpers) ExitWriteMode() {
	h.request(requestExit)
}

// Cancel reverts through OnCancel and leaves edit mode.
func (h *Helpers) Cancel() {
	h.request(requestCancel)
}

func (h *Helpers) request(r int32) {
	if !h.token.requested.CompareAndSwap(requestNone, r) {
		return
	}
	if h.sender != nil {
		h.sender.Send(helperMsg{session: h.session, seq: h.token.seq})
	}
}

type saveToken struct {
	seq       uint64
	requested atomic.Int32
	// handled is only touched on the update loop.
	handled bool
}
