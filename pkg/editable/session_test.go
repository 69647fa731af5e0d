package editable

import (
	"context"
	"errors"
	"testing"

	"github.com/marcus/editable/pkg/focus"
)

func TestNewSessionStartsPreviewing(t *testing.T) {
	s := New()
	if s.IsEditing() {
		t.Error("expected new session to be previewing")
	}
	if s.Field() == "" {
		t.Error("expected a generated field name")
	}
	if s.Activation() != DefaultActivation {
		t.Errorf("Activation() = %v, want %v", s.Activation(), DefaultActivation)
	}
}

func TestDefaultEditing(t *testing.T) {
	s := New(WithDefaultEditing(true))
	if !s.IsEditing() {
		t.Error("expected session to start editing")
	}
}

func TestEnterIsIdempotent(t *testing.T) {
	var c counter
	s := New(c.options()...)

	settle(t, s, s.Enter())
	if cmd := s.Enter(); cmd != nil {
		t.Error("second Enter should return no command")
	}

	if !s.IsEditing() {
		t.Fatal("expected editing after Enter")
	}
	if c.enter != 1 {
		t.Errorf("OnEnter fired %d times, want 1", c.enter)
	}
}

func TestEnterFiresAfterStateFlip(t *testing.T) {
	var sawEditing bool
	var s *Session
	s = New(OnEnter(func() { sawEditing = s.IsEditing() }))

	s.Enter()

	if !sawEditing {
		t.Error("OnEnter should observe IsEditing() == true")
	}
}

func TestDisabledSuppressesEnter(t *testing.T) {
	var c counter
	s := New(append(c.options(), WithDisabled(true))...)

	if cmd := s.Enter(); cmd != nil {
		t.Error("Enter on disabled session should return no command")
	}
	if s.IsEditing() {
		t.Error("disabled session must not enter edit mode")
	}
	if c.enter != 0 {
		t.Errorf("OnEnter fired %d times on disabled session", c.enter)
	}

	s.SetDisabled(false)
	s.Enter()
	if !s.IsEditing() {
		t.Error("expected Enter to work after re-enabling")
	}
}

func TestOperationsIgnoredWhilePreviewing(t *testing.T) {
	var c counter
	saves := 0
	s := New(append(c.options(), OnSave(func(context.Context, string, *Helpers) error {
		saves++
		return nil
	}))...)

	for name, cmd := range map[string]func() any{
		"Exit":   func() any { return s.Exit() },
		"Cancel": func() any { return s.Cancel() },
		"Save":   func() any { return s.Save() },
	} {
		cmd()
		if s.IsEditing() {
			t.Errorf("%s changed state while previewing", name)
		}
	}

	if c.exit != 0 || c.cancel != 0 || saves != 0 {
		t.Errorf("callbacks fired while previewing: exit=%d cancel=%d save=%d", c.exit, c.cancel, saves)
	}
}

func TestCancelCallsOnCancelBeforeExit(t *testing.T) {
	var order []string
	var s *Session
	s = New(
		OnCancel(func() {
			if !s.IsEditing() {
				t.Error("OnCancel should run while still editing")
			}
			order = append(order, "cancel")
		}),
		OnExit(func() {
			if s.IsEditing() {
				t.Error("OnExit should run after the state flip")
			}
			order = append(order, "exit")
		}),
		WithValue(ValueFunc(func() string {
			t.Error("Cancel must not read the value")
			return ""
		})),
	)

	s.Enter()
	settle(t, s, s.Cancel())

	if len(order) != 2 || order[0] != "cancel" || order[1] != "exit" {
		t.Errorf("callback order = %v, want [cancel exit]", order)
	}
	if s.IsEditing() {
		t.Error("expected previewing after Cancel")
	}
}

func TestSaveSuccessExitsOnce(t *testing.T) {
	var c counter
	var got string
	s := New(append(c.options(),
		WithValue(StaticValue("Hello world")),
		OnSave(func(_ context.Context, v string, _ *Helpers) error {
			got = v
			return nil
		}),
	)...)

	s.Enter()
	msgs := settle(t, s, s.Save())

	if got != "Hello world" {
		t.Errorf("save callback got %q, want %q", got, "Hello world")
	}
	if s.IsEditing() {
		t.Error("expected previewing after successful save")
	}
	if c.exit != 1 {
		t.Errorf("OnExit fired %d times, want 1", c.exit)
	}

	done := saveDone(t, msgs)
	if done.Err != nil || !done.Exited || done.Value != "Hello world" {
		t.Errorf("unexpected SaveDoneMsg: %+v", done)
	}
}

func TestSaveFailureStaysEditing(t *testing.T) {
	var c counter
	network := errors.New("network")
	s := New(append(c.options(),
		WithField("title"),
		WithValue(StaticValue("Hello world")),
		OnSave(func(context.Context, string, *Helpers) error { return network }),
	)...)

	s.Enter()
	msgs := settle(t, s, s.Save())

	if !s.IsEditing() {
		t.Error("failed save must leave the session editing")
	}
	if c.exit != 0 {
		t.Errorf("OnExit fired %d times on failure", c.exit)
	}

	done := saveDone(t, msgs)
	if !errors.Is(done.Err, network) {
		t.Errorf("SaveDoneMsg.Err = %v, want wrapped network error", done.Err)
	}
	var saveErr *SaveError
	if !errors.As(done.Err, &saveErr) || saveErr.Field != "title" || saveErr.Value != "Hello world" {
		t.Errorf("expected *SaveError for title, got %#v", done.Err)
	}
	if done.Exited {
		t.Error("SaveDoneMsg.Exited should be false")
	}
}

func TestSaveRetryAfterFailure(t *testing.T) {
	attempts := 0
	s := New(OnSave(func(context.Context, string, *Helpers) error {
		attempts++
		if attempts == 1 {
			return errors.New("network")
		}
		return nil
	}))

	s.Enter()
	settle(t, s, s.Save())
	if !s.IsEditing() {
		t.Fatal("expected editing after first failure")
	}

	settle(t, s, s.Save())
	if s.IsEditing() {
		t.Error("expected retry to succeed and exit")
	}
}

func TestForcedExitOnFailure(t *testing.T) {
	var c counter
	s := New(append(c.options(), OnSave(func(_ context.Context, _ string, h *Helpers) error {
		h.ExitWriteMode()
		return errors.New("network")
	}))...)

	s.Enter()
	msgs := settle(t, s, s.Save())

	if s.IsEditing() {
		t.Error("forced exit should leave edit mode despite the error")
	}
	if c.exit != 1 {
		t.Errorf("OnExit fired %d times, want 1", c.exit)
	}
	done := saveDone(t, msgs)
	if done.Err == nil || !done.Exited {
		t.Errorf("unexpected SaveDoneMsg: %+v", done)
	}
}

func TestForcedExitOnSuccessDoesNotDoubleExit(t *testing.T) {
	var c counter
	s := New(append(c.options(), OnSave(func(_ context.Context, _ string, h *Helpers) error {
		h.ExitWriteMode()
		h.ExitWriteMode()
		return nil
	}))...)

	s.Enter()
	settle(t, s, s.Save())

	if c.exit != 1 {
		t.Errorf("OnExit fired %d times, want 1", c.exit)
	}
}

func TestForcedExitThroughSender(t *testing.T) {
	var c counter
	snd := &recordingSender{}
	s := New(append(c.options(),
		WithSender(snd),
		OnSave(func(_ context.Context, _ string, h *Helpers) error {
			h.ExitWriteMode()
			return errors.New("network")
		}),
	)...)

	s.Enter()
	result := run(s.Save())

	// The helper message reached the program before the callback returned.
	sent := snd.take()
	if len(sent) != 1 {
		t.Fatalf("expected 1 message through the sender, got %d", len(sent))
	}
	for _, msg := range sent {
		settle(t, s, s.Update(msg))
	}
	if s.IsEditing() {
		t.Fatal("expected exit as soon as the helper message is processed")
	}

	for _, msg := range result {
		settle(t, s, s.Update(msg))
	}
	if c.exit != 1 {
		t.Errorf("OnExit fired %d times, want 1", c.exit)
	}
}

func TestHelpersCancel(t *testing.T) {
	var c counter
	s := New(append(c.options(), OnSave(func(_ context.Context, _ string, h *Helpers) error {
		h.Cancel()
		return nil
	}))...)

	s.Enter()
	settle(t, s, s.Save())

	if s.IsEditing() {
		t.Error("expected previewing after helpers.Cancel")
	}
	if c.cancel != 1 || c.exit != 1 {
		t.Errorf("cancel=%d exit=%d, want 1 and 1", c.cancel, c.exit)
	}
}

func TestSaveWithoutCallbackExits(t *testing.T) {
	var c counter
	s := New(append(c.options(), WithValue(StaticValue("v")))...)

	s.Enter()
	msgs := settle(t, s, s.Save())

	if s.IsEditing() || c.exit != 1 {
		t.Errorf("expected one exit, editing=%v exit=%d", s.IsEditing(), c.exit)
	}
	if done := saveDone(t, msgs); done.Value != "v" {
		t.Errorf("SaveDoneMsg.Value = %q, want %q", done.Value, "v")
	}
}

func TestConcurrentSavesRace(t *testing.T) {
	var c counter
	s := New(append(c.options(), OnSave(func(context.Context, string, *Helpers) error {
		return nil
	}))...)

	s.Enter()
	first := s.Save()
	second := s.Save()

	settle(t, s, first)
	msgs := settle(t, s, second)

	if s.IsEditing() {
		t.Error("expected previewing after both saves")
	}
	if c.exit != 1 {
		t.Errorf("OnExit fired %d times, want 1", c.exit)
	}
	saveDone(t, msgs)
}

func TestSaveReceivesContext(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "marker")

	var got any
	s := New(WithContext(ctx), OnSave(func(ctx context.Context, _ string, _ *Helpers) error {
		got = ctx.Value(ctxKey{})
		return nil
	}))

	s.Enter()
	settle(t, s, s.Save())

	if got != "marker" {
		t.Errorf("save context value = %v, want marker", got)
	}
}

func TestMessagesForOtherSessionsIgnored(t *testing.T) {
	a := New(OnSave(func(context.Context, string, *Helpers) error { return nil }))
	b := New()

	a.Enter()
	b.Enter()

	for _, msg := range run(a.Save()) {
		b.Update(msg)
	}

	if !b.IsEditing() {
		t.Error("session b reacted to session a's save result")
	}
}

func TestFocusRestoredToPreviousTarget(t *testing.T) {
	ring := focus.NewRing()
	ring.Attach("toolbar", true)
	ring.Focus("toolbar")

	s := New(WithFocus(ring))
	s.Enter()
	ring.Focus("toolbar")
	ring.Blur()

	cmd := s.Exit()
	if ring.Focused() != "" {
		t.Fatal("focus must not move before the deferred step runs")
	}

	settle(t, s, cmd)
	if ring.Focused() != "toolbar" {
		t.Errorf("focus = %q, want toolbar", ring.Focused())
	}
}

func TestFocusFallsBackToTabbablePreview(t *testing.T) {
	ring := focus.NewRing()
	ring.Attach("gone", true)
	ring.Focus("gone")

	s := New(WithField("title"), WithFocus(ring))
	p := NewPreview(s, func() string { return "Hello" })

	s.Enter()
	ring.Detach("gone")
	settle(t, s, s.Exit())

	if ring.Focused() != p.ID() {
		t.Errorf("focus = %q, want %q", ring.Focused(), p.ID())
	}
}

func TestFocusLeftAloneWithoutTarget(t *testing.T) {
	ring := focus.NewRing()
	s := New(WithField("title"), WithFocus(ring), WithActivation(ActivateClick))
	NewPreview(s, func() string { return "Hello" })

	s.Enter()
	settle(t, s, s.Exit())

	if ring.Focused() != "" {
		t.Errorf("focus = %q, want nothing focused", ring.Focused())
	}
}

func TestFocusRestoreSkippedWhenEditingAgain(t *testing.T) {
	ring := focus.NewRing()
	ring.Attach("toolbar", true)
	ring.Focus("toolbar")

	s := New(WithFocus(ring))
	s.Enter()
	exit := s.Exit()
	s.Enter()
	ring.Blur()

	settle(t, s, exit)
	if ring.Focused() != "" {
		t.Errorf("restore ran while editing again, focus = %q", ring.Focused())
	}
}

func TestConfigRoundTrip(t *testing.T) {
	a := ActivateDoubleClick
	d := DeactivateEscapeKey
	s := New(WithConfig(Config{
		Activation:       &a,
		Deactivation:     &d,
		SelectAllOnFocus: true,
		Disabled:         true,
	}))

	if s.Activation() != ActivateDoubleClick {
		t.Errorf("Activation() = %v", s.Activation())
	}
	if s.Deactivation(false) != DeactivateEscapeKey || s.Deactivation(true) != DeactivateEscapeKey {
		t.Error("configured deactivation should apply to both input kinds")
	}
	if !s.SelectAllOnFocus() || !s.IsDisabled() {
		t.Error("expected select-all and disabled from config")
	}

	cfg := s.Config()
	if *cfg.Activation != a || *cfg.Deactivation != d {
		t.Errorf("Config() = %+v", cfg)
	}
}

func TestConfigKeepsEarlierFlags(t *testing.T) {
	a := ActivateEnterKey
	s := New(WithDisabled(true), WithSelectAllOnFocus(true), WithConfig(Config{Activation: &a}))

	if !s.IsDisabled() {
		t.Error("empty config must not re-enable a disabled session")
	}
	if !s.SelectAllOnFocus() {
		t.Error("empty config must not clear select-all")
	}
	if s.Activation() != ActivateEnterKey {
		t.Errorf("Activation() = %v, want enter-key", s.Activation())
	}

	s = New(WithConfig(Config{Disabled: true}))
	if !s.IsDisabled() {
		t.Error("config should still disable")
	}
}

func TestOnSavedRunsBeforeExit(t *testing.T) {
	var order []string
	fail := false
	s := New(
		WithValue(StaticValue("v")),
		OnSave(func(context.Context, string, *Helpers) error {
			if fail {
				return errors.New("offline")
			}
			return nil
		}),
		OnSaved(func(v string) { order = append(order, "saved "+v) }),
		OnExit(func() { order = append(order, "exit") }),
	)

	settle(t, s, s.Enter())
	fail = true
	settle(t, s, s.Save())
	if len(order) != 0 {
		t.Fatalf("failed save ran %v", order)
	}

	fail = false
	settle(t, s, s.Save())
	if len(order) != 2 || order[0] != "saved v" || order[1] != "exit" {
		t.Errorf("order = %v, want [saved v exit]", order)
	}
}
