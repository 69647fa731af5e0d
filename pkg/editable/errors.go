package editable

import (
	"fmt"
)

// SaveError wraps a failure returned by a save callback. The session stays
// in edit mode unless the callback forced an exit.
type SaveError struct {
	Field string
	Value string
	Err   error
}

func (e *SaveError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("save %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("save: %v", e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// UsageError is the panic value raised when a surface is built without a
// session to attach to.
type UsageError struct {
	Surface string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("editable: %s used without a Session (create one with editable.New and pass it in)", e.Surface)
}

// ModeError reports an unknown activation or deactivation token.
type ModeError struct {
	Kind  string
	Token string
}

func (e *ModeError) Error() string {
	return fmt.Sprintf("unknown %s mode %q", e.Kind, e.Token)
}

func mustSession(s *Session, surface string) {
	if s == nil {
		panic(&UsageError{Surface: surface})
	}
}
