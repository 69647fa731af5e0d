package editable

import (
	"strings"
)

// Activation is the set of gestures on the preview that start editing.
// The empty set means editing can only start programmatically or through
// an EditTrigger.
type Activation uint8

const (
	ActivateClick Activation = 1 << iota
	ActivateDoubleClick
	ActivateEnterKey

	ActivateNone Activation = 0
)

// DefaultActivation is used when no activation set is configured.
const DefaultActivation = ActivateClick | ActivateEnterKey

var activationTokens = []struct {
	mode  Activation
	token string
}{
	{ActivateClick, "click"},
	{ActivateDoubleClick, "dblclick"},
	{ActivateEnterKey, "enter-key"},
}

// Has reports whether every mode in m is present.
func (a Activation) Has(m Activation) bool {
	return m != 0 && a&m == m
}

// String renders the set as comma separated tokens, or "none".
func (a Activation) String() string {
	var parts []string
	for _, t := range activationTokens {
		if a.Has(t.mode) {
			parts = append(parts, t.token)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// ParseActivation parses a comma separated list such as "click,enter-key".
func ParseActivation(s string) (Activation, error) {
	var a Activation
	for _, tok := range splitTokens(s) {
		if tok == "none" {
			continue
		}
		found := false
		for _, t := range activationTokens {
			if t.token == tok {
				a |= t.mode
				found = true
				break
			}
		}
		if !found {
			return 0, &ModeError{Kind: "activation", Token: tok}
		}
	}
	return a, nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Activation) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Activation) UnmarshalText(text []byte) error {
	v, err := ParseActivation(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Set implements the pflag Value interface.
func (a *Activation) Set(s string) error {
	return a.UnmarshalText([]byte(s))
}

// Type implements the pflag Value interface.
func (a *Activation) Type() string {
	return "activation"
}

// Deactivation is the set of gestures on the write surface that end
// editing. Escape cancels; every other mode saves.
type Deactivation uint8

const (
	DeactivateBlur Deactivation = 1 << iota
	DeactivateEscapeKey
	DeactivateEnterKey
	DeactivateModEnterKey

	DeactivateNone Deactivation = 0
)

var deactivationTokens = []struct {
	mode  Deactivation
	token string
}{
	{DeactivateBlur, "blur"},
	{DeactivateEscapeKey, "escape-key"},
	{DeactivateEnterKey, "enter-key"},
	{DeactivateModEnterKey, "modifier+enter-key"},
}

// DefaultDeactivation returns the default set for a write surface.
// Multi-line surfaces use modifier+Enter since plain Enter inserts a line
// break.
func DefaultDeactivation(multiline bool) Deactivation {
	if multiline {
		return DeactivateBlur | DeactivateEscapeKey | DeactivateModEnterKey
	}
	return DeactivateBlur | DeactivateEscapeKey | DeactivateEnterKey
}

// Has reports whether every mode in m is present.
func (d Deactivation) Has(m Deactivation) bool {
	return m != 0 && d&m == m
}

// String renders the set as comma separated tokens, or "none".
func (d Deactivation) String() string {
	var parts []string
	for _, t := range deactivationTokens {
		if d.Has(t.mode) {
			parts = append(parts, t.token)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// ParseDeactivation parses a comma separated list such as
// "blur,escape-key". "mod+enter-key" is accepted as a short form.
func ParseDeactivation(s string) (Deactivation, error) {
	var d Deactivation
	for _, tok := range splitTokens(s) {
		if tok == "none" {
			continue
		}
		if tok == "mod+enter-key" {
			tok = "modifier+enter-key"
		}
		found := false
		for _, t := range deactivationTokens {
			if t.token == tok {
				d |= t.mode
				found = true
				break
			}
		}
		if !found {
			return 0, &ModeError{Kind: "deactivation", Token: tok}
		}
	}
	return d, nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Deactivation) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Deactivation) UnmarshalText(text []byte) error {
	v, err := ParseDeactivation(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Set implements the pflag Value interface.
func (d *Deactivation) Set(s string) error {
	return d.UnmarshalText([]byte(s))
}

// Type implements the pflag Value interface.
func (d *Deactivation) Type() string {
	return "deactivation"
}

func splitTokens(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '|'
	}) {
		out = append(out, strings.ToLower(strings.TrimSpace(part)))
	}
	return out
}
