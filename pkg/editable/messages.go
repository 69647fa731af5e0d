package editable

// SaveDoneMsg is emitted after a save has fully settled, including the exit
// it caused (if any). Err is a *SaveError when the callback failed.
type SaveDoneMsg struct {
	Field  string
	Value  string
	Err    error
	Exited bool
}

type saveResultMsg struct {
	session uint64
	seq     uint64
	value   string
	err     error
}

type helperMsg struct {
	session uint64
	seq     uint64
}

type restoreFocusMsg struct {
	session uint64
}
