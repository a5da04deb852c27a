package interp

import "github.com/tsxlang/tsx/internal/interp/runtime"

// ctrlSignal is non-local control flow (return/break/continue) threaded
// through execStatement's error return, distinct from a thrown
// runtime.Exception so callers can tell "the statement block wants to
// unwind" apart from "a JS value was thrown".
type ctrlSignal struct {
	kind  ctrlKind
	value runtime.Value // return value, for kind == ctrlReturn
	label string        // for labeled break/continue
}

type ctrlKind int

const (
	ctrlReturn ctrlKind = iota
	ctrlBreak
	ctrlContinue
)

func (s *ctrlSignal) Error() string { return "control flow signal (internal)" }

func asSignal(err error) (*ctrlSignal, bool) {
	sig, ok := err.(*ctrlSignal)
	return sig, ok
}
