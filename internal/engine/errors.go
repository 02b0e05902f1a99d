package engine

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrAuth               = errors.New("authentication failed")
	ErrCapacity           = errors.New("room is full")
	ErrPrecondition       = errors.New("precondition failed")
	ErrIllegalAction      = errors.New("illegal action")
	ErrRange              = errors.New("index out of range")
	ErrUnsupportedCommand = errors.New("unsupported command")
)

// Kind is the stable, wire-facing name of an error class.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindAuth          Kind = "auth"
	KindCapacity      Kind = "capacity"
	KindPrecondition  Kind = "precondition"
	KindIllegalAction Kind = "illegal_action"
	KindRange         Kind = "range"
	KindInternal      Kind = "internal"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrValidation, KindValidation},
	{ErrUnsupportedCommand, KindValidation},
	{ErrNotFound, KindNotFound},
	{ErrAuth, KindAuth},
	{ErrCapacity, KindCapacity},
	{ErrPrecondition, KindPrecondition},
	{ErrIllegalAction, KindIllegalAction},
	{ErrRange, KindRange},
}

// KindOf classifies err. Anything outside the taxonomy is internal.
func KindOf(err error) Kind {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
