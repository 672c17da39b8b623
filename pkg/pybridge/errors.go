package pybridge

import (
	"errors"
	"fmt"

	"github.com/pybridge/pybridge-go/internal/bindings"
)

var (
	// ErrNotBuilt reports that the binary was built without cgo, so the
	// interpreter is not linked in.
	ErrNotBuilt = errors.New("pybridge: native bindings not built (cgo disabled or unsupported platform)")

	// ErrClosed is returned by operations on a closed Runtime or Object.
	ErrClosed = errors.New("pybridge: closed")

	ErrInvalidConfig = errors.New("pybridge: invalid config")
	ErrInitFailed    = errors.New("pybridge: interpreter initialization failed")

	// ErrArgumentShape reports arguments rejected before the interpreter was
	// touched: positional arguments that are not a tuple, keyword arguments
	// that are not a dict, or output slices shorter than their input.
	ErrArgumentShape = errors.New("pybridge: argument shape")

	// ErrAttributeNotFound is returned by an AttributeResolver for names it
	// does not know. The interpreter sees it as AttributeError.
	ErrAttributeNotFound = errors.New("pybridge: attribute not found")

	ErrUnknownIndex = errors.New("pybridge: unknown host index")
	ErrNotCallable  = errors.New("pybridge: host object is not callable")

	// ErrLookupFailed and ErrCallFailed match an *Error by the stage of
	// CallMethod that raised.
	ErrLookupFailed = errors.New("pybridge: method lookup failed")
	ErrCallFailed   = errors.New("pybridge: call failed")
)

// Stage tells which step of CallMethod raised.
type Stage int

const (
	StageNone Stage = iota
	StageLookup
	StageCall
)

func (s Stage) String() string {
	switch s {
	case StageLookup:
		return "lookup"
	case StageCall:
		return "call"
	}
	return "none"
}

// Error is an exception raised inside the interpreter. The owned Type, Value
// and Trace objects keep the original exception alive until Close.
type Error struct {
	Op       string
	Stage    Stage
	TypeName string
	Message  string
	// Traceback is the rendered traceback. It is empty when the exception
	// carried none or rendering failed.
	Traceback string

	Type  *Object
	Value *Object
	Trace *Object
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.TypeName
	}
	return e.TypeName + ": " + e.Message
}

// Is matches ErrLookupFailed and ErrCallFailed against the failing stage.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrLookupFailed:
		return e.Stage == StageLookup
	case ErrCallFailed:
		return e.Stage == StageCall
	}
	return false
}

// Close releases the exception objects.
func (e *Error) Close() error {
	if e == nil {
		return nil
	}
	return errors.Join(e.Type.Close(), e.Value.Close(), e.Trace.Close())
}

// payload returns a new reference to the exception value, or nil.
func (e *Error) payload() bindings.Handle {
	if e.Value == nil || e.Value.h == nil {
		return nil
	}
	bindings.IncRef(e.Value.h)
	return e.Value.h
}

// payloadError hands a host error back to the interpreter with the original
// exception as its payload.
type payloadError struct {
	error
	h bindings.Handle
}

func (p payloadError) Payload() bindings.Handle { return p.h }

func (p payloadError) Unwrap() error { return p.error }

// remapError converts bindings layer errors to public API errors.
func remapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bindings.ErrNotBuilt):
		return ErrNotBuilt
	case errors.Is(err, bindings.ErrInitFailed):
		return fmt.Errorf("%w: %v", ErrInitFailed, err)
	}
	return err
}
