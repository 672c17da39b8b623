package bindings

import (
	"errors"
	"unsafe"
)

// Handle is a raw reference to an interpreter object. Whether it is owned or
// borrowed is documented by the function that produced it; a nil Handle means
// the call failed and an exception is pending.
type Handle = unsafe.Pointer

// GILState is the token returned by EnsureGIL.
type GILState int

// Config carries the interpreter start-up settings.
type Config struct {
	Isolated              bool
	UseEnvironment        bool
	InstallSignalHandlers bool
	ProgramName           string
	Home                  string
	SearchPaths           []string
}

// Host receives calls made on HostObject instances inside the interpreter.
// args is a borrowed tuple valid for the duration of the call. A non-nil
// result must be a new reference; it is handed to the interpreter. A nil
// result with a nil error becomes None.
type Host interface {
	CallObject(index int, args Handle) (Handle, error)
	CallMethod(index int, name string, args Handle) (Handle, error)
}

// PayloadError is an error that supplies its own exception payload. Payload
// returns a new reference, or nil to fall back to the error text.
type PayloadError interface {
	error
	Payload() Handle
}

// AttributeGet is the method name a HostObject sends to CallMethod when the
// interpreter looks up one of its attributes. The single argument is the
// attribute name.
const AttributeGet = "__getattr__"

// Stage tells which step of CallMethod failed.
type Stage int

const (
	StageNone Stage = iota
	StageLookup
	StageCall
)

// ExcKind selects the exception class raised by SetError.
type ExcKind int

const (
	ExcRuntime ExcKind = iota
	ExcType
	ExcValue
	ExcAttribute
	ExcKey
	ExcIndex
)

// NumTypeFlags is the length of the TypeFlags result.
const NumTypeFlags = 10

// DType identifies the element type of a buffer.
type DType int

const (
	DTypeUnknown DType = iota
	DTypeBool
	DTypeInt8
	DTypeUint8
	DTypeInt16
	DTypeUint16
	DTypeInt32
	DTypeUint32
	DTypeInt64
	DTypeUint64
	DTypeFloat32
	DTypeFloat64
)

// View flags for NewMemoryView.
const (
	ViewWritable = 1
	ViewCopy     = 2
)

// MaxNDim bounds the number of buffer dimensions.
const MaxNDim = 64

// RawError is a fetched exception. All three handles are owned by the
// receiver. Type is nil when nothing was pending.
type RawError struct {
	Type         Handle
	Value        Handle
	Traceback    Handle
	Formatted    string
	HasFormatted bool
}

// BufferInfo describes an exported buffer.
type BufferInfo struct {
	Data        unsafe.Pointer
	Len         int64
	ItemSize    int64
	NDim        int
	ReadOnly    bool
	CContiguous bool
	DType       DType
	Format      string
	Shape       []int64
	Strides     []int64
}

// PoolStats reports the scratch pool usage.
type PoolStats struct {
	Capacity uint64
	Used     uint64
	Blocks   uint64
}

var (
	// ErrNotBuilt reports that the native bindings were not linked into the
	// current binary.
	ErrNotBuilt = errors.New("pybridge/internal/bindings: native bindings not built")

	// ErrInitFailed wraps the interpreter start-up failure message.
	ErrInitFailed = errors.New("pybridge/internal/bindings: interpreter initialization failed")

	// ErrFinalizeFailed reports that the interpreter reported an error while
	// shutting down.
	ErrFinalizeFailed = errors.New("pybridge/internal/bindings: interpreter finalization failed")

	// ErrNoHost reports an Initialize call without a host.
	ErrNoHost = errors.New("pybridge/internal/bindings: host is nil")

	// ErrUnknownHost is returned to the interpreter when a callback arrives
	// for a host that is no longer registered.
	ErrUnknownHost = errors.New("pybridge/internal/bindings: host is not registered")
)
