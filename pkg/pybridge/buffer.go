package pybridge

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/pybridge/pybridge-go/internal/bindings"
)

// DType is the element type of a buffer.
type DType int

const (
	DTypeUnknown DType = DType(bindings.DTypeUnknown)
	DTypeBool    DType = DType(bindings.DTypeBool)
	DTypeInt8    DType = DType(bindings.DTypeInt8)
	DTypeUint8   DType = DType(bindings.DTypeUint8)
	DTypeInt16   DType = DType(bindings.DTypeInt16)
	DTypeUint16  DType = DType(bindings.DTypeUint16)
	DTypeInt32   DType = DType(bindings.DTypeInt32)
	DTypeUint32  DType = DType(bindings.DTypeUint32)
	DTypeInt64   DType = DType(bindings.DTypeInt64)
	DTypeUint64  DType = DType(bindings.DTypeUint64)
	DTypeFloat32 DType = DType(bindings.DTypeFloat32)
	DTypeFloat64 DType = DType(bindings.DTypeFloat64)
)

var dtypeNames = [...]string{
	DTypeUnknown: "unknown",
	DTypeBool:    "bool",
	DTypeInt8:    "int8",
	DTypeUint8:   "uint8",
	DTypeInt16:   "int16",
	DTypeUint16:  "uint16",
	DTypeInt32:   "int32",
	DTypeUint32:  "uint32",
	DTypeInt64:   "int64",
	DTypeUint64:  "uint64",
	DTypeFloat32: "float32",
	DTypeFloat64: "float64",
}

func (d DType) String() string {
	if d < 0 || int(d) >= len(dtypeNames) {
		return dtypeNames[DTypeUnknown]
	}
	return dtypeNames[d]
}

// ViewFlags control NewBufferView.
type ViewFlags int

const (
	// ViewWritable makes the view writable.
	ViewWritable ViewFlags = bindings.ViewWritable
	// ViewCopy copies the data into interpreter-owned memory.
	ViewCopy ViewFlags = bindings.ViewCopy
)

// Buffer is an exported view of an object's memory, taken through the
// buffer protocol. The memory stays valid and pinned until Close. A Buffer
// that becomes unreachable without Close ends its export on the runtime's
// thread later.
type Buffer struct {
	rt   *Runtime
	view unsafe.Pointer

	Data        unsafe.Pointer
	Len         int64
	ItemSize    int64
	NDim        int
	Shape       []int64
	Strides     []int64
	ReadOnly    bool
	CContiguous bool
	DType       DType
	Format      string
}

// Buffer exports the object's memory. writable requests a writable export
// and fails on read-only objects.
func (r ref) Buffer(writable bool) (*Buffer, error) {
	var (
		b    *Buffer
		perr *Error
	)
	err := r.with(func() {
		view, info := bindings.AcquireBuffer(r.h, writable)
		if view == nil {
			perr = r.rt.fetch("buffer", StageNone)
			return
		}
		b = &Buffer{
			rt:          r.rt,
			view:        view,
			Data:        info.Data,
			Len:         info.Len,
			ItemSize:    info.ItemSize,
			NDim:        info.NDim,
			Shape:       info.Shape,
			Strides:     info.Strides,
			ReadOnly:    info.ReadOnly,
			CContiguous: info.CContiguous,
			DType:       DType(info.DType),
			Format:      info.Format,
		}
		runtime.SetFinalizer(b, func(b *Buffer) { b.rt.queueBufferRelease(b.view) })
	})
	if err != nil {
		return nil, err
	}
	if perr != nil {
		return nil, perr
	}
	return b, nil
}

// Close ends the export.
func (b *Buffer) Close() error {
	if b == nil || b.view == nil {
		return nil
	}
	runtime.SetFinalizer(b, nil)
	view := b.view
	b.view, b.Data = nil, nil
	if err := b.rt.do(func() { bindings.ReleaseBuffer(view) }); err != nil && err != ErrClosed {
		return err
	}
	return nil
}

// float64s returns the buffer as a float64 slice when it is an open,
// C-contiguous float64 buffer.
func (b *Buffer) float64s() []float64 {
	if b == nil || b.view == nil || b.DType != DTypeFloat64 || !b.CContiguous || b.Len == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(b.Data), b.Len/8)
}

// Float64s returns a copy of a C-contiguous float64 buffer, or nil for any
// other buffer.
func (b *Buffer) Float64s() []float64 {
	src := b.float64s()
	if src == nil {
		return nil
	}
	out := append([]float64(nil), src...)
	runtime.KeepAlive(b)
	return out
}

// Float64At returns element i of a C-contiguous float64 buffer in flat
// order. Any other buffer, or an index out of range, reads as 0.
func (b *Buffer) Float64At(i int) float64 {
	s := b.float64s()
	if i < 0 || i >= len(s) {
		return 0
	}
	v := s[i]
	runtime.KeepAlive(b)
	return v
}

// SetFloat64 stores v at flat index i of a writable C-contiguous float64
// buffer and reports whether it did.
func (b *Buffer) SetFloat64(i int, v float64) bool {
	if b == nil || b.ReadOnly {
		return false
	}
	s := b.float64s()
	if i < 0 || i >= len(s) {
		return false
	}
	s[i] = v
	runtime.KeepAlive(b)
	return true
}

// AddScalar adds v to every element of a writable C-contiguous float64
// buffer and reports whether it did.
func (b *Buffer) AddScalar(v float64) bool {
	if b == nil || b.ReadOnly {
		return false
	}
	s := b.float64s()
	if s == nil {
		return false
	}
	for i := range s {
		s[i] += v
	}
	runtime.KeepAlive(b)
	return true
}

// NewBufferView returns a memoryview over data. Without ViewCopy, data must
// be memory the Go garbage collector does not manage (C memory, an mmap) and
// must outlive the view. With ViewCopy the bytes are copied during the call
// and Go memory is fine. shape and strides are copied; nil strides means C
// order.
func (rt *Runtime) NewBufferView(data unsafe.Pointer, dtype DType, shape, strides []int64, flags ViewFlags) (*Object, error) {
	if len(shape) == 0 || len(shape) > bindings.MaxNDim {
		return nil, fmt.Errorf("%w: %d dimensions", ErrArgumentShape, len(shape))
	}
	if strides != nil && len(strides) != len(shape) {
		return nil, fmt.Errorf("%w: %d strides for %d dimensions", ErrArgumentShape, len(strides), len(shape))
	}
	return rt.newObject("memoryview", func() bindings.Handle {
		return bindings.NewMemoryView(data, bindings.DType(dtype), shape, strides, int(flags))
	})
}

// Float64Array copies values into a new writable float64 memoryview. shape
// defaults to one dimension; its product must equal len(values).
func (rt *Runtime) Float64Array(values []float64, shape ...int64) (*Object, error) {
	if len(shape) == 0 {
		shape = []int64{int64(len(values))}
	}
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	if n != int64(len(values)) {
		return nil, fmt.Errorf("%w: shape %v holds %d elements, got %d", ErrArgumentShape, shape, n, len(values))
	}
	if len(values) == 0 {
		var zero float64
		return rt.NewBufferView(unsafe.Pointer(&zero), DTypeFloat64, shape, nil, ViewCopy|ViewWritable)
	}
	return rt.NewBufferView(unsafe.Pointer(&values[0]), DTypeFloat64, shape, nil, ViewCopy|ViewWritable)
}
