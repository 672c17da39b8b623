package pybridge

import (
	"github.com/pybridge/pybridge-go/internal/bindings"
)

// Indexes into the TypeFlags result.
const (
	FlagNone = iota
	FlagBool
	FlagInt
	FlagFloat
	FlagStr
	FlagBytes
	FlagList
	FlagTuple
	FlagDict
	FlagCallable

	NumTypeFlags = bindings.NumTypeFlags
)

func (r ref) is(pred func(bindings.Handle) bool) bool {
	var v bool
	_ = r.with(func() { v = pred(r.h) })
	return v
}

func (r ref) IsNone() bool  { return r.is(bindings.IsNone) }
func (r ref) IsBool() bool  { return r.is(bindings.IsBool) }
func (r ref) IsFloat() bool { return r.is(bindings.IsFloat) }
func (r ref) IsStr() bool   { return r.is(bindings.IsString) }
func (r ref) IsBytes() bool { return r.is(bindings.IsBytes) }
func (r ref) IsList() bool  { return r.is(bindings.IsList) }
func (r ref) IsTuple() bool { return r.is(bindings.IsTuple) }
func (r ref) IsDict() bool  { return r.is(bindings.IsDict) }

// IsSet is true for set and frozenset.
func (r ref) IsSet() bool { return r.is(bindings.IsSet) }

// IsInt is true for ints and bools.
func (r ref) IsInt() bool { return r.is(bindings.IsInt) }

func (r ref) IsCallable() bool { return r.is(bindings.IsCallable) }
func (r ref) IsModule() bool   { return r.is(bindings.IsModule) }
func (r ref) IsType() bool     { return r.is(bindings.IsType) }

// IsSequence follows the interpreter's sequence protocol; dicts are not
// sequences, str and bytes are.
func (r ref) IsSequence() bool { return r.is(bindings.IsSequence) }

// TypeFlags answers the ten most common type questions in one call. Index
// the result with FlagNone through FlagCallable.
func (r ref) TypeFlags() [NumTypeFlags]bool {
	var v [NumTypeFlags]bool
	_ = r.with(func() { v = bindings.TypeFlags(r.h) })
	return v
}

// TypeName returns the name of the object's type, e.g. "int".
func (r ref) TypeName() string {
	var v string
	_ = r.with(func() { v = bindings.TypeName(r.h) })
	return v
}

// RefCount returns the object's reference count. Immortal objects report a
// very large count.
func (r ref) RefCount() int64 {
	var v int64
	_ = r.with(func() { v = bindings.RefCount(r.h) })
	return v
}
