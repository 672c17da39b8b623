//go:build !cgo || windows

package bindings

import "unsafe"

// Stub implementations for non-CGO builds or Windows.
// Initialize reports ErrNotBuilt, so none of the handle functions can be
// reached with a live object; they return zero values.

func Initialize(Config, Host) error { return ErrNotBuilt }
func Finalize() error               { return ErrNotBuilt }
func IsInitialized() bool           { return false }
func Version() string               { return "" }
func GILHeld() bool                 { return false }
func EnsureGIL() GILState           { return 0 }
func ReleaseGIL(GILState)           {}

func IncRef(Handle)                           {}
func DecRef(Handle)                           {}
func RefCount(Handle) int64                   { return 0 }
func FetchError() RawError                    { return RawError{} }
func ErrorOccurred() bool                     { return false }
func ClearError()                             {}
func SetError(ExcKind, string)                {}
func IsNone(Handle) bool                      { return false }
func IsBool(Handle) bool                      { return false }
func IsInt(Handle) bool                       { return false }
func IsFloat(Handle) bool                     { return false }
func IsString(Handle) bool                    { return false }
func IsBytes(Handle) bool                     { return false }
func IsList(Handle) bool                      { return false }
func IsTuple(Handle) bool                     { return false }
func IsDict(Handle) bool                      { return false }
func IsSet(Handle) bool                       { return false }
func IsCallable(Handle) bool                  { return false }
func IsModule(Handle) bool                    { return false }
func IsType(Handle) bool                      { return false }
func IsSequence(Handle) bool                  { return false }
func TypeName(Handle) string                  { return "" }
func ClassName(Handle) string                 { return "" }
func TypeFlags(Handle) (f [NumTypeFlags]bool) { return f }

func None() Handle             { return nil }
func NewBool(bool) Handle      { return nil }
func NewInt(int64) Handle      { return nil }
func NewUint(uint64) Handle    { return nil }
func NewFloat(float64) Handle  { return nil }
func NewString(string) Handle  { return nil }
func NewBytes([]byte) Handle   { return nil }
func AsBool(Handle) bool       { return false }
func AsInt(Handle) int64       { return 0 }
func AsFloat(Handle) float64   { return 0 }
func AsString(Handle) string   { return "" }
func StringView(Handle) string { return "" }
func AsBytes(Handle) []byte    { return nil }

func BatchIntToPy([]int64, []Handle, int)     {}
func BatchFloatToPy([]float64, []Handle, int) {}
func BatchStringToPy([]string, []Handle, int) {}
func BatchPyToInt([]Handle, []int64, int)     {}
func BatchPyToFloat([]Handle, []float64, int) {}
func BatchPyToString([]Handle, []string, int) {}

func NewList(int) Handle                     { return nil }
func ListSetSteal(Handle, int, Handle) bool  { return false }
func ListSet(Handle, int, Handle) bool       { return false }
func ListAppend(Handle, Handle) bool         { return false }
func NewTuple(int) Handle                    { return nil }
func TupleSetSteal(Handle, int, Handle) bool { return false }
func Len(Handle) int                         { return 0 }
func Item(Handle, int) Handle                { return nil }
func ListFromHandles([]Handle) Handle        { return nil }
func ListFromHandlesSteal([]Handle) Handle   { return nil }
func TupleFromHandles([]Handle) Handle       { return nil }
func TupleFromHandlesSteal([]Handle) Handle  { return nil }
func SequenceToHandles(Handle, []Handle) int { return -1 }
func IntList([]int64) Handle                 { return nil }
func FloatList([]float64) Handle             { return nil }
func IsHomogeneousInt(Handle) bool           { return false }
func IsHomogeneousFloat(Handle) bool         { return false }
func IsHomogeneousString(Handle) bool        { return false }
func NewDict() Handle                        { return nil }
func DictSet(Handle, Handle, Handle) bool    { return false }
func DictGet(Handle, Handle) (Handle, bool)  { return nil, false }
func DictDel(Handle, Handle) bool            { return false }
func DictContains(Handle, Handle) int        { return -1 }
func DictKeys(Handle) Handle                 { return nil }
func DictValues(Handle) Handle               { return nil }
func DictItems(Handle) Handle                { return nil }

func Call(Handle, Handle, Handle) Handle                        { return nil }
func CallMethod(Handle, string, Handle, Handle) (Handle, Stage) { return nil, StageNone }
func GetAttr(Handle, string) Handle                             { return nil }
func SetAttr(Handle, string, Handle) bool                       { return false }
func HasAttr(Handle, string) bool                               { return false }
func Dir(Handle) Handle                                         { return nil }
func TypeOf(Handle) Handle                                      { return nil }
func Str(Handle) Handle                                         { return nil }
func Repr(Handle) Handle                                        { return nil }
func Import(string) Handle                                      { return nil }
func ImportFrom(string, string) Handle                          { return nil }
func Eval(string, Handle, Handle) Handle                        { return nil }
func Exec(string, Handle, Handle) Handle                        { return nil }
func MainDict() Handle                                          { return nil }
func NewHostObject(int) Handle                                  { return nil }
func HostObjectIndex(Handle) (int, bool)                        { return -1, false }

func AcquireBuffer(Handle, bool) (unsafe.Pointer, BufferInfo) { return nil, BufferInfo{} }
func ReleaseBuffer(unsafe.Pointer)                            {}
func NewMemoryView(unsafe.Pointer, DType, []int64, []int64, int) Handle {
	return nil
}

func PoolAlloc(int) unsafe.Pointer { return nil }
func PoolReset()                   {}
func PoolFree()                    {}
func Pool() PoolStats              { return PoolStats{} }
