//go:build cgo && !windows

package bindings

/*
#include "bridge.h"
*/
import "C"

import (
	"unsafe"
)

// NewList returns a new list of size empty slots. Every slot must be filled
// with ListSetSteal before the list is used.
func NewList(size int) Handle { return handleOf(C.pyb_list_new(C.int64_t(size))) }

// ListSetSteal stores item at index, taking over the caller's reference even
// when it fails.
func ListSetSteal(list Handle, index int, item Handle) bool {
	return C.pyb_list_set_steal(ptr(list), C.int64_t(index), ptr(item)) == 0
}

// ListSet stores item at index. The caller keeps its reference.
func ListSet(list Handle, index int, item Handle) bool {
	return C.pyb_list_set(ptr(list), C.int64_t(index), ptr(item)) == 0
}

// ListAppend appends item. The caller keeps its reference.
func ListAppend(list Handle, item Handle) bool {
	return C.pyb_list_append(ptr(list), ptr(item)) == 0
}

// NewTuple returns a new tuple of size empty slots.
func NewTuple(size int) Handle { return handleOf(C.pyb_tuple_new(C.int64_t(size))) }

// TupleSetSteal fills a slot of a fresh tuple, taking over item's reference.
func TupleSetSteal(tuple Handle, index int, item Handle) bool {
	return C.pyb_tuple_set_steal(ptr(tuple), C.int64_t(index), ptr(item)) == 0
}

// Len returns len(h), or 0 when the object has no length.
func Len(h Handle) int { return int(C.pyb_len(ptr(h))) }

// Item returns a borrowed reference to element index of a list or tuple.
func Item(seq Handle, index int) Handle {
	return handleOf(C.pyb_item(ptr(seq), C.int64_t(index)))
}

// ListFromHandles builds a list holding new references to items.
func ListFromHandles(items []Handle) Handle {
	if len(items) == 0 {
		return NewList(0)
	}
	src := toCArray(items)
	return handleOf(C.pyb_list_from_array(&src[0], C.int32_t(len(src))))
}

// ListFromHandlesSteal builds a list that takes over one reference of every
// item, including on failure.
func ListFromHandlesSteal(items []Handle) Handle {
	if len(items) == 0 {
		return NewList(0)
	}
	src := toCArray(items)
	return handleOf(C.pyb_list_from_array_steal(&src[0], C.int32_t(len(src))))
}

// TupleFromHandles builds a tuple holding new references to items.
func TupleFromHandles(items []Handle) Handle {
	if len(items) == 0 {
		return NewTuple(0)
	}
	src := toCArray(items)
	return handleOf(C.pyb_tuple_from_array(&src[0], C.int32_t(len(src))))
}

// TupleFromHandlesSteal builds a tuple that takes over one reference of every
// item, including on failure.
func TupleFromHandlesSteal(items []Handle) Handle {
	if len(items) == 0 {
		return NewTuple(0)
	}
	src := toCArray(items)
	return handleOf(C.pyb_tuple_from_array_steal(&src[0], C.int32_t(len(src))))
}

// SequenceToHandles writes borrowed references to the first len(out)
// elements of a list or tuple and returns how many were written, or -1 with
// an exception pending when seq is neither.
func SequenceToHandles(seq Handle, out []Handle) int {
	if len(out) == 0 {
		return int(C.pyb_seq_to_array(ptr(seq), nil, 0))
	}
	dst := make([]*C.PyObject, len(out))
	n := int(C.pyb_seq_to_array(ptr(seq), &dst[0], C.int64_t(len(out))))
	for i := 0; i < n; i++ {
		out[i] = handleOf(dst[i])
	}
	return n
}

// IntList builds a list of ints from values.
func IntList(values []int64) Handle {
	if len(values) == 0 {
		return NewList(0)
	}
	return handleOf(C.pyb_int_list((*C.int64_t)(unsafe.Pointer(&values[0])), C.int32_t(len(values))))
}

// FloatList builds a list of floats from values.
func FloatList(values []float64) Handle {
	if len(values) == 0 {
		return NewList(0)
	}
	return handleOf(C.pyb_float_list((*C.double)(unsafe.Pointer(&values[0])), C.int32_t(len(values))))
}

// IsHomogeneousInt reports whether every element of a list or tuple is an
// int. Empty sequences qualify; other objects do not.
func IsHomogeneousInt(seq Handle) bool { return cBool(C.pyb_is_homogeneous_int(ptr(seq))) }

// IsHomogeneousFloat reports whether every element is a float or an int.
func IsHomogeneousFloat(seq Handle) bool { return cBool(C.pyb_is_homogeneous_float(ptr(seq))) }

// IsHomogeneousString reports whether every element is a str.
func IsHomogeneousString(seq Handle) bool { return cBool(C.pyb_is_homogeneous_str(ptr(seq))) }

// NewDict returns a new empty dict.
func NewDict() Handle { return handleOf(C.pyb_dict_new()) }

// DictSet stores value under key. Neither reference is stolen.
func DictSet(dict, key, value Handle) bool {
	return C.pyb_dict_set(ptr(dict), ptr(key), ptr(value)) == 0
}

// DictGet returns a borrowed reference to the value stored under key. A
// missing key returns (nil, false) with no exception pending; a nil result
// with an exception pending means the lookup itself failed.
func DictGet(dict, key Handle) (Handle, bool) {
	var found C.int
	v := C.pyb_dict_get(ptr(dict), ptr(key), &found)
	return handleOf(v), found != 0
}

// DictDel removes key.
func DictDel(dict, key Handle) bool {
	return C.pyb_dict_del(ptr(dict), ptr(key)) == 0
}

// DictContains returns 1 if key is present, 0 if not and -1 on error.
func DictContains(dict, key Handle) int {
	return int(C.pyb_dict_contains(ptr(dict), ptr(key)))
}

// DictKeys returns a new list of the keys.
func DictKeys(dict Handle) Handle { return handleOf(C.pyb_dict_keys(ptr(dict))) }

// DictValues returns a new list of the values.
func DictValues(dict Handle) Handle { return handleOf(C.pyb_dict_values(ptr(dict))) }

// DictItems returns a new list of (key, value) tuples.
func DictItems(dict Handle) Handle { return handleOf(C.pyb_dict_items(ptr(dict))) }
