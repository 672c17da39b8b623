package pybridge

import (
	"fmt"
	"sync"
)

// Callable is a host value the interpreter can call.
type Callable interface {
	Call(args Borrowed) (*Object, error)
}

// MethodCaller is a host value with named methods.
type MethodCaller interface {
	CallMethod(name string, args Borrowed) (*Object, error)
}

// AttributeResolver is a host value with attributes. ResolveAttribute
// returns ErrAttributeNotFound for names it does not know.
type AttributeResolver interface {
	ResolveAttribute(rt *Runtime, name string) (*Object, error)
}

// CallableFunc adapts a function to Callable.
type CallableFunc func(args Borrowed) (*Object, error)

func (f CallableFunc) Call(args Borrowed) (*Object, error) { return f(args) }

// MethodFunc adapts a function to MethodCaller.
type MethodFunc func(name string, args Borrowed) (*Object, error)

func (f MethodFunc) CallMethod(name string, args Borrowed) (*Object, error) { return f(name, args) }

// AttributeFunc adapts a function to AttributeResolver.
type AttributeFunc func(rt *Runtime, name string) (*Object, error)

func (f AttributeFunc) ResolveAttribute(rt *Runtime, name string) (*Object, error) {
	return f(rt, name)
}

// HostRegistry is a Host that dispatches on the capabilities of registered
// Go values. Indexes start at 0 and are never reused.
type HostRegistry struct {
	mu      sync.RWMutex
	objects []any
	live    int
}

// NewHostRegistry returns an empty registry.
func NewHostRegistry() *HostRegistry {
	return &HostRegistry{}
}

// Register adds v and returns its index. v should implement at least one of
// Callable, MethodCaller or AttributeResolver.
func (r *HostRegistry) Register(v any) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects = append(r.objects, v)
	r.live++
	return len(r.objects) - 1
}

// Unregister removes the value at index. HostObjects still bound to it fail
// with ErrUnknownIndex.
func (r *HostRegistry) Unregister(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index >= 0 && index < len(r.objects) && r.objects[index] != nil {
		r.objects[index] = nil
		r.live--
	}
}

// Lookup returns the value registered at index.
func (r *HostRegistry) Lookup(index int) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.objects) || r.objects[index] == nil {
		return nil, false
	}
	return r.objects[index], true
}

// Len returns the number of registered values.
func (r *HostRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.live
}

// Expose registers v and wraps its index in a HostObject. The runtime must
// have been started with this registry as its Host.
func (r *HostRegistry) Expose(rt *Runtime, v any) (*Object, error) {
	idx := r.Register(v)
	o, err := rt.WrapHost(idx)
	if err != nil {
		r.Unregister(idx)
		return nil, err
	}
	return o, nil
}

func (r *HostRegistry) lookup(index int) (any, error) {
	v, ok := r.Lookup(index)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownIndex, index)
	}
	return v, nil
}

// CallObject implements Host.
func (r *HostRegistry) CallObject(index int, args Borrowed) (*Object, error) {
	v, err := r.lookup(index)
	if err != nil {
		return nil, err
	}
	c, ok := v.(Callable)
	if !ok {
		return nil, fmt.Errorf("%w: index %d holds %T", ErrNotCallable, index, v)
	}
	return c.Call(args)
}

// CallMethod implements Host. Attribute reads are routed to
// AttributeResolver; everything else to MethodCaller.
func (r *HostRegistry) CallMethod(index int, name string, args Borrowed) (*Object, error) {
	v, err := r.lookup(index)
	if err != nil {
		return nil, err
	}
	if name == AttributeGet {
		attr, err := args.Item(0)
		if err != nil {
			return nil, err
		}
		res, ok := v.(AttributeResolver)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrAttributeNotFound, attr.Str())
		}
		return res.ResolveAttribute(args.Runtime(), attr.Str())
	}
	m, ok := v.(MethodCaller)
	if !ok {
		return nil, fmt.Errorf("%w: index %d has no method %q", ErrNotCallable, index, name)
	}
	return m.CallMethod(name, args)
}
