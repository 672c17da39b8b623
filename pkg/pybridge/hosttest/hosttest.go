package hosttest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pybridge/pybridge-go/pkg/pybridge"
)

// ErrUnscripted reports a call with no handler installed.
var ErrUnscripted = errors.New("hosttest: unscripted call")

// Handler answers a call. args is the call's argument tuple.
type Handler func(args pybridge.Borrowed) (*pybridge.Object, error)

// Call is one recorded callback. Method is empty for direct calls and
// pybridge.AttributeGet for attribute reads. Args holds the arguments as
// returned by Runtime.FromObject; values with no Go form are recorded by
// their repr.
type Call struct {
	Index  int
	Method string
	Args   []any
}

type methodKey struct {
	index int
	name  string
}

// Host is a scripted pybridge.Host. The zero value is not usable; call New.
type Host struct {
	mu      sync.Mutex
	calls   []Call
	objects map[int]Handler
	methods map[methodKey]Handler
	attrs   map[methodKey]any
}

var _ pybridge.Host = (*Host)(nil)

func New() *Host {
	return &Host{
		objects: make(map[int]Handler),
		methods: make(map[methodKey]Handler),
		attrs:   make(map[methodKey]any),
	}
}

// OnCall installs the handler for calling the HostObject at index.
func (h *Host) OnCall(index int, fn Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.objects[index] = fn
}

// OnMethod installs the handler for invoke_host(index, name, args).
func (h *Host) OnMethod(index int, name string, fn Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.methods[methodKey{index, name}] = fn
}

// SetAttr makes attribute name of the HostObject at index read as value,
// converted with Runtime.ToObject on every read.
func (h *Host) SetAttr(index int, name string, value any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attrs[methodKey{index, name}] = value
}

// Calls returns a copy of the recorded calls in arrival order.
func (h *Host) Calls() []Call {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Call(nil), h.calls...)
}

// Reset forgets recorded calls. Handlers and attributes stay installed.
func (h *Host) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = nil
}

func (h *Host) record(index int, method string, args pybridge.Borrowed) {
	c := Call{Index: index, Method: method, Args: natives(args)}
	h.mu.Lock()
	h.calls = append(h.calls, c)
	h.mu.Unlock()
}

func natives(args pybridge.Borrowed) []any {
	v, err := args.Runtime().FromObject(args)
	if err != nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	for i, item := range items {
		if o, ok := item.(*pybridge.Object); ok {
			items[i] = o.Repr()
			_ = o.Close()
		}
	}
	return items
}

// CallObject implements pybridge.Host.
func (h *Host) CallObject(index int, args pybridge.Borrowed) (*pybridge.Object, error) {
	h.record(index, "", args)
	h.mu.Lock()
	fn := h.objects[index]
	h.mu.Unlock()
	if fn == nil {
		return nil, fmt.Errorf("%w: call on index %d", ErrUnscripted, index)
	}
	return fn(args)
}

// CallMethod implements pybridge.Host.
func (h *Host) CallMethod(index int, name string, args pybridge.Borrowed) (*pybridge.Object, error) {
	h.record(index, name, args)
	if name == pybridge.AttributeGet {
		return h.attribute(index, args)
	}
	h.mu.Lock()
	fn := h.methods[methodKey{index, name}]
	h.mu.Unlock()
	if fn == nil {
		return nil, fmt.Errorf("%w: method %q on index %d", ErrUnscripted, name, index)
	}
	return fn(args)
}

func (h *Host) attribute(index int, args pybridge.Borrowed) (*pybridge.Object, error) {
	nameArg, err := args.Item(0)
	if err != nil {
		return nil, err
	}
	name := nameArg.Str()
	h.mu.Lock()
	v, ok := h.attrs[methodKey{index, name}]
	h.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", pybridge.ErrAttributeNotFound, name)
	}
	return args.Runtime().ToObject(v)
}
