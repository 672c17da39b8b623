//go:build cgo && !windows

package bindings

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"testing"
)

type scriptHost struct {
	mu     sync.Mutex
	call   func(index int, args Handle) (Handle, error)
	method func(index int, name string, args Handle) (Handle, error)
	calls  int
}

func (h *scriptHost) CallObject(index int, args Handle) (Handle, error) {
	h.mu.Lock()
	fn := h.call
	h.calls++
	h.mu.Unlock()
	if fn == nil {
		return nil, fmt.Errorf("no object handler for index %d", index)
	}
	return fn(index, args)
}

func (h *scriptHost) CallMethod(index int, name string, args Handle) (Handle, error) {
	h.mu.Lock()
	fn := h.method
	h.calls++
	h.mu.Unlock()
	if fn == nil {
		return nil, fmt.Errorf("no method handler for index %d", index)
	}
	return fn(index, name, args)
}

// script installs handlers for the duration of a test and resets the call
// counter.
func (h *scriptHost) script(t *testing.T, call func(int, Handle) (Handle, error), method func(int, string, Handle) (Handle, error)) {
	t.Helper()
	h.mu.Lock()
	h.call, h.method, h.calls = call, method, 0
	h.mu.Unlock()
	t.Cleanup(func() {
		h.mu.Lock()
		h.call, h.method = nil, nil
		h.mu.Unlock()
	})
}

func (h *scriptHost) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

var host = &scriptHost{}

func TestMain(m *testing.M) {
	runtime.LockOSThread()
	if err := Initialize(Config{Isolated: true, ProgramName: "bindings.test"}, host); err != nil {
		fmt.Fprintf(os.Stderr, "initialize interpreter: %v\n", err)
		os.Exit(1)
	}
	code := m.Run()
	if err := Finalize(); err != nil {
		fmt.Fprintf(os.Stderr, "finalize interpreter: %v\n", err)
		if code == 0 {
			code = 1
		}
	}
	os.Exit(code)
}

// withGIL runs fn on a locked OS thread holding the GIL.
func withGIL(t *testing.T, fn func()) {
	t.Helper()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	st := EnsureGIL()
	defer ReleaseGIL(st)
	fn()
}

func newGlobals(t *testing.T) Handle {
	t.Helper()
	g := NewDict()
	if g == nil {
		t.Fatalf("new dict: %s", fetchText())
	}
	t.Cleanup(func() {
		withGIL(t, func() { DecRef(g) })
	})
	return g
}

func mustExec(t *testing.T, code string, globals Handle) {
	t.Helper()
	res := Exec(code, globals, nil)
	if res == nil {
		t.Fatalf("exec %q: %s", code, fetchText())
	}
	DecRef(res)
}

func mustEval(t *testing.T, code string, globals Handle) Handle {
	t.Helper()
	res := Eval(code, globals, nil)
	if res == nil {
		t.Fatalf("eval %q: %s", code, fetchText())
	}
	return res
}

// lookup returns a borrowed reference to globals[name].
func lookup(t *testing.T, globals Handle, name string) Handle {
	t.Helper()
	key := NewString(name)
	defer DecRef(key)
	v, found := DictGet(globals, key)
	if !found {
		t.Fatalf("%s not defined", name)
	}
	return v
}

func fetchText() string {
	e := FetchError()
	defer release(e)
	if e.Type == nil {
		return "<no exception>"
	}
	return e.Formatted
}

func release(e RawError) {
	DecRef(e.Type)
	DecRef(e.Value)
	DecRef(e.Traceback)
}

func TestInitializeIsIdempotent(t *testing.T) {
	if !IsInitialized() {
		t.Fatalf("interpreter not running")
	}
	if err := Initialize(Config{}, host); err != nil {
		t.Fatalf("second initialize: %v", err)
	}
	withGIL(t, func() {
		g := newGlobals(t)
		mustExec(t, "import pybridge\nok = pybridge.ATTRIBUTE_GET == '__getattr__'", g)
		if !AsBool(lookup(t, g, "ok")) {
			t.Fatalf("pybridge module missing after re-initialize")
		}
	})
}

func TestInitializeRejectsNilHost(t *testing.T) {
	if err := Initialize(Config{}, nil); err != ErrNoHost {
		t.Fatalf("got %v, want ErrNoHost", err)
	}
}

func TestVersion(t *testing.T) {
	if v := Version(); v == "" || v[0] != '3' {
		t.Fatalf("unexpected interpreter version %q", v)
	}
}

func TestGILHeld(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if GILHeld() {
		t.Fatalf("GIL held before EnsureGIL")
	}
	st := EnsureGIL()
	if !GILHeld() {
		t.Fatalf("GIL not held after EnsureGIL")
	}
	ReleaseGIL(st)
}
