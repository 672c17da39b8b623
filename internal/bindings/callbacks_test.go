//go:build cgo && !windows

package bindings

import (
	"errors"
	"strings"
	"testing"
)

func TestHostObjectForwardsCall(t *testing.T) {
	var gotIndex, gotArgs int
	host.script(t, func(index int, args Handle) (Handle, error) {
		gotIndex = index
		gotArgs = Len(args)
		return NewInt(AsInt(Item(args, 0)) + AsInt(Item(args, 1))), nil
	}, nil)

	withGIL(t, func() {
		g := newGlobals(t)
		mustExec(t, "import pybridge\nr = pybridge.HostObject(7)(40, 2)", g)
		if gotIndex != 7 || gotArgs != 2 {
			t.Fatalf("callback saw index %d with %d args", gotIndex, gotArgs)
		}
		if got := AsInt(lookup(t, g, "r")); got != 42 {
			t.Fatalf("result %d, want 42", got)
		}
	})
}

func TestHostErrorBecomesRuntimeError(t *testing.T) {
	host.script(t, func(int, Handle) (Handle, error) {
		return nil, errors.New("boom")
	}, nil)

	withGIL(t, func() {
		g := newGlobals(t)
		mustExec(t, `
import pybridge
try:
    pybridge.HostObject(7)()
except RuntimeError as e:
    payload = e.args[0]
`, g)
		if got := AsString(lookup(t, g, "payload")); got != "boom" {
			t.Fatalf("payload %q, want boom", got)
		}
	})
}

func TestHostNilResultIsNone(t *testing.T) {
	host.script(t, func(int, Handle) (Handle, error) { return nil, nil }, nil)
	withGIL(t, func() {
		g := newGlobals(t)
		mustExec(t, "import pybridge\nr = pybridge.HostObject(1)()", g)
		if !IsNone(lookup(t, g, "r")) {
			t.Fatalf("nil result did not become None")
		}
	})
}

type payloadErr struct{ value Handle }

func (e payloadErr) Error() string   { return "payload error" }
func (e payloadErr) Payload() Handle { IncRef(e.value); return e.value }

func TestHostErrorPayloadIsReused(t *testing.T) {
	withGIL(t, func() {
		g := newGlobals(t)
		mustExec(t, "exc = ValueError('original')", g)
		exc := lookup(t, g, "exc")
		host.script(t, func(int, Handle) (Handle, error) {
			return nil, payloadErr{value: exc}
		}, nil)
		mustExec(t, `
import pybridge
try:
    pybridge.HostObject(3)()
except RuntimeError as e:
    same = e.args[0] is exc
`, g)
		if !AsBool(lookup(t, g, "same")) {
			t.Fatalf("payload was not the original exception")
		}
	})
}

func TestHostPanicBecomesException(t *testing.T) {
	host.script(t, func(int, Handle) (Handle, error) { panic("host exploded") }, nil)
	withGIL(t, func() {
		g := newGlobals(t)
		mustExec(t, `
import pybridge
try:
    pybridge.HostObject(0)()
except RuntimeError as e:
    msg = str(e.args[0])
`, g)
		if msg := AsString(lookup(t, g, "msg")); !strings.Contains(msg, "host exploded") {
			t.Fatalf("message %q does not mention the panic", msg)
		}
	})
}

func TestHostAttributeLookupUsesMarker(t *testing.T) {
	var gotName, gotAttr string
	host.script(t, nil, func(index int, name string, args Handle) (Handle, error) {
		gotName = name
		gotAttr = AsString(Item(args, 0))
		if gotAttr == "size" {
			return NewInt(3), nil
		}
		return nil, errors.New("no such attribute")
	})

	withGIL(t, func() {
		g := newGlobals(t)
		mustExec(t, `
import pybridge
h = pybridge.HostObject(5)
size = h.size
has_other = hasattr(h, 'other')
`, g)
		if gotName != AttributeGet || gotAttr != "other" {
			t.Fatalf("callback saw %q(%q)", gotName, gotAttr)
		}
		if AsInt(lookup(t, g, "size")) != 3 || AsBool(lookup(t, g, "has_other")) {
			t.Fatalf("unexpected attribute results")
		}
	})
}

func TestReservedAttributesBypassHost(t *testing.T) {
	host.script(t, nil, func(int, string, Handle) (Handle, error) {
		return nil, errors.New("must not be called")
	})
	withGIL(t, func() {
		g := newGlobals(t)
		mustExec(t, `
import pybridge
h = pybridge.HostObject(5)
cls = h.__class__.__name__
r = repr(h)
`, g)
		if host.count() != 0 {
			t.Fatalf("reserved attribute reached the host")
		}
		if AsString(lookup(t, g, "cls")) != "HostObject" || AsString(lookup(t, g, "r")) != "<pybridge.HostObject index=5>" {
			t.Fatalf("unexpected reserved attribute values")
		}
	})
}

func TestHostObjectShapeErrors(t *testing.T) {
	host.script(t, func(int, Handle) (Handle, error) { return nil, nil }, nil)
	cases := map[string]string{
		"pybridge.HostObject('x')":                           "TypeError",
		"pybridge.HostObject()":                              "TypeError",
		"pybridge.HostObject(-1)":                            "ValueError",
		"pybridge.HostObject(1).__init__(2)":                 "RuntimeError",
		"pybridge.HostObject(1)(x=1)":                        "TypeError",
		"pybridge.HostObject.__new__(pybridge.HostObject)()": "RuntimeError",
		"pybridge.call_host('x', ())":                        "TypeError",
		"pybridge.call_host(1, [1])":                         "TypeError",
		"pybridge.invoke_host(1, 2, ())":                     "TypeError",
	}
	withGIL(t, func() {
		g := newGlobals(t)
		mustExec(t, "import pybridge", g)
		for expr, want := range cases {
			if res := Eval(expr, g, nil); res != nil {
				DecRef(res)
				t.Errorf("%s succeeded", expr)
				continue
			}
			e := FetchError()
			if got := ClassName(e.Type); got != want {
				t.Errorf("%s raised %s, want %s", expr, got, want)
			}
			release(e)
		}
		if host.count() != 0 {
			t.Fatalf("a malformed call reached the host %d times", host.count())
		}
	})
}

func TestUnboundAttributeLookupFails(t *testing.T) {
	withGIL(t, func() {
		g := newGlobals(t)
		mustExec(t, `
import pybridge
h = pybridge.HostObject.__new__(pybridge.HostObject)
ok = not hasattr(h, 'x')
`, g)
		if !AsBool(lookup(t, g, "ok")) {
			t.Fatalf("unbound object resolved an attribute")
		}
	})
}

func TestModuleFunctions(t *testing.T) {
	var calls []string
	host.script(t,
		func(index int, args Handle) (Handle, error) {
			calls = append(calls, "call")
			return NewInt(int64(index)), nil
		},
		func(index int, name string, args Handle) (Handle, error) {
			calls = append(calls, name)
			return NewString(name), nil
		})

	withGIL(t, func() {
		g := newGlobals(t)
		mustExec(t, `
import pybridge
a = pybridge.call_host(9, (1,))
b = pybridge.invoke_host(9, 'greet', ('x',))
`, g)
		if AsInt(lookup(t, g, "a")) != 9 || AsString(lookup(t, g, "b")) != "greet" {
			t.Fatalf("unexpected module function results")
		}
		if len(calls) != 2 || calls[0] != "call" || calls[1] != "greet" {
			t.Fatalf("calls %v", calls)
		}
	})
}

func TestNestedCallbackReentersInterpreter(t *testing.T) {
	host.script(t, func(index int, args Handle) (Handle, error) {
		// Runs with the GIL already held by the calling frame.
		fn := Item(args, 0)
		return Call(fn, nil, nil), nil
	}, nil)
	withGIL(t, func() {
		g := newGlobals(t)
		mustExec(t, "import pybridge\nr = pybridge.HostObject(2)(lambda: 'inner')", g)
		if AsString(lookup(t, g, "r")) != "inner" {
			t.Fatalf("nested call failed")
		}
	})
}

func TestNewHostObjectIndex(t *testing.T) {
	withGIL(t, func() {
		h := NewHostObject(5)
		if h == nil {
			t.Fatalf("new host object: %s", fetchText())
		}
		defer DecRef(h)
		if idx, ok := HostObjectIndex(h); !ok || idx != 5 {
			t.Fatalf("index %d ok %v", idx, ok)
		}
		i := NewInt(5)
		defer DecRef(i)
		if _, ok := HostObjectIndex(i); ok {
			t.Fatalf("int reported as host object")
		}
	})
}
