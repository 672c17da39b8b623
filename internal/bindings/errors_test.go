//go:build cgo && !windows

package bindings

import (
	"strings"
	"testing"
)

func TestFetchErrorConsumesException(t *testing.T) {
	withGIL(t, func() {
		if res := Eval("1 / 0", nil, nil); res != nil {
			t.Fatalf("division by zero succeeded")
		}
		e := FetchError()
		defer release(e)
		if ClassName(e.Type) != "ZeroDivisionError" {
			t.Fatalf("got %s, want ZeroDivisionError", ClassName(e.Type))
		}
		if e.Value == nil || e.Traceback == nil {
			t.Fatalf("value or traceback missing")
		}
		if !e.HasFormatted || !strings.Contains(e.Formatted, "Traceback") || !strings.Contains(e.Formatted, "ZeroDivisionError") {
			t.Fatalf("unexpected rendering %q", e.Formatted)
		}
		if ErrorOccurred() {
			t.Fatalf("exception still pending after fetch")
		}
		if again := FetchError(); again.Type != nil || again.HasFormatted {
			t.Fatalf("second fetch returned %+v", again)
		}
	})
}

func TestFetchErrorWithoutTraceback(t *testing.T) {
	withGIL(t, func() {
		SetError(ExcKey, "missing thing")
		e := FetchError()
		defer release(e)
		if ClassName(e.Type) != "KeyError" {
			t.Fatalf("got %s, want KeyError", ClassName(e.Type))
		}
		if e.Traceback != nil {
			t.Fatalf("raised-from-host exception has a traceback")
		}
		if !strings.Contains(e.Formatted, "missing thing") {
			t.Fatalf("rendering %q lacks the message", e.Formatted)
		}
	})
}

func TestSetErrorKinds(t *testing.T) {
	want := map[ExcKind]string{
		ExcRuntime:   "RuntimeError",
		ExcType:      "TypeError",
		ExcValue:     "ValueError",
		ExcAttribute: "AttributeError",
		ExcKey:       "KeyError",
		ExcIndex:     "IndexError",
	}
	withGIL(t, func() {
		for kind, name := range want {
			SetError(kind, "x")
			e := FetchError()
			if got := ClassName(e.Type); got != name {
				t.Errorf("kind %d raised %s, want %s", kind, got, name)
			}
			release(e)
		}
	})
}

func TestCallMethodStages(t *testing.T) {
	withGIL(t, func() {
		g := newGlobals(t)
		mustExec(t, `
class Box:
    def ok(self):
        return 'fine'
    def bad(self):
        raise ValueError('inside')
box = Box()
`, g)
		box := lookup(t, g, "box")

		res, stage := CallMethod(box, "ok", nil, nil)
		if res == nil || stage != StageNone || AsString(res) != "fine" {
			t.Fatalf("ok: stage %v", stage)
		}
		DecRef(res)

		res, stage = CallMethod(box, "missing", nil, nil)
		if res != nil || stage != StageLookup {
			t.Fatalf("missing: stage %v", stage)
		}
		e := FetchError()
		if ClassName(e.Type) != "AttributeError" {
			t.Fatalf("missing raised %s", ClassName(e.Type))
		}
		release(e)

		res, stage = CallMethod(box, "bad", nil, nil)
		if res != nil || stage != StageCall {
			t.Fatalf("bad: stage %v", stage)
		}
		e = FetchError()
		defer release(e)
		if ClassName(e.Type) != "ValueError" {
			t.Fatalf("bad raised %s", ClassName(e.Type))
		}
	})
}

func TestCallArgumentShapes(t *testing.T) {
	withGIL(t, func() {
		g := newGlobals(t)
		mustExec(t, "def f(*a, **k):\n    return (len(a), sorted(k))", g)
		f := lookup(t, g, "f")

		res := Call(f, nil, nil)
		if res == nil || AsInt(Item(res, 0)) != 0 {
			t.Fatalf("call with no args: %s", fetchText())
		}
		DecRef(res)

		args := TupleFromHandlesSteal([]Handle{NewInt(1), NewInt(2)})
		defer DecRef(args)
		kw := NewDict()
		defer DecRef(kw)
		k, v := NewString("x"), NewInt(3)
		DictSet(kw, k, v)
		DecRef(k)
		DecRef(v)
		res = Call(f, args, kw)
		if res == nil || AsInt(Item(res, 0)) != 2 || Len(Item(res, 1)) != 1 {
			t.Fatalf("call with args: %s", fetchText())
		}
		DecRef(res)

		list := NewList(0)
		defer DecRef(list)
		if Call(f, list, nil) != nil {
			t.Fatalf("list accepted as positional arguments")
		}
		e := FetchError()
		defer release(e)
		if ClassName(e.Type) != "TypeError" {
			t.Fatalf("got %s, want TypeError", ClassName(e.Type))
		}
	})
}

func TestImportAndAttributes(t *testing.T) {
	withGIL(t, func() {
		sqrt := ImportFrom("math", "sqrt")
		if sqrt == nil {
			t.Fatalf("import: %s", fetchText())
		}
		defer DecRef(sqrt)
		args := TupleFromHandlesSteal([]Handle{NewFloat(16)})
		defer DecRef(args)
		res := Call(sqrt, args, nil)
		if res == nil || AsFloat(res) != 4 {
			t.Fatalf("sqrt: %s", fetchText())
		}
		DecRef(res)

		ns := mustEval(t, "type('NS', (), {})()", nil)
		defer DecRef(ns)
		val := NewString("v")
		defer DecRef(val)
		if !SetAttr(ns, "field", val) || !HasAttr(ns, "field") || HasAttr(ns, "other") {
			t.Fatalf("attribute round trip failed")
		}
		got := GetAttr(ns, "field")
		defer DecRef(got)
		if AsString(got) != "v" {
			t.Fatalf("got %q", AsString(got))
		}

		if Import("no_such_module_here") != nil {
			t.Fatalf("importing a missing module succeeded")
		}
		e := FetchError()
		defer release(e)
		if ClassName(e.Type) != "ModuleNotFoundError" {
			t.Fatalf("got %s", ClassName(e.Type))
		}
	})
}
