//go:build cgo && !windows

package pybridge_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pybridge/pybridge-go/pkg/pybridge"
)

func TestUnclosedObjectsAreReleased(t *testing.T) {
	g := newGlobals(t)
	exec(t, "import weakref\nclass Tracked:\n    pass", g)

	// The object is dropped without Close; only the weak reference is kept.
	weak := func() *pybridge.Object {
		obj, err := rt.Eval("Tracked()", g)
		require.NoError(t, err)
		w, err := eval(t, "weakref.ref", g).CallArgs(obj)
		require.NoError(t, err)
		return closeLater(t, w)
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		target, err := weak.Call(nil, nil)
		if err != nil {
			return false
		}
		defer target.Close()
		return target.IsNone()
	}, 5*time.Second, 10*time.Millisecond)
}

// flushReleases runs collections and jobs so releases queued by finalizers
// are carried out.
func flushReleases(t *testing.T) {
	t.Helper()
	for i := 0; i < 3; i++ {
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
		require.NoError(t, rt.Exec("pass", nil))
	}
}

func TestMethodValueKeepsObjectAlive(t *testing.T) {
	g := newGlobals(t)
	exec(t, "class P:\n    def __repr__(self):\n        return 'P()'", g)

	// Only the bound method survives; the *Object itself is dropped.
	repr := func() func() string {
		obj, err := rt.Eval("P()", g)
		require.NoError(t, err)
		return obj.Repr
	}()
	flushReleases(t)
	require.Equal(t, "P()", repr())
}

func TestBorrowedItemKeepsContainerAlive(t *testing.T) {
	item := func() pybridge.Borrowed {
		list, err := rt.Eval("[float(i) + 0.5 for i in range(3)]", nil)
		require.NoError(t, err)
		b, err := list.Item(2)
		require.NoError(t, err)
		return b
	}()
	flushReleases(t)
	require.Equal(t, 2.5, item.Float())
	require.EqualValues(t, 1, item.RefCount())
}

func TestFetchErrorWithNothingPending(t *testing.T) {
	e, err := rt.FetchError()
	require.NoError(t, err)
	require.Nil(t, e)
}

func TestErrorCloseReleasesException(t *testing.T) {
	_, err := rt.Eval("1 / 0", nil)
	require.Error(t, err)

	pe := asError(t, err)
	require.Equal(t, "ZeroDivisionError", pe.TypeName)
	require.True(t, pe.Value.Valid())
	require.NoError(t, pe.Close())
	require.False(t, pe.Value.Valid())
	require.NoError(t, pe.Close())
}

func TestTypeFlagsMatchPredicates(t *testing.T) {
	for _, expr := range []string{"None", "True", "1", "1.5", "'s'", "b'b'", "[1]", "(1,)", "{}", "len", "object()"} {
		o := eval(t, expr, nil)
		flags := o.TypeFlags()
		want := [len(flags)]bool{
			o.IsNone(), o.IsBool(), o.IsInt(), o.IsFloat(), o.IsStr(),
			o.IsBytes(), o.IsList(), o.IsTuple(), o.IsDict(), o.IsCallable(),
		}
		require.Equal(t, want, flags, expr)
	}
	require.True(t, eval(t, "True", nil).IsInt(), "bool is an int subtype")
	require.True(t, eval(t, "{1, 2}", nil).IsSet())
	require.True(t, eval(t, "frozenset()", nil).IsSet())
	require.False(t, eval(t, "{}", nil).IsSet())
}
