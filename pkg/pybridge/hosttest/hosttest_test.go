//go:build cgo && !windows

package hosttest_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pybridge/pybridge-go/pkg/pybridge"
	"github.com/pybridge/pybridge-go/pkg/pybridge/hosttest"
	"github.com/pybridge/pybridge-go/pkg/pybridge/logging"
)

var (
	rt   *pybridge.Runtime
	host = hosttest.New()
)

func TestMain(m *testing.M) {
	cfg := pybridge.DefaultConfig()
	cfg.Logger = logging.Discard()
	var err error
	rt, err = pybridge.Init(context.Background(), cfg, host)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init runtime: %v\n", err)
		os.Exit(1)
	}
	code := m.Run()
	_ = rt.Close()
	os.Exit(code)
}

func run(t *testing.T, code string) error {
	t.Helper()
	host.Reset()
	return rt.Exec("import pybridge\n"+code, nil)
}

func TestUnscriptedCallsFail(t *testing.T) {
	err := run(t, "pybridge.HostObject(1)('x')")
	var pe *pybridge.Error
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "RuntimeError", pe.TypeName)
	require.Contains(t, pe.Message, hosttest.ErrUnscripted.Error())

	require.Equal(t, []hosttest.Call{{Index: 1, Args: []any{"x"}}}, host.Calls())
}

func TestHandlersAnswerCalls(t *testing.T) {
	host.OnCall(2, func(args pybridge.Borrowed) (*pybridge.Object, error) {
		return rt.Int(int64(args.Len()))
	})
	host.OnMethod(2, "name", func(pybridge.Borrowed) (*pybridge.Object, error) {
		return rt.Str("two")
	})
	host.SetAttr(2, "tags", []string{"a", "b"})

	require.NoError(t, run(t, `
h = pybridge.HostObject(2)
assert h(1, 2, 3) == 3
assert pybridge.invoke_host(2, 'name', ()) == 'two'
assert h.tags == ['a', 'b']
assert not hasattr(h, 'other')
`))

	calls := host.Calls()
	require.Len(t, calls, 4)
	require.Equal(t, []any{int64(1), int64(2), int64(3)}, calls[0].Args)
	require.Equal(t, "name", calls[1].Method)
	require.Equal(t, pybridge.AttributeGet, calls[2].Method)
	require.Equal(t, []any{"other"}, calls[3].Args)
}

func TestForeignArgumentsAreRecordedByRepr(t *testing.T) {
	host.OnCall(3, func(pybridge.Borrowed) (*pybridge.Object, error) { return nil, nil })
	require.NoError(t, run(t, "pybridge.HostObject(3)(None, {'k': 1}, range(2))"))
	require.Equal(t, []any{nil, map[string]any{"k": int64(1)}, "range(0, 2)"}, host.Calls()[0].Args)
}
