//go:build cgo && !windows

package pybridge_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pybridge/pybridge-go/pkg/pybridge"
	"github.com/pybridge/pybridge-go/pkg/pybridge/logging"
)

// switchHost lets each test install its own Host on the shared runtime.
type switchHost struct {
	mu   sync.Mutex
	host pybridge.Host
}

func (s *switchHost) current() pybridge.Host {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.host == nil {
		return pybridge.NewHostRegistry()
	}
	return s.host
}

func (s *switchHost) CallObject(index int, args pybridge.Borrowed) (*pybridge.Object, error) {
	return s.current().CallObject(index, args)
}

func (s *switchHost) CallMethod(index int, name string, args pybridge.Borrowed) (*pybridge.Object, error) {
	return s.current().CallMethod(index, name, args)
}

var (
	rt    *pybridge.Runtime
	hosts = &switchHost{}
)

func TestMain(m *testing.M) {
	cfg := pybridge.DefaultConfig()
	cfg.ProgramName = "pybridge.test"
	cfg.Logger = logging.Discard()

	var err error
	rt, err = pybridge.Init(context.Background(), cfg, hosts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init runtime: %v\n", err)
		os.Exit(1)
	}
	code := m.Run()
	if err := rt.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close runtime: %v\n", err)
		if code == 0 {
			code = 1
		}
	}
	os.Exit(code)
}

// useHost routes host callbacks to h for the rest of the test.
func useHost(t *testing.T, h pybridge.Host) {
	t.Helper()
	hosts.mu.Lock()
	hosts.host = h
	hosts.mu.Unlock()
	t.Cleanup(func() {
		hosts.mu.Lock()
		hosts.host = nil
		hosts.mu.Unlock()
	})
}

func closeLater(t *testing.T, o *pybridge.Object) *pybridge.Object {
	t.Helper()
	t.Cleanup(func() { _ = o.Close() })
	return o
}

func eval(t *testing.T, code string, globals pybridge.Value) *pybridge.Object {
	t.Helper()
	o, err := rt.Eval(code, globals)
	require.NoError(t, err, code)
	return closeLater(t, o)
}

func newGlobals(t *testing.T) *pybridge.Object {
	t.Helper()
	g, err := rt.NewDict()
	require.NoError(t, err)
	return closeLater(t, g)
}

func exec(t *testing.T, code string, globals pybridge.Value) {
	t.Helper()
	require.NoError(t, rt.Exec(code, globals), code)
}

// global returns a borrowed reference to globals[name].
func global(t *testing.T, globals *pybridge.Object, name string) pybridge.Borrowed {
	t.Helper()
	key, err := rt.Str(name)
	require.NoError(t, err)
	defer key.Close()
	v, found, err := globals.GetItem(key)
	require.NoError(t, err)
	require.True(t, found, "%s not defined", name)
	return v
}

// asError unwraps err into the interpreter exception it carries.
func asError(t *testing.T, err error) *pybridge.Error {
	t.Helper()
	var pe *pybridge.Error
	require.ErrorAs(t, err, &pe)
	return pe
}

func TestInitIsIdempotent(t *testing.T) {
	again, err := pybridge.Init(context.Background(), pybridge.DefaultConfig(), pybridge.NewHostRegistry())
	require.NoError(t, err)
	require.Same(t, rt, again)
	require.False(t, rt.Closed())
}

func TestInterpreterVersion(t *testing.T) {
	require.Regexp(t, `^3\.\d+`, pybridge.InterpreterVersion())
	require.NotEmpty(t, pybridge.WrapperVersion())
}
