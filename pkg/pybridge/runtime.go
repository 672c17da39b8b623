package pybridge

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"unsafe"

	"github.com/pybridge/pybridge-go/internal/bindings"
	"github.com/pybridge/pybridge-go/pkg/pybridge/logging"
)

var errCloseInCallback = errors.New("pybridge: Close called from inside the interpreter")

var (
	liveMu sync.Mutex
	live   *Runtime
)

// Runtime is a running embedded interpreter. All interpreter work is
// serialized onto one OS thread owned by the Runtime; methods block until
// their work is done and may be called from any goroutine. Code running
// inside a host callback already holds the interpreter and runs inline.
type Runtime struct {
	ctx  context.Context
	cfg  Config
	host Host
	log  logging.Logger

	jobs chan *job
	stop chan struct{}
	done chan struct{}

	mu        sync.Mutex
	closed    bool
	pending   []func()
	closeOnce sync.Once
	closeErr  error
}

type job struct {
	fn    func()
	done  chan struct{}
	panic any
}

// Init starts the interpreter and installs host as the target of every
// HostObject call. A nil host installs an empty HostRegistry.
//
// Init is idempotent: while a Runtime is live it is returned as is and the
// new config and host are ignored. If the interpreter was started by someone
// else in this process, Init attaches to it and Close leaves it running.
func Init(ctx context.Context, cfg Config, host Host) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if host == nil {
		host = NewHostRegistry()
	}

	liveMu.Lock()
	defer liveMu.Unlock()
	if live != nil {
		return live, nil
	}

	rt := &Runtime{
		ctx:  context.WithoutCancel(ctx),
		cfg:  cfg,
		host: host,
		log:  cfg.logger().With("component", "pybridge"),
		jobs: make(chan *job),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	ready := make(chan error, 1)
	go rt.loop(ready)
	if err := <-ready; err != nil {
		rt.log.Error(ctx, "interpreter failed to start", "error", err)
		return nil, remapError(err)
	}

	live = rt
	rt.log.Info(ctx, "interpreter started", "version", bindings.Version(), "isolated", cfg.Isolated)
	return rt, nil
}

// loop owns the interpreter's main thread.
func (rt *Runtime) loop(ready chan<- error) {
	// The thread keeps interpreter state; it is never handed back to the
	// scheduler and exits with this goroutine.
	runtime.LockOSThread()

	if err := bindings.Initialize(rt.cfg.toBindings(), hostAdapter{rt: rt}); err != nil {
		close(rt.done)
		ready <- err
		return
	}
	ready <- nil

	for {
		select {
		case j := <-rt.jobs:
			rt.run(j)
		case <-rt.stop:
			rt.closeErr = rt.shutdown()
			close(rt.done)
			return
		}
	}
}

// run executes j. Queued releases are dropped after the job, never while
// it may still use a handle resolved before it was scheduled.
func (rt *Runtime) run(j *job) {
	st := bindings.EnsureGIL()
	defer func() {
		j.panic = recover()
		rt.drain()
		bindings.ReleaseGIL(st)
		close(j.done)
	}()
	j.fn()
}

func (rt *Runtime) shutdown() error {
	st := bindings.EnsureGIL()
	rt.drain()
	bindings.ReleaseGIL(st)
	return remapError(bindings.Finalize())
}

// do runs fn with the GIL held. Nested calls from a host callback run
// inline on the calling thread.
func (rt *Runtime) do(fn func()) error {
	if rt == nil {
		return ErrClosed
	}
	rt.mu.Lock()
	closed := rt.closed
	rt.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if bindings.GILHeld() {
		fn()
		return nil
	}

	j := &job{fn: fn, done: make(chan struct{})}
	select {
	case rt.jobs <- j:
	case <-rt.done:
		return ErrClosed
	}
	<-j.done
	if j.panic != nil {
		panic(j.panic)
	}
	return nil
}

// queueRelease schedules a reference drop after the next job. It is safe to
// call from finalizers.
func (rt *Runtime) queueRelease(h bindings.Handle) {
	rt.enqueue(func() { bindings.DecRef(h) })
}

// queueBufferRelease schedules the end of a buffer export like queueRelease.
func (rt *Runtime) queueBufferRelease(view unsafe.Pointer) {
	rt.enqueue(func() { bindings.ReleaseBuffer(view) })
}

func (rt *Runtime) enqueue(release func()) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.closed {
		return
	}
	rt.pending = append(rt.pending, release)
}

// drain drops queued references. The GIL must be held.
func (rt *Runtime) drain() {
	rt.mu.Lock()
	pending := rt.pending
	rt.pending = nil
	rt.mu.Unlock()
	if len(pending) == 0 {
		return
	}
	for _, release := range pending {
		release()
	}
	rt.log.Debug(rt.ctx, "released finalized objects", "count", len(pending))
}

// Close shuts the interpreter down if this Runtime started it and stops the
// executor. Objects created by the Runtime must not be used afterwards;
// their methods return ErrClosed. Close is idempotent.
func (rt *Runtime) Close() error {
	if rt == nil || rt.Closed() {
		return nil
	}
	if bindings.GILHeld() {
		return errCloseInCallback
	}
	rt.closeOnce.Do(func() {
		// One last job so releases queued by finalizers still run.
		_ = rt.do(func() {})

		rt.mu.Lock()
		rt.closed = true
		rt.pending = nil
		rt.mu.Unlock()

		close(rt.stop)
		<-rt.done

		liveMu.Lock()
		if live == rt {
			live = nil
		}
		liveMu.Unlock()
		rt.log.Info(rt.ctx, "interpreter stopped")
	})
	return rt.closeErr
}

// Closed reports whether Close has been called.
func (rt *Runtime) Closed() bool {
	if rt == nil {
		return true
	}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.closed
}

// FetchError takes the pending exception, if any. It returns nil when
// nothing is pending. Operations of this package always fetch their own
// failures, so this only sees exceptions raised by code that bypasses them.
func (rt *Runtime) FetchError() (*Error, error) {
	var e *Error
	err := rt.do(func() {
		if bindings.ErrorOccurred() {
			e = rt.fetch("fetch", StageNone)
		}
	})
	return e, err
}

// fetch converts the pending exception into an *Error. The GIL must be held.
func (rt *Runtime) fetch(op string, stage Stage) *Error {
	raw := bindings.FetchError()
	e := &Error{Op: op, Stage: stage}
	if raw.Type == nil {
		e.TypeName = "SystemError"
		e.Message = op + " failed without setting an exception"
		return e
	}
	e.Type = rt.own(raw.Type)
	e.Value = rt.own(raw.Value)
	e.Trace = rt.own(raw.Traceback)
	e.TypeName = bindings.ClassName(raw.Type)
	if raw.Value != nil {
		if s := bindings.Str(raw.Value); s != nil {
			e.Message = bindings.AsString(s)
			bindings.DecRef(s)
		} else {
			bindings.ClearError()
		}
	}
	if raw.HasFormatted {
		e.Traceback = raw.Formatted
	}
	return e
}
