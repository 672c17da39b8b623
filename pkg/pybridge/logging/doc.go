// Package logging provides a minimal logging facade for pybridge.
//
// The Logger interface wraps a subset of log/slog so applications can route
// runtime events into their own logging setup or silence them in tests.
//
//	type Logger interface {
//	    Debug(ctx context.Context, msg string, args ...any)
//	    Info(ctx context.Context, msg string, args ...any)
//	    Warn(ctx context.Context, msg string, args ...any)
//	    Error(ctx context.Context, msg string, args ...any)
//	    With(args ...any) Logger
//	}
//
// # Default Implementation
//
//	logger := logging.New(nil) // slog.Default()
//
//	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})
//	logger = logging.New(slog.New(handler))
//
// # What the runtime logs
//
// Interpreter start and shutdown are logged at Info. Host callbacks that
// fail or panic are logged at Warn together with the host index. Releases
// queued by finalizers are logged at Debug when they are drained.
//
// Tracebacks can be long; Truncated keeps an attribute to a bounded size:
//
//	logger.Warn(ctx, "eval failed", logging.Truncated("traceback", tb, 512))
package logging
