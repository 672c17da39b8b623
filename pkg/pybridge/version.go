package pybridge

import "github.com/pybridge/pybridge-go/internal/bindings"

var (
	Version = "v0.0.0-in-progress"
)

// WrapperVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-in-progress.
func WrapperVersion() string {
	return Version
}

// InterpreterVersion returns the embedded interpreter's version string, or
// "" when the bindings are not built.
func InterpreterVersion() string {
	return bindings.Version()
}
