// Package internalcheck holds source policy tests for the pybridge module.
//
// The tests load the module's packages with golang.org/x/tools/go/packages
// and walk their syntax trees. They enforce rules the compiler cannot:
//
//   - only internal/bindings imports "C"
//   - every cgo export recovers panics before doing anything else
//   - no struct field stores a pybridge.Borrowed
//
// # Internal Use Only
//
// This package has no API. It exists so `go test ./...` runs the checks.
package internalcheck
