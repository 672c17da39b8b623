package internalcheck

import (
	"os"
	"testing"

	"golang.org/x/tools/go/packages"
)

const (
	modulePath   = "github.com/pybridge/pybridge-go"
	bindingsPath = modulePath + "/internal/bindings"
)

// load loads the module's packages with cgo enabled, so cgo files are part
// of GoFiles on every platform that supports it.
func load(t *testing.T, mode packages.LoadMode, patterns ...string) []*packages.Package {
	t.Helper()
	cfg := &packages.Config{
		Mode: mode | packages.NeedName | packages.NeedFiles,
		Env:  append(os.Environ(), "CGO_ENABLED=1"),
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		t.Fatalf("packages contain errors")
	}
	return pkgs
}
