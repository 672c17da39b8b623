package internalcheck

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"
)

func TestOnlyBindingsImportC(t *testing.T) {
	pkgs := load(t, 0, modulePath+"/...")

	fset := token.NewFileSet()
	var findings []string
	for _, pkg := range pkgs {
		if pkg.PkgPath == bindingsPath {
			continue
		}
		for _, path := range pkg.GoFiles {
			file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
			if err != nil {
				t.Fatalf("parse %s: %v", path, err)
			}
			for _, imp := range file.Imports {
				if p, _ := strconv.Unquote(imp.Path.Value); p == "C" {
					findings = append(findings, fmt.Sprintf("%s: cgo is confined to %s", fset.Position(imp.Pos()), bindingsPath))
				}
			}
		}
	}

	if len(findings) > 0 {
		t.Fatalf("cgo boundary violation:\n%s", strings.Join(findings, "\n"))
	}
}

func TestExportsRecoverFirst(t *testing.T) {
	pkgs := load(t, 0, bindingsPath)

	fset := token.NewFileSet()
	var findings []string
	exports := 0
	for _, pkg := range pkgs {
		for _, path := range pkg.GoFiles {
			file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
			if err != nil {
				t.Fatalf("parse %s: %v", path, err)
			}
			for _, decl := range file.Decls {
				fn, ok := decl.(*ast.FuncDecl)
				if !ok || !isExport(fn) {
					continue
				}
				exports++
				if !defersRecover(fn) {
					findings = append(findings, fmt.Sprintf("%s: %s must start with defer recoverCallback(...)", fset.Position(fn.Pos()), fn.Name.Name))
				}
			}
		}
	}

	if exports == 0 {
		t.Fatalf("no cgo exports found in %s", bindingsPath)
	}
	if len(findings) > 0 {
		t.Fatalf("callback policy violation:\n%s", strings.Join(findings, "\n"))
	}
}

func isExport(fn *ast.FuncDecl) bool {
	if fn.Doc == nil {
		return false
	}
	for _, c := range fn.Doc.List {
		if strings.HasPrefix(c.Text, "//export ") {
			return true
		}
	}
	return false
}

func defersRecover(fn *ast.FuncDecl) bool {
	if fn.Body == nil || len(fn.Body.List) == 0 {
		return false
	}
	d, ok := fn.Body.List[0].(*ast.DeferStmt)
	if !ok {
		return false
	}
	id, ok := d.Call.Fun.(*ast.Ident)
	return ok && id.Name == "recoverCallback"
}
