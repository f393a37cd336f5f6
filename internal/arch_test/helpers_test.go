package arch_test

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// internalImport is the import path prefix of orrery's own packages.
const internalImport = "github.com/papapumpkin/orrery/internal/"

// repoRoot returns the directory holding go.mod. go test runs each package
// in its own directory, so the root is two levels above internal/arch_test.
func repoRoot(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for dir := wd; ; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		if filepath.Dir(dir) == dir {
			t.Fatalf("no go.mod above %s", wd)
		}
	}
}

func internalDirPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(repoRoot(t), "internal")
}

// internalPackages lists the package directories under internal/ that hold
// non-test Go code. arch_test itself has none and drops out.
func internalPackages(t *testing.T) []string {
	t.Helper()
	dir := internalDirPath(t)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	var pkgs []string
	for _, e := range entries {
		if e.IsDir() && len(goFilesIn(t, filepath.Join(dir, e.Name()))) > 0 {
			pkgs = append(pkgs, e.Name())
		}
	}
	sort.Strings(pkgs)
	return pkgs
}

// listGoFiles returns the .go files directly in dir, sorted. Test files are
// included only when tests is set.
func listGoFiles(t *testing.T, dir string, tests bool) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") {
			continue
		}
		if !tests && strings.HasSuffix(name, "_test.go") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files
}

func goFilesIn(t *testing.T, dir string) []string {
	t.Helper()
	return listGoFiles(t, dir, false)
}

// parsePackage parses the non-test files of an internal package with
// comments.
func parsePackage(t *testing.T, pkg string) (*token.FileSet, []*ast.File) {
	t.Helper()
	fset := token.NewFileSet()
	var files []*ast.File
	for _, path := range goFilesIn(t, filepath.Join(internalDirPath(t), pkg)) {
		f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			t.Fatalf("parsing %s: %v", path, err)
		}
		files = append(files, f)
	}
	return fset, files
}

// importsOf returns the orrery packages imported by the non-test files in
// pkgDir, by their first path element under internal/.
func importsOf(t *testing.T, pkgDir string) []string {
	t.Helper()
	seen := make(map[string]bool)
	fset := token.NewFileSet()
	for _, path := range goFilesIn(t, pkgDir) {
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parsing imports in %s: %v", path, err)
		}
		for _, imp := range f.Imports {
			rel, ok := strings.CutPrefix(strings.Trim(imp.Path.Value, `"`), internalImport)
			if !ok {
				continue
			}
			pkg, _, _ := strings.Cut(rel, "/")
			seen[pkg] = true
		}
	}
	out := make([]string, 0, len(seen))
	for pkg := range seen {
		out = append(out, pkg)
	}
	sort.Strings(out)
	return out
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return data
}

// lineCount counts lines, including a final line without a newline.
func lineCount(t *testing.T, path string) int {
	t.Helper()
	data := readFile(t, path)
	n := bytes.Count(data, []byte("\n"))
	if len(data) > 0 && data[len(data)-1] != '\n' {
		n++
	}
	return n
}

// isGenerated reports whether the file starts with a "// Code generated"
// header.
func isGenerated(t *testing.T, path string) bool {
	t.Helper()
	return bytes.HasPrefix(readFile(t, path), []byte("// Code generated"))
}

// docText returns the text of the first non-nil comment group.
func docText(groups ...*ast.CommentGroup) string {
	for _, g := range groups {
		if g != nil {
			return g.Text()
		}
	}
	return ""
}

// interfaceDecl is an interface type and its method names.
type interfaceDecl struct {
	Name    string
	Methods []string
}

// interfaceDecls returns the interface types declared in the file at path.
func interfaceDecls(t *testing.T, path string) []interfaceDecl {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), path, nil, 0)
	if err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
	var out []interfaceDecl
	ast.Inspect(f, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		iface, ok := ts.Type.(*ast.InterfaceType)
		if !ok {
			return false
		}
		decl := interfaceDecl{Name: ts.Name.Name}
		for _, m := range iface.Methods.List {
			for _, name := range m.Names {
				decl.Methods = append(decl.Methods, name.Name)
			}
		}
		out = append(out, decl)
		return false
	})
	return out
}
