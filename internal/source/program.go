package source

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/inspector"
)

// Function describes a function of the analyzed package.
type Function struct {
	// Name is the lookup key: "Name" for functions, "Type.Name" for methods.
	Name string

	// Params holds positional parameter names. Unnamed and blank parameters
	// are represented with an empty string.
	Params   []string
	Variadic bool

	Decl       *ast.FuncDecl
	File       *ast.File
	Directives []Directive
}

// Directive returns the first directive of the given kind.
func (f *Function) Directive(kind DirectiveKind) (Directive, bool) {
	for _, d := range f.Directives {
		if d.Kind == kind {
			return d, true
		}
	}

	return Directive{}, false
}

// Program is an index of functions and package-level string values of a
// single package. It is read-only after construction.
type Program struct {
	Fset    *token.FileSet
	Info    *types.Info // may be nil
	PkgPath string

	funcs  map[string]*Function
	order  []*Function
	values map[string]ast.Expr // nil for names without own initializer
	types  map[string]struct{}
	files  map[*ast.File]map[string]string // local import name → path
}

// New builds a Program from parsed files. The info and pkgPath are optional:
// with type information callees are resolved precisely, without it import
// declarations are used.
func New(fset *token.FileSet, files []*ast.File, info *types.Info, pkgPath, prefix string) *Program {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	p := &Program{
		Fset:    fset,
		Info:    info,
		PkgPath: pkgPath,
		funcs:   make(map[string]*Function),
		values:  make(map[string]ast.Expr),
		types:   make(map[string]struct{}),
		files:   make(map[*ast.File]map[string]string, len(files)),
	}

	for _, file := range files {
		p.files[file] = importNames(file)
	}

	pector := inspector.New(files)
	nodeFilter := []ast.Node{
		(*ast.File)(nil),
		(*ast.FuncDecl)(nil),
		(*ast.GenDecl)(nil),
	}

	var file *ast.File
	pector.Preorder(nodeFilter, func(node ast.Node) {
		switch n := node.(type) {
		case *ast.File:
			file = n

		case *ast.FuncDecl:
			fn := newFunction(n, file, prefix)
			if _, ok := p.funcs[fn.Name]; ok {
				// Duplicate names can only come from malformed packages.
				return
			}
			p.funcs[fn.Name] = fn
			p.order = append(p.order, fn)

		case *ast.GenDecl:
			p.genDecl(n)
		}
	})

	return p
}

// genDecl indexes package-level names. A var declared without initializer
// or initialized from a multi-value expression gets a nil initializer.
func (p *Program) genDecl(n *ast.GenDecl) {
	for _, spec := range n.Specs {
		switch v := spec.(type) {
		case *ast.TypeSpec:
			p.types[v.Name.Name] = struct{}{}

		case *ast.ValueSpec:
			for i, name := range v.Names {
				if name.Name == "_" {
					continue
				}

				var init ast.Expr
				if len(v.Names) == len(v.Values) {
					init = v.Values[i]
				}
				p.values[name.Name] = init
			}
		}
	}
}

func newFunction(decl *ast.FuncDecl, file *ast.File, prefix string) *Function {
	fn := &Function{
		Name:       decl.Name.Name,
		Decl:       decl,
		File:       file,
		Directives: directives(prefix, decl.Doc),
	}
	if recv := receiverType(decl); recv != "" {
		fn.Name = recv + "." + decl.Name.Name
	}

	for _, field := range decl.Type.Params.List {
		if _, ok := field.Type.(*ast.Ellipsis); ok {
			fn.Variadic = true
		}
		if len(field.Names) == 0 {
			fn.Params = append(fn.Params, "")
			continue
		}
		for _, name := range field.Names {
			if name.Name == "_" {
				fn.Params = append(fn.Params, "")
				continue
			}
			fn.Params = append(fn.Params, name.Name)
		}
	}

	return fn
}

func receiverType(decl *ast.FuncDecl) string {
	if decl.Recv == nil || len(decl.Recv.List) == 0 {
		return ""
	}

	t := decl.Recv.List[0].Type
	for {
		switch v := t.(type) {
		case *ast.StarExpr:
			t = v.X
		case *ast.ParenExpr:
			t = v.X
		case *ast.IndexExpr:
			t = v.X
		case *ast.IndexListExpr:
			t = v.X
		case *ast.Ident:
			return v.Name
		default:
			return ""
		}
	}
}

func importNames(file *ast.File) map[string]string {
	res := make(map[string]string, len(file.Imports))
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}

		name := path[strings.LastIndexByte(path, '/')+1:]
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		res[name] = path
	}

	return res
}

// Function looks up a function by its key.
func (p *Program) Function(name string) (*Function, bool) {
	fn, ok := p.funcs[name]
	return fn, ok
}

// Functions returns all functions in source order.
func (p *Program) Functions() []*Function {
	return p.order
}

// Entrypoints returns functions marked with the entrypoint directive, in
// source order.
func (p *Program) Entrypoints() []*Function {
	var res []*Function
	for _, fn := range p.order {
		if _, ok := fn.Directive(DirectiveEntrypoint); ok {
			res = append(res, fn)
		}
	}

	return res
}

// Value returns the initializer of a package-level const or var. The
// initializer is nil when the name has no value of its own, like in
// `var x string` or `var a, b = f()`.
func (p *Program) Value(name string) (ast.Expr, bool) {
	v, ok := p.values[name]
	return v, ok
}

// IsType reports whether the identifier denotes a type. Type information
// is authoritative when present, package-level type declarations are used
// otherwise.
func (p *Program) IsType(id *ast.Ident) bool {
	if p.Info != nil {
		if obj, ok := p.Info.Uses[id]; ok {
			_, isType := obj.(*types.TypeName)
			return isType
		}
	}

	_, ok := p.types[id.Name]
	return ok
}

// Position is a shortcut for p.Fset.Position(pos).
func (p *Program) Position(pos token.Pos) token.Position {
	if p.Fset == nil {
		return token.Position{}
	}

	return p.Fset.Position(pos)
}

// String lists function keys, used in debugging output.
func (p *Program) String() string {
	names := make([]string, 0, len(p.funcs))
	for name := range p.funcs {
		names = append(names, name)
	}
	sort.Strings(names)

	return fmt.Sprintf("program %s: %s", p.PkgPath, strings.Join(names, ", "))
}
