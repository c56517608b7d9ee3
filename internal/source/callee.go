package source

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/types/typeutil"
)

// Callee is a resolved call target.
type Callee struct {
	// Name is the qualified name of the target:
	//
	//   - "Name" or "Type.Name" for the analyzed package;
	//   - "import/path.Name" or "import/path.Type.Name" for other packages.
	//
	// Empty when the target cannot be named, e.g. a closure or a method
	// called through an interface value.
	Name string

	// Local reports the target belongs to the analyzed package.
	Local bool

	// Recv is the receiver expression of a method call, nil otherwise.
	Recv ast.Expr
}

// Callee resolves the target of the call in the given file.
func (p *Program) Callee(file *ast.File, call *ast.CallExpr) Callee {
	if p.Info != nil {
		if c, ok := p.typedCallee(call); ok {
			return c
		}
	}

	switch fun := ast.Unparen(call.Fun).(type) {
	case *ast.Ident:
		if p.notFunc(fun) {
			return Callee{}
		}
		return Callee{Name: fun.Name, Local: true}

	case *ast.SelectorExpr:
		if x, ok := fun.X.(*ast.Ident); ok {
			if path, ok := p.files[file][x.Name]; ok && !p.shadowed(x) {
				return Callee{Name: path + "." + fun.Sel.Name}
			}
		}
		return Callee{Recv: fun.X}

	case *ast.IndexExpr:
		// Explicit instantiation: fn[T](…).
		if id, ok := fun.X.(*ast.Ident); ok && !p.notFunc(id) {
			return Callee{Name: id.Name, Local: true}
		}
	}

	return Callee{}
}

func (p *Program) typedCallee(call *ast.CallExpr) (Callee, bool) {
	obj := typeutil.Callee(p.Info, call)
	fn, ok := obj.(*types.Func)
	if !ok || fn.Pkg() == nil {
		return Callee{}, false
	}

	var recv ast.Expr
	if sel, ok := ast.Unparen(call.Fun).(*ast.SelectorExpr); ok {
		if _, isPkg := p.Info.Uses[identOf(sel.X)].(*types.PkgName); !isPkg {
			recv = sel.X
		}
	}

	name := fn.Name()
	if sig, ok := fn.Type().(*types.Signature); ok && sig.Recv() != nil {
		t := sig.Recv().Type()
		if ptr, ok := t.(*types.Pointer); ok {
			t = ptr.Elem()
		}
		named, ok := t.(*types.Named)
		if !ok || types.IsInterface(named) {
			// Interface method: no static target.
			return Callee{Recv: recv}, true
		}
		name = named.Obj().Name() + "." + name
	}

	if fn.Pkg().Path() == p.PkgPath {
		return Callee{Name: name, Local: true, Recv: recv}, true
	}

	return Callee{Name: fn.Pkg().Path() + "." + name, Recv: recv}, true
}

// notFunc reports the identifier is known from type information to denote
// something else than a function: a closure variable, a type or a builtin.
func (p *Program) notFunc(id *ast.Ident) bool {
	if p.Info == nil {
		return false
	}

	obj, ok := p.Info.Uses[id]
	if !ok {
		return false
	}
	_, isFunc := obj.(*types.Func)

	return !isFunc
}

// shadowed reports whether the identifier resolves to something other than
// an imported package when that can be told without type information.
func (p *Program) shadowed(id *ast.Ident) bool {
	return id.Obj != nil && id.Obj.Kind != ast.Pkg
}

func identOf(e ast.Expr) *ast.Ident {
	id, _ := e.(*ast.Ident)
	return id
}
