package tracing

import (
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"github.com/sirkon/effectful/internal/decl"
	"github.com/sirkon/effectful/internal/effrules"
	"github.com/sirkon/effectful/internal/lattice"
	"github.com/sirkon/effectful/internal/source"
)

// Declarations is the read-only declaration index consulted by the engine.
type Declarations interface {
	Lookup(name string) (d *decl.Declaration, ok bool, err error)
}

// Config tunes the engine.
type Config struct {
	// MaxDepth limits nesting of inferred calls. Zero means no limit.
	MaxDepth int

	// Memoize replays results of repeated calls with equal arguments
	// instead of interpreting the callee again.
	Memoize bool

	// WalkNestedBlocks makes the engine descend into if, for, switch and
	// other nested blocks. Effects found there are reported regardless of
	// whether the block would run.
	WalkNestedBlocks bool
}

// DefaultMaxDepth is the call depth limit of DefaultConfig.
const DefaultMaxDepth = 64

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		MaxDepth: DefaultMaxDepth,
		Memoize:  true,
	}
}

// Engine infers effects of functions of a single program. It holds no
// per-run state, so a single engine can serve concurrent runs as long as
// each uses its own Accumulator.
type Engine struct {
	prog  *source.Program
	decls Declarations
	cfg   Config
	r     *ReporterPhase
}

// NewEngine creates an engine. The reporter may be nil.
func NewEngine(prog *source.Program, decls Declarations, cfg Config, r *ReporterPhase) *Engine {
	return &Engine{
		prog:  prog,
		decls: decls,
		cfg:   cfg,
		r:     r,
	}
}

// Infer computes the return value of the function for the given parameter
// states and appends every effect it may trigger, including effects of
// transitively called functions, to out.
//
// A function whose own declaration is malformed cannot be analysed.
func (e *Engine) Infer(fn *source.Function, args []lattice.State, out *Accumulator) (lattice.State, error) {
	if _, ok, err := e.decls.Lookup(fn.Name); ok && err != nil {
		var pos token.Position
		if fn.Decl != nil {
			pos = e.prog.Position(fn.Decl.Pos())
		}
		return lattice.State{}, &Error{
			Kind: KindGrammarParse,
			Func: fn.Name,
			Pos:  pos,
			Msg:  "own declaration is malformed",
			Err:  err,
		}
	}

	r := &run{
		Engine:  e,
		out:     out,
		active:  map[string]bool{},
		memo:    map[string]memoEntry{},
		globals: map[string]lattice.State{},
	}

	return r.infer(fn, args, token.NoPos)
}

// Unknowns returns n holes, the parameter states of an entrypoint.
func Unknowns(n int) []lattice.State {
	res := make([]lattice.State, n)
	for i := range res {
		res[i] = lattice.Hole()
	}

	return res
}

type memoEntry struct {
	result  lattice.State
	effects []Effect
}

// run is the state of a single analysis rooted at one function.
type run struct {
	*Engine

	out     *Accumulator
	depth   int
	active  map[string]bool
	memo    map[string]memoEntry
	globals map[string]lattice.State

	// cuts counts calls answered by the recursion guard. A result whose
	// computation saw a cut depends on the calls active at the time and is
	// not memoized.
	cuts int
}

// frame is a single function invocation.
type frame struct {
	fn    *source.Function
	index int

	// results holds names of named results, empty ones for unnamed.
	results []string
}

func (r *run) infer(fn *source.Function, args []lattice.State, at token.Pos) (lattice.State, error) {
	required := len(fn.Params)
	if fn.Variadic {
		required--
	}
	if len(args) < required {
		return lattice.State{}, &Error{
			Kind: KindArityMismatch,
			Func: fn.Name,
			Pos:  r.prog.Position(at),
			Msg:  fmt.Sprintf("%d arguments passed, %d parameters expected", len(args), required),
		}
	}

	if r.cfg.MaxDepth > 0 && r.depth >= r.cfg.MaxDepth {
		return lattice.State{}, &Error{
			Kind: KindDepthExceeded,
			Func: fn.Name,
			Pos:  r.prog.Position(at),
			Msg:  fmt.Sprintf("call depth limit %d reached", r.cfg.MaxDepth),
		}
	}

	key := callKey(fn.Name, args)
	if r.active[key] {
		r.cuts++
		r.r.Report(
			effrules.RecursionCycle(),
			fmt.Sprintf("recursive call of %s with the same arguments, result is unknown", fn.Name),
			r.prog.Position(at),
		)
		return lattice.Hole(), nil
	}
	if r.cfg.Memoize {
		if m, ok := r.memo[key]; ok {
			r.out.Append(m.effects...)
			return m.result, nil
		}
	}

	r.active[key] = true
	r.depth++
	defer func() {
		delete(r.active, key)
		r.depth--
	}()

	start := r.out.Len()
	cuts := r.cuts
	result, err := r.body(fn, args)
	if err != nil {
		return lattice.State{}, err
	}
	result = lattice.Optimize(result)

	if r.cfg.Memoize && r.cuts == cuts {
		r.memo[key] = memoEntry{
			result:  result,
			effects: r.out.since(start),
		}
	}

	return result, nil
}

func callKey(name string, args []lattice.State) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(lattice.Key(a))
	}
	b.WriteByte(')')

	return b.String()
}

// body binds parameters at statement index 0 and walks the function body.
func (r *run) body(fn *source.Function, args []lattice.State) (lattice.State, error) {
	f := &frame{fn: fn}
	sc := newScope(nil)

	for i, name := range fn.Params {
		v := lattice.Hole()
		if i < len(args) {
			v = args[i]
		}
		if fn.Variadic && i == len(fn.Params)-1 {
			// The variadic parameter is a slice, not a string.
			v = lattice.Hole()
		}
		if name != "" {
			sc.bind(name, f.index, v)
		}
	}

	if fn.Decl == nil || fn.Decl.Body == nil {
		return lattice.Hole(), nil
	}

	if recv := fn.Decl.Recv; recv != nil {
		for _, field := range recv.List {
			for _, name := range field.Names {
				if name.Name != "_" {
					sc.bind(name.Name, f.index, lattice.Hole())
				}
			}
		}
	}

	if res := fn.Decl.Type.Results; res != nil {
		for _, field := range res.List {
			for _, name := range field.Names {
				f.results = append(f.results, name.Name)
				if name.Name != "_" {
					sc.bind(name.Name, f.index, lattice.Hole())
				}
			}
		}
	}

	list := fn.Decl.Body.List
	result := lattice.Hole()
	for i, st := range list {
		ret, err := r.stmt(f, sc, st)
		if err != nil {
			return lattice.State{}, err
		}
		if i == len(list)-1 && ret != nil {
			result = *ret
		}
	}

	return result, nil
}

// stmt evaluates a statement. For a return statement with results the state
// of its first result is returned.
func (r *run) stmt(f *frame, sc *scope, st ast.Stmt) (*lattice.State, error) {
	f.index++

	switch s := st.(type) {
	case *ast.AssignStmt:
		return nil, r.assign(f, sc, s)

	case *ast.DeclStmt:
		return nil, r.declStmt(f, sc, s)

	case *ast.ExprStmt:
		_, err := r.eval(f, sc, s.X)
		return nil, err

	case *ast.DeferStmt:
		_, err := r.eval(f, sc, s.Call)
		return nil, err

	case *ast.GoStmt:
		_, err := r.eval(f, sc, s.Call)
		return nil, err

	case *ast.ReturnStmt:
		if len(s.Results) == 0 {
			return r.namedResult(f, sc), nil
		}

		var ret *lattice.State
		for i, res := range s.Results {
			v, err := r.eval(f, sc, res)
			if err != nil {
				return nil, err
			}
			if i == 0 {
				ret = &v
			}
		}
		return ret, nil

	case *ast.LabeledStmt:
		f.index--
		return r.stmt(f, sc, s.Stmt)

	case *ast.BlockStmt,
		*ast.IfStmt,
		*ast.ForStmt,
		*ast.RangeStmt,
		*ast.SwitchStmt,
		*ast.TypeSwitchStmt,
		*ast.SelectStmt:
		if !r.cfg.WalkNestedBlocks {
			return nil, nil
		}
		return nil, r.nested(f, sc, st)

	default:
		// Inc/dec, send, branch and empty statements.
		return nil, nil
	}
}

// namedResult returns the state of the first named result for a bare
// return, nil when results are unnamed.
func (r *run) namedResult(f *frame, sc *scope) *lattice.State {
	if len(f.results) == 0 {
		return nil
	}

	v := lattice.Hole()
	if name := f.results[0]; name != "_" {
		if bound, ok := sc.lookup(name, f.index); ok {
			v = bound
		}
	}

	return &v
}

// nested walks a compound statement in a child scope. Return values met
// there are evaluated for their effects only.
func (r *run) nested(f *frame, sc *scope, st ast.Stmt) error {
	child := newScope(sc)

	walk := func(list []ast.Stmt) error {
		inner := newScope(child)
		for _, s := range list {
			if _, err := r.stmt(f, inner, s); err != nil {
				return err
			}
		}
		return nil
	}
	init := func(s ast.Stmt) error {
		if s == nil {
			return nil
		}
		_, err := r.stmt(f, child, s)
		return err
	}
	cond := func(e ast.Expr) error {
		if e == nil {
			return nil
		}
		_, err := r.eval(f, child, e)
		return err
	}

	switch s := st.(type) {
	case *ast.BlockStmt:
		return walk(s.List)

	case *ast.IfStmt:
		if err := init(s.Init); err != nil {
			return err
		}
		if err := cond(s.Cond); err != nil {
			return err
		}
		if err := walk(s.Body.List); err != nil {
			return err
		}
		if s.Else != nil {
			f.index++
			return r.nested(f, child, s.Else)
		}
		return nil

	case *ast.ForStmt:
		if err := init(s.Init); err != nil {
			return err
		}
		if err := cond(s.Cond); err != nil {
			return err
		}
		if err := init(s.Post); err != nil {
			return err
		}
		return walk(s.Body.List)

	case *ast.RangeStmt:
		if err := cond(s.X); err != nil {
			return err
		}
		if s.Tok == token.DEFINE {
			for _, e := range []ast.Expr{s.Key, s.Value} {
				if id, ok := e.(*ast.Ident); ok && id.Name != "_" {
					child.bind(id.Name, f.index, lattice.Hole())
				}
			}
		}
		return walk(s.Body.List)

	case *ast.SwitchStmt:
		if err := init(s.Init); err != nil {
			return err
		}
		if err := cond(s.Tag); err != nil {
			return err
		}
		for _, c := range s.Body.List {
			cc := c.(*ast.CaseClause)
			for _, e := range cc.List {
				if err := cond(e); err != nil {
					return err
				}
			}
			if err := walk(cc.Body); err != nil {
				return err
			}
		}
		return nil

	case *ast.TypeSwitchStmt:
		if err := init(s.Init); err != nil {
			return err
		}
		if err := r.typeSwitchGuard(f, child, s.Assign); err != nil {
			return err
		}
		for _, c := range s.Body.List {
			if err := walk(c.(*ast.CaseClause).Body); err != nil {
				return err
			}
		}
		return nil

	case *ast.SelectStmt:
		for _, c := range s.Body.List {
			cc := c.(*ast.CommClause)
			list := cc.Body
			if cc.Comm != nil {
				list = append([]ast.Stmt{cc.Comm}, list...)
			}
			if err := walk(list); err != nil {
				return err
			}
		}
		return nil
	}

	return nil
}

// typeSwitchGuard handles `v := x.(type)` and `x.(type)`.
func (r *run) typeSwitchGuard(f *frame, sc *scope, st ast.Stmt) error {
	f.index++

	var (
		target *ast.Ident
		expr   ast.Expr
	)
	switch s := st.(type) {
	case *ast.AssignStmt:
		target, _ = s.Lhs[0].(*ast.Ident)
		expr = s.Rhs[0]
	case *ast.ExprStmt:
		expr = s.X
	}

	if ta, ok := expr.(*ast.TypeAssertExpr); ok {
		expr = ta.X
	}
	v, err := r.eval(f, sc, expr)
	if err != nil {
		return err
	}

	if target != nil && target.Name != "_" {
		sc.bind(target.Name, f.index, v)
	}

	return nil
}

func (r *run) assign(f *frame, sc *scope, s *ast.AssignStmt) error {
	names := make([]string, len(s.Lhs))
	for i, lhs := range s.Lhs {
		id, ok := lhs.(*ast.Ident)
		if !ok {
			return r.errorf(KindUnsupportedPattern, f, lhs, "cannot bind to %s", r.text(lhs))
		}
		names[i] = id.Name
	}

	switch s.Tok {
	case token.DEFINE, token.ASSIGN:
		return r.bindAll(f, sc, s, names, s.Rhs)

	case token.ADD_ASSIGN:
		if len(names) != 1 || len(s.Rhs) != 1 {
			return r.errorf(KindUnsupportedPattern, f, s, "malformed += assignment")
		}
		prev, err := r.ident(f, sc, s.Lhs[0].(*ast.Ident))
		if err != nil {
			return err
		}
		v, err := r.eval(f, sc, s.Rhs[0])
		if err != nil {
			return err
		}
		if names[0] != "_" {
			sc.bind(names[0], f.index, lattice.Concat(prev, v))
		}
		return nil

	default:
		for _, rhs := range s.Rhs {
			if _, err := r.eval(f, sc, rhs); err != nil {
				return err
			}
		}
		r.r.Report(
			effrules.UnsupportedAssignOp(),
			fmt.Sprintf("%s: %s is not modelled, the value becomes unknown", f.fn.Name, s.Tok),
			r.prog.Position(s.Pos()),
		)
		for _, name := range names {
			if name != "_" {
				sc.bind(name, f.index, lattice.Hole())
			}
		}
		return nil
	}
}

// bindAll evaluates right-hand sides first, then binds names at the current
// statement index. A single right-hand value bound to several names goes to
// the first one, the rest get holes.
func (r *run) bindAll(f *frame, sc *scope, at ast.Node, names []string, values []ast.Expr) error {
	states := make([]lattice.State, len(names))
	switch {
	case len(values) == len(names):
		for i, e := range values {
			v, err := r.eval(f, sc, e)
			if err != nil {
				return err
			}
			states[i] = v
		}

	case len(values) == 1:
		v, err := r.eval(f, sc, values[0])
		if err != nil {
			return err
		}
		states[0] = v
		for i := 1; i < len(states); i++ {
			states[i] = lattice.Hole()
		}

	case len(values) == 0:
		// var x string
		for i := range states {
			states[i] = lattice.Hole()
		}

	default:
		return r.errorf(KindUnsupportedPattern, f, at, "%d names bound to %d values", len(names), len(values))
	}

	for i, name := range names {
		if name == "_" {
			continue
		}
		sc.bind(name, f.index, states[i])
	}

	return nil
}

func (r *run) declStmt(f *frame, sc *scope, s *ast.DeclStmt) error {
	gd, ok := s.Decl.(*ast.GenDecl)
	if !ok {
		return nil
	}

	for _, spec := range gd.Specs {
		if ts, ok := spec.(*ast.TypeSpec); ok {
			// Local types can only be used as type arguments or
			// conversions, they are no string values.
			if ts.Name.Name != "_" {
				sc.bind(ts.Name.Name, f.index, lattice.Hole())
			}
			continue
		}

		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}

		names := make([]string, len(vs.Names))
		for i, n := range vs.Names {
			names[i] = n.Name
		}
		if err := r.bindAll(f, sc, vs, names, vs.Values); err != nil {
			return err
		}
	}

	return nil
}

// eval evaluates an expression. Unsupported shapes degrade to a hole with a
// diagnostic, only unresolved variables are fatal.
func (r *run) eval(f *frame, sc *scope, e ast.Expr) (lattice.State, error) {
	switch v := e.(type) {
	case *ast.BasicLit:
		if v.Kind != token.STRING {
			r.report(effrules.NonStringValue(), f, v, "")
			return lattice.Hole(), nil
		}
		s, err := strconv.Unquote(v.Value)
		if err != nil {
			r.report(effrules.UnsupportedExpression(), f, v, fmt.Sprintf("unquote %s: %s", v.Value, err))
			return lattice.Hole(), nil
		}
		return lattice.Literal(s), nil

	case *ast.Ident:
		return r.ident(f, sc, v)

	case *ast.ParenExpr:
		return r.eval(f, sc, v.X)

	case *ast.StarExpr:
		return r.eval(f, sc, v.X)

	case *ast.TypeAssertExpr:
		return r.eval(f, sc, v.X)

	case *ast.UnaryExpr:
		x, err := r.eval(f, sc, v.X)
		if err != nil {
			return lattice.State{}, err
		}
		if v.Op == token.AND {
			return x, nil
		}
		r.report(effrules.UnsupportedExpression(), f, v, "")
		return lattice.Hole(), nil

	case *ast.BinaryExpr:
		x, err := r.eval(f, sc, v.X)
		if err != nil {
			return lattice.State{}, err
		}
		y, err := r.eval(f, sc, v.Y)
		if err != nil {
			return lattice.State{}, err
		}
		if v.Op == token.ADD {
			return lattice.Concat(x, y), nil
		}
		r.report(effrules.UnsupportedExpression(), f, v, "")
		return lattice.Hole(), nil

	case *ast.CallExpr:
		return r.call(f, sc, v)

	case *ast.SelectorExpr:
		if _, ok := v.X.(*ast.Ident); !ok {
			if _, err := r.eval(f, sc, v.X); err != nil {
				return lattice.State{}, err
			}
		}
		r.report(effrules.UnsupportedExpression(), f, v, "")
		return lattice.Hole(), nil

	case *ast.IndexExpr:
		if err := r.evalAll(f, sc, v.X, v.Index); err != nil {
			return lattice.State{}, err
		}
		r.report(effrules.UnsupportedExpression(), f, v, "")
		return lattice.Hole(), nil

	case *ast.SliceExpr:
		if err := r.evalAll(f, sc, v.X, v.Low, v.High, v.Max); err != nil {
			return lattice.State{}, err
		}
		r.report(effrules.UnsupportedExpression(), f, v, "")
		return lattice.Hole(), nil

	case *ast.CompositeLit:
		for _, elt := range v.Elts {
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				elt = kv.Value
			}
			if _, err := r.eval(f, sc, elt); err != nil {
				return lattice.State{}, err
			}
		}
		r.report(effrules.UnsupportedExpression(), f, v, "")
		return lattice.Hole(), nil

	default:
		r.report(effrules.UnsupportedExpression(), f, e, "")
		return lattice.Hole(), nil
	}
}

func (r *run) evalAll(f *frame, sc *scope, list ...ast.Expr) error {
	for _, e := range list {
		if e == nil {
			continue
		}
		if _, err := r.eval(f, sc, e); err != nil {
			return err
		}
	}

	return nil
}

// ident resolves a name: local bindings first, then package-level values,
// then predeclared identifiers and function names, which are unknown values.
func (r *run) ident(f *frame, sc *scope, id *ast.Ident) (lattice.State, error) {
	if v, ok := sc.lookup(id.Name, f.index); ok {
		return v, nil
	}

	if v, ok := r.global(id.Name); ok {
		return v, nil
	}

	if r.prog.IsType(id) {
		r.report(effrules.NonStringValue(), f, id, fmt.Sprintf("type %s is not a value", id.Name))
		return lattice.Hole(), nil
	}

	if _, ok := r.prog.Function(id.Name); ok {
		r.report(effrules.UnsupportedExpression(), f, id, fmt.Sprintf("function value %s is not tracked", id.Name))
		return lattice.Hole(), nil
	}

	if types.Universe.Lookup(id.Name) != nil {
		r.report(effrules.NonStringValue(), f, id, "")
		return lattice.Hole(), nil
	}

	return lattice.State{}, r.errorf(KindUnresolvedVariable, f, id, "no binding for %s", id.Name)
}

// global evaluates a package-level const or var initializer. Only literals,
// names and concatenations are followed, anything else is unknown: package
// initialization is not part of any entrypoint. Names without initializer
// of their own are unknown too.
func (r *run) global(name string) (lattice.State, bool) {
	if v, ok := r.globals[name]; ok {
		return v, true
	}

	e, ok := r.prog.Value(name)
	if !ok {
		return lattice.State{}, false
	}
	if e == nil {
		r.globals[name] = lattice.Hole()
		return lattice.Hole(), true
	}

	// Guards reference cycles of malformed sources.
	r.globals[name] = lattice.Hole()
	v := r.constant(e)
	r.globals[name] = v

	return v, true
}

func (r *run) constant(e ast.Expr) lattice.State {
	switch v := e.(type) {
	case *ast.BasicLit:
		if v.Kind != token.STRING {
			return lattice.Hole()
		}
		s, err := strconv.Unquote(v.Value)
		if err != nil {
			return lattice.Hole()
		}
		return lattice.Literal(s)

	case *ast.Ident:
		if g, ok := r.global(v.Name); ok {
			return g
		}
		return lattice.Hole()

	case *ast.ParenExpr:
		return r.constant(v.X)

	case *ast.BinaryExpr:
		if v.Op != token.ADD {
			return lattice.Hole()
		}
		return lattice.Optimize(lattice.Concat(r.constant(v.X), r.constant(v.Y)))

	default:
		return lattice.Hole()
	}
}

func (r *run) call(f *frame, sc *scope, call *ast.CallExpr) (lattice.State, error) {
	if conversion(call) {
		return r.eval(f, sc, call.Args[0])
	}

	args := make([]lattice.State, len(call.Args))
	for i, a := range call.Args {
		v, err := r.eval(f, sc, a)
		if err != nil {
			return lattice.State{}, err
		}
		args[i] = v
	}

	callee := r.prog.Callee(f.fn.File, call)
	if callee.Recv != nil {
		if _, ok := callee.Recv.(*ast.Ident); !ok {
			if _, err := r.eval(f, sc, callee.Recv); err != nil {
				return lattice.State{}, err
			}
		}
	}

	if callee.Name != "" {
		d, ok, err := r.decls.Lookup(callee.Name)
		if ok {
			if err != nil {
				return lattice.State{}, &Error{
					Kind: KindGrammarParse,
					Func: f.fn.Name,
					Pos:  r.prog.Position(call.Pos()),
					Msg:  fmt.Sprintf("declaration of %s is malformed", callee.Name),
					Err:  err,
				}
			}
			return r.declared(f, callee.Name, d, args, call)
		}

		if fn, ok := intrinsics[callee.Name]; ok {
			return fn(args), nil
		}

		if callee.Local {
			if target, ok := r.prog.Function(callee.Name); ok {
				return r.infer(target, args, call.Pos())
			}
		}
	}

	name := callee.Name
	if name == "" {
		name = r.text(call.Fun)
	}
	r.report(effrules.UnresolvedCallee(), f, call, fmt.Sprintf("%s is not declared, its result is unknown", name))

	return lattice.Hole(), nil
}

// declared applies a declaration: effect statements are evaluated in the
// declaration namespace and collected, the returns expression is the result.
func (r *run) declared(
	f *frame,
	name string,
	d *decl.Declaration,
	args []lattice.State,
	call *ast.CallExpr,
) (lattice.State, error) {
	if len(args) < len(d.Args) {
		return lattice.State{}, r.errorf(
			KindArityMismatch,
			f,
			call,
			"%s binds %d arguments, %d passed",
			name,
			len(d.Args),
			len(args),
		)
	}

	ns := make(map[string]lattice.State, 2*len(d.Args)+len(d.Effects))
	for i, a := range d.Args {
		ns[a.Param] = args[i]
		ns[a.Alias] = args[i]
	}

	pos := r.prog.Position(call.Pos())
	for _, st := range d.Effects {
		eff := Effect{
			Name: st.Name,
			Args: make([]lattice.State, len(st.Args)),
			Via:  name,
			Pos:  pos,
		}
		for i, a := range st.Args {
			v, err := r.declEval(f, ns, a, call)
			if err != nil {
				return lattice.State{}, err
			}
			eff.Args[i] = lattice.Optimize(v)
		}
		r.out.Append(eff)

		if st.Result != "" {
			ns[st.Result] = lattice.Hole()
		}
	}

	if d.Returns == nil {
		return lattice.Hole(), nil
	}

	v, err := r.declEval(f, ns, d.Returns, call)
	if err != nil {
		return lattice.State{}, err
	}

	return lattice.Optimize(v), nil
}

func (r *run) declEval(f *frame, ns map[string]lattice.State, e decl.Expr, at ast.Node) (lattice.State, error) {
	switch v := e.(type) {
	case *decl.ExprLit:
		return lattice.Literal(v.Value), nil

	case *decl.ExprVar:
		s, ok := ns[v.Name]
		if !ok {
			return lattice.State{}, r.errorf(KindUnresolvedVariable, f, at, "declaration refers to unknown name %s", v.Name)
		}
		return s, nil

	case *decl.ExprConcat:
		lhs, err := r.declEval(f, ns, v.LHS, at)
		if err != nil {
			return lattice.State{}, err
		}
		rhs, err := r.declEval(f, ns, v.RHS, at)
		if err != nil {
			return lattice.State{}, err
		}
		return lattice.Concat(lhs, rhs), nil

	default:
		return lattice.Hole(), nil
	}
}

// conversion detects string(x) and []byte(x) conversions, which keep the
// value as is.
func conversion(call *ast.CallExpr) bool {
	if len(call.Args) != 1 {
		return false
	}

	switch fun := ast.Unparen(call.Fun).(type) {
	case *ast.Ident:
		// Obj is nil for predeclared identifiers.
		return fun.Name == "string" && fun.Obj == nil
	case *ast.ArrayType:
		elt, ok := fun.Elt.(*ast.Ident)
		return ok && fun.Len == nil && (elt.Name == "byte" || elt.Name == "rune")
	default:
		return false
	}
}

func (r *run) report(rule effrules.Rule, f *frame, n ast.Node, message string) {
	if message == "" {
		message = fmt.Sprintf("%s: %s", r.text(n), rule.Description())
	}
	r.r.Report(rule, fmt.Sprintf("%s: %s", f.fn.Name, message), r.prog.Position(n.Pos()))
}

func (r *run) errorf(kind ErrorKind, f *frame, n ast.Node, format string, a ...any) *Error {
	return &Error{
		Kind: kind,
		Func: f.fn.Name,
		Pos:  r.prog.Position(n.Pos()),
		Msg:  fmt.Sprintf(format, a...),
	}
}

func (r *run) text(n ast.Node) string {
	var b strings.Builder
	if err := printer.Fprint(&b, token.NewFileSet(), n); err != nil {
		return fmt.Sprintf("%T", n)
	}

	return b.String()
}
