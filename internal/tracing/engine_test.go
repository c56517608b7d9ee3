package tracing

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"testing"

	"github.com/sirkon/deepequal"

	"github.com/sirkon/effectful/internal/declindex"
	"github.com/sirkon/effectful/internal/effrules"
	"github.com/sirkon/effectful/internal/lattice"
	"github.com/sirkon/effectful/internal/source"
)

const engineTestPrelude = `package sample

import (
	"fmt"
	"os"
	"path/filepath"
)

//effect:declare args=(a as A, b as B), side_effects=(read_file(A + '/' + B)),
// returns=(A + '/' + B)
func declaredFn(a, b string) string {
	return os.Getenv("never inferred")
}

//effect:declare args=(name as N), side_effects=(remove(N))
func removeFile(name string) {}

//effect:declare args=(x as X), side_effects=(broken(X
func broken(x string) string { return x }

var _ = fmt.Sprintf
var _ = filepath.Join
`

type renderedEffect struct {
	Name string
	Args []string
}

type engineFixture struct {
	prog   *source.Program
	engine *Engine
	rep    *Reporter
}

func newEngineFixture(t *testing.T, body string, cfg Config) *engineFixture {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "sample.go", engineTestPrelude+body, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse sample: %s", err)
	}

	var rep Reporter
	prog := source.New(fset, []*ast.File{file}, nil, "example.com/sample", "")
	idx := declindex.Build(prog, nil, rep.Phase(ReportDeclare))

	return &engineFixture{
		prog:   prog,
		engine: NewEngine(prog, idx, cfg, rep.Phase(ReportInfer)),
		rep:    &rep,
	}
}

func (f *engineFixture) infer(t *testing.T, name string, args ...lattice.State) (string, []renderedEffect, error) {
	t.Helper()

	fn, ok := f.prog.Function(name)
	if !ok {
		t.Fatalf("function %s not found", name)
	}

	var out Accumulator
	res, err := f.engine.Infer(fn, args, &out)
	if err != nil {
		return "", nil, err
	}

	var effects []renderedEffect
	for _, e := range out.Effects() {
		effects = append(effects, renderedEffect{
			Name: e.Name,
			Args: e.Rendered(),
		})
	}

	return lattice.Render(res), effects, nil
}

func (f *engineFixture) rules() []effrules.Rule {
	var res []effrules.Rule
	for _, r := range f.rep.Reports() {
		res = append(res, r.Rule)
	}

	return res
}

func (f *engineFixture) reported(rule effrules.Rule) bool {
	for _, r := range f.rules() {
		if r == rule {
			return true
		}
	}

	return false
}

func TestEngineInfer(t *testing.T) {
	type test struct {
		name    string
		body    string
		fn      string
		args    []lattice.State
		cfg     Config
		want    string
		effects []renderedEffect
	}

	tests := []test{
		{
			name: "declared-function",
			body: `
func root() string {
	return declaredFn("~", "cfg.json")
}`,
			fn:   "root",
			cfg:  DefaultConfig(),
			want: "~/cfg.json",
			effects: []renderedEffect{
				{Name: "read_file", Args: []string{"~/cfg.json"}},
			},
		},
		{
			name: "inferred-function",
			body: `
func inferred(a, b string) string {
	c := declaredFn(a, b)
	return declaredFn(&c, "x.json")
}`,
			fn:   "inferred",
			args: []lattice.State{lattice.Literal("~"), lattice.Literal("dir")},
			cfg:  DefaultConfig(),
			want: "~/dir/x.json",
			effects: []renderedEffect{
				{Name: "read_file", Args: []string{"~/dir"}},
				{Name: "read_file", Args: []string{"~/dir/x.json"}},
			},
		},
		{
			name: "unknown-propagation",
			body: `
func inferred(a, b string) string {
	c := declaredFn(a, b)
	return declaredFn(&c, "x.json")
}`,
			fn:   "inferred",
			args: []lattice.State{lattice.Hole(), lattice.Literal("dir")},
			cfg:  DefaultConfig(),
			want: "*/dir/x.json",
			effects: []renderedEffect{
				{Name: "read_file", Args: []string{"*/dir"}},
				{Name: "read_file", Args: []string{"*/dir/x.json"}},
			},
		},
		{
			name: "local-callee-chain",
			body: `
func dir(base string) string {
	return base + "/conf.d"
}

func root() string {
	d := dir("/etc")
	removeFile(d)
	return d
}`,
			fn:   "root",
			cfg:  DefaultConfig(),
			want: "/etc/conf.d",
			effects: []renderedEffect{
				{Name: "remove", Args: []string{"/etc/conf.d"}},
			},
		},
		{
			name: "shadowing",
			body: `
func root() string {
	x := "a"
	y := declaredFn(x, "1")
	x = "b"
	return declaredFn(x, y)
}`,
			fn:   "root",
			cfg:  DefaultConfig(),
			want: "b/a/1",
			effects: []renderedEffect{
				{Name: "read_file", Args: []string{"a/1"}},
				{Name: "read_file", Args: []string{"b/a/1"}},
			},
		},
		{
			name: "discarded-call-and-defer",
			body: `
func root(name string) {
	defer removeFile(name + ".lock")
	declaredFn(name, "data")
}`,
			fn:   "root",
			args: []lattice.State{lattice.Literal("db")},
			cfg:  DefaultConfig(),
			want: "*",
			effects: []renderedEffect{
				{Name: "remove", Args: []string{"db.lock"}},
				{Name: "read_file", Args: []string{"db/data"}},
			},
		},
		{
			name: "no-returns-clause",
			body: `
func root() string {
	return removeFile("x")
}`,
			fn:   "root",
			cfg:  DefaultConfig(),
			want: "*",
			effects: []renderedEffect{
				{Name: "remove", Args: []string{"x"}},
			},
		},
		{
			name: "unresolved-callee-degrades",
			body: `
func root() string {
	home := os.Getenv("HOME")
	return declaredFn(home, ".config")
}`,
			fn:   "root",
			cfg:  DefaultConfig(),
			want: "*/.config",
			effects: []renderedEffect{
				{Name: "read_file", Args: []string{"*/.config"}},
			},
		},
		{
			name: "package-level-values",
			body: `
const base = "/var"

var dataDir = base + "/lib"

func root() string {
	return declaredFn(dataDir, "state")
}`,
			fn:   "root",
			cfg:  DefaultConfig(),
			want: "/var/lib/state",
			effects: []renderedEffect{
				{Name: "read_file", Args: []string{"/var/lib/state"}},
			},
		},
		{
			name: "intrinsics",
			body: `
func root(user string) string {
	p := fmt.Sprintf("%s/%s.json", user, "cfg")
	return filepath.Join("/home", p)
}`,
			fn:   "root",
			args: []lattice.State{lattice.Hole()},
			cfg:  DefaultConfig(),
			want: "/home/*/cfg.json",
		},
		{
			name: "add-assign-and-conversions",
			body: `
func root(b []byte) string {
	p := "/tmp"
	p += "/" + string(b)
	var q string = p
	return q
}`,
			fn:   "root",
			args: []lattice.State{lattice.Literal("x")},
			cfg:  DefaultConfig(),
			want: "/tmp/x",
		},
		{
			name: "tuple-with-single-value",
			body: `
func pair() (string, error) {
	return "first", nil
}

func root() string {
	a, err := pair()
	_ = err
	return a
}`,
			fn:   "root",
			cfg:  DefaultConfig(),
			want: "first",
		},
		{
			name: "nested-blocks-are-inert",
			body: `
func root() {
	if true {
		removeFile("x")
	}
}`,
			fn:   "root",
			cfg:  DefaultConfig(),
			want: "*",
		},
		{
			name: "nested-blocks-walked",
			body: `
func root(names []string) {
	if true {
		removeFile("x")
	} else {
		removeFile("y")
	}
	for _, n := range names {
		removeFile(n)
	}
}`,
			fn:   "root",
			args: []lattice.State{lattice.Hole()},
			cfg: Config{
				MaxDepth:         DefaultMaxDepth,
				Memoize:          true,
				WalkNestedBlocks: true,
			},
			want: "*",
			effects: []renderedEffect{
				{Name: "remove", Args: []string{"x"}},
				{Name: "remove", Args: []string{"y"}},
				{Name: "remove", Args: []string{"*"}},
			},
		},
		{
			name: "memoized-calls-replay-effects",
			body: `
func helper(name string) string {
	removeFile(name)
	return name + "~"
}

func root() string {
	a := helper("f")
	b := helper("f")
	return a + b
}`,
			fn:   "root",
			cfg:  DefaultConfig(),
			want: "f~f~",
			effects: []renderedEffect{
				{Name: "remove", Args: []string{"f"}},
				{Name: "remove", Args: []string{"f"}},
			},
		},
		{
			name: "package-vars-without-initializer",
			body: `
var baseDir string

var left, right = split()

func split() (string, string) {
	return "a", "b"
}

func root() string {
	removeFile(left)
	return declaredFn(baseDir, "cfg.json")
}`,
			fn:   "root",
			cfg:  DefaultConfig(),
			want: "*/cfg.json",
			effects: []renderedEffect{
				{Name: "remove", Args: []string{"*"}},
				{Name: "read_file", Args: []string{"*/cfg.json"}},
			},
		},
		{
			name: "named-results",
			body: `
func named() (s string, err error) {
	s = declaredFn("~", "a")
	return s, err
}`,
			fn:   "named",
			cfg:  DefaultConfig(),
			want: "~/a",
			effects: []renderedEffect{
				{Name: "read_file", Args: []string{"~/a"}},
			},
		},
		{
			name: "bare-return-of-named-result",
			body: `
func bare(dir string) (path string, err error) {
	path = declaredFn(dir, "b")
	if err != nil {
		return
	}
	return
}`,
			fn:   "bare",
			args: []lattice.State{lattice.Literal("~")},
			cfg:  DefaultConfig(),
			want: "~/b",
			effects: []renderedEffect{
				{Name: "read_file", Args: []string{"~/b"}},
			},
		},
		{
			name: "type-names-as-arguments",
			body: `
type options struct {
	dir string
}

func root() string {
	type local struct{}
	o := new(options)
	_ = new(local)
	_ = o
	removeFile("x")
	return "done"
}`,
			fn:   "root",
			cfg:  DefaultConfig(),
			want: "done",
			effects: []renderedEffect{
				{Name: "remove", Args: []string{"x"}},
			},
		},
		{
			name: "recursion-cycle",
			body: `
func loop(a string) string {
	removeFile(a)
	return loop(a)
}`,
			fn:   "loop",
			args: []lattice.State{lattice.Literal("a")},
			cfg:  DefaultConfig(),
			want: "*",
			effects: []renderedEffect{
				{Name: "remove", Args: []string{"a"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture(t, tt.body, tt.cfg)
			got, effects, err := f.infer(t, tt.fn, tt.args...)
			if err != nil {
				t.Fatalf("infer %s: %s", tt.fn, err)
			}

			if got != tt.want {
				t.Errorf("result mismatch: got %q, want %q", got, tt.want)
			}
			if !reflect.DeepEqual(tt.effects, effects) {
				deepequal.SideBySide(t, "effects", tt.effects, effects)
			}
		})
	}
}

func TestEngineDiagnostics(t *testing.T) {
	t.Run("unresolved-callee", func(t *testing.T) {
		f := newEngineFixture(t, `
func root() string {
	return os.Getenv("HOME")
}`, DefaultConfig())
		if _, _, err := f.infer(t, "root"); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !f.reported(effrules.UnresolvedCallee()) {
			t.Errorf("unresolved callee report was expected, got %v", f.rules())
		}
	})

	t.Run("recursion-cycle", func(t *testing.T) {
		f := newEngineFixture(t, `
func loop(a string) string {
	return loop(a)
}`, DefaultConfig())
		if _, _, err := f.infer(t, "loop", lattice.Hole()); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !f.reported(effrules.RecursionCycle()) {
			t.Errorf("recursion cycle report was expected, got %v", f.rules())
		}
	})

	t.Run("unsupported-assign-op", func(t *testing.T) {
		f := newEngineFixture(t, `
func root() string {
	n := "a"
	n -= "b"
	return n
}`, DefaultConfig())
		got, _, err := f.infer(t, "root")
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if got != "*" {
			t.Errorf("hole was expected, got %q", got)
		}
		if !f.reported(effrules.UnsupportedAssignOp()) {
			t.Errorf("unsupported assign op report was expected, got %v", f.rules())
		}
	})

	t.Run("non-string-literal", func(t *testing.T) {
		f := newEngineFixture(t, `
func root() string {
	return declaredFn("n", 42)
}`, DefaultConfig())
		got, _, err := f.infer(t, "root")
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if got != "n/*" {
			t.Errorf("n/* was expected, got %q", got)
		}
		if !f.reported(effrules.NonStringValue()) {
			t.Errorf("non-string value report was expected, got %v", f.rules())
		}
	})

	t.Run("malformed-declaration-index", func(t *testing.T) {
		f := newEngineFixture(t, ``, DefaultConfig())
		if !f.reported(effrules.GrammarParse()) {
			t.Errorf("grammar parse report was expected, got %v", f.rules())
		}
	})
}

func TestEngineFatal(t *testing.T) {
	tests := []struct {
		name string
		body string
		fn   string
		args []lattice.State
		cfg  Config
		kind ErrorKind
	}{
		{
			name: "unresolved-variable",
			body: `
func root() string {
	return declaredFn(missing, "a")
}`,
			fn:   "root",
			cfg:  DefaultConfig(),
			kind: KindUnresolvedVariable,
		},
		{
			name: "unsupported-pattern",
			body: `
func root() {
	var s struct{ f string }
	s.f = "a"
}`,
			fn:   "root",
			cfg:  DefaultConfig(),
			kind: KindUnsupportedPattern,
		},
		{
			name: "arity-mismatch",
			body: `
func two(a, b string) string {
	return a + b
}`,
			fn:   "two",
			args: []lattice.State{lattice.Literal("a")},
			cfg:  DefaultConfig(),
			kind: KindArityMismatch,
		},
		{
			name: "declared-arity-mismatch",
			body: `
func root() string {
	return declaredFn("a")
}`,
			fn:   "root",
			cfg:  DefaultConfig(),
			kind: KindArityMismatch,
		},
		{
			name: "malformed-declaration",
			body: `
func root() string {
	return broken("a")
}`,
			fn:   "root",
			cfg:  DefaultConfig(),
			kind: KindGrammarParse,
		},
		{
			name: "malformed-own-declaration",
			body: `
func root() string {
	return "a"
}`,
			fn:   "broken",
			args: []lattice.State{lattice.Literal("a")},
			cfg:  DefaultConfig(),
			kind: KindGrammarParse,
		},
		{
			name: "depth-exceeded",
			body: `
func deep(a string) string {
	return deep(a + "x")
}`,
			fn:   "deep",
			args: []lattice.State{lattice.Literal("")},
			cfg: Config{
				MaxDepth: 5,
				Memoize:  true,
			},
			kind: KindDepthExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEngineFixture(t, tt.body, tt.cfg)
			_, _, err := f.infer(t, tt.fn, tt.args...)
			if err == nil {
				t.Fatal("error was expected")
			}

			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("*Error was expected, got %T: %s", err, err)
			}
			if e.Kind != tt.kind {
				t.Errorf("kind mismatch: got %s, want %s", e.Kind, tt.kind)
			}
			if !e.Kind.Rule().Fatal() {
				t.Errorf("rule %s of kind %s must be fatal", e.Kind.Rule(), e.Kind)
			}
			t.Log(err)
		})
	}
}

func TestEngineMemoizationIsTransparent(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "repeated-calls",
			body: `
func helper(name string) string {
	removeFile(name)
	return declaredFn(name, "x")
}

func root() string {
	a := helper("f")
	b := helper(a)
	c := helper("f")
	return a + b + c
}`,
		},
		{
			name: "mutual-recursion",
			body: `
func f(x string) string {
	removeFile("A")
	g(x)
	return x
}

func g(x string) string {
	f(x)
	removeFile("B")
	return f(x) + "/g"
}

func root() string {
	f("1")
	v := g("1")
	removeFile(v)
	return v
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := func(memoize bool) (string, []renderedEffect) {
				f := newEngineFixture(t, tt.body, Config{MaxDepth: DefaultMaxDepth, Memoize: memoize})
				got, effects, err := f.infer(t, "root")
				if err != nil {
					t.Fatalf("infer with memoize=%v: %s", memoize, err)
				}
				return got, effects
			}

			gotMemo, effectsMemo := run(true)
			gotPlain, effectsPlain := run(false)
			if gotMemo != gotPlain {
				t.Errorf("results differ: %q with memoization, %q without", gotMemo, gotPlain)
			}
			if !reflect.DeepEqual(effectsPlain, effectsMemo) {
				deepequal.SideBySide(t, "effects", effectsPlain, effectsMemo)
			}
		})
	}

	t.Run("mutual-recursion-result", func(t *testing.T) {
		f := newEngineFixture(t, tests[1].body, DefaultConfig())
		got, effects, err := f.infer(t, "root")
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}

		want := []renderedEffect{
			{Name: "remove", Args: []string{"A"}},
			{Name: "remove", Args: []string{"B"}},
			{Name: "remove", Args: []string{"A"}},
			{Name: "remove", Args: []string{"B"}},
			{Name: "remove", Args: []string{"A"}},
			{Name: "remove", Args: []string{"1/g"}},
		}
		if got != "1/g" {
			t.Errorf("1/g was expected, got %q", got)
		}
		if !reflect.DeepEqual(want, effects) {
			deepequal.SideBySide(t, "effects", want, effects)
		}
	})
}

func TestUnknowns(t *testing.T) {
	for _, s := range Unknowns(3) {
		if lattice.Render(s) != "*" {
			t.Fatalf("hole was expected, got %q", lattice.Render(s))
		}
	}
}
