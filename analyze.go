// Package effectful infers effects Go functions may trigger.
//
// Functions describe their own effects with a declare directive in their doc
// comment:
//
//	//effect:declare args=(name as N), side_effects=(read_file(N)), returns=(N)
//	func readConfig(name string) string { ... }
//
// Every function marked with
//
//	//effect:entrypoint
//
// is evaluated symbolically with unknown arguments. Effects of declared
// functions it reaches, directly or through undeclared functions of the same
// package, make up its manifest entry.
package effectful

import (
	"context"
	"errors"
	"go/token"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sirkon/effectful/internal/config"
	"github.com/sirkon/effectful/internal/declindex"
	"github.com/sirkon/effectful/internal/effrules"
	"github.com/sirkon/effectful/internal/lattice"
	"github.com/sirkon/effectful/internal/manifest"
	"github.com/sirkon/effectful/internal/source"
	"github.com/sirkon/effectful/internal/tracing"
)

// Options of an analysis.
type Options struct {
	Engine tracing.Config

	// Externals are declarations of functions of other packages keyed by
	// qualified name.
	Externals map[string]string
}

// OptionsFromConfig converts a loaded config into options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Engine: tracing.Config{
			MaxDepth:         cfg.MaxDepth,
			Memoize:          cfg.Memoize,
			WalkNestedBlocks: cfg.WalkNestedBlocks,
		},
		Externals: cfg.Declarations(),
	}
}

// Result of the analysis of a package.
type Result struct {
	Manifest *manifest.Manifest

	// Reports are non-fatal diagnostics in the order they were found.
	// Reports of concurrently analyzed entrypoints interleave.
	Reports []tracing.Report
}

// Analyze builds the declaration index of the program and analyzes all its
// entrypoints.
func Analyze(ctx context.Context, prog *source.Program, opts Options) (*Result, error) {
	var rep tracing.Reporter
	idx := declindex.Build(prog, opts.Externals, rep.Phase(tracing.ReportDeclare))
	eng := tracing.NewEngine(prog, idx, opts.Engine, rep.Phase(tracing.ReportInfer))

	entries, err := AnalyzeAll(ctx, eng, prog, prog.Entrypoints(), rep.Phase(tracing.ReportManifest))
	if err != nil {
		return nil, err
	}

	return &Result{
		Manifest: &manifest.Manifest{
			Package:     prog.PkgPath,
			Entrypoints: entries,
		},
		Reports: rep.Reports(),
	}, nil
}

// AnalyzeAll analyzes functions concurrently, each with its own accumulator.
// A fatal condition in one function is recorded in its entry and does not
// affect the others. Entries follow the order of functions.
//
// Every found effect and fatal condition is also reported to rp, which may be
// nil.
func AnalyzeAll(
	ctx context.Context,
	eng *tracing.Engine,
	prog *source.Program,
	fns []*source.Function,
	rp *tracing.ReporterPhase,
) ([]manifest.Entry, error) {
	entries := make([]manifest.Entry, len(fns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, fn := range fns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			entries[i] = analyzeOne(eng, prog, fn, rp)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return entries, nil
}

func analyzeOne(eng *tracing.Engine, prog *source.Program, fn *source.Function, rp *tracing.ReporterPhase) manifest.Entry {
	entry := manifest.Entry{
		Function: fn.Name,
	}
	var pos token.Position
	if fn.Decl != nil {
		pos = prog.Position(fn.Decl.Pos())
		entry.Pos = pos.String()
	}

	var out tracing.Accumulator
	res, err := eng.Infer(fn, tracing.Unknowns(len(fn.Params)), &out)
	if err != nil {
		entry.Err = err.Error()

		rule := effrules.GrammarParse()
		var te *tracing.Error
		if errors.As(err, &te) {
			rule = te.Kind.Rule()
			if te.Pos.IsValid() {
				pos = te.Pos
			}
		}
		rp.Report(rule, entry.Err, pos)

		return entry
	}

	entry.Result = lattice.Render(res)
	for _, e := range out.Effects() {
		x := manifest.Effect{
			Name: e.Name,
			Args: e.Rendered(),
			Via:  e.Via,
		}
		if e.Pos.IsValid() {
			x.Pos = e.Pos.String()
		}
		entry.Effects = append(entry.Effects, x)

		rp.Report(effrules.Effect(), fn.Name+" may trigger "+x.String(), e.Pos)
	}

	return entry
}
