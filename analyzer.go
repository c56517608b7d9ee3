package effectful

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"reflect"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/sirkon/effectful/internal/config"
	"github.com/sirkon/effectful/internal/manifest"
	"github.com/sirkon/effectful/internal/source"
	"github.com/sirkon/effectful/internal/tracing"
)

const doc = `effectful reports effects entrypoint functions may trigger

Functions declare their effects with //effect:declare directives, analysis
roots are marked with //effect:entrypoint. Every effect an entrypoint may
trigger is reported at the entrypoint with glob-rendered arguments.`

// Analyzer is the main entry point for the linter
var Analyzer = &analysis.Analyzer{
	Name:       "effectful",
	Doc:        doc,
	Requires:   []*analysis.Analyzer{inspect.Analyzer},
	Run:        run,
	ResultType: reflect.TypeOf((*manifest.Manifest)(nil)),
}

var (
	flagConfig      string
	flagMaxDepth    int
	flagNested      bool
	flagDiagnostics bool
)

func init() {
	Analyzer.Flags.StringVar(&flagConfig, "config", "", "path to the config file")
	Analyzer.Flags.IntVar(&flagMaxDepth, "max-depth", -1, "call depth limit, overrides the config value when not negative")
	Analyzer.Flags.BoolVar(&flagNested, "nested", false, "walk nested blocks")
	Analyzer.Flags.BoolVar(&flagDiagnostics, "diagnostics", false, "report non-fatal inference diagnostics as well")
}

func analyzerConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if flagConfig != "" {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
	}

	if flagMaxDepth >= 0 {
		cfg.MaxDepth = flagMaxDepth
	}
	if flagNested {
		cfg.WalkNestedBlocks = true
	}

	return cfg, nil
}

func run(pass *analysis.Pass) (any, error) {
	cfg, err := analyzerConfig()
	if err != nil {
		return nil, fmt.Errorf("setup config: %w", err)
	}

	pector := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	var files []*ast.File
	pector.Preorder([]ast.Node{(*ast.File)(nil)}, func(node ast.Node) {
		files = append(files, node.(*ast.File))
	})

	prog := source.New(pass.Fset, files, pass.TypesInfo, pass.Pkg.Path(), cfg.Directive)
	res, err := Analyze(context.Background(), prog, OptionsFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", pass.Pkg.Path(), err)
	}

	for _, rep := range res.Reports {
		if rep.Phase == tracing.ReportManifest {
			continue
		}
		if rep.Phase == tracing.ReportInfer && !flagDiagnostics {
			continue
		}

		pass.Reportf(tokenPos(pass.Fset, files, rep.Pos), "%s: %s", rep.Rule, rep.Message)
	}

	for i, fn := range prog.Entrypoints() {
		entry := res.Manifest.Entrypoints[i]
		pos := fn.Decl.Name.Pos()

		if entry.Err != "" {
			pass.Reportf(pos, "%s: analysis failed: %s", fn.Name, entry.Err)
			continue
		}
		for _, e := range entry.Effects {
			pass.Reportf(pos, "%s may trigger %s", fn.Name, e)
		}
	}

	return res.Manifest, nil
}

// tokenPos maps a position back to the file set. Positions outside of the
// package files, like ones of configured externals, map to the package
// clause of the first file.
func tokenPos(fset *token.FileSet, files []*ast.File, p token.Position) token.Pos {
	if len(files) == 0 {
		return token.NoPos
	}

	for _, f := range files {
		tf := fset.File(f.Pos())
		if tf == nil || tf.Name() != p.Filename || p.Offset > tf.Size() {
			continue
		}
		return tf.Pos(p.Offset)
	}

	return files[0].Package
}
