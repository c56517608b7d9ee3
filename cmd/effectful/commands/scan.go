package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/tools/go/packages"

	"github.com/sirkon/effectful"
	"github.com/sirkon/effectful/internal/config"
	"github.com/sirkon/effectful/internal/manifest"
	"github.com/sirkon/effectful/internal/source"
	"github.com/sirkon/effectful/internal/tracing"
)

var (
	scanFormat      config.Format
	scanMaxDepth    int
	scanNested      bool
	scanDiagnostics bool
)

var errFailedEntrypoints = errors.New("analysis of some entrypoints failed")

var scanCmd = &cobra.Command{
	Use:   "scan [packages...]",
	Short: "Prints effect manifests of packages",
	Long: `The scan command loads packages, analyzes their entrypoints and prints a
manifest of effects per package. Diagnostics go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("format") {
			cfg.Format = scanFormat
		}
		if cmd.Flags().Changed("max-depth") {
			cfg.MaxDepth = scanMaxDepth
		}
		if cmd.Flags().Changed("nested") {
			cfg.WalkNestedBlocks = scanNested
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if len(args) == 0 {
			args = []string{"."}
		}

		ms, reps, err := scan(cmd, cfg, args)
		if err != nil {
			return err
		}

		if err := manifest.Write(os.Stdout, cfg.Format, ms...); err != nil {
			return fmt.Errorf("write manifests: %w", err)
		}
		reps.PrintSummary(os.Stderr)

		for _, m := range ms {
			if len(m.Failed()) > 0 {
				return errFailedEntrypoints
			}
		}

		return nil
	},
}

func init() {
	scanFormat = config.FormatText
	scanCmd.Flags().VarP(&scanFormat, "format", "o", "Output format: text, yaml or json")
	scanCmd.Flags().IntVar(&scanMaxDepth, "max-depth", 64, "Call depth limit")
	scanCmd.Flags().BoolVar(&scanNested, "nested", false, "Walk nested blocks")
	scanCmd.Flags().BoolVar(&scanDiagnostics, "diagnostics", false, "Print non-fatal inference diagnostics")
	AddCommand(scanCmd)
}

func scan(cmd *cobra.Command, cfg *config.Config, patterns []string) ([]*manifest.Manifest, *tracing.Reporter, error) {
	pkgs, err := packages.Load(&packages.Config{
		Context: cmd.Context(),
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedSyntax |
			packages.NeedTypes |
			packages.NeedTypesInfo,
	}, patterns...)
	if err != nil {
		return nil, nil, fmt.Errorf("load packages: %w", err)
	}
	if n := packages.PrintErrors(pkgs); n > 0 {
		return nil, nil, fmt.Errorf("%d errors while loading packages", n)
	}

	opts := effectful.OptionsFromConfig(cfg)

	var summary tracing.Reporter
	var res []*manifest.Manifest
	for _, pkg := range pkgs {
		prog := source.New(pkg.Fset, pkg.Syntax, pkg.TypesInfo, pkg.PkgPath, cfg.Directive)
		if len(prog.Entrypoints()) == 0 {
			continue
		}

		r, err := effectful.Analyze(cmd.Context(), prog, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("analyze %s: %w", pkg.PkgPath, err)
		}
		res = append(res, r.Manifest)

		for _, rep := range r.Reports {
			switch {
			case rep.Phase == tracing.ReportManifest && !rep.Rule.Fatal():
				continue
			case rep.Phase == tracing.ReportInfer && !scanDiagnostics:
				continue
			}
			summary.Report(rep)
		}
	}

	return res, &summary, nil
}
