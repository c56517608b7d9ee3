// Package manifest holds the output of the effect analysis: effects every
// entrypoint of a package may trigger, with glob-rendered arguments.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/sirkon/effectful/internal/config"
)

// Manifest of a single package.
type Manifest struct {
	Package     string  `yaml:"package" json:"package"`
	Entrypoints []Entry `yaml:"entrypoints" json:"entrypoints"`
}

// Entry is a result of the analysis of one entrypoint.
type Entry struct {
	Function string   `yaml:"function" json:"function"`
	Pos      string   `yaml:"pos,omitempty" json:"pos,omitempty"`
	Result   string   `yaml:"result,omitempty" json:"result,omitempty"`
	Effects  []Effect `yaml:"effects,omitempty" json:"effects"`

	// Err is set when the analysis of the entrypoint failed. Effects are
	// empty then.
	Err string `yaml:"error,omitempty" json:"error,omitempty"`
}

// Effect is a resolved effect invocation.
type Effect struct {
	Name string   `yaml:"name" json:"name"`
	Args []string `yaml:"args" json:"args"`

	// Via is the declared function the effect comes from.
	Via string `yaml:"via,omitempty" json:"via,omitempty"`
	Pos string `yaml:"pos,omitempty" json:"pos,omitempty"`
}

// String renders the effect as a call: read_file("~/cfg.json").
func (e Effect) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = strconv.Quote(a)
	}

	return e.Name + "(" + strings.Join(args, ", ") + ")"
}

// Failed returns entries whose analysis failed.
func (m *Manifest) Failed() []Entry {
	var res []Entry
	for _, e := range m.Entrypoints {
		if e.Err != "" {
			res = append(res, e)
		}
	}

	return res
}

// Write encodes manifests in the given format. YAML puts every manifest into
// its own document, JSON writes an array.
func Write(w io.Writer, format config.Format, ms ...*Manifest) error {
	switch format {
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, m := range ms {
			if err := enc.Encode(m); err != nil {
				return fmt.Errorf("encode manifest of %s: %w", m.Package, err)
			}
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("flush yaml: %w", err)
		}
		return nil

	case config.FormatJSON:
		if ms == nil {
			ms = []*Manifest{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ms); err != nil {
			return fmt.Errorf("encode manifests: %w", err)
		}
		return nil

	case config.FormatText:
		for _, m := range ms {
			if err := writeText(w, m); err != nil {
				return fmt.Errorf("print manifest of %s: %w", m.Package, err)
			}
		}
		return nil

	default:
		return fmt.Errorf("unsupported output format %s", format)
	}
}

func writeText(w io.Writer, m *Manifest) error {
	pkg := color.New(color.Bold)
	fn := color.New(color.FgCyan)
	eff := color.New(color.FgGreen)
	fail := color.New(color.FgRed)

	if _, err := pkg.Fprintln(w, m.Package); err != nil {
		return err
	}

	for _, e := range m.Entrypoints {
		if _, err := fn.Fprintf(w, "  %s", e.Function); err != nil {
			return err
		}
		if e.Pos != "" {
			if _, err := fmt.Fprintf(w, " (%s)", e.Pos); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}

		if e.Err != "" {
			if _, err := fail.Fprintf(w, "    error: %s\n", e.Err); err != nil {
				return err
			}
			continue
		}

		if len(e.Effects) == 0 {
			if _, err := fmt.Fprintln(w, "    no effects"); err != nil {
				return err
			}
		}
		for _, x := range e.Effects {
			if _, err := eff.Fprintf(w, "    %s\n", x); err != nil {
				return err
			}
		}
	}

	return nil
}
