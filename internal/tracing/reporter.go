package tracing

import (
	"fmt"
	"go/token"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/sirkon/effectful/internal/effrules"
)

// Reporter collects diagnostics discovered while indexing declarations and
// tracing effects.
type Reporter struct {
	mu      sync.Mutex
	reports []Report
}

// Report represents a single diagnostic entry.
type Report struct {
	Phase   ReportPhase
	Rule    effrules.Rule
	Pos     token.Position
	Message string
}

// ReportPhase marks the stage where a report was generated.
type ReportPhase int

const (
	reportPhaseInvalid ReportPhase = iota
	ReportDeclare                  // directive collection and declaration parsing
	ReportInfer                    // symbolic evaluation
	ReportManifest                 // manifest assembly
)

func (p ReportPhase) String() string {
	switch p {
	case ReportDeclare:
		return "declare"
	case ReportInfer:
		return "infer"
	case ReportManifest:
		return "manifest"
	default:
		return fmt.Sprintf("unknown-phase(%d)", p)
	}
}

// ReporterPhase binds a Reporter to a fixed phase.
type ReporterPhase struct {
	parent *Reporter
	phase  ReportPhase
}

// Phase returns a reporter that sets the given phase for all reports
// produced through it.
func (r *Reporter) Phase(p ReportPhase) *ReporterPhase {
	return &ReporterPhase{parent: r, phase: p}
}

// Report adds a new record to the reporter.
func (r *Reporter) Report(rep Report) {
	r.mu.Lock()
	r.reports = append(r.reports, rep)
	r.mu.Unlock()
}

// Report records a diagnostic under the bound phase. An empty message is
// replaced with the rule description.
func (rp *ReporterPhase) Report(rule effrules.Rule, message string, pos token.Position) {
	if rp == nil {
		return
	}

	if message == "" {
		message = rule.Description()
	}
	rp.parent.Report(Report{
		Phase:   rp.phase,
		Rule:    rule,
		Message: message,
		Pos:     pos,
	})
}

// Reports returns a snapshot of all collected records.
func (r *Reporter) Reports() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	return out
}

// PrintSummary prints all collected reports in a compact, human-readable
// form. Fatal rules are highlighted.
func (r *Reporter) PrintSummary(w io.Writer) {
	fatal := color.New(color.FgRed, color.Bold)
	warn := color.New(color.FgYellow)

	for _, rep := range r.Reports() {
		c := warn
		if rep.Rule.Fatal() {
			c = fatal
		}

		_, _ = c.Fprintf(w, "[%s] %s", rep.Phase, rep.Rule)
		_, _ = fmt.Fprintf(w, ": %s (%s)\n", rep.Message, rep.Pos)
	}
}
