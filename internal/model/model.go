// Package model defines core data structures for waterfall.
package model

// EdgeKind indicates why one method must be defined after another.
type EdgeKind string

const (
	// Direct edges come from an actual call: the caller must precede the callee.
	Direct EdgeKind = "direct"
	// Sibling edges are inferred from consecutive calls in an orchestrator.
	Sibling EdgeKind = "sibling"
)

// Edge is an ordering constraint: From should be defined before To.
// For direct edges From is the caller and To the callee.
type Edge struct {
	From string
	To   string
}

// Reverse returns the edge pointing the other way.
func (e Edge) Reverse() Edge {
	return Edge{From: e.To, To: e.From}
}

// Violation is an edge whose To side is currently defined before its From side.
type Violation struct {
	Kind EdgeKind
	Edge Edge
}

// Offense is a single reported problem in a file.
type Offense struct {
	Path        string `json:"path"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Cop         string `json:"cop"`
	Message     string `json:"message"`
	Correctable bool   `json:"correctable"`
}

// FileReport holds the outcome of inspecting one file.
type FileReport struct {
	Path      string    `json:"path"`
	Offenses  []Offense `json:"offenses"`
	Corrected int       `json:"corrected"`
}

// Summary aggregates a whole run.
type Summary struct {
	Files     int `json:"files"`
	Offenses  int `json:"offenses"`
	Corrected int `json:"corrected"`
}

// Summarize totals the given reports.
func Summarize(reports []FileReport) Summary {
	s := Summary{Files: len(reports)}
	for i := range reports {
		s.Offenses += len(reports[i].Offenses)
		s.Corrected += reports[i].Corrected
	}
	return s
}
