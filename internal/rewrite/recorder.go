package rewrite

import (
	"github.com/phobologic/waterfall/internal/model"
	"github.com/phobologic/waterfall/internal/order"
	"github.com/phobologic/waterfall/internal/syntax"
)

// Recorder collects offenses for one source and, when autocorrecting, stages
// the fixes offered with them.
type Recorder struct {
	src         *syntax.Source
	autocorrect bool
	corrector   Corrector
	offenses    []model.Offense
}

// NewRecorder returns a Recorder for src.
func NewRecorder(src *syntax.Source, autocorrect bool) *Recorder {
	return &Recorder{src: src, autocorrect: autocorrect}
}

// Report implements order.Reporter.
func (r *Recorder) Report(node *syntax.Node, message string, fix func(order.Corrector)) {
	line, col := r.src.Position(node.Range.Start)
	r.offenses = append(r.offenses, model.Offense{
		Path:        r.src.Path,
		Line:        line,
		Column:      col,
		Cop:         order.CopName,
		Message:     message,
		Correctable: fix != nil,
	})
	if r.autocorrect && fix != nil {
		fix(&r.corrector)
	}
}

// Offenses returns the offenses reported so far.
func (r *Recorder) Offenses() []model.Offense {
	return r.offenses
}

// Corrector returns the staged corrections.
func (r *Recorder) Corrector() *Corrector {
	return &r.corrector
}
