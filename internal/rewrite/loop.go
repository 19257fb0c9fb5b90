package rewrite

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/phobologic/waterfall/internal/model"
	"github.com/phobologic/waterfall/internal/syntax"
)

// MaxIterations bounds the number of inspect-and-fix passes over one file.
const MaxIterations = 200

// ErrInfiniteLoop is returned when corrections keep changing a file without
// converging.
var ErrInfiniteLoop = errors.New("infinite correction loop")

// Pass inspects src and reports into r.
type Pass func(ctx context.Context, src *syntax.Source, r *Recorder) error

// Result is the outcome of Run.
type Result struct {
	// Text is the final source.
	Text []byte
	// Offenses are those reported by the last pass.
	Offenses []model.Offense
	// Corrected counts the edits applied across all passes.
	Corrected int
}

// Run inspects text with pass. With autocorrect set, staged edits are applied
// and the file is inspected again until a pass stages nothing.
func Run(ctx context.Context, path string, text []byte, autocorrect bool, pass Pass) (Result, error) {
	res := Result{Text: text}
	seen := map[[sha256.Size]byte]struct{}{sha256.Sum256(text): {}}

	for range MaxIterations {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		src := syntax.NewSource(path, res.Text)
		rec := NewRecorder(src, autocorrect)
		if err := pass(ctx, src, rec); err != nil {
			return res, err
		}
		res.Offenses = rec.Offenses()

		if !autocorrect {
			return res, nil
		}
		next, n := rec.Corrector().Apply(res.Text)
		if n == 0 || bytes.Equal(next, res.Text) {
			return res, nil
		}

		sum := sha256.Sum256(next)
		if _, dup := seen[sum]; dup {
			return res, fmt.Errorf("%s: %w", path, ErrInfiniteLoop)
		}
		seen[sum] = struct{}{}

		res.Text = next
		res.Corrected += n
	}
	return res, fmt.Errorf("%s: no fixed point after %d passes: %w", path, MaxIterations, ErrInfiniteLoop)
}
