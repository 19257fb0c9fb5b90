package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/phobologic/waterfall/internal/config"
	"github.com/phobologic/waterfall/internal/model"
	"github.com/phobologic/waterfall/internal/toon"
)

func writeReport(w io.Writer, format config.Format, reports []model.FileReport) error {
	switch format {
	case config.FormatJSON:
		return writeJSON(w, reports)
	case config.FormatTOON:
		_, err := fmt.Fprintln(w, toon.Encode(reports))
		return err
	default:
		return writeText(w, reports)
	}
}

// writeText prints one line per offense followed by a summary:
//
//	app/models/user.rb:3:3: C: [Correctable] Layout/WaterfallOrder: Define ...
func writeText(w io.Writer, reports []model.FileReport) error {
	for i := range reports {
		for _, o := range reports[i].Offenses {
			tag := ""
			if o.Correctable {
				tag = "[Correctable] "
			}
			if _, err := fmt.Fprintf(w, "%s:%d:%d: C: %s%s: %s\n", o.Path, o.Line, o.Column, tag, o.Cop, o.Message); err != nil {
				return err
			}
		}
	}

	s := model.Summarize(reports)
	if s.Offenses > 0 {
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s inspected, %s detected, %s corrected\n",
		plural(s.Files, "file"), plural(s.Offenses, "offense"), plural(s.Corrected, "offense"))
	return err
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

type jsonReport struct {
	Files   []model.FileReport `json:"files"`
	Summary model.Summary      `json:"summary"`
}

func writeJSON(w io.Writer, reports []model.FileReport) error {
	out := jsonReport{Files: make([]model.FileReport, 0, len(reports)), Summary: model.Summarize(reports)}
	for _, r := range reports {
		if r.Offenses == nil {
			r.Offenses = []model.Offense{}
		}
		out.Files = append(out.Files, r)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
