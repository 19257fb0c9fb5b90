// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/waterfall/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts inspection reports into TOON format.
func Encode(reports []model.FileReport) string {
	summary := model.Summarize(reports)

	var parts []string
	parts = append(parts, fmt.Sprintf("files: %d", summary.Files))

	var offenseRows [][]string
	for i := range reports {
		for j := range reports[i].Offenses {
			o := &reports[i].Offenses[j]
			offenseRows = append(offenseRows, []string{
				o.Path,
				strconv.Itoa(o.Line),
				strconv.Itoa(o.Column),
				o.Message,
			})
		}
	}
	parts = append(parts, formatTabular("offenses", []string{"path", "line", "column", "message"}, offenseRows))

	if summary.Corrected > 0 {
		var fixedRows [][]string
		for i := range reports {
			if reports[i].Corrected > 0 {
				fixedRows = append(fixedRows, []string{reports[i].Path, strconv.Itoa(reports[i].Corrected)})
			}
		}
		parts = append(parts, formatTabular("corrected", []string{"path", "count"}, fixedRows))
	}

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
