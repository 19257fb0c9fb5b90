// waterfall checks that Ruby methods are defined after the methods that call
// them and can reorder them to fix it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/spf13/cobra"

	"github.com/phobologic/waterfall/internal/config"
	"github.com/phobologic/waterfall/internal/discover"
	"github.com/phobologic/waterfall/internal/lang"
	"github.com/phobologic/waterfall/internal/model"
	"github.com/phobologic/waterfall/internal/order"
	"github.com/phobologic/waterfall/internal/parse"
	"github.com/phobologic/waterfall/internal/rewrite"
	"github.com/phobologic/waterfall/internal/syntax"
)

var version = "dev"

const defaultMaxFileSize = 1_000_000 // 1 MB

// errOffenses is returned when offenses remain after the run.
var errOffenses = errors.New("offenses detected")

func main() {
	os.Exit(exitCode(run(os.Args[1:], os.Stdout, os.Stderr), os.Stderr))
}

// exitCode maps run's result to the process status: 1 when offenses remain,
// 2 for any other failure.
func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errOffenses):
		return 1
	default:
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

type options struct {
	autocorrect    bool
	autocorrectAll bool
	format         string
	configPath     string
	maxFileSize    int
	debug          bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "waterfall [flags] [paths...]",
		Short: "Check that Ruby methods are defined after their callers",
		Long: `waterfall reports methods that are defined before a method in the same
class, module or file that calls them, and methods that an orchestrator calls
one after another but that are defined in a different order.

With --autocorrect-all the offending group of definitions is reordered in place,
keeping comments attached and never moving a method across a visibility change.

Paths default to the current directory.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(cmd.Context(), opts, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("waterfall {{.Version}}\n")

	f := cmd.Flags()
	f.BoolVarP(&opts.autocorrect, "autocorrect", "a", false, "apply corrections marked safe (SafeAutoCorrect: true)")
	f.BoolVarP(&opts.autocorrectAll, "autocorrect-all", "A", false, "apply all corrections")
	f.StringVarP(&opts.format, "format", "f", string(config.FormatText), "output format: text, json or toon")
	f.StringVarP(&opts.configPath, "config", "c", "", "config file (default ./"+config.FileName+")")
	f.IntVar(&opts.maxFileSize, "max-file-size", defaultMaxFileSize, "skip files larger than this many bytes")
	f.BoolVarP(&opts.debug, "debug", "d", false, "log debug output to stderr")
	f.BoolP("version", "V", false, "show version and exit")

	cmd.AddCommand(newInitCmd(stdout, stderr))
	return cmd
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func inspect(ctx context.Context, opts options, paths []string, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, opts.debug)

	format, err := config.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		paths = []string{"."}
	}
	root := configRoot(paths)

	cfg, err := config.Load(root, opts.configPath)
	if err != nil {
		return err
	}
	if cfg.File != "" {
		logger.Debug("loaded config", "path", cfg.File)
	}

	var reports []model.FileReport
	if cfg.Enabled {
		files, err := discover.Paths(paths)
		if err != nil {
			return err
		}
		files = filterExcluded(root, files, cfg, logger)
		files = filterBySize(files, opts.maxFileSize, logger)

		autocorrect := cfg.Autocorrect(opts.autocorrect, opts.autocorrectAll)
		if opts.autocorrect && !autocorrect {
			logger.Warn("corrections are not marked safe; use --autocorrect-all to apply them", "cop", order.CopName)
		}

		reports = inspectFilesConcurrent(ctx, files, order.New(cfg.Order), autocorrect, logger)
	} else {
		logger.Debug("cop disabled", "cop", order.CopName)
	}

	if err := writeReport(stdout, format, reports); err != nil {
		return err
	}

	if model.Summarize(reports).Offenses > 0 {
		return errOffenses
	}
	return nil
}

// configRoot is the directory the config file and Exclude patterns are
// relative to: the single directory argument if there is one, the current
// directory otherwise.
func configRoot(paths []string) string {
	if len(paths) == 1 {
		if info, err := os.Stat(paths[0]); err == nil && info.IsDir() {
			return paths[0]
		}
	}
	return "."
}

func filterExcluded(root string, files []discover.FileEntry, cfg *config.Config, logger *slog.Logger) []discover.FileEntry {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return files
	}

	var kept []discover.FileEntry
	for _, f := range files {
		abs, err := filepath.Abs(f.Path)
		if err != nil {
			kept = append(kept, f)
			continue
		}
		rel, err := filepath.Rel(absRoot, abs)
		if err == nil && cfg.Excluded(rel) {
			logger.Debug("excluded", "path", f.Path)
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func filterBySize(files []discover.FileEntry, maxSize int, logger *slog.Logger) []discover.FileEntry {
	var kept []discover.FileEntry
	for _, f := range files {
		fi, err := os.Stat(f.Path)
		if err != nil {
			kept = append(kept, f) // keep if can't stat
			continue
		}
		if fi.Size() > int64(maxSize) {
			logger.Warn("skipped", "path", f.Path, "reason", fmt.Sprintf(">%d bytes", maxSize))
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// inspectFilesConcurrent inspects files with one worker per CPU and returns
// the reports in input order. Files that cannot be read, parsed or written
// back are logged and left out.
func inspectFilesConcurrent(ctx context.Context, files []discover.FileEntry, cop *order.Cop, autocorrect bool, logger *slog.Logger) []model.FileReport {
	type result struct {
		index  int
		report model.FileReport
		ok     bool
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make(chan result, len(files))

	var wg sync.WaitGroup

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Each goroutine gets its own parser
			parsers := make(map[string]*sitter.Parser)

			for idx := range work {
				f := files[idx]
				l := lang.Languages[f.Language]
				parser, ok := parsers[f.Language]
				if !ok {
					parser = l.NewParser()
					parsers[f.Language] = parser
				}

				report, err := inspectFile(ctx, f.Path, l, parser, cop, autocorrect, logger)
				if err != nil {
					logger.Warn("skipped", "path", f.Path, "error", err)
					continue
				}
				results <- result{index: idx, report: report, ok: true}
			}
		}()
	}

	for i := range files {
		work <- i
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	// Collect results in original order
	indexed := make([]model.FileReport, len(files))
	valid := make([]bool, len(files))
	for r := range results {
		indexed[r.index] = r.report
		valid[r.index] = r.ok
	}

	var reports []model.FileReport
	for i, v := range valid {
		if v {
			reports = append(reports, indexed[i])
		}
	}
	return reports
}

func inspectFile(ctx context.Context, path string, l *lang.Language, parser *sitter.Parser, cop *order.Cop, autocorrect bool, logger *slog.Logger) (model.FileReport, error) {
	start := time.Now()

	info, err := os.Stat(path)
	if err != nil {
		return model.FileReport{}, err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return model.FileReport{}, err
	}

	res, err := rewrite.Run(ctx, path, source, autocorrect, func(ctx context.Context, src *syntax.Source, r *rewrite.Recorder) error {
		root, err := parse.File(ctx, l, parser, src.Text)
		if err != nil {
			return err
		}
		cop.Inspect(src, root, r)
		return nil
	})
	if err != nil {
		return model.FileReport{}, err
	}

	if res.Corrected > 0 {
		if err := os.WriteFile(path, res.Text, info.Mode().Perm()); err != nil {
			return model.FileReport{}, fmt.Errorf("writing corrections: %w", err)
		}
		logger.Debug("corrected", "path", path, "edits", res.Corrected)
	}

	logger.Debug("inspected", "path", path, "offenses", len(res.Offenses), "elapsed", time.Since(start))
	return model.FileReport{Path: path, Offenses: res.Offenses, Corrected: res.Corrected}, nil
}
