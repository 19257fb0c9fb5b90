package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/waterfall/internal/config"
	"github.com/phobologic/waterfall/internal/order"
)

const (
	sentinelStart = "# waterfall:start"
	sentinelEnd   = "# waterfall:end"
)

// runInit implements the `waterfall init` subcommand, which writes (or
// updates) the default configuration section in a config file.
func runInit(args []string, stdout, stderr io.Writer) error {
	cmd := newInitCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newInitCmd(stdout, stderr io.Writer) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "init [flags] [path]",
		Short: "Write the default configuration to " + config.FileName,
		Long: `Write the default waterfall configuration to a YAML file. The section is
wrapped in sentinel comments so it can be updated in place on subsequent runs
without touching surrounding content. Creates the file if it does not exist.

path defaults to ./` + config.FileName + `.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeInit(args, dryRun, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	return cmd
}

func writeInit(args []string, dryRun bool, stdout, stderr io.Writer) error {
	section, err := generateSection()
	if err != nil {
		return err
	}

	// --dry-run with no path: just print the section itself.
	if dryRun && len(args) == 0 {
		_, _ = fmt.Fprintln(stdout, section)
		return nil
	}

	path := config.FileName
	if len(args) > 0 {
		path = args[0]
	}

	existing, _ := os.ReadFile(path)
	updated := applySection(string(existing), section)

	if dryRun {
		_, _ = fmt.Fprint(stdout, updated)
		return nil
	}

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(stderr, "wrote waterfall section to %s\n", path)
	return nil
}

// copSettings is the on-disk shape of the cop's options, in display order.
type copSettings struct {
	Enabled                bool     `yaml:"Enabled"`
	AllowedRecursion       bool     `yaml:"AllowedRecursion"`
	SafeAutoCorrect        bool     `yaml:"SafeAutoCorrect"`
	SkipCyclicSiblingEdges bool     `yaml:"SkipCyclicSiblingEdges"`
	Exclude                []string `yaml:"Exclude"`
}

// generateSection returns the sentinel-wrapped default configuration block.
func generateSection() (string, error) {
	def := config.Default()
	doc := map[string]copSettings{
		order.CopName: {
			Enabled:                def.Enabled,
			AllowedRecursion:       def.Order.AllowedRecursion,
			SafeAutoCorrect:        def.Order.SafeAutoCorrect,
			SkipCyclicSiblingEdges: def.Order.SkipCyclicSiblingEdges,
			Exclude:                []string{"vendor/**"},
		},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}

	header := `# Managed by "waterfall init"; rerun it to reset these values.
# Run "waterfall --help" for the command line flags.
`
	return sentinelStart + "\n" + header + strings.TrimRight(buf.String(), "\n") + "\n" + sentinelEnd, nil
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not. It is a pure function for easy testing.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}
