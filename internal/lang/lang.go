// Package lang provides a language registry mapping file names to
// tree-sitter grammars and the converters that turn their trees into
// syntax trees.
package lang

import (
	"path/filepath"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/waterfall/internal/syntax"
)

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name       string
	Extensions []string
	// Filenames lists extensionless files that are still source, such as
	// Rakefile.
	Filenames []string
	lang      *sitter.Language

	// Convert turns a parsed tree into a syntax tree. source must be the
	// bytes the tree was parsed from.
	Convert func(root *sitter.Node, source []byte) *syntax.Node
}

// GetLanguage returns the tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// The lookup maps are built lazily after all init() functions have run.
var (
	extensionMap map[string]string
	filenameMap  map[string]string
	mapOnce      sync.Once
)

func buildMaps() {
	mapOnce.Do(func() {
		extensionMap = make(map[string]string)
		filenameMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
			for _, name := range l.Filenames {
				filenameMap[name] = l.Name
			}
		}
	})
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	buildMaps()
	return extensionMap[ext]
}

// ForFile returns the language name for a file path, matching well-known
// file names first and extensions second. It returns "" if unsupported.
func ForFile(path string) string {
	buildMaps()
	base := filepath.Base(path)
	if name, ok := filenameMap[base]; ok {
		return name
	}
	return extensionMap[filepath.Ext(base)]
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
