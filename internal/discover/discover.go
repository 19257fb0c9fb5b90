// Package discover finds Ruby source files to inspect.
package discover

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/waterfall/internal/lang"
)

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path     string // Relative to the walked root, or as given for explicit files
	Language string
}

var skipDirs = map[string]struct{}{
	"vendor":       {},
	"node_modules": {},
	"tmp":          {},
	"log":          {},
	"coverage":     {},
	"pkg":          {},
	".bundle":      {},
	".git":         {},
	".hg":          {},
	".svn":         {},
}

// Paths expands command-line paths into source files. Directories are walked
// with Files and their entries joined onto the directory; files are kept when
// a supported language claims them. Duplicates are dropped and argument order
// is kept.
func Paths(paths []string) ([]FileEntry, error) {
	seen := make(map[string]struct{})
	var results []FileEntry
	add := func(e FileEntry) {
		if _, dup := seen[e.Path]; dup {
			return
		}
		seen[e.Path] = struct{}{}
		results = append(results, e)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if !info.IsDir() {
			if l := lang.ForFile(p); l != "" {
				add(FileEntry{Path: filepath.Clean(p), Language: l})
			}
			continue
		}

		entries, err := Files(p)
		if err != nil {
			return nil, fmt.Errorf("discovering files in %s: %w", p, err)
		}
		for _, e := range entries {
			e.Path = filepath.Join(p, e.Path)
			add(e)
		}
	}
	return results, nil
}

// Files discovers source files under root, honoring git's view of the tree
// when root is a repository and .gitignore otherwise.
func Files(root string) ([]FileEntry, error) {
	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var results []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if gitFiles != nil {
			if _, ok := gitFiles[filepath.ToSlash(rel)]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		langName := lang.ForFile(name)
		if langName == "" {
			return nil
		}

		results = append(results, FileEntry{Path: rel, Language: langName})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
