// Package discover enumerates manifest and source files in a project tree.
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
)

var skipDirs = map[string]struct{}{
	"__pycache__":   {},
	"node_modules":  {},
	".git":          {},
	".hg":           {},
	".svn":          {},
	"venv":          {},
	".venv":         {},
	"env":           {},
	".env":          {},
	"build":         {},
	"dist":          {},
	".tox":          {},
	".mypy_cache":   {},
	".ruff_cache":   {},
	".pytest_cache": {},
	"egg-info":      {},
}

// Tree is a single walk of a project directory. The same walk serves both
// manifest lookup and source-file enumeration, so every consumer sees one
// consistent snapshot of the tree.
type Tree struct {
	root  string
	files []string // relative paths, sorted
}

// Load validates root and walks it once. A missing or non-directory root is
// the one failure that aborts the whole operation: nothing downstream can
// produce meaningful output without a tree to read.
func Load(root string) (*Tree, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("project path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", root)
	}

	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var files []string

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
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
			if _, ok := gitFiles[rel]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)

	return &Tree{root: root, files: files}, nil
}

// Root returns the absolute-or-as-given root the tree was loaded from.
func (t *Tree) Root() string { return t.root }

// Abs joins a tree-relative path back onto the root.
func (t *Tree) Abs(rel string) string { return filepath.Join(t.root, rel) }

// Matching returns every file whose base name equals filename,
// case-insensitively. Zero matches is normal for a manifest type that the
// project simply doesn't use.
func (t *Tree) Matching(filename string) []string {
	lower := strings.ToLower(filename)
	var matches []string
	for _, f := range t.files {
		if strings.ToLower(filepath.Base(f)) == lower {
			matches = append(matches, f)
		}
	}
	return matches
}

// PythonFiles returns every .py file in the tree.
func (t *Tree) PythonFiles() []string {
	var results []string
	for _, f := range t.files {
		if strings.EqualFold(filepath.Ext(f), ".py") {
			results = append(results, f)
		}
	}
	return results
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
