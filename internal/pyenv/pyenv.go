// Package pyenv answers questions about the local Python environment:
// which modules are standard library, which are locatable on a search path,
// and what version of a package is actually installed.
package pyenv

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pyventory/pyventory/internal/model"
)

// Locator reports whether a module can be located on the import search path.
type Locator func(module string) bool

// DirLocator builds a Locator over site-packages style directories. A module
// is locatable when one of the paths contains <mod>.py, a <mod>/ package
// directory, or a compiled extension named after it.
func DirLocator(searchPaths []string) Locator {
	return func(module string) bool {
		for _, dir := range searchPaths {
			if _, err := os.Stat(filepath.Join(dir, module+".py")); err == nil {
				return true
			}
			if info, err := os.Stat(filepath.Join(dir, module)); err == nil && info.IsDir() {
				return true
			}
			matches, _ := filepath.Glob(filepath.Join(dir, module+".*.so"))
			if len(matches) > 0 {
				return true
			}
		}
		return false
	}
}

// ThirdParty returns the builtin-exclusion predicate used when inferring
// dependencies from import statements: a module counts as third-party when
// it is not in the stdlib set and, if a locator is supplied, the locator can
// find it. The predicate is deliberately pluggable; the locator's search
// path may differ from the target environment's.
func ThirdParty(locator Locator) func(module string) bool {
	return func(module string) bool {
		if IsStdlib(module) {
			return false
		}
		if locator != nil && !locator(module) {
			return false
		}
		return true
	}
}

// InterpreterSearchPaths asks the local python3 for its sys.path. Returns
// nil when no interpreter is available; everything degrades to sentinel
// versions from there.
func InterpreterSearchPaths(ctx context.Context) []string {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "python3", "-c", "import sys\nprint(\"\\n\".join(p for p in sys.path if p))")
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	var paths []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths
}

// Installed is the set of locally installed packages and their versions,
// read from *.dist-info metadata under the search paths.
type Installed struct {
	versions map[string]string // normalized name -> version
}

// ScanInstalled reads dist-info metadata under searchPaths. Unreadable or
// malformed entries are skipped; resolution is strictly best-effort.
func ScanInstalled(searchPaths []string) *Installed {
	in := &Installed{versions: make(map[string]string)}
	for _, dir := range searchPaths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() || !strings.HasSuffix(e.Name(), ".dist-info") {
				continue
			}
			name, version := readMetadata(filepath.Join(dir, e.Name(), "METADATA"))
			if name != "" && version != "" {
				in.versions[normalize(name)] = version
			}
		}
	}
	return in
}

// Version returns the installed version of pkg, if known.
func (in *Installed) Version(pkg string) (string, bool) {
	v, ok := in.versions[normalize(pkg)]
	return v, ok
}

// Resolve maps a declared manifest version for pkg to a concrete version.
// Non-sentinel declared versions win as-is (lowercased for stable keying);
// sentinels ("latest", "python", empty) fall back to the installed version,
// and to the "latest" sentinel when the package is not installed locally.
func Resolve(pkg, declared string, installed *Installed) string {
	v := strings.ToLower(strings.TrimSpace(declared))
	switch v {
	case "", model.VersionLatest, "python":
		if installed != nil {
			if ver, ok := installed.Version(pkg); ok {
				return ver
			}
		}
		return model.VersionLatest
	}
	return v
}

func readMetadata(path string) (name, version string) {
	f, err := os.Open(path)
	if err != nil {
		return "", ""
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		line := s.Text()
		if line == "" {
			break // end of headers
		}
		if v, ok := strings.CutPrefix(line, "Name: "); ok {
			name = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "Version: "); ok {
			version = strings.TrimSpace(v)
		}
		if name != "" && version != "" {
			break
		}
	}
	return name, version
}

// normalize applies PEP 503 name normalization so "My-Pkg" and "my_pkg"
// compare equal.
func normalize(name string) string {
	var b strings.Builder
	prevSep := false
	for _, r := range strings.ToLower(name) {
		if r == '-' || r == '_' || r == '.' {
			if !prevSep {
				b.WriteByte('-')
			}
			prevSep = true
			continue
		}
		prevSep = false
		b.WriteRune(r)
	}
	return b.String()
}
