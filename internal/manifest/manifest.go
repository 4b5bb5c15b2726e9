// Package manifest extracts declared and inferred package dependencies from
// a Python project tree. Six manifest formats are recognized; every match of
// every format is parsed (monorepos routinely carry several), and the results
// are concatenated in a fixed discovery order so repeated runs over an
// unchanged tree produce identical output.
package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pyventory/pyventory/internal/discover"
	"github.com/pyventory/pyventory/internal/model"
	"github.com/pyventory/pyventory/internal/pyenv"
)

// CSVName is the dependency report written next to the project root.
const CSVName = "all_dependencies_with_paths.csv"

// ErrNothingToAnalyze is returned when the tree contains neither manifests
// nor Python sources. Distinct from a successful run that found manifests
// with nothing in them.
var ErrNothingToAnalyze = errors.New("nothing to analyze: no manifest or Python files found")

type parseFunc func(absPath, relPath string) ([]model.DependencyRecord, error)

type format struct {
	filename string
	parse    parseFunc
}

// formats lists the recognized manifest types in output order.
var formats = []format{
	{"pyproject.toml", parsePyproject},
	{"poetry.lock", parsePoetryLock},
	{"Pipfile", parsePipfile},
	{"environment.yml", parseEnvironment},
	{"requirements.txt", parseRequirements},
	{"setup.py", parseSetupPy},
}

// Options tune an extraction run. The zero value is usable.
type Options struct {
	// SourceVersion is recorded on dependencies inferred from import
	// statements. Defaults to the "latest" sentinel.
	SourceVersion string

	// IsThirdParty decides whether an imported root module counts as a
	// dependency. Defaults to the stdlib-set check with no locator probe.
	IsThirdParty func(module string) bool

	Logger *slog.Logger
}

// Extract walks projectPath and returns every dependency declared in a
// recognized manifest, followed by every third-party root module imported
// from source. A single unparseable file is logged and skipped; only an
// invalid project path or a tree with nothing to analyze fails the run.
func Extract(projectPath string, opts Options) ([]model.DependencyRecord, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sourceVersion := opts.SourceVersion
	if sourceVersion == "" {
		sourceVersion = model.VersionLatest
	}
	isThirdParty := opts.IsThirdParty
	if isThirdParty == nil {
		isThirdParty = pyenv.ThirdParty(nil)
	}

	tree, err := discover.Load(projectPath)
	if err != nil {
		return nil, err
	}

	var records []model.DependencyRecord
	manifestCount := 0

	for _, f := range formats {
		for _, rel := range tree.Matching(f.filename) {
			manifestCount++
			recs, err := f.parse(tree.Abs(rel), rel)
			if err != nil {
				logger.Warn("skipping manifest", "path", rel, "err", err)
				continue
			}
			records = append(records, recs...)
		}
	}

	pyFiles := tree.PythonFiles()
	if manifestCount == 0 && len(pyFiles) == 0 {
		return nil, ErrNothingToAnalyze
	}

	records = append(records, sourceImports(tree, pyFiles, sourceVersion, isThirdParty, logger)...)

	return records, nil
}

// declaredKeys returns the keys of a decoded TOML table in the order they
// appear in the document, by scanning the lines of the named section. Table
// entries land in Go maps, which iterate in random order; the text scan
// recovers declaration order, and any key the scan misses (exotic quoting,
// dotted inline forms) follows in sorted order so output stays stable.
func declaredKeys(data []byte, section string, m map[string]any) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]struct{}, len(m))
	inSection := false

	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			inSection = strings.Trim(trimmed, "[]") == section
			continue
		}
		if !inSection || trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		name, _, ok := strings.Cut(trimmed, "=")
		if !ok {
			continue
		}
		name = strings.Trim(strings.TrimSpace(name), `"'`)
		if _, exists := m[name]; !exists {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		keys = append(keys, name)
	}

	for _, k := range sortedKeys(m) {
		if _, ok := seen[k]; !ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteCSV writes records to {projectPath}/all_dependencies_with_paths.csv
// and returns the path written.
func WriteCSV(projectPath string, records []model.DependencyRecord) (string, error) {
	csvPath := filepath.Join(projectPath, CSVName)

	f, err := os.Create(csvPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", csvPath, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Source Path", "Package", "Version"}); err != nil {
		f.Close()
		return "", err
	}
	for _, r := range records {
		if err := w.Write([]string{r.SourcePath, r.Package, r.Version}); err != nil {
			f.Close()
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return csvPath, nil
}
