package manifest

import (
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/pyventory/pyventory/internal/discover"
	"github.com/pyventory/pyventory/internal/model"
)

// importLine matches a top-level "import X" or "from X import ..." line.
// A line-based regex deliberately over-matches indented imports inside
// functions; those are dependencies all the same.
var importLine = regexp.MustCompile(`^\s*(?:import|from)\s+([\w.]+)`)

// sourceImports infers dependencies directly from import statements in the
// project's Python files. Only the root module name matters; stdlib and
// unlocatable modules are dropped by the predicate, and repeats of the same
// (file, module, version) triple are collapsed in first-seen order.
func sourceImports(tree *discover.Tree, pyFiles []string, version string, isThirdParty func(string) bool, logger *slog.Logger) []model.DependencyRecord {
	seen := make(map[model.DependencyRecord]struct{})
	var records []model.DependencyRecord

	for _, rel := range pyFiles {
		data, err := os.ReadFile(tree.Abs(rel))
		if err != nil {
			logger.Warn("skipping source file", "path", rel, "err", err)
			continue
		}
		for _, line := range strings.Split(string(data), "\n") {
			m := importLine.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			root, _, _ := strings.Cut(m[1], ".")
			if root == "" { // relative import
				continue
			}
			if !isThirdParty(root) {
				continue
			}
			rec := model.DependencyRecord{SourcePath: rel, Package: root, Version: version}
			if _, dup := seen[rec]; dup {
				continue
			}
			seen[rec] = struct{}{}
			records = append(records, rec)
		}
	}

	return records
}
