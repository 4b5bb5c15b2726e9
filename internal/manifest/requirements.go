package manifest

import (
	"bufio"
	"os"
	"strings"

	"github.com/pyventory/pyventory/internal/model"
)

// parseRequirements reads a requirements.txt: one specifier per line, blank
// lines and # comments skipped.
func parseRequirements(absPath, relPath string) ([]model.DependencyRecord, error) {
	f, err := os.Open(absPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []model.DependencyRecord

	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pkg, version := SplitSpec(line)
		records = append(records, model.DependencyRecord{SourcePath: relPath, Package: pkg, Version: version})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
