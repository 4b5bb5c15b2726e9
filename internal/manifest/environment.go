package manifest

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pyventory/pyventory/internal/model"
)

type condaEnv struct {
	Dependencies []any `yaml:"dependencies"`
}

// parseEnvironment reads a conda environment.yml. The dependencies list
// mixes plain specifier strings with a nested "pip:" sub-list; an entry
// pinning the interpreter additionally yields a synthetic "python"
// dependency. The interpreter entry is intentionally recorded twice (once
// synthetic, once as a plain entry), matching the append-only contract.
func parseEnvironment(absPath, relPath string) ([]model.DependencyRecord, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}

	var env condaEnv
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	var records []model.DependencyRecord

	for _, item := range env.Dependencies {
		if s, ok := item.(string); ok && strings.HasPrefix(s, "python") {
			_, version := SplitSpec(s)
			records = append(records, model.DependencyRecord{SourcePath: relPath, Package: "python", Version: version})
		}
	}

	for _, item := range env.Dependencies {
		switch dep := item.(type) {
		case string:
			pkg, version := SplitSpec(dep)
			records = append(records, model.DependencyRecord{SourcePath: relPath, Package: pkg, Version: version})
		case map[string]any:
			pips, _ := dep["pip"].([]any)
			for _, p := range pips {
				if s, ok := p.(string); ok {
					pkg, version := SplitSpec(s)
					records = append(records, model.DependencyRecord{SourcePath: relPath, Package: pkg, Version: version})
				}
			}
		}
	}

	return records, nil
}
