package manifest

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/pyventory/pyventory/internal/model"
)

// parsePyproject reads a pyproject.toml. Three layouts are recognized, in
// preference order: the PEP 621 [project] dependencies list, the
// [tool.poetry] dependencies table, and a bare top-level dependencies list
// (seen in some pre-standard projects). Presence of the section wins, even
// when it is empty.
func parsePyproject(absPath, relPath string) ([]model.DependencyRecord, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	var records []model.DependencyRecord

	if project, ok := doc["project"].(map[string]any); ok {
		if deps, found := project["dependencies"]; found {
			for _, dep := range asStrings(deps) {
				pkg, version := SplitSpec(dep)
				records = append(records, model.DependencyRecord{SourcePath: relPath, Package: pkg, Version: version})
			}
			return records, nil
		}
	}

	if tool, ok := doc["tool"].(map[string]any); ok {
		if poetry, ok := tool["poetry"].(map[string]any); ok {
			deps, _ := poetry["dependencies"].(map[string]any)
			for _, name := range declaredKeys(data, "tool.poetry.dependencies", deps) {
				version := "unspecified"
				switch detail := deps[name].(type) {
				case string:
					version = detail
				case map[string]any:
					if v, ok := detail["version"].(string); ok {
						version = v
					}
				}
				records = append(records, model.DependencyRecord{SourcePath: relPath, Package: name, Version: version})
			}
			return records, nil
		}
	}

	if deps, found := doc["dependencies"]; found {
		for _, dep := range asStrings(deps) {
			pkg, version := SplitSpec(dep)
			records = append(records, model.DependencyRecord{SourcePath: relPath, Package: pkg, Version: version})
		}
	}

	return records, nil
}

func asStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
