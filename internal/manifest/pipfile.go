package manifest

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/pyventory/pyventory/internal/model"
)

type pipfileDoc struct {
	Requires struct {
		PythonVersion string `toml:"python_version"`
	} `toml:"requires"`
	Packages    map[string]any `toml:"packages"`
	DevPackages map[string]any `toml:"dev-packages"`
}

// parsePipfile reads a Pipfile. The python_version requirement becomes a
// synthetic "python" dependency, then the runtime and dev sections are
// flattened. A table value stands in for its "version" key; the combined
// "name version" string goes through the splitter like any other specifier.
func parsePipfile(absPath, relPath string) ([]model.DependencyRecord, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}

	var doc pipfileDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	var records []model.DependencyRecord

	if doc.Requires.PythonVersion != "" {
		records = append(records, model.DependencyRecord{SourcePath: relPath, Package: "python", Version: doc.Requires.PythonVersion})
	}

	sections := []struct {
		header string
		table  map[string]any
	}{
		{"packages", doc.Packages},
		{"dev-packages", doc.DevPackages},
	}
	for _, section := range sections {
		for _, name := range declaredKeys(data, section.header, section.table) {
			version := ""
			switch detail := section.table[name].(type) {
			case string:
				version = detail
			case map[string]any:
				if v, ok := detail["version"].(string); ok {
					version = v
				}
			}
			pkg, ver := SplitSpec(name + " " + version)
			records = append(records, model.DependencyRecord{SourcePath: relPath, Package: pkg, Version: ver})
		}
	}

	return records, nil
}
