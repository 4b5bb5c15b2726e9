package manifest

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/pyventory/pyventory/internal/model"
)

type poetryLock struct {
	Packages []struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

// parsePoetryLock reads a poetry.lock. Lock entries are already fully
// resolved, so names and versions are taken verbatim.
func parsePoetryLock(absPath, relPath string) ([]model.DependencyRecord, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}

	var lock poetryLock
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, err
	}

	var records []model.DependencyRecord
	for _, pkg := range lock.Packages {
		version := pkg.Version
		if version == "" {
			version = model.VersionLatest
		}
		records = append(records, model.DependencyRecord{SourcePath: relPath, Package: pkg.Name, Version: version})
	}
	return records, nil
}
