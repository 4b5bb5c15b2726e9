package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pyventory/pyventory/internal/model"
	"github.com/pyventory/pyventory/internal/pyenv"
)

func TestGroup(t *testing.T) {
	t.Parallel()

	records := []model.ImportRecord{
		{File: "a.py", Kind: model.Import, Symbol: "pandas", Alias: "pd", Line: 1},
		{File: "a.py", Kind: model.Usage, Symbol: "pd.read_csv", Alias: "pd", Line: 3},
		{File: "a.py", Kind: model.Usage, Symbol: "pd.read_csv", Alias: "pd", Line: 3},
		{File: "bad.py", Kind: model.Error, Symbol: "invalid syntax at line 1", Line: model.ErrorLine},
		{File: "b.py", Kind: model.Import, Symbol: "os", Alias: "os", Line: 1},
	}

	blocks := Group(records)

	require.Len(t, blocks, 2)
	require.Equal(t, "pandas", blocks[0].Import.Symbol)
	require.Len(t, blocks[0].Usages, 2)
	require.Equal(t, "os", blocks[1].Import.Symbol)
	require.Empty(t, blocks[1].Usages)
}

func TestGroupEmpty(t *testing.T) {
	t.Parallel()

	require.Empty(t, Group(nil))
	require.Empty(t, Group([]model.ImportRecord{
		{File: "bad.py", Kind: model.Error, Symbol: "unreadable", Line: model.ErrorLine},
	}))
}

func TestLoadVersions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "all_dependencies_with_paths.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"Source Path,Package,Version\n"+
			"requirements.txt,flask,==2.0.1\n"+
			"main.py,requests,latest\n"), 0o644))

	versions, err := LoadVersions(csvPath, nil)
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"flask":    "==2.0.1",
		"requests": "latest",
	}, versions)
}

func TestLoadVersionsWithInstalled(t *testing.T) {
	t.Parallel()

	site := t.TempDir()
	distInfo := filepath.Join(site, "requests-2.31.0.dist-info")
	require.NoError(t, os.MkdirAll(distInfo, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(distInfo, "METADATA"),
		[]byte("Name: requests\nVersion: 2.31.0\n"), 0o644))

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "deps.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"Source Path,Package,Version\n"+
			"main.py,requests,latest\n"), 0o644))

	versions, err := LoadVersions(csvPath, pyenv.ScanInstalled([]string{site}))
	require.NoError(t, err)
	require.Equal(t, map[string]string{"requests": "2.31.0"}, versions)
}

func TestLoadVersionsMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadVersions(filepath.Join(t.TempDir(), "nope.csv"), nil)
	require.Error(t, err)
}

func TestWrite(t *testing.T) {
	t.Parallel()

	records := []model.ImportRecord{
		{File: "app/main.py", Kind: model.Import, Symbol: "pandas", Alias: "pd", Line: 1, Code: "import pandas as pd"},
		{File: "app/main.py", Kind: model.Usage, Symbol: "pd.read_csv", Alias: "pd", Line: 3, Code: `df = pd.read_csv("x")`},
		{File: "app/main.py", Kind: model.Import, Symbol: "mystery", Alias: "mystery", Line: 2, Code: "import mystery"},
	}
	versions := map[string]string{"pandas": "2.0.1"}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records, versions))
	out := buf.String()

	require.Contains(t, out, "SCA Report")
	require.Contains(t, out, "1. pandas (version: 2.0.1)")
	require.Contains(t, out, "2. mystery (version: unknown)")
	require.Contains(t, out, "app/main.py")
	require.Contains(t, out, "pd.read_csv")
	require.Contains(t, out, "import pandas as pd")
}

func TestWriteSummaryOrdersByUsageCount(t *testing.T) {
	t.Parallel()

	records := []model.ImportRecord{
		{File: "a.py", Kind: model.Import, Symbol: "os", Alias: "os", Line: 1, Code: "import os"},
		{File: "a.py", Kind: model.Import, Symbol: "pandas", Alias: "pd", Line: 2, Code: "import pandas as pd"},
		{File: "a.py", Kind: model.Usage, Symbol: "pd.read_csv", Alias: "pd", Line: 4, Code: "pd.read_csv()"},
		{File: "a.py", Kind: model.Usage, Symbol: "pd.read_csv", Alias: "pd", Line: 4, Code: "pd.read_csv()"},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records, nil))
	out := buf.String()

	// pandas (2 usages) before os (0) in the summary.
	require.Less(t, lastIndex(out, "pandas"), lastIndex(out, "| os"))
}

func lastIndex(s, sub string) int {
	return bytes.LastIndex([]byte(s), []byte(sub))
}
