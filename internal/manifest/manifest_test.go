package manifest

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pyventory/pyventory/internal/model"
	"github.com/pyventory/pyventory/internal/pyenv"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// thirdParty treats exactly the named modules as third-party.
func thirdParty(names ...string) func(string) bool {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(module string) bool {
		_, ok := set[module]
		return ok
	}
}

func TestExtractManifestsThenImports(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"requirements.txt": "flask==2.0.1\nrequests\n",
		"app/main.py":      "import requests\nimport os\nimport requests.adapters\nfrom . import util\n",
	})

	records, err := Extract(dir, Options{IsThirdParty: thirdParty("requests")})
	require.NoError(t, err)

	require.Equal(t, []model.DependencyRecord{
		{SourcePath: "requirements.txt", Package: "flask", Version: "==2.0.1"},
		{SourcePath: "requirements.txt", Package: "requests", Version: "latest"},
		{SourcePath: filepath.Join("app", "main.py"), Package: "requests", Version: "latest"},
	}, records)
}

func TestExtractMultipleManifestsInFixedOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"requirements.txt": "requests\n",
		"pyproject.toml":   "[project]\nname = \"demo\"\ndependencies = [\"flask\"]\n",
		"svc/Pipfile":      "[packages]\nclick = \"*\"\n",
	})

	records, err := Extract(dir, Options{IsThirdParty: thirdParty()})
	require.NoError(t, err)

	// pyproject.toml before Pipfile before requirements.txt, regardless of
	// where they sit in the tree.
	require.Equal(t, []model.DependencyRecord{
		{SourcePath: "pyproject.toml", Package: "flask", Version: "latest"},
		{SourcePath: filepath.Join("svc", "Pipfile"), Package: "click", Version: "*"},
		{SourcePath: "requirements.txt", Package: "requests", Version: "latest"},
	}, records)
}

func TestExtractIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"pyproject.toml": "[tool.poetry.dependencies]\nb = \"2\"\na = \"1\"\nc = \"3\"\n",
		"main.py":        "import numpy\nimport numpy\n",
	})

	first, err := Extract(dir, Options{IsThirdParty: thirdParty("numpy")})
	require.NoError(t, err)
	second, err := Extract(dir, Options{IsThirdParty: thirdParty("numpy")})
	require.NoError(t, err)

	require.Equal(t, first, second)

	// Table entries keep declaration order; duplicate imports of the same
	// module collapse to one record.
	require.Equal(t, []model.DependencyRecord{
		{SourcePath: "pyproject.toml", Package: "b", Version: "2"},
		{SourcePath: "pyproject.toml", Package: "a", Version: "1"},
		{SourcePath: "pyproject.toml", Package: "c", Version: "3"},
		{SourcePath: "main.py", Package: "numpy", Version: "latest"},
	}, first)
}

func TestDeclaredKeys(t *testing.T) {
	t.Parallel()

	data := []byte(`
[other]
skipme = "1"

[packages]
zebra = "*"
# comment
"dotted.name" = "2.0"
alpha = { version = "1" }

[dev-packages]
later = "3"
`)
	m := map[string]any{
		"zebra":       "*",
		"dotted.name": "2.0",
		"alpha":       map[string]any{"version": "1"},
		"phantom":     "not in the text",
	}

	require.Equal(t, []string{"zebra", "dotted.name", "alpha", "phantom"},
		declaredKeys(data, "packages", m))
}

func TestExtractNothingToAnalyze(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"readme.txt": "nothing here"})

	_, err := Extract(dir, Options{})
	require.ErrorIs(t, err, ErrNothingToAnalyze)
}

func TestExtractInvalidPath(t *testing.T) {
	t.Parallel()

	_, err := Extract(filepath.Join(t.TempDir(), "nope"), Options{})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNothingToAnalyze)
}

func TestExtractSkipsBrokenManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"pyproject.toml":   "[project\n",
		"requirements.txt": "requests\n",
	})

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	records, err := Extract(dir, Options{IsThirdParty: thirdParty(), Logger: logger})
	require.NoError(t, err)
	require.Equal(t, []model.DependencyRecord{
		{SourcePath: "requirements.txt", Package: "requests", Version: "latest"},
	}, records)
	require.Contains(t, buf.String(), "skipping manifest")
	require.Contains(t, buf.String(), "pyproject.toml")
}

func TestExtractLocatorProbe(t *testing.T) {
	t.Parallel()

	site := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(site, "requests"), 0o755))

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"main.py": "import requests\nimport mylocalpkg\nimport os\n",
	})

	records, err := Extract(dir, Options{
		IsThirdParty: pyenv.ThirdParty(pyenv.DirLocator([]string{site})),
	})
	require.NoError(t, err)

	// mylocalpkg is not stdlib but the probe cannot locate it either.
	require.Equal(t, []model.DependencyRecord{
		{SourcePath: "main.py", Package: "requests", Version: "latest"},
	}, records)
}

func TestExtractSourceVersionOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"main.py": "import pandas\n"})

	records, err := Extract(dir, Options{
		SourceVersion: "unknown",
		IsThirdParty:  thirdParty("pandas"),
	})
	require.NoError(t, err)
	require.Equal(t, []model.DependencyRecord{
		{SourcePath: "main.py", Package: "pandas", Version: "unknown"},
	}, records)
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	records := []model.DependencyRecord{
		{SourcePath: "requirements.txt", Package: "flask", Version: "==2.0.1"},
		{SourcePath: "main.py", Package: "requests", Version: "latest"},
	}

	csvPath, err := WriteCSV(dir, records)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, CSVName), csvPath)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	require.Equal(t,
		"Source Path,Package,Version\n"+
			"requirements.txt,flask,==2.0.1\n"+
			"main.py,requests,latest\n",
		string(data))
}

func TestWriteCSVEmpty(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	csvPath, err := WriteCSV(dir, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	require.Equal(t, "Source Path,Package,Version\n", string(data))
}
