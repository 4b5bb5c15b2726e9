package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		pkg     string
		version string
	}{
		{"pinned", "flask==2.0.1", "flask", "==2.0.1"},
		{"bare name", "requests", "requests", "latest"},
		{"url ref", "pkg @ git+https://example.com/pkg.git", "pkg", "@ git+https://example.com/pkg.git"},
		{"extras stripped", "uvicorn[standard]==0.22", "uvicorn", "==0.22"},
		{"range keeps first bound", "numpy>=1.21,<2", "numpy", ">=1.21"},
		{"compatible release", "django~=4.2", "django", "~=4.2"},
		{"marker stripped", `pytest; python_version < "3.8"`, "pytest", "latest"},
		{"surrounding whitespace", "  flask == 2.0 ", "flask", "==2.0"},
		{"operator without version", "name==", "name", "=="},
		{"wildcard version", "requests *", "requests", "*"},
		{"dotted dashed name", "zope.interface-ext", "zope.interface-ext", "latest"},
		{"conda single equals", "python=3.10", "python", "latest"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pkg, version := SplitSpec(tt.raw)
			require.Equal(t, tt.pkg, pkg)
			require.Equal(t, tt.version, version)
		})
	}
}
