package manifest

import (
	"regexp"
	"strings"

	"github.com/pyventory/pyventory/internal/model"
)

// specPattern matches "name[extras]? operator? version?". Extras are thrown
// away; name may contain dots and dashes, version digits, letters, dots and
// wildcards.
var specPattern = regexp.MustCompile(`^([\w.-]+)(?:\[[^\]]+\])?\s*(==|>=|<=|>|<|~=)?\s*([\w.*]+)?`)

// SplitSpec normalizes a raw dependency specifier into (package, version).
//
//	"flask==2.0.1"        -> ("flask", "==2.0.1")
//	"requests"            -> ("requests", "latest")
//	"pkg @ git+https://x" -> ("pkg", "@ git+https://x")
//
// Environment markers after ";" are stripped first. Anything the pattern
// cannot make sense of comes back whole, with the "latest" sentinel.
func SplitSpec(raw string) (pkg, version string) {
	dep := strings.TrimSpace(raw)

	if i := strings.Index(dep, ";"); i >= 0 {
		dep = strings.TrimSpace(dep[:i])
	}

	if strings.Contains(dep, "@") {
		name, ref, _ := strings.Cut(dep, "@")
		return strings.TrimSpace(name), "@ " + strings.TrimSpace(ref)
	}

	m := specPattern.FindStringSubmatch(dep)
	if m != nil {
		v := strings.TrimSpace(m[2] + m[3])
		if v == "" {
			v = model.VersionLatest
		}
		return m[1], v
	}

	return dep, model.VersionLatest
}
