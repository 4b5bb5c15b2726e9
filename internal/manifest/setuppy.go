package manifest

import (
	"os"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/pyventory/pyventory/internal/model"
	"github.com/pyventory/pyventory/internal/pyast"
)

// parseSetupPy parses a legacy setup.py as a syntax tree, finds the call to
// setup(...), and pulls the string constants out of its install_requires
// keyword. Computed or concatenated entries are invisible to a static read
// and are skipped.
func parseSetupPy(absPath, relPath string) ([]model.DependencyRecord, error) {
	src, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	src = pyast.DecodeLossy(src)

	tree, err := pyast.Parse(src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var records []model.DependencyRecord
	for _, spec := range installRequires(tree.RootNode(), src) {
		pkg, version := SplitSpec(spec)
		records = append(records, model.DependencyRecord{SourcePath: relPath, Package: pkg, Version: version})
	}
	return records, nil
}

func installRequires(node *sitter.Node, src []byte) []string {
	var specs []string
	if node.Type() == "call" {
		fn := node.ChildByFieldName("function")
		if fn != nil && fn.Type() == "identifier" && pyast.NodeText(fn, src) == "setup" {
			specs = append(specs, setupCallRequires(node, src)...)
		}
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		specs = append(specs, installRequires(node.NamedChild(i), src)...)
	}
	return specs
}

func setupCallRequires(call *sitter.Node, src []byte) []string {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}

	var specs []string
	for i := 0; i < int(args.NamedChildCount()); i++ {
		kw := args.NamedChild(i)
		if kw.Type() != "keyword_argument" {
			continue
		}
		name := kw.ChildByFieldName("name")
		value := kw.ChildByFieldName("value")
		if name == nil || value == nil || pyast.NodeText(name, src) != "install_requires" {
			continue
		}
		if value.Type() != "list" {
			continue
		}
		for j := 0; j < int(value.NamedChildCount()); j++ {
			if s, ok := pyast.StringLiteral(value.NamedChild(j), src); ok {
				specs = append(specs, s)
			}
		}
	}
	return specs
}
