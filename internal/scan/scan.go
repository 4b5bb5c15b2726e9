// Package scan walks Python sources and reports every import together with
// the call and attribute-access sites that actually use it.
package scan

import (
	"errors"
	"log/slog"
	"os"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/pyventory/pyventory/internal/discover"
	"github.com/pyventory/pyventory/internal/model"
	"github.com/pyventory/pyventory/internal/pyast"
)

// ErrNoSources is returned when the project contains no Python files at all.
var ErrNoSources = errors.New("no Python files found to analyze")

// Project scans every Python file under projectPath and returns the ordered
// record stream: per file, each import followed by its usages. A file that
// cannot be read or parsed contributes a single Error record and never
// stops the scan.
func Project(projectPath string, logger *slog.Logger) ([]model.ImportRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tree, err := discover.Load(projectPath)
	if err != nil {
		return nil, err
	}

	pyFiles := tree.PythonFiles()
	if len(pyFiles) == 0 {
		return nil, ErrNoSources
	}

	var records []model.ImportRecord
	for _, rel := range pyFiles {
		src, err := os.ReadFile(tree.Abs(rel))
		if err != nil {
			logger.Warn("unreadable source file", "path", rel, "err", err)
			records = append(records, errorRecord(rel, err))
			continue
		}
		records = append(records, File(rel, src)...)
	}

	return records, nil
}

func errorRecord(path string, err error) model.ImportRecord {
	return model.ImportRecord{File: path, Kind: model.Error, Symbol: err.Error(), Line: model.ErrorLine}
}

type importInfo struct {
	symbol string
	alias  string
	line   int
	code   string
}

type usageInfo struct {
	symbol string
	line   int
	code   string
}

// File scans one source buffer. Invalid UTF-8 is re-decoded lossily before
// parsing; a syntax error yields one Error record for the file.
func File(path string, source []byte) []model.ImportRecord {
	source = pyast.DecodeLossy(source)

	tree, err := pyast.Parse(source)
	if err != nil {
		return []model.ImportRecord{errorRecord(path, err)}
	}
	defer tree.Close()

	lines := pyast.Lines(source)
	var imports []importInfo
	var usages []usageInfo

	collect(tree.RootNode(), source, lines, &imports, &usages)

	// One record per alias. A rebinding of the same alias keeps the first
	// import's position in the stream but reports the newest symbol, the
	// same way an alias lookup table would resolve it.
	order := make([]string, 0, len(imports))
	byAlias := make(map[string]importInfo, len(imports))
	for _, imp := range imports {
		if _, ok := byAlias[imp.alias]; !ok {
			order = append(order, imp.alias)
		}
		byAlias[imp.alias] = imp
	}

	usagesByAlias := make(map[string][]usageInfo)
	for _, u := range usages {
		root, _, _ := strings.Cut(u.symbol, ".")
		if _, ok := byAlias[root]; ok {
			usagesByAlias[root] = append(usagesByAlias[root], u)
		}
	}

	var records []model.ImportRecord
	for _, alias := range order {
		imp := byAlias[alias]
		records = append(records, model.ImportRecord{
			File: path, Kind: model.Import, Symbol: imp.symbol, Alias: alias, Line: imp.line, Code: imp.code,
		})
		us := usagesByAlias[alias]
		sort.SliceStable(us, func(i, j int) bool { return us[i].line < us[j].line })
		for _, u := range us {
			records = append(records, model.ImportRecord{
				File: path, Kind: model.Usage, Symbol: u.symbol, Alias: alias, Line: u.line, Code: u.code,
			})
		}
	}

	return records
}

// collect walks the tree once, in document order, switching over the closed
// set of node kinds the scanner cares about. Call sites on a dotted chain
// are recorded twice, once by the call rule and once by the attribute rule
// underneath it; downstream consumers rely on seeing both.
func collect(node *sitter.Node, src []byte, lines []string, imports *[]importInfo, usages *[]usageInfo) {
	switch node.Type() {
	case "import_statement":
		collectImport(node, src, lines, imports)
	case "import_from_statement":
		collectImportFrom(node, src, lines, imports)
	case "call":
		if fn := node.ChildByFieldName("function"); fn != nil {
			if full := pyast.DottedName(fn, src); full != "" {
				*usages = append(*usages, usageInfo{symbol: full, line: pyast.Line(node), code: lineAt(lines, node)})
			}
		}
	case "attribute":
		if identifierRooted(node) {
			*usages = append(*usages, usageInfo{symbol: pyast.DottedName(node, src), line: pyast.Line(node), code: lineAt(lines, node)})
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		collect(node.NamedChild(i), src, lines, imports, usages)
	}
}

func collectImport(stmt *sitter.Node, src []byte, lines []string, imports *[]importInfo) {
	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		switch child.Type() {
		case "dotted_name":
			name := pyast.NodeText(child, src)
			*imports = append(*imports, importInfo{symbol: name, alias: name, line: pyast.Line(stmt), code: lineAt(lines, stmt)})
		case "aliased_import":
			name := fieldText(child, "name", src)
			alias := fieldText(child, "alias", src)
			if alias == "" {
				alias = name
			}
			*imports = append(*imports, importInfo{symbol: name, alias: alias, line: pyast.Line(stmt), code: lineAt(lines, stmt)})
		}
	}
}

func collectImportFrom(stmt *sitter.Node, src []byte, lines []string, imports *[]importInfo) {
	moduleNode := stmt.ChildByFieldName("module_name")
	module := ""
	if moduleNode != nil {
		module = pyast.NodeText(moduleNode, src)
	}

	for i := 0; i < int(stmt.NamedChildCount()); i++ {
		child := stmt.NamedChild(i)
		if moduleNode != nil && child.Equal(moduleNode) {
			continue
		}
		var name, alias string
		switch child.Type() {
		case "dotted_name":
			name = pyast.NodeText(child, src)
			alias = name
		case "aliased_import":
			name = fieldText(child, "name", src)
			alias = fieldText(child, "alias", src)
			if alias == "" {
				alias = name
			}
		case "wildcard_import":
			name = "*"
			alias = "*"
		default:
			continue
		}
		symbol := name
		if module != "" {
			symbol = module + "." + name
		}
		*imports = append(*imports, importInfo{symbol: symbol, alias: alias, line: pyast.Line(stmt), code: lineAt(lines, stmt)})
	}
}

// identifierRooted reports whether an attribute chain bottoms out at a plain
// identifier, as opposed to a call result or subscript.
func identifierRooted(attr *sitter.Node) bool {
	current := attr
	for current.Type() == "attribute" {
		obj := current.ChildByFieldName("object")
		if obj == nil {
			return false
		}
		current = obj
	}
	return current.Type() == "identifier"
}

func fieldText(node *sitter.Node, field string, src []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return pyast.NodeText(child, src)
}

func lineAt(lines []string, node *sitter.Node) string {
	line := pyast.Line(node)
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}
