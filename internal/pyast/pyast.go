// Package pyast wraps tree-sitter parsing of Python sources.
package pyast

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// NewParser creates a fresh Python parser. Parsers are not safe for
// concurrent use; each goroutine needs its own.
func NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return p
}

// Parse parses source and returns the syntax tree. A tree containing syntax
// errors is rejected, matching the all-or-nothing behavior of a real Python
// parser: callers convert the error into a per-file diagnostic rather than
// working on a half-broken tree.
func Parse(source []byte) (*sitter.Tree, error) {
	tree, err := NewParser().ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, err
	}
	root := tree.RootNode()
	if root.HasError() {
		line := firstErrorLine(root)
		tree.Close()
		return nil, fmt.Errorf("invalid syntax at line %d", line)
	}
	return tree, nil
}

func firstErrorLine(node *sitter.Node) int {
	if node.Type() == "ERROR" || node.IsMissing() {
		return Line(node)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if !child.HasError() {
			continue
		}
		return firstErrorLine(child)
	}
	return Line(node)
}

// NodeText returns the source text of a node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// Line returns the 1-based source line a node starts on.
func Line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

// DottedName resolves an identifier or attribute chain to its dotted
// root-to-leaf path ("pd.read_csv"). Chains rooted at anything other than a
// plain identifier (a call result, a subscript) resolve with an empty root
// segment, which callers then fail to match against any import alias.
func DottedName(node *sitter.Node, source []byte) string {
	switch node.Type() {
	case "identifier":
		return NodeText(node, source)
	case "attribute":
		obj := node.ChildByFieldName("object")
		attr := node.ChildByFieldName("attribute")
		if obj == nil || attr == nil {
			return ""
		}
		return DottedName(obj, source) + "." + NodeText(attr, source)
	default:
		return ""
	}
}

// StringLiteral returns the unquoted value of a string node, or false when
// the node is not a plain string constant.
func StringLiteral(node *sitter.Node, source []byte) (string, bool) {
	if node.Type() != "string" {
		return "", false
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "string_content" {
			return NodeText(child, source), true
		}
	}
	// Older grammar revisions expose no string_content child; strip the
	// quotes (and any r/b/f prefix) by hand.
	text := NodeText(node, source)
	start := strings.IndexAny(text, `"'`)
	if start < 0 {
		return "", false
	}
	quote := text[start]
	body := text[start+1:]
	if len(body) >= 4 && body[0] == quote && body[1] == quote {
		body = body[2 : len(body)-3]
	} else if len(body) >= 1 {
		body = body[:len(body)-1]
	}
	return body, true
}

// DecodeLossy returns source unchanged when it is valid UTF-8, otherwise a
// copy with each invalid byte replaced. Mirrors opening a file with a
// permissive decoder after a strict decode fails.
func DecodeLossy(source []byte) []byte {
	if utf8.Valid(source) {
		return source
	}
	return []byte(strings.ToValidUTF8(string(source), string(utf8.RuneError)))
}

// Lines splits source into lines for line-number-to-text lookup.
func Lines(source []byte) []string {
	lines := strings.Split(string(source), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}
