package trace

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexaandru/go-sitter-forest/python"
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Sentinel errors for import extraction.
var (
	errNoRootNode = errors.New("import parser: no root node")
)

// ImportRef is a single import reference found in a source file.
// Level is the number of leading dots for relative imports
// (0 for absolute imports, 1 for "from . import x", and so on).
type ImportRef struct {
	Module string
	Level  int
}

// ImportParser extracts import references from Python source using the
// tree-sitter grammar. Parsing is purely syntactic; the source is never
// executed, so it is safe to run on untrusted or broken code.
type ImportParser struct {
	parser *sitter.Parser
}

// NewImportParser creates a parser bound to the Python grammar.
func NewImportParser() *ImportParser {
	parser := sitter.NewParser()
	parser.SetLanguage(sitter.NewLanguage(python.GetLanguage()))

	return &ImportParser{parser: parser}
}

// Extract parses the given source and returns the import references in
// source order. Duplicate references within one file are collapsed.
func (p *ImportParser) Extract(source []byte) ([]ImportRef, error) {
	tree, err := p.parser.ParseString(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse source: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, errNoRootNode
	}

	var refs []ImportRef

	seen := map[ImportRef]bool{}
	add := func(ref ImportRef) {
		if ref.Module == "" && ref.Level == 0 {
			return
		}

		if !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}

	collectImports(root, source, add)

	return refs, nil
}

// collectImports walks the tree and feeds every import reference to add.
// Import statements only occur at statement level, but walking the full
// tree also catches imports nested in functions and conditionals.
func collectImports(node sitter.Node, source []byte, add func(ImportRef)) {
	switch node.Type() {
	case "import_statement":
		collectPlainImport(node, source, add)
	case "import_from_statement":
		collectFromImport(node, source, add)
	}

	for i := range node.NamedChildCount() {
		collectImports(node.NamedChild(i), source, add)
	}
}

// collectPlainImport handles "import a.b, c as d".
func collectPlainImport(node sitter.Node, source []byte, add func(ImportRef)) {
	for i := range node.NamedChildCount() {
		child := node.NamedChild(i)

		name := importedName(child, source)
		if name != "" {
			add(ImportRef{Module: name})
		}
	}
}

// collectFromImport handles "from X import a, b as c" including relative
// forms like "from ..pkg import x". For each imported name the most
// specific reference ("X.a") is emitted, plus the base module itself, which
// mirrors how Python resolves submodule imports.
func collectFromImport(node sitter.Node, source []byte, add func(ImportRef)) {
	moduleNode := node.ChildByFieldName("module_name")
	if moduleNode.IsNull() {
		return
	}

	raw := nodeText(moduleNode, source)
	level := countLeadingDots(raw)
	module := raw[level:]

	for i := range node.NamedChildCount() {
		child := node.NamedChild(i)
		if child.StartByte() == moduleNode.StartByte() {
			continue
		}

		if child.Type() == "wildcard_import" {
			continue
		}

		name := importedName(child, source)
		if name == "" {
			continue
		}

		full := name
		if module != "" {
			full = module + "." + name
		}

		add(ImportRef{Module: full, Level: level})
	}

	if module != "" {
		add(ImportRef{Module: module, Level: level})
	}
}

// importedName returns the dotted name of a dotted_name or aliased_import
// node, or "" for anything else.
func importedName(node sitter.Node, source []byte) string {
	switch node.Type() {
	case "dotted_name":
		return nodeText(node, source)
	case "aliased_import":
		name := node.ChildByFieldName("name")
		if name.IsNull() {
			return ""
		}

		return nodeText(name, source)
	}

	return ""
}

func nodeText(node sitter.Node, source []byte) string {
	start, end := node.StartByte(), node.EndByte()
	if end > uint(len(source)) {
		return ""
	}

	return string(source[start:end])
}

func countLeadingDots(s string) int {
	return len(s) - len(strings.TrimLeft(s, "."))
}
