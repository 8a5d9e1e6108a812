package detect

import (
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/hannajonsd/npd-analysis/parser"
)

// ExtractCandidates walks one function body and tags statements as
// NullBinding or MemberAccess candidates. Classification is purely
// syntactic: no guard evaluation, no type inference. The result is
// deterministic for a given function and ordered by line.
func ExtractCandidates(fn parser.FunctionUnit) ([]Candidate, error) {
	if fn.Node == nil {
		return nil, fmt.Errorf("function %s has no syntax tree", fn.Name)
	}

	lines := strings.Split(string(fn.FileSource), "\n")
	seen := make(map[string]bool)
	var candidates []Candidate

	add := func(kind CandidateKind, variable string, line int) {
		key := fmt.Sprintf("%d|%s|%s", line, kind, variable)
		if seen[key] {
			return
		}
		seen[key] = true
		candidates = append(candidates, Candidate{
			Kind:      kind,
			Variable:  variable,
			Line:      line,
			Statement: statementText(lines, line),
		})
	}

	parser.WalkAST(fn.Node, fn.FileSource, func(n *sitter.Node) {
		switch n.Type() {
		case "assignment":
			if variable, line, ok := nullAssignment(n, fn.FileSource); ok {
				add(NullBinding, variable, line)
			}
		case "attribute":
			if variable, line, ok := accessedObject(n, fn.FileSource); ok {
				add(MemberAccess, variable, line)
			}
		}
	})

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Line != candidates[j].Line {
			return candidates[i].Line < candidates[j].Line
		}
		if candidates[i].Kind != candidates[j].Kind {
			return candidates[i].Kind < candidates[j].Kind
		}
		return candidates[i].Variable < candidates[j].Variable
	})

	return candidates, nil
}

// nullAssignment matches `x = None`: an assignment node with an identifier
// target and a `none` literal among its children.
func nullAssignment(node *sitter.Node, source []byte) (string, int, bool) {
	var varNode *sitter.Node
	hasNone := false

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "none":
			hasNone = true
		case "identifier":
			if varNode == nil {
				varNode = child
			}
		}
	}

	if !hasNone || varNode == nil {
		return "", 0, false
	}
	return parser.NodeText(varNode, source), int(varNode.StartPoint().Row) + 1, true
}

// accessedObject returns the identifier an attribute node reads from.
func accessedObject(node *sitter.Node, source []byte) (string, int, bool) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" {
			return parser.NodeText(child, source), int(child.StartPoint().Row) + 1, true
		}
	}
	return "", 0, false
}

func statementText(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[line-1])
}
