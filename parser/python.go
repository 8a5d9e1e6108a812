package parser

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

type PythonParser struct {
	BaseParser
}

func NewPythonParser() (*PythonParser, error) {
	parser := sitter.NewParser()
	language := python.GetLanguage()
	parser.SetLanguage(language)

	return &PythonParser{
		BaseParser: BaseParser{
			parser:   parser,
			language: language,
			langName: "python",
		},
	}, nil
}

func (p *PythonParser) Close() {
}

func (p *PythonParser) ParseFile(filePath string) (*ParseResult, error) {
	return p.ParseFileGeneric(filePath)
}

func (p *PythonParser) ParseSource(source []byte) (*ParseResult, error) {
	return p.ParseSourceGeneric(source)
}

// ExtractFunctions collects every function definition in the parse tree,
// including nested ones, in source order.
func (p *PythonParser) ExtractFunctions(result *ParseResult) ([]FunctionUnit, error) {
	if result == nil || result.Tree == nil {
		return nil, fmt.Errorf("nothing to extract: empty parse result")
	}

	lines := strings.Split(string(result.Source), "\n")
	var functions []FunctionUnit

	WalkAST(result.Tree.RootNode(), result.Source, func(n *sitter.Node) {
		if n.Type() != "function_definition" {
			return
		}

		name := ""
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child.Type() == "identifier" {
				name = NodeText(child, result.Source)
				break
			}
		}
		if name == "" {
			return
		}

		startLine := int(n.StartPoint().Row) + 1
		endLine := int(n.EndPoint().Row) + 1
		if endLine > len(lines) {
			endLine = len(lines)
		}

		functions = append(functions, FunctionUnit{
			Name:       name,
			FilePath:   result.FilePath,
			StartLine:  startLine,
			EndLine:    endLine,
			Source:     strings.Join(lines[startLine-1:endLine], "\n"),
			FileSource: result.Source,
			Node:       n,
		})
	})

	return functions, nil
}
