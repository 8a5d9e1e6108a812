package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// CreateParser creates the appropriate parser based on file extension
func CreateParser(filePath string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".py":
		return NewPythonParser()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

// Supported reports whether a file can be handled by one of the parsers
func Supported(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".py":
		return true
	default:
		return false
	}
}

// WalkAST recursively traverses an AST and applies a visitor function to each node
func WalkAST(node *sitter.Node, source []byte, visitor func(*sitter.Node)) {
	visitor(node)

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		WalkAST(child, source, visitor)
	}
}

// NodeText returns the source text covered by a node
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// ParseFileGeneric provides common file parsing functionality for all language parsers
func (bp *BaseParser) ParseFileGeneric(filePath string) (*ParseResult, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	result, err := bp.ParseSourceGeneric(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", filePath, err)
	}
	result.FilePath = filePath

	return result, nil
}

// ParseSourceGeneric parses in-memory source text
func (bp *BaseParser) ParseSourceGeneric(source []byte) (*ParseResult, error) {
	tree, err := bp.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	if tree == nil || tree.RootNode() == nil {
		return nil, fmt.Errorf("parser produced no syntax tree")
	}

	return &ParseResult{
		Tree:     tree,
		Source:   source,
		Language: bp.langName,
	}, nil
}

// Language returns the language name for this parser
func (bp *BaseParser) Language() string {
	return bp.langName
}

func (bp *BaseParser) Close() {
}
