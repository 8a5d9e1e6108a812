package parser

import sitter "github.com/smacker/go-tree-sitter"

// Parser defines the interface for language-specific source code parsers
type Parser interface {
	Language() string
	Close()
	ParseFile(filePath string) (*ParseResult, error)
	ParseSource(source []byte) (*ParseResult, error)
	ExtractFunctions(result *ParseResult) ([]FunctionUnit, error)
}

// BaseParser provides common functionality for all language parsers
type BaseParser struct {
	parser   *sitter.Parser
	language *sitter.Language
	langName string
}

// ParseResult contains the parsed AST and metadata for a source file
type ParseResult struct {
	Tree     *sitter.Tree
	Source   []byte
	Language string
	FilePath string
}

// FunctionUnit is a single function definition discovered in a source file.
// Line numbers are 1-based and absolute within the file. Node byte offsets
// index into FileSource, not into Source.
type FunctionUnit struct {
	Name       string
	FilePath   string
	StartLine  int
	EndLine    int
	Source     string
	FileSource []byte
	Node       *sitter.Node
}
