package analyzer

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/hannajonsd/npd-analysis/parser"
)

// findSourceFiles walks a directory and collects every supported source
// file, honoring .gitignore patterns and skipping common build and
// dependency directories. Walk order (lexical) fixes the per-file scan order.
func (a *Analyzer) findSourceFiles(root string) ([]string, error) {
	var sourceFiles []string

	ignore := newIgnoreMatcher(root)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if ignore.shouldIgnore(path) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() && path != root && (strings.HasPrefix(info.Name(), ".") ||
			info.Name() == "node_modules" ||
			info.Name() == "__pycache__" ||
			info.Name() == "vendor" ||
			info.Name() == "build" ||
			info.Name() == "dist" ||
			info.Name() == "venv" ||
			info.Name() == ".venv" ||
			strings.HasSuffix(info.Name(), ".egg-info")) {
			return filepath.SkipDir
		}

		if !info.IsDir() && parser.Supported(path) {
			sourceFiles = append(sourceFiles, path)
		}

		return nil
	})

	return sourceFiles, err
}

// ignoreMatcher applies the subset of .gitignore syntax the scanner cares
// about: plain names, directory patterns, simple wildcards, and negations.
type ignoreMatcher struct {
	rootDir          string
	ignorePatterns   []string
	negationPatterns []string
}

func newIgnoreMatcher(rootDir string) *ignoreMatcher {
	m := &ignoreMatcher{rootDir: rootDir}
	m.load()
	return m
}

func (m *ignoreMatcher) load() {
	file, err := os.Open(filepath.Join(m.rootDir, ".gitignore"))
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "!") {
			m.negationPatterns = append(m.negationPatterns, strings.TrimPrefix(line, "!"))
		} else {
			m.ignorePatterns = append(m.ignorePatterns, line)
		}
	}
}

func (m *ignoreMatcher) shouldIgnore(path string) bool {
	relPath, err := filepath.Rel(m.rootDir, path)
	if err != nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)

	ignored := false
	for _, pattern := range m.ignorePatterns {
		if matchPattern(pattern, relPath) {
			ignored = true
			break
		}
	}

	if ignored {
		for _, pattern := range m.negationPatterns {
			if matchPattern(pattern, relPath) {
				return false
			}
		}
	}

	return ignored
}

func matchPattern(pattern, path string) bool {
	parts := strings.Split(path, "/")

	if strings.HasSuffix(pattern, "/") {
		pattern = strings.TrimSuffix(pattern, "/")
		if path == pattern || strings.HasPrefix(path, pattern+"/") {
			return true
		}
		for _, part := range parts {
			if part == pattern {
				return true
			}
		}
		return false
	}

	if strings.HasPrefix(pattern, "/") {
		return matchSimplePattern(strings.TrimPrefix(pattern, "/"), path)
	}

	if matchSimplePattern(pattern, path) {
		return true
	}
	for i := range parts {
		if matchSimplePattern(pattern, strings.Join(parts[i:], "/")) {
			return true
		}
	}
	if !strings.Contains(pattern, "/") {
		for _, part := range parts {
			if matchSimplePattern(pattern, part) {
				return true
			}
		}
	}

	return false
}

func matchSimplePattern(pattern, text string) bool {
	if pattern == text {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}

	switch {
	case pattern == "*":
		return true
	case strings.HasPrefix(pattern, "*") && strings.HasSuffix(pattern, "*"):
		return strings.Contains(text, pattern[1:len(pattern)-1])
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(text, pattern[1:])
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(text, pattern[:len(pattern)-1])
	}

	return false
}
