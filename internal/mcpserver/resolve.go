// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes modgraph's graph queries as tools over stdio transport.
package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davetashner/modgraph/internal/testable"
)

// PathInfo holds the resolved path information for a scan root.
type PathInfo struct {
	// AbsPath is the absolute, symlink-resolved path.
	AbsPath string
	// GitRoot is the working tree root of the enclosing repository, or
	// AbsPath outside a repository.
	GitRoot string
}

// ResolvePath resolves a tool's path argument to an existing directory and
// finds its repository. An empty path means the working directory.
func ResolvePath(path string) (*PathInfo, error) {
	if path == "" {
		path = "."
	}
	if strings.ContainsRune(path, 0) {
		return nil, fmt.Errorf("cannot resolve path %q: contains NUL", path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %q: %w", path, err)
	}
	absPath, err = filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %q: %w", path, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("path %q does not exist", path)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", path)
	}

	pi := &PathInfo{AbsPath: absPath, GitRoot: absPath}
	if repo, err := testable.DefaultGitOpener.PlainOpen(absPath); err == nil {
		if root, err := repo.Root(); err == nil {
			if canon, err := filepath.EvalSymlinks(root); err == nil {
				pi.GitRoot = canon
			}
		}
	}
	return pi, nil
}
