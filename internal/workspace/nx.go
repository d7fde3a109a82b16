// Copyright 2026 The Modgraph Authors
// SPDX-License-Identifier: MIT

package workspace

import (
	"encoding/json"
	"fmt"
)

// nxDefaultPatterns are the conventional workspace directories in an Nx monorepo.
var nxDefaultPatterns = []string{"packages/*", "apps/*", "libs/*"}

// nxConfig represents the subset of nx.json fields we need.
type nxConfig struct {
	WorkspaceLayout *nxWorkspaceLayout `json:"workspaceLayout"`
}

type nxWorkspaceLayout struct {
	AppsDir string `json:"appsDir"`
	LibsDir string `json:"libsDir"`
}

// detectNx detects an Nx monorepo by the presence of nx.json. A
// workspaceLayout replaces the conventional directories.
func detectNx(p prober) (*Layout, error) {
	data, err := p.read("nx.json")
	if err != nil || data == nil {
		return nil, err
	}

	var cfg nxConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse nx.json: %w", err)
	}

	var patterns []string
	if l := cfg.WorkspaceLayout; l != nil {
		for _, dir := range []string{l.AppsDir, l.LibsDir} {
			if dir != "" {
				patterns = append(patterns, dir+"/*")
			}
		}
	}
	if len(patterns) == 0 {
		patterns = nxDefaultPatterns
	}
	return p.layout(KindNx, patterns)
}
