// Copyright 2026 The Modgraph Authors
// SPDX-License-Identifier: MIT

package workspace

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// pnpmWorkspace represents the structure of a pnpm-workspace.yaml file.
type pnpmWorkspace struct {
	Packages []string `yaml:"packages"`
}

// detectPnpm detects a pnpm workspace defined by pnpm-workspace.yaml.
func detectPnpm(p prober) (*Layout, error) {
	data, err := p.read("pnpm-workspace.yaml")
	if err != nil || data == nil {
		return nil, err
	}

	var ws pnpmWorkspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("parse pnpm-workspace.yaml: %w", err)
	}
	return p.layout(KindPnpm, ws.Packages)
}
