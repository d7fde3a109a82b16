package workspace

import (
	"encoding/json"
	"fmt"
)

// lernaDefaultPatterns is what lerna uses when lerna.json lists no packages.
var lernaDefaultPatterns = []string{"packages/*"}

// lernaConfig represents the subset of lerna.json fields we need.
type lernaConfig struct {
	Packages []string `json:"packages"`
}

// detectLerna detects a Lerna monorepo defined by lerna.json.
func detectLerna(p prober) (*Layout, error) {
	data, err := p.read("lerna.json")
	if err != nil || data == nil {
		return nil, err
	}

	var cfg lernaConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse lerna.json: %w", err)
	}
	patterns := cfg.Packages
	if len(patterns) == 0 {
		patterns = lernaDefaultPatterns
	}
	return p.layout(KindLerna, patterns)
}
