package workspace

import (
	"encoding/json"
	"fmt"
)

// npmPackageJSON is the subset of package.json fields we need.
type npmPackageJSON struct {
	Workspaces json.RawMessage `json:"workspaces"`
}

// detectNpm detects an npm or yarn workspace defined by the "workspaces"
// field in the root package.json. The field can be either an array of
// globs or an object with a "packages" array.
func detectNpm(p prober) (*Layout, error) {
	data, err := p.read("package.json")
	if err != nil || data == nil {
		return nil, err
	}

	var pkg npmPackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parse package.json: %w", err)
	}
	if pkg.Workspaces == nil {
		return nil, nil
	}

	patterns, err := parseWorkspacesField(pkg.Workspaces)
	if err != nil {
		return nil, fmt.Errorf("parse package.json workspaces: %w", err)
	}
	if len(patterns) == 0 {
		return nil, nil
	}
	return p.layout(KindNpm, patterns)
}

// parseWorkspacesField handles both the array form ["packages/*"] and the
// object form {"packages": ["packages/*"]}.
func parseWorkspacesField(raw json.RawMessage) ([]string, error) {
	var arr []string
	if err := json.Unmarshal(raw, &arr); err == nil {
		return arr, nil
	}

	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}
	return obj.Packages, nil
}
