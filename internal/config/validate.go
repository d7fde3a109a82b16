package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ConfigError reports invalid rules. It is returned before any scan begins.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration:\n  %s", strings.Join(e.Problems, "\n  "))
}

// Validate checks all fields in the rules and returns all problems at once
// as a *ConfigError, or nil.
func (r Rules) Validate() error {
	var errs []string

	if len(r.Extensions) == 0 {
		errs = append(errs, "extensions: must list at least one extension")
	}
	seen := make(map[string]bool, len(r.Extensions))
	for _, ext := range r.Extensions {
		switch {
		case !strings.HasPrefix(ext, ".") || len(ext) < 2:
			errs = append(errs, fmt.Sprintf("extensions: %q must start with '.'", ext))
		case strings.ContainsAny(ext, `/\`):
			errs = append(errs, fmt.Sprintf("extensions: %q must not contain a path separator", ext))
		case seen[ext]:
			errs = append(errs, fmt.Sprintf("extensions: %q listed twice", ext))
		}
		seen[ext] = true
	}

	for _, dir := range r.ExcludeDirs {
		if dir == "" || strings.ContainsAny(dir, `/\`) {
			errs = append(errs, fmt.Sprintf("exclude_dirs: %q must be a directory name, not a path", dir))
		}
	}
	for _, g := range r.ExcludeGlobs {
		if !doublestar.ValidatePattern(g) {
			errs = append(errs, fmt.Sprintf("exclude_globs: invalid pattern %q", g))
		}
	}
	for _, g := range r.EntryPoints {
		if !doublestar.ValidatePattern(g) {
			errs = append(errs, fmt.Sprintf("entry_points: invalid pattern %q", g))
		}
	}

	if r.MaxFiles < 0 {
		errs = append(errs, fmt.Sprintf("max_files: must be non-negative, got %d", r.MaxFiles))
	}
	if r.MaxDepth < 0 {
		errs = append(errs, fmt.Sprintf("max_depth: must be non-negative, got %d", r.MaxDepth))
	}
	if r.Workers < 0 {
		errs = append(errs, fmt.Sprintf("workers: must be non-negative, got %d", r.Workers))
	}

	if len(errs) > 0 {
		return &ConfigError{Problems: errs}
	}
	return nil
}

// Validate checks the whole configuration file.
func Validate(cfg *Config) error {
	var problems []string
	if err := cfg.Rules.WithDefaults().Validate(); err != nil {
		problems = append(problems, err.(*ConfigError).Problems...)
	}
	if cfg.HotspotThreshold < 0 {
		problems = append(problems, fmt.Sprintf("hotspot_threshold: must be non-negative, got %d", cfg.HotspotThreshold))
	}
	if cfg.HotspotTop < 0 {
		problems = append(problems, fmt.Sprintf("hotspot_top: must be non-negative, got %d", cfg.HotspotTop))
	}
	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}
