package config

// Merge combines file-based config with CLI-provided values.
// CLI values take precedence; zero-value CLI fields fall through to file config.
func Merge(fileCfg *Config, cli Config) Config {
	result := cli
	if fileCfg == nil {
		return result
	}

	if result.Extensions == nil && fileCfg.Extensions != nil {
		result.Extensions = fileCfg.Extensions
	}
	if result.ExcludeDirs == nil && fileCfg.ExcludeDirs != nil {
		result.ExcludeDirs = fileCfg.ExcludeDirs
	}
	// Exclude globs accumulate: file patterns first, then CLI additions.
	if len(fileCfg.ExcludeGlobs) > 0 {
		merged := make([]string, 0, len(fileCfg.ExcludeGlobs)+len(result.ExcludeGlobs))
		merged = append(merged, fileCfg.ExcludeGlobs...)
		merged = append(merged, result.ExcludeGlobs...)
		result.ExcludeGlobs = merged
	}
	if result.FocusModule == "" {
		result.FocusModule = fileCfg.FocusModule
	}
	if len(result.EntryPoints) == 0 {
		result.EntryPoints = fileCfg.EntryPoints
	}
	if result.MaxFiles == 0 {
		result.MaxFiles = fileCfg.MaxFiles
	}
	if result.MaxDepth == 0 {
		result.MaxDepth = fileCfg.MaxDepth
	}
	if result.Workers == 0 {
		result.Workers = fileCfg.Workers
	}
	if !result.SyntaxAware && fileCfg.SyntaxAware {
		result.SyntaxAware = true
	}
	if result.HotspotThreshold == 0 {
		result.HotspotThreshold = fileCfg.HotspotThreshold
	}
	if result.HotspotTop == 0 {
		result.HotspotTop = fileCfg.HotspotTop
	}
	if result.Format == "" {
		result.Format = fileCfg.Format
	}
	return result
}

// Finalize applies built-in defaults to a merged config.
func Finalize(cfg Config) Config {
	cfg.Rules = cfg.Rules.WithDefaults()
	if cfg.HotspotThreshold == 0 {
		cfg.HotspotThreshold = DefaultHotspotThreshold
	}
	if cfg.HotspotTop == 0 {
		cfg.HotspotTop = DefaultHotspotTop
	}
	return cfg
}
