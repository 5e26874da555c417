package configloader

import "github.com/yaklabco/snipsync/pkg/config"

// merge returns base overlaid with the fields override sets. Zero values
// leave base alone, so boolean run options can only be switched on and a
// nil slice keeps the base list while an empty one clears it.
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	overlay(&result.Markers.Start, override.Markers.Start)
	overlay(&result.Markers.End, override.Markers.End)
	overlay(&result.FormatSnippets, override.FormatSnippets)
	overlay(&result.Template, override.Template)
	overlay(&result.DefaultDocument, override.DefaultDocument)
	overlay(&result.Docs.Flavor, override.Docs.Flavor)
	overlay(&result.Backups.Enabled, override.Backups.Enabled)

	if override.Docs.Extensions != nil {
		result.Docs.Extensions = override.Docs.Extensions
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	overlay(&result.Jobs, override.Jobs)
	overlay(&result.Output, override.Output)
	overlay(&result.Format, override.Format)
	overlay(&result.DryRun, override.DryRun)
	overlay(&result.NoBackups, override.NoBackups)

	return &result
}

func overlay[T comparable](dst *T, value T) {
	var zero T
	if value != zero {
		*dst = value
	}
}

// MergeAll merges configurations in order, later ones taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}
	result := configs[0]
	for _, cfg := range configs[1:] {
		result = merge(result, cfg)
	}
	return result
}
