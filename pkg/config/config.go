// Package config defines the configuration types for snipsync. The types
// are plain data; loading and merging live in internal/configloader.
package config

import "github.com/yaklabco/snipsync/pkg/trivia"

// Flavor specifies the Markdown flavor used to parse docs.
type Flavor string

const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// OutputFormat selects the docs report format.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatDiff OutputFormat = "diff"
)

// IsValid reports whether f names a known report format.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatDiff:
		return true
	default:
		return false
	}
}

// DocsConfig controls Markdown snippet handling.
type DocsConfig struct {
	// Extensions are the Markdown file extensions, with leading dot.
	Extensions []string `yaml:"extensions,omitempty"`

	Flavor Flavor `yaml:"flavor,omitempty"`
}

// BackupsConfig controls sidecar backups before files are rewritten.
type BackupsConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	// Markers are the region start and end keywords.
	Markers trivia.Markers `yaml:"markers,omitempty"`

	// FormatSnippets runs extracted snippets through the formatter.
	FormatSnippets *bool `yaml:"format_snippets,omitempty"`

	// Template is the program skeleton used when inlining synthesizes a
	// document. It must contain {{content}} once.
	Template string `yaml:"template,omitempty"`

	// DefaultDocument names synthesized documents whose buffer has none.
	DefaultDocument string `yaml:"default_document,omitempty"`

	Docs DocsConfig `yaml:"docs,omitempty"`

	// Ignore contains glob patterns for Markdown files to skip.
	Ignore []string `yaml:"ignore,omitempty"`

	Backups BackupsConfig `yaml:"backups,omitempty"`

	// CLI-level options (not persisted to config files).

	// Jobs is the number of parallel workers. 0 means runtime.NumCPU().
	Jobs int `yaml:"-"`

	// Output is the workspace serialization: "json" or "yaml".
	Output string `yaml:"-"`

	// Format is the docs report format.
	Format OutputFormat `yaml:"-"`

	// DryRun computes rewrites without writing files.
	DryRun bool `yaml:"-"`

	// NoBackups disables backups regardless of Backups.Enabled.
	NoBackups bool `yaml:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		Markers:         trivia.DefaultMarkers(),
		FormatSnippets:  Bool(true),
		DefaultDocument: "main.go",
		Docs: DocsConfig{
			Extensions: []string{".md", ".markdown"},
			Flavor:     FlavorCommonMark,
		},
		Backups: BackupsConfig{Enabled: Bool(false)},
		Output:  "json",
		Format:  FormatText,
	}
}

// ShouldFormatSnippets reports whether extracted snippets are formatted.
// Unset means true.
func (c *Config) ShouldFormatSnippets() bool {
	return c == nil || c.FormatSnippets == nil || *c.FormatSnippets
}

// BackupsEnabled reports whether sidecar backups should be written.
func (c *Config) BackupsEnabled() bool {
	if c == nil || c.NoBackups || c.Backups.Enabled == nil {
		return false
	}
	return *c.Backups.Enabled
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}
