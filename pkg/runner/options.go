// Package runner checks and synchronizes snippets across many Markdown files.
package runner

import "github.com/yaklabco/snipsync/pkg/config"

// Mode selects what a run does with stale snippets.
type Mode int

const (
	// ModeVerify only reports stale snippets.
	ModeVerify Mode = iota

	// ModeSync rewrites stale snippets in place.
	ModeSync
)

// Options controls a multi-file run.
type Options struct {
	// Paths are files or directories to process. Empty means ".".
	Paths []string

	// WorkingDir resolves relative Paths. Empty means the process working
	// directory.
	WorkingDir string

	// Extensions are the lowercase Markdown extensions with leading dot.
	// Empty means DefaultExtensions().
	Extensions []string

	// ExcludeGlobs skip matching files and directories, relative to
	// WorkingDir. "**" crosses directories.
	ExcludeGlobs []string

	// FollowSymlinks traverses directory symlinks.
	FollowSymlinks bool

	// Jobs bounds concurrent workers. 0 or negative means runtime.NumCPU().
	Jobs int

	Mode Mode

	// DryRun computes rewrites and diffs without writing files.
	DryRun bool

	// Config is the resolved configuration for this run. Nil means defaults.
	Config *config.Config
}

// DefaultExtensions returns the default set of Markdown file extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
