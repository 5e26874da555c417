package runner

import (
	"github.com/yaklabco/snipsync/pkg/docs"
	"github.com/yaklabco/snipsync/pkg/fix"
)

// FileOutcome is what happened to one Markdown file.
type FileOutcome struct {
	// Path is the file path that was processed.
	Path string

	// Checks holds one verdict per snippet, in document order.
	Checks []docs.Check

	// Applied are the checks whose snippets were rewritten, or would be in
	// a dry run.
	Applied []docs.Check

	// Diff shows the rewrite. Nil when nothing changed.
	Diff *fix.Diff

	// Written is true if the file was rewritten on disk.
	Written bool

	// BackupCreated is true if a sidecar backup was written.
	BackupCreated bool

	// Skipped is true if a rewrite was abandoned, e.g. because the file
	// changed while it was being processed.
	Skipped    bool
	SkipReason string

	// Error is set if the file could not be processed.
	Error error
}

// Stale returns the number of stale snippets in the file.
func (o FileOutcome) Stale() int {
	return len(docs.Stale(o.Checks))
}

// Stats captures aggregate information about a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesSkipped    int
	FilesErrored    int

	// FilesModified counts files rewritten, or that would be in a dry run.
	FilesModified int

	// Snippets is the number of source-bound fences checked.
	Snippets int

	// Stale is the number of snippets whose source changed.
	Stale int

	// SnippetErrors is the number of snippets whose source or region could
	// not be read.
	SnippetErrors int

	// Synced is the number of snippets rewritten on disk.
	Synced int
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome

	Stats Stats
}

// HasStale reports whether any snippet is out of date and was not synced.
func (r *Result) HasStale() bool {
	if r == nil {
		return false
	}
	return r.Stats.Stale > r.Stats.Synced
}

// HasErrors reports whether any file or snippet failed.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || r.Stats.SnippetErrors > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	r.Stats.FilesProcessed++
	if outcome.Skipped {
		r.Stats.FilesSkipped++
	}
	if outcome.Diff != nil && !outcome.Skipped {
		r.Stats.FilesModified++
	}
	if outcome.Written {
		r.Stats.Synced += len(outcome.Applied)
	}

	for _, c := range outcome.Checks {
		r.Stats.Snippets++
		switch c.Status {
		case docs.StatusStale:
			r.Stats.Stale++
		case docs.StatusError:
			r.Stats.SnippetErrors++
		case docs.StatusCurrent:
		}
	}
}
