// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldCommand    = "command"
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Engine fields.
	FieldDocument  = "document"
	FieldDocuments = "documents"
	FieldBuffer    = "buffer"
	FieldBuffers   = "buffers"
	FieldRegion    = "region"
	FieldRegions   = "regions"
	FieldOffset    = "offset"
	FieldLength    = "length"
	FieldDelta     = "delta"
	FieldSource    = "source"
	FieldLanguage  = "language"
	FieldStatus    = "status"
	FieldReason    = "reason"

	// Configuration fields.
	FieldDryRun = "dry_run"
	FieldJobs   = "jobs"
	FieldFormat = "format"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldSnippets        = "snippets"
	FieldStale           = "stale"
	FieldFilesModified   = "files_modified"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
