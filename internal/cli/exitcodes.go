package cli

import (
	"errors"

	"github.com/yaklabco/snipsync/pkg/fsutil"
	"github.com/yaklabco/snipsync/pkg/inline"
	"github.com/yaklabco/snipsync/pkg/region"
	"github.com/yaklabco/snipsync/pkg/workspace"
)

// Exit codes for snipsync.
const (
	// ExitSuccess indicates successful execution with nothing out of date.
	ExitSuccess = 0

	// ExitStale indicates snippets are out of date with their sources.
	ExitStale = 1

	// ExitSnippetErrors indicates snippets whose source could not be read.
	ExitSnippetErrors = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitDataError indicates malformed input: unbalanced markers, unknown
	// regions, or an undecodable workspace.
	ExitDataError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74

	// ExitConfigError indicates configuration errors.
	ExitConfigError = 78
)

// Errors that only select an exit code; main does not log them.
var (
	ErrStaleSnippets = errors.New("snippets are out of date")
	ErrSnippetErrors = errors.New("snippets reference unreadable sources")
)

// Errors classified by ExitCode.
var (
	ErrConfig       = errors.New("invalid configuration")
	ErrInvalidUsage = errors.New("invalid usage")
)

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	var resolution *inline.ResolutionError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrStaleSnippets):
		return ExitStale
	case errors.Is(err, ErrSnippetErrors):
		return ExitSnippetErrors
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.Is(err, inline.ErrInvalidTemplate):
		return ExitConfigError
	case errors.Is(err, region.ErrUnbalanced),
		errors.Is(err, workspace.ErrInvalidJSON),
		errors.Is(err, inline.ErrDuplicateDocument),
		errors.As(err, &resolution):
		return ExitDataError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// IsSilent reports whether err only signals an exit code.
func IsSilent(err error) bool {
	return errors.Is(err, ErrStaleSnippets) || errors.Is(err, ErrSnippetErrors)
}
