package configloader

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/snipsync/pkg/config"
	"github.com/yaklabco/snipsync/pkg/inline"
	"github.com/yaklabco/snipsync/pkg/workspace"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "markers.start").
	Field string

	Value any

	Message string

	// FilePath is the config file containing the error, if known.
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	validateMarkers(cfg, result)

	if _, err := inline.ParseTemplate(cfg.Template); err != nil {
		result.fail("template", cfg.Template, "%v", err)
	}

	switch cfg.Docs.Flavor {
	case "", config.FlavorCommonMark, config.FlavorGFM:
	default:
		result.fail("docs.flavor", cfg.Docs.Flavor, "invalid flavor %q; must be one of: commonmark, gfm", cfg.Docs.Flavor)
	}

	for i, ext := range cfg.Docs.Extensions {
		if !strings.HasPrefix(ext, ".") {
			result.fail(fmt.Sprintf("docs.extensions[%d]", i), ext, "extension %q must start with a dot", ext)
		}
	}

	for i, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: text, json, diff", cfg.Format)
	}

	if cfg.Output != "" && !workspace.Format(cfg.Output).IsValid() {
		result.fail("output", cfg.Output, "invalid output %q; must be one of: json, yaml", cfg.Output)
	}

	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if cfg.DefaultDocument == "" {
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "default_document",
			Message: "empty; synthesized documents will be named " + inline.DefaultDocument,
		})
	}

	return result
}

func validateMarkers(cfg *config.Config, result *ValidationResult) {
	for field, value := range map[string]string{"markers.start": cfg.Markers.Start, "markers.end": cfg.Markers.End} {
		if strings.ContainsAny(value, " \t\r\n") {
			result.fail(field, value, "marker %q must not contain whitespace", value)
		}
	}
	if cfg.Markers.Start != "" && cfg.Markers.Start == cfg.Markers.End {
		result.fail("markers", cfg.Markers.Start, "start and end markers must differ")
	}
}

// ValidateWithFile validates and records filePath on every finding.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}
