package reporter

import (
	"fmt"

	"github.com/yaklabco/snipsync/pkg/config"
)

// Format is the report format, shared with the docs configuration.
type Format = config.OutputFormat

// Report formats.
const (
	FormatText = config.FormatText
	FormatJSON = config.FormatJSON
	FormatDiff = config.FormatDiff
)

// ParseFormat parses a --format value. Empty means text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	if format := Format(s); format.IsValid() {
		return format, nil
	}
	return "", fmt.Errorf("unknown format %q; valid formats: text, json, diff", s)
}
