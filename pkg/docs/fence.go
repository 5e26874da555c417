package docs

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// ErrFenceOptions indicates a snippet fence with unparseable options.
var ErrFenceOptions = errors.New("invalid snippet fence options")

// Fence holds the options of a snippet fence's info string.
type Fence struct {
	// Language is the first info word unless it is an option.
	Language string

	// Source is the quoted file, relative to the Markdown file unless absolute.
	Source string

	// Region names the quoted region. Empty quotes the whole file.
	Region string

	// Session groups snippets that are exported together.
	Session string
}

// ParseFence parses an info string such as
// "go --source main.go --region greet". It reports false for fences that do
// not name a source.
func ParseFence(info string) (Fence, bool, error) {
	words := strings.Fields(info)
	if !hasSourceFlag(words) {
		return Fence{}, false, nil
	}

	var fence Fence
	if len(words) > 0 && !strings.HasPrefix(words[0], "-") {
		fence.Language = words[0]
		words = words[1:]
	}

	flags := pflag.NewFlagSet("fence", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVar(&fence.Source, "source", "", "quoted source file")
	flags.StringVar(&fence.Region, "region", "", "quoted region")
	flags.StringVar(&fence.Session, "session", "", "export session")

	if err := flags.Parse(words); err != nil {
		return Fence{}, false, fmt.Errorf("%w: %q: %w", ErrFenceOptions, info, err)
	}
	if flags.NArg() > 0 {
		return Fence{}, false, fmt.Errorf("%w: %q: unexpected %q", ErrFenceOptions, info, flags.Arg(0))
	}
	if fence.Source == "" {
		return Fence{}, false, fmt.Errorf("%w: %q: empty --source", ErrFenceOptions, info)
	}
	return fence, true, nil
}

// String renders the fence back into info string form.
func (f Fence) String() string {
	parts := make([]string, 0, 4)
	if f.Language != "" {
		parts = append(parts, f.Language)
	}
	parts = append(parts, "--source", f.Source)
	if f.Region != "" {
		parts = append(parts, "--region", f.Region)
	}
	if f.Session != "" {
		parts = append(parts, "--session", f.Session)
	}
	return strings.Join(parts, " ")
}

func hasSourceFlag(words []string) bool {
	for _, w := range words {
		if w == "--source" || strings.HasPrefix(w, "--source=") {
			return true
		}
	}
	return false
}
