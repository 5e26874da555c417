package docs

import (
	"fmt"

	"github.com/yaklabco/snipsync/pkg/fix"
)

// Sync rewrites the body of every stale, plain snippet with the text its
// source holds now. A fence that declares no language gets the detected one.
// It returns the new content and the checks that were applied.
func Sync(content []byte, checks []Check) ([]byte, []Check, error) {
	var batch fix.Batch
	var applied []Check

	for _, c := range checks {
		if c.Status != StatusStale || !c.Snippet.Plain {
			continue
		}

		body := c.Want
		if body != "" {
			body += "\n"
		}
		batch.Replace(c.Snippet.BodyStart, c.Snippet.BodyEnd, body)

		if c.Snippet.Language == "" {
			if lang := c.Language(); lang != "" {
				fence := c.Snippet.Fence
				fence.Language = lang
				batch.Replace(c.Snippet.InfoStart, c.Snippet.InfoEnd, fence.String())
			}
		}
		applied = append(applied, c)
	}

	if len(applied) == 0 {
		return content, nil, nil
	}

	out, err := batch.Apply(content)
	if err != nil {
		return nil, nil, fmt.Errorf("sync %s: %w", checks[0].Snippet.Path, err)
	}
	return out, applied, nil
}
