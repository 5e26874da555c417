package docs

import (
	"github.com/yaklabco/snipsync/pkg/workspace"
)

// Workspace builds the hand-off shape consumed by inlining: one disk-backed
// document per source and one buffer per snippet holding its fence body.
// A non-empty session keeps only snippets of that session.
func Workspace(snippets []Snippet, session string) *workspace.Workspace {
	ws := &workspace.Workspace{}
	seen := make(map[string]struct{})

	for _, snip := range snippets {
		if session != "" && snip.Session != session {
			continue
		}

		source := ResolveSource(snip.Path, snip.Source)
		if _, ok := seen[source]; !ok {
			seen[source] = struct{}{}
			ws.Documents = append(ws.Documents, workspace.NewDiskDocument(source))
		}
		ws.Buffers = append(ws.Buffers, workspace.Buffer{
			ID:      workspace.NewBufferID(source, snip.Region),
			Content: normalize(snip.Body),
		})
	}
	return ws
}
