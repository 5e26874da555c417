// Package inline splices edited buffers back into their documents and
// renumbers buffer positions against the resulting text.
package inline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/yaklabco/snipsync/internal/logging"
	"github.com/yaklabco/snipsync/pkg/fix"
	"github.com/yaklabco/snipsync/pkg/fsutil"
	"github.com/yaklabco/snipsync/pkg/region"
	"github.com/yaklabco/snipsync/pkg/workspace"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrNilWorkspace is returned when Transform is called without a workspace.
	ErrNilWorkspace = errors.New("nil workspace")

	// ErrNoDocument indicates a buffer names a document that is neither in
	// the workspace nor on disk, and cannot be synthesized.
	ErrNoDocument = errors.New("no such document")

	// ErrDuplicateDocument indicates two workspace documents share a name.
	ErrDuplicateDocument = errors.New("duplicate document")
)

// ResolutionError reports a buffer that could not be matched to a document
// or region.
type ResolutionError struct {
	Buffer workspace.BufferID
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve buffer %s: %v", e.Buffer, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Transformer applies workspace buffers to their documents.
// The zero value reads from the working directory with default markers.
type Transformer struct {
	// Finder locates regions. Nil means a zero Finder.
	Finder *region.Finder

	// Files resolves documents without inline text. Nil means fsutil.Reader{}.
	Files workspace.FileReader

	// Template is the program skeleton for synthesized documents. Empty
	// means DefaultTemplate.
	Template string

	// DefaultDocument names a synthesized document whose buffer has no
	// document name. Empty means DefaultDocument.
	DefaultDocument string

	// Jobs bounds how many documents are processed at once.
	// 0 or negative means runtime.NumCPU().
	Jobs int
}

// group is the unit of work: one document name and the buffers aimed at it.
type group struct {
	name    string
	doc     *workspace.Document
	buffers []int
}

type outcome struct {
	name      string
	text      string
	positions map[int]int
	err       error
}

// Transform returns a new workspace whose documents hold the spliced text
// and whose buffers carry recomputed absolute positions. The input is not
// modified. Any failure aborts the whole transform; failures from several
// documents are joined in document order.
func (t *Transformer) Transform(ctx context.Context, ws *workspace.Workspace) (*workspace.Workspace, error) {
	if ws == nil {
		return nil, ErrNilWorkspace
	}

	tmpl, err := ParseTemplate(t.Template)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(ws.Documents))
	for _, doc := range ws.Documents {
		if _, dup := seen[doc.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateDocument, doc.Name)
		}
		seen[doc.Name] = struct{}{}
	}

	groups := groupBuffers(ws)
	outcomes := t.run(ctx, ws, groups, tmpl)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("transform cancelled: %w", err)
	}

	var errs []error
	for _, out := range outcomes {
		if out.err != nil {
			errs = append(errs, out.err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	result := &workspace.Workspace{
		Documents: make([]workspace.Document, 0, len(outcomes)),
		Buffers:   make([]workspace.Buffer, len(ws.Buffers)),
	}
	copy(result.Buffers, ws.Buffers)
	for i := range result.Buffers {
		result.Buffers[i].AbsolutePosition = 0
	}

	for _, out := range outcomes {
		result.Documents = append(result.Documents, workspace.NewDocument(out.name, out.text))
		for idx, pos := range out.positions {
			result.Buffers[idx].AbsolutePosition = pos
		}
	}

	logging.FromContext(ctx).Debug("transformed workspace",
		logging.FieldDocuments, len(result.Documents),
		logging.FieldBuffers, len(result.Buffers),
	)
	return result, nil
}

// groupBuffers orders work as workspace documents first, then names only
// reachable through buffers. Buffer indexes keep input order. Document
// names are unique by the time this runs.
func groupBuffers(ws *workspace.Workspace) []group {
	names := ws.DocumentNames()
	index := make(map[string]int, len(names))
	groups := make([]group, len(names))

	for i, name := range names {
		index[name] = i
		groups[i].name = name
	}
	for i := range ws.Documents {
		groups[index[ws.Documents[i].Name]].doc = &ws.Documents[i]
	}
	for i, buf := range ws.Buffers {
		g := &groups[index[buf.ID.DocumentName]]
		g.buffers = append(g.buffers, i)
	}
	return groups
}

// run fans groups out to a bounded worker pool and returns outcomes in
// group order.
func (t *Transformer) run(ctx context.Context, ws *workspace.Workspace, groups []group, tmpl Template) []outcome {
	outcomes := make([]outcome, len(groups))
	if len(groups) == 0 {
		return outcomes
	}

	jobs := t.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(groups))

	workCh := make(chan int)
	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				if ctx.Err() != nil {
					return
				}
				outcomes[i] = t.process(ctx, ws, groups[i], tmpl)
			}
		}()
	}

	func() {
		defer close(workCh)
		for i := range groups {
			select {
			case <-ctx.Done():
				return
			case workCh <- i:
			}
		}
	}()

	wg.Wait()
	return outcomes
}

// process resolves one document and applies its buffers sequentially.
func (t *Transformer) process(ctx context.Context, ws *workspace.Workspace, g group, tmpl Template) outcome {
	out := outcome{name: g.name, positions: make(map[int]int, len(g.buffers))}
	logger := logging.FromContext(ctx).With(logging.FieldDocument, g.name)

	text, synthesized, err := t.resolve(ctx, ws, g)
	if err != nil {
		out.err = err
		return out
	}

	// Documents no buffer targets pass through untouched, markers unchecked.
	if len(g.buffers) == 0 {
		out.text = text
		return out
	}

	if synthesized {
		idx := g.buffers[0]
		if out.name == "" {
			out.name = t.defaultDocument()
		}
		out.text = tmpl.Render(ws.Buffers[idx].Content)
		out.positions[idx] = tmpl.Offset() + ws.Buffers[idx].Position
		logger.Debug("synthesized document", logging.FieldLength, len(out.text))
		return out
	}

	// A whole-document buffer replaces the text and ends processing.
	for _, idx := range g.buffers {
		buf := ws.Buffers[idx]
		if buf.ID.IsWholeDocument() {
			out.text = buf.Content
			out.positions[idx] = buf.Position
			logger.Debug("replaced whole document", logging.FieldBuffer, buf.ID.String())
			return out
		}
	}

	// Edited content must not change how markers are recognized, so the
	// scanner is chosen once from the original text.
	finder := t.finder().ForDocument(g.name, text)
	ordered, err := orderByAppearance(finder, g, ws.Buffers, text)
	if err != nil {
		out.err = err
		return out
	}

	for _, idx := range ordered {
		buf := ws.Buffers[idx]

		var edit fix.TextEdit
		text, edit, err = splice(finder, g.name, text, buf)
		if err != nil {
			out.err = err
			return out
		}

		// Regions already spliced precede this one; carry their
		// content starts across the edit.
		for prev, start := range out.positions {
			out.positions[prev] = edit.Shift(start)
		}
		out.positions[idx] = edit.StartOffset

		logger.Debug("spliced region",
			logging.FieldRegion, buf.ID.String(),
			logging.FieldDelta, edit.Delta(),
		)
	}

	// The result must still pair its markers.
	if _, err := finder.Find(g.name, text); err != nil {
		out.err = fmt.Errorf("inlined text: %w", err)
		return out
	}

	for _, idx := range g.buffers {
		out.positions[idx] += ws.Buffers[idx].Position
	}

	out.text = text
	logger.Debug("inlined buffers", logging.FieldBuffers, len(ordered), logging.FieldLength, len(text))
	return out
}

// resolve returns the document text and whether it must be synthesized.
func (t *Transformer) resolve(ctx context.Context, ws *workspace.Workspace, g group) (string, bool, error) {
	if g.doc != nil {
		text, err := g.doc.Resolve(ctx, t.files())
		if err != nil {
			return "", false, fmt.Errorf("document %s: %w", g.name, err)
		}
		return text, false, nil
	}

	first := ws.Buffers[g.buffers[0]].ID
	if len(ws.Documents) == 0 && len(g.buffers) == 1 && first.IsWholeDocument() {
		return "", true, nil
	}

	if g.name != "" {
		content, err := t.files().ReadFile(ctx, g.name)
		switch {
		case err == nil:
			return string(content), false, nil
		case !errors.Is(err, fsutil.ErrNotFound):
			return "", false, fmt.Errorf("document %s: %w", g.name, err)
		}
	}
	return "", false, &ResolutionError{Buffer: first, Err: fmt.Errorf("%w: %q", ErrNoDocument, g.name)}
}

// orderByAppearance sorts the group's buffers by where their region's
// content starts in the original text.
func orderByAppearance(finder *region.Finder, g group, buffers []workspace.Buffer, text string) ([]int, error) {
	regions, err := finder.Find(g.name, text)
	if err != nil {
		return nil, err
	}

	starts := make(map[int]int, len(g.buffers))
	ordered := make([]int, 0, len(g.buffers))
	for _, idx := range g.buffers {
		id := buffers[idx].ID
		r, err := region.Lookup(regions, id.RegionLabel)
		if err != nil {
			return nil, &ResolutionError{Buffer: id, Err: err}
		}
		starts[idx] = r.ContentSpan().Start
		ordered = append(ordered, idx)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return starts[ordered[i]] < starts[ordered[j]]
	})
	return ordered, nil
}

// splice rediscovers the buffer's region in the current text and replaces
// its content, returning the edit it applied. When the replaced content
// ended with a newline the new content does too, so an end marker on its
// own line stays there; markers sharing a line are left as they were.
func splice(finder *region.Finder, name, text string, buf workspace.Buffer) (string, fix.TextEdit, error) {
	regions, err := finder.Find(name, text)
	if err != nil {
		return "", fix.TextEdit{}, err
	}
	r, err := region.Lookup(regions, buf.ID.RegionLabel)
	if err != nil {
		return "", fix.TextEdit{}, &ResolutionError{Buffer: buf.ID, Err: err}
	}

	span := r.ContentSpan()
	content := buf.Content
	if strings.HasSuffix(text[span.Start:span.End], "\n") && content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	edit := fix.TextEdit{StartOffset: span.Start, EndOffset: span.End, NewText: content}
	out, err := fix.Splice(text, edit)
	if err != nil {
		return "", fix.TextEdit{}, fmt.Errorf("splice %s: %w", buf.ID, err)
	}
	return out, edit, nil
}

func (t *Transformer) finder() *region.Finder {
	if t.Finder == nil {
		return &region.Finder{}
	}
	return t.Finder
}

//nolint:ireturn // FileReader is the capability callers configure.
func (t *Transformer) files() workspace.FileReader {
	if t.Files == nil {
		return fsutil.Reader{}
	}
	return t.Files
}

func (t *Transformer) defaultDocument() string {
	if t.DefaultDocument == "" {
		return DefaultDocument
	}
	return t.DefaultDocument
}
