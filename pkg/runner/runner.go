package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/snipsync/internal/logging"
	"github.com/yaklabco/snipsync/pkg/config"
	"github.com/yaklabco/snipsync/pkg/docs"
	"github.com/yaklabco/snipsync/pkg/fix"
	"github.com/yaklabco/snipsync/pkg/fsutil"
	"github.com/yaklabco/snipsync/pkg/region"
	"github.com/yaklabco/snipsync/pkg/snippet"
	"github.com/yaklabco/snipsync/pkg/trivia"
)

// ErrWriteFailure indicates a rewritten file could not be saved.
var ErrWriteFailure = errors.New("write failure")

// Runner checks and syncs snippets across Markdown files.
type Runner struct {
	Parser  *docs.Parser
	Checker *docs.Checker
}

// New creates a Runner configured from cfg. Nil means defaults.
func New(cfg *config.Config) *Runner {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Runner{
		Parser:  docs.NewParser(string(cfg.Docs.Flavor)),
		Checker: &docs.Checker{Finder: NewFinder(cfg)},
	}
}

// NewFinder creates a region finder honoring the configured markers and
// snippet formatting. Nil means defaults.
func NewFinder(cfg *config.Config) *region.Finder {
	var formatter snippet.Formatter = snippet.TrimFormatter{}
	if cfg.ShouldFormatSnippets() {
		formatter = snippet.Default()
	}
	if cfg == nil {
		return region.NewFinder(trivia.DefaultMarkers(), formatter)
	}
	return region.NewFinder(cfg.Markers, formatter)
}

// Run discovers files under opts.Paths and processes them concurrently.
// Outcomes are ordered by path regardless of completion order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	workCh := make(chan string)
	outCh := make(chan FileOutcome)
	var wg sync.WaitGroup

	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, opts)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	// Accumulate in discovery order.
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	logging.FromContext(ctx).Debug("run complete",
		logging.FieldFiles, result.Stats.FilesProcessed,
		logging.FieldStale, result.Stats.Stale,
	)
	return result, nil
}

func (r *Runner) worker(ctx context.Context, workCh <-chan string, outCh chan<- FileOutcome, opts Options) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := r.ProcessFile(ctx, path, opts)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

// ProcessFile checks one Markdown file and, in sync mode, rewrites its
// stale snippets.
func (r *Runner) ProcessFile(ctx context.Context, path string, opts Options) FileOutcome {
	outcome := FileOutcome{Path: path}
	ctx = logging.With(ctx, logging.FieldPath, path)
	logger := logging.FromContext(ctx)

	// Read file, keeping the snapshot for the modification check.
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	// Parse fences and compare them with their sources.
	file, err := r.Parser.Parse(ctx, path, content)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	outcome.Checks, err = r.Checker.Check(ctx, file)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	if opts.Mode != ModeSync {
		return outcome
	}

	// Rewrite stale fences.
	synced, applied, err := docs.Sync(content, outcome.Checks)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Applied = applied

	outcome.Diff, err = fix.GenerateDiff(path, content, synced)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	if outcome.Diff == nil || opts.DryRun {
		return outcome
	}

	// Check if file was modified since reading.
	modified, err := fsutil.CheckModified(ctx, info)
	if err != nil {
		outcome.Error = fmt.Errorf("check modified: %w", err)
		return outcome
	}
	if modified {
		outcome.Skipped = true
		outcome.SkipReason = "file modified during processing"
		logger.Warn("skipping rewrite", logging.FieldReason, outcome.SkipReason)
		return outcome
	}

	// Create backup if enabled.
	if opts.Config.BackupsEnabled() {
		outcome.BackupCreated, err = fsutil.CreateBackup(ctx, path)
		if err != nil {
			outcome.Error = fmt.Errorf("create backup: %w", err)
			return outcome
		}
	}

	// Write atomically, preserving the original mode.
	if err := fsutil.WriteAtomic(ctx, path, synced, info.Mode); err != nil {
		outcome.Error = fmt.Errorf("%w: %w", ErrWriteFailure, err)
		return outcome
	}
	outcome.Written = true

	logger.Debug("synced file", logging.FieldSnippets, len(applied))
	return outcome
}
