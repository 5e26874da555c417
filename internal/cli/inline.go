package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/snipsync/internal/logging"
	"github.com/yaklabco/snipsync/internal/ui/pretty"
	"github.com/yaklabco/snipsync/pkg/config"
	"github.com/yaklabco/snipsync/pkg/fix"
	"github.com/yaklabco/snipsync/pkg/fsutil"
	"github.com/yaklabco/snipsync/pkg/inline"
	"github.com/yaklabco/snipsync/pkg/runner"
	"github.com/yaklabco/snipsync/pkg/workspace"
)

type inlineFlags struct {
	workspace string
	input     string
	compact   bool
	diff      bool
	write     bool
}

func newInlineCommand() *cobra.Command {
	var cfg config.Config
	flags := &inlineFlags{}

	cmd := &cobra.Command{
		Use:   "inline [workspace]",
		Short: "Splice edited buffers back into their documents",
		Long: `Apply the buffers of a workspace to their documents and print the
resulting workspace, with every buffer's absolute position recomputed.

The workspace is read from the given file, from --workspace, or from stdin
when stdin is not a terminal. A buffer named "<doc>@<region>" replaces the
region's content; a buffer named "<doc>" replaces the whole document. When
the workspace has no documents, a lone whole-document buffer is wrapped in
the program template.

Examples:
  snipsync inline edits.json              Print the transformed workspace
  snipsync extract main.go | snipsync inline
  snipsync inline --diff edits.yaml       Show what would change
  snipsync inline --write edits.json      Rewrite documents stored on disk`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if flags.workspace != "" {
					return fmt.Errorf("%w: workspace given both as argument and --workspace", ErrInvalidUsage)
				}
				flags.workspace = args[0]
			}
			return runInline(cmd, &cfg, flags)
		},
	}

	addMarkerFlags(cmd, &cfg)
	cmd.Flags().StringVarP(&flags.workspace, "workspace", "w", "", "workspace file, or - for stdin")
	cmd.Flags().StringVar(&flags.input, "input", "", "workspace input format: json, yaml (default from file extension)")
	cmd.Flags().StringVarP(&cfg.Output, "output", "o", "", "workspace output format: json, yaml")
	cmd.Flags().StringVar(&cfg.Template, "template", "", "program template for synthesized documents")
	cmd.Flags().StringVar(&cfg.DefaultDocument, "default-document", "", "name of a synthesized document without one")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of documents processed in parallel (0 = auto)")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "write compact JSON")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "print unified diffs instead of the workspace")
	cmd.Flags().BoolVar(&flags.write, "write", false, "rewrite documents stored on disk")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "with --write, report files without writing them")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backups when writing")

	return cmd
}

func runInline(cmd *cobra.Command, cliCfg *config.Config, flags *inlineFlags) error {
	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	data, err := readWorkspaceInput(cmd, workDir, flags.workspace)
	if err != nil {
		return err
	}

	ws, err := decodeWorkspace(logger, data, inputFormat(flags))
	if err != nil {
		return err
	}

	files := newDiskReads(fsutil.Reader{Root: workDir})
	transformer := &inline.Transformer{
		Finder:          runner.NewFinder(cfg),
		Files:           files,
		Template:        cfg.Template,
		DefaultDocument: cfg.DefaultDocument,
		Jobs:            cfg.Jobs,
	}

	result, err := transformer.Transform(ctx, ws)
	if err != nil {
		return err
	}

	changes, err := documentChanges(cmd, ws, result, files)
	if err != nil {
		return err
	}

	if flags.diff {
		color, _ := cmd.Flags().GetString("color")
		styles := pretty.NewStyles(pretty.IsColorEnabled(color, cmd.OutOrStdout()))
		for _, change := range changes {
			fmt.Fprint(cmd.OutOrStdout(), styles.FormatDiff(change.name, change.diff))
		}
	}

	if flags.write {
		written := 0
		for _, change := range changes {
			if change.path == "" {
				continue
			}
			if cfg.DryRun {
				logger.Info("would write", logging.FieldPath, change.path)
				continue
			}
			if err := writeDocument(cmd, cfg, change); err != nil {
				return err
			}
			written++
		}
		logger.Debug("inlined documents", logging.FieldFilesModified, written, logging.FieldDryRun, cfg.DryRun)
	}

	if flags.diff || flags.write {
		return nil
	}
	return workspace.Encode(cmd.OutOrStdout(), result, workspace.Format(cfg.Output), flags.compact)
}

// readWorkspaceInput reads the named file, or stdin for "-" or when no file
// is named and stdin is piped.
func readWorkspaceInput(cmd *cobra.Command, workDir, name string) ([]byte, error) {
	if name == "" || name == "-" {
		in := cmd.InOrStdin()
		if name == "" && isTerminal(in) {
			return nil, fmt.Errorf("%w: no workspace given and stdin is a terminal", ErrInvalidUsage)
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}

	content, err := fsutil.Reader{Root: workDir}.ReadFile(commandContext(cmd), name)
	if err != nil {
		return nil, err
	}
	return content, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func inputFormat(flags *inlineFlags) workspace.Format {
	if flags.input != "" {
		return workspace.Format(flags.input)
	}
	switch strings.ToLower(filepath.Ext(flags.workspace)) {
	case ".yaml", ".yml":
		return workspace.FormatYAML
	default:
		return workspace.FormatJSON
	}
}

func decodeWorkspace(logger *log.Logger, data []byte, format workspace.Format) (*workspace.Workspace, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: unsupported workspace format %q", ErrInvalidUsage, format)
	}
	if format == workspace.FormatJSON {
		req, err := workspace.DecodeRequest(bytes.TrimSpace(data))
		if err != nil {
			return nil, err
		}
		if req.HasActive {
			logger.Debug("active buffer", logging.FieldBuffer, req.ActiveBufferID.String())
		}
		return req.Workspace, nil
	}
	return workspace.Decode(data, format)
}

// documentChange is one document whose text the transform changed.
type documentChange struct {
	name string
	text string
	diff *fix.Diff

	// path is the file backing the document, empty for inline documents.
	path string
}

// diskReads records the documents read from disk while transforming.
// Only those are backed by a file; synthesized documents never are.
type diskReads struct {
	fsutil.Reader

	mu    sync.Mutex
	paths map[string]struct{}
}

func newDiskReads(files fsutil.Reader) *diskReads {
	return &diskReads{Reader: files, paths: make(map[string]struct{})}
}

// ReadFile implements workspace.FileReader.
func (d *diskReads) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := d.Reader.ReadFile(ctx, path)
	if err == nil {
		d.mu.Lock()
		d.paths[path] = struct{}{}
		d.mu.Unlock()
	}
	return content, err
}

func (d *diskReads) read(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.paths[name]
	return ok
}

// documentChanges compares every output document with its input text.
func documentChanges(cmd *cobra.Command, in, out *workspace.Workspace, files *diskReads) ([]documentChange, error) {
	ctx := commandContext(cmd)
	var changes []documentChange

	for _, doc := range out.Documents {
		text, _ := doc.InlineText()

		// Compare against what the transform started from: the input
		// document, the file it read, or nothing for synthesized output.
		var original, path string
		fromDisk := files.read(doc.Name)
		if src, ok := in.Document(doc.Name); ok {
			resolved, err := src.Resolve(ctx, files.Reader)
			if err != nil {
				return nil, err
			}
			original = resolved
		} else if fromDisk {
			content, err := files.Reader.ReadFile(ctx, doc.Name)
			if err != nil {
				return nil, err
			}
			original = string(content)
		}
		if fromDisk {
			path = files.Path(doc.Name)
		}

		diff, err := fix.GenerateDiff(doc.Name, []byte(original), []byte(text))
		if err != nil {
			return nil, err
		}
		if diff == nil {
			continue
		}
		changes = append(changes, documentChange{name: doc.Name, text: text, diff: diff, path: path})
	}
	return changes, nil
}

func writeDocument(cmd *cobra.Command, cfg *config.Config, change documentChange) error {
	ctx := commandContext(cmd)

	mode := fsutil.DefaultFileMode
	if _, info, err := fsutil.ReadFile(ctx, change.path); err == nil {
		mode = info.Mode
	}

	if cfg.BackupsEnabled() {
		if _, err := fsutil.CreateBackup(ctx, change.path); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}

	if err := fsutil.WriteAtomic(ctx, change.path, []byte(change.text), mode); err != nil {
		return fmt.Errorf("write %s: %w", change.name, err)
	}
	logging.FromContext(ctx).Info("wrote document", logging.FieldPath, change.path)
	return nil
}
