package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/snipsync/internal/logging"
	"github.com/yaklabco/snipsync/pkg/config"
	"github.com/yaklabco/snipsync/pkg/docs"
	"github.com/yaklabco/snipsync/pkg/fsutil"
	"github.com/yaklabco/snipsync/pkg/reporter"
	"github.com/yaklabco/snipsync/pkg/runner"
	"github.com/yaklabco/snipsync/pkg/workspace"
)

type docsFlags struct {
	format  string
	flavor  string
	ignore  []string
	verbose bool
	compact bool
}

func newDocsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Check and update code snippets in Markdown",
		Long: `Work with code snippets embedded in Markdown files.

A snippet is a fenced code block whose info string names the source file
and, optionally, the region it quotes. Paths are relative to the Markdown
file:

    ` + "```" + `go --source ../examples/hello.go --region greet
    fmt.Println("hello")
    ` + "```",
	}

	cmd.AddCommand(newDocsRunCommand(runner.ModeVerify))
	cmd.AddCommand(newDocsRunCommand(runner.ModeSync))
	cmd.AddCommand(newDocsExportCommand())
	return cmd
}

func newDocsRunCommand(mode runner.Mode) *cobra.Command {
	var cfg config.Config
	flags := &docsFlags{}

	cmd := &cobra.Command{
		Use:   "verify [paths...]",
		Short: "Report snippets that differ from their source",
		Long: `Report snippets whose body differs from the region they quote.

Exits 1 when a snippet is stale and 2 when a source or region cannot be read.

Examples:
  snipsync docs verify                  Check every Markdown file
  snipsync docs verify README.md docs/  Check specific paths
  snipsync docs verify --format json    Machine-readable report`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocs(cmd, args, mode, &cfg, flags)
		},
	}

	if mode == runner.ModeSync {
		cmd.Use = "sync [paths...]"
		cmd.Short = "Rewrite snippets that differ from their source"
		cmd.Long = `Rewrite the body of every stale snippet with the text its source holds
now. Fences without a language get one detected from the source.

Examples:
  snipsync docs sync                  Update every Markdown file
  snipsync docs sync --dry-run        Show the rewrites as diffs
  snipsync docs sync --format diff    Print only the diffs`
		cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show rewrites without writing them")
		cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backups before rewriting")
	}

	addMarkerFlags(cmd, &cfg)
	cmd.Flags().StringVar(&flags.format, "format", "", "report format: text, json, diff")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "", "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list current snippets too")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "write compact JSON")

	return cmd
}

func applyDocsFlags(cfg *config.Config, flags *docsFlags) {
	cfg.Format = config.OutputFormat(flags.format)
	cfg.Docs.Flavor = config.Flavor(flags.flavor)
	cfg.Ignore = flags.ignore
}

func runDocs(cmd *cobra.Command, args []string, mode runner.Mode, cliCfg *config.Config, flags *docsFlags) error {
	applyDocsFlags(cliCfg, flags)

	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	opts := runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   cfg.Docs.Extensions,
		ExcludeGlobs: cfg.Ignore,
		Jobs:         cfg.Jobs,
		Mode:         mode,
		DryRun:       cfg.DryRun,
		Config:       cfg,
	}
	logger.Debug("starting docs run",
		logging.FieldPaths, opts.Paths,
		logging.FieldWorkingDir, opts.WorkingDir,
		logging.FieldJobs, opts.Jobs,
		logging.FieldDryRun, opts.DryRun,
	)

	result, err := runner.New(cfg).Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("docs run failed: %w", err)
	}

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidUsage, err)
	}
	color, _ := cmd.Flags().GetString("color")

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		Format:      format,
		Color:       color,
		Verbose:     flags.verbose,
		ShowDiffs:   cfg.DryRun,
		ShowSummary: true,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}
	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	logger.Debug("docs run complete",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldSnippets, result.Stats.Snippets,
		logging.FieldStale, result.Stats.Stale,
		logging.FieldFilesModified, result.Stats.FilesModified,
	)

	switch {
	case result.HasErrors():
		return ErrSnippetErrors
	case result.HasStale():
		return ErrStaleSnippets
	default:
		return nil
	}
}

func newDocsExportCommand() *cobra.Command {
	var cfg config.Config
	flags := &docsFlags{}
	var session string

	cmd := &cobra.Command{
		Use:   "export [paths...]",
		Short: "Export snippets as a workspace for inline",
		Long: `Export the snippets of Markdown files as a workspace. Every quoted source
becomes a document on disk and every snippet a buffer holding the fence
body, so edits made in the documentation can be applied to the sources
with "snipsync inline --write".

Examples:
  snipsync docs export README.md | snipsync inline --diff
  snipsync docs export --session intro docs/`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocsExport(cmd, args, &cfg, flags, session)
		},
	}

	cmd.Flags().StringVar(&session, "session", "", "only export snippets of this session")
	cmd.Flags().StringVarP(&cfg.Output, "output", "o", "", "workspace format: json, yaml")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "", "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "write compact JSON")

	return cmd
}

func runDocsExport(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *docsFlags, session string) error {
	applyDocsFlags(cliCfg, flags)

	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	paths, err := runner.Discover(ctx, runner.Options{
		Paths:        args,
		WorkingDir:   workDir,
		Extensions:   cfg.Docs.Extensions,
		ExcludeGlobs: cfg.Ignore,
	})
	if err != nil {
		return err
	}

	parser := docs.NewParser(string(cfg.Docs.Flavor))
	var snippets []docs.Snippet
	for _, path := range paths {
		content, _, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			return err
		}
		file, err := parser.Parse(ctx, path, content)
		if err != nil {
			return err
		}
		snippets = append(snippets, file.Snippets...)
	}

	ws := docs.Workspace(snippets, session)
	return workspace.Encode(cmd.OutOrStdout(), ws, workspace.Format(cfg.Output), flags.compact)
}
