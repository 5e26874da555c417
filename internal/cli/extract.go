package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/snipsync/internal/logging"
	"github.com/yaklabco/snipsync/pkg/config"
	"github.com/yaklabco/snipsync/pkg/fsutil"
	"github.com/yaklabco/snipsync/pkg/runner"
	"github.com/yaklabco/snipsync/pkg/workspace"
)

type extractFlags struct {
	raw     bool
	disk    bool
	compact bool
}

func newExtractCommand() *cobra.Command {
	var cfg config.Config
	flags := &extractFlags{}

	cmd := &cobra.Command{
		Use:   "extract <file>...",
		Short: "Extract marked regions into a workspace",
		Long: `Extract every marked region of the given files into a workspace of
editable buffers, written to stdout.

Each buffer is named "<file>@<region>" and holds the region text, formatted
with gofmt for Go sources unless --raw is given. The workspace embeds the
document text unless --disk is given, in which case documents refer to the
files on disk.

Examples:
  snipsync extract main.go                 Extract regions as JSON
  snipsync extract --output yaml a.go b.py Extract from two files as YAML
  snipsync extract --disk main.go | snipsync inline --write`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, &cfg, flags)
		},
	}

	addMarkerFlags(cmd, &cfg)
	cmd.Flags().StringVarP(&cfg.Output, "output", "o", "", "workspace format: json, yaml")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "keep region text unformatted")
	cmd.Flags().BoolVar(&flags.disk, "disk", false, "reference documents on disk instead of embedding them")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "write compact JSON")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *extractFlags) error {
	if flags.raw {
		cliCfg.FormatSnippets = config.Bool(false)
	}

	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)
	finder := runner.NewFinder(cfg)
	files := fsutil.Reader{Root: workDir}
	ws := &workspace.Workspace{}

	for _, name := range args {
		name = filepath.ToSlash(name)

		content, err := files.ReadFile(ctx, name)
		if err != nil {
			return err
		}

		buffers, err := finder.Extract(ctx, name, string(content))
		if err != nil {
			return fmt.Errorf("extract %s: %w", name, err)
		}
		logger.Debug("extracted document", logging.FieldDocument, name, logging.FieldBuffers, len(buffers))

		if flags.disk {
			ws.Documents = append(ws.Documents, workspace.NewDiskDocument(name))
		} else {
			ws.Documents = append(ws.Documents, workspace.NewDocument(name, string(content)))
		}
		ws.Buffers = append(ws.Buffers, buffers...)
	}

	return workspace.Encode(cmd.OutOrStdout(), ws, workspace.Format(cfg.Output), flags.compact)
}
