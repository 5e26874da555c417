package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/snipsync/internal/logging"
	"github.com/yaklabco/snipsync/pkg/config"
	"github.com/yaklabco/snipsync/pkg/fsutil"
)

// defaultConfigFile is the project config written by init.
const defaultConfigFile = ".snipsync.yml"

type initFlags struct {
	force  bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .snipsync.yml configuration file",
		Long: `Create a commented .snipsync.yml in the current directory holding the
default settings.

Examples:
  snipsync init                    Create .snipsync.yml
  snipsync init --force            Overwrite an existing file
  snipsync init -o ci/snipsync.yml Write to a custom path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaultConfigFile, "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.FromContext(commandContext(cmd))

	workDir, err := workingDir(cmd)
	if err != nil {
		return err
	}

	path := flags.output
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	if fsutil.Exists(path) {
		if !flags.force {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrInvalidUsage, flags.output)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	written, err := fsutil.WriteAtomicIfChanged(commandContext(cmd), path, config.Template(), fsutil.DefaultFileMode)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if !written {
		logger.Info("configuration file already up to date", logging.FieldPath, flags.output)
		return nil
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'snipsync config show' to see the resolved settings")
	return nil
}
