package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/snipsync/internal/configloader"
	"github.com/yaklabco/snipsync/pkg/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration as YAML",
		Long: `Print the configuration after merging defaults, the user config, the
project .snipsync.yml, --config, and SNIPSYNC_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd, &config.Config{})
			if err != nil {
				return err
			}
			out, err := cfg.ToYAMLWithHeader("# Resolved snipsync configuration")
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "env",
		Short: "List supported environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vars := configloader.ListEnvVars()
			names := make([]string, 0, len(vars))
			width := 0
			for name := range vars {
				names = append(names, name)
				width = max(width, len(name))
			}
			sort.Strings(names)

			var b strings.Builder
			for _, name := range names {
				fmt.Fprintf(&b, "%-*s  %s\n", width, name, vars[name])
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), b.String())
			return err
		},
	})

	return cmd
}
