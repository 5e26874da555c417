package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/snipsync/pkg/config"
)

// envVarPrefix is the prefix for all snipsync environment variables.
const envVarPrefix = "SNIPSYNC_"

// envVar binds one environment variable to a config field.
type envVar struct {
	description string
	apply       func(cfg *config.Config, value string) error
}

// envVars maps variable names (without prefix) to their fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envVars = map[string]envVar{
	"MARKERS_START": {"Region start keyword", func(c *config.Config, v string) error {
		c.Markers.Start = v
		return nil
	}},
	"MARKERS_END": {"Region end keyword", func(c *config.Config, v string) error {
		c.Markers.End = v
		return nil
	}},
	"FORMAT_SNIPPETS": {"Format extracted snippets: true or false", func(c *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.FormatSnippets = config.Bool(b)
		return err
	}},
	"TEMPLATE": {"Program template containing {{content}}", func(c *config.Config, v string) error {
		c.Template = v
		return nil
	}},
	"DEFAULT_DOCUMENT": {"Name of synthesized documents", func(c *config.Config, v string) error {
		c.DefaultDocument = v
		return nil
	}},
	"DOCS_EXTENSIONS": {"Comma-separated Markdown extensions", func(c *config.Config, v string) error {
		c.Docs.Extensions = parseSliceValue(v)
		return nil
	}},
	"DOCS_FLAVOR": {"Markdown flavor: commonmark or gfm", func(c *config.Config, v string) error {
		c.Docs.Flavor = config.Flavor(v)
		return nil
	}},
	"IGNORE": {"Comma-separated ignore globs", func(c *config.Config, v string) error {
		c.Ignore = parseSliceValue(v)
		return nil
	}},
	"BACKUPS_ENABLED": {"Write backups before rewriting: true or false", func(c *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.Backups.Enabled = config.Bool(b)
		return err
	}},
	"JOBS": {"Number of parallel workers (0 = auto)", func(c *config.Config, v string) error {
		n, err := strconv.Atoi(v)
		c.Jobs = n
		return err
	}},
	"OUTPUT": {"Workspace output: json or yaml", func(c *config.Config, v string) error {
		c.Output = v
		return nil
	}},
	"FORMAT": {"Docs report format: text, json or diff", func(c *config.Config, v string) error {
		c.Format = config.OutputFormat(v)
		return nil
	}},
	"DRY_RUN": {"Dry-run mode: true or false", func(c *config.Config, v string) error {
		b, err := strconv.ParseBool(v)
		c.DryRun = b
		return err
	}},
}

// LoadFromEnv applies SNIPSYNC_* environment variables to cfg.
func LoadFromEnv(cfg *config.Config) error {
	return loadFromEnv(cfg, os.Getenv)
}

func loadFromEnv(cfg *config.Config, getenv func(string) string) error {
	if cfg == nil {
		return nil
	}

	names := make([]string, 0, len(envVars))
	for name := range envVars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := getenv(envVarPrefix + name)
		if value == "" {
			continue
		}
		if err := envVars[name].apply(cfg, value); err != nil {
			return fmt.Errorf("invalid value for %s%s: %q: %w", envVarPrefix, name, value, err)
		}
	}
	return nil
}

// parseSliceValue splits a comma-separated list, dropping blank elements.
func parseSliceValue(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ListEnvVars returns every supported variable with its description.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envVars))
	for name, v := range envVars {
		out[envVarPrefix+name] = v.description
	}
	return out
}
