package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/npillmayer/rowtree/grid"
	"github.com/spf13/pflag"
)

// Config is the configuration of the command line tool. Grid settings are
// read from top-level keys.
type Config struct {
	grid.Config `koanf:",squash"`
	Input       string   `koanf:"input"`
	PathField   string   `koanf:"path_field"`
	Separator   string   `koanf:"separator"`
	IDField     string   `koanf:"id_field"`
	Sort        []string `koanf:"sort"`   // field[:asc|desc]
	Filter      []string `koanf:"filter"` // "field operator [value]"
	Link        string   `koanf:"link"`
	Expand      []string `koanf:"expand"`
	Collapse    []string `koanf:"collapse"`
	Output      string   `koanf:"output"`
	Trace       string   `koanf:"trace"`
}

const defaultConfigFile = "rowtree.yaml"

// flagKeys maps flag names to configuration keys where they differ.
var flagKeys = map[string]string{
	"expand-depth": "default_expansion_depth",
}

// LoadConfig layers defaults, the YAML file cfgFile, ROWTREE_ environment
// variables and flags which have been set explicitly. If cfgFile is empty,
// ./rowtree.yaml is read if present.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	def := grid.DefaultConfig()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"filter_mode":             string(def.FilterMode),
		"sorting_mode":            string(def.SortingMode),
		"default_expansion_depth": def.DefaultExpansionDepth,
		"page_size":               def.PageSize,
		"page":                    def.Page,
		"locale":                  def.Locale,
		"path_field":              "path",
		"separator":               ".",
		"id_field":                "id",
		"link":                    "and",
		"output":                  "tree",
		"trace":                   "error",
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if cfgFile == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			cfgFile = defaultConfigFile
		}
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}
	// ROWTREE_PAGE_SIZE -> page_size
	if err := k.Load(env.Provider("ROWTREE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "ROWTREE_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				key = strings.ReplaceAll(f.Name, "-", "_")
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the tool's settings on top of the grid configuration.
func (c *Config) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	switch c.Output {
	case "tree", "list", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (tree|list|json|yaml)", c.Output)
	}
	if c.PathField == "" {
		return fmt.Errorf("path field must not be empty")
	}
	return nil
}
