package grid

import (
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Mode tells where sorting or filtering happens.
type Mode string

// Sorting and filtering modes.
const (
	Client Mode = "client"
	Server Mode = "server"
)

// Config is the configuration of an engine. It may be loaded from a
// configuration file, see the koanf and yaml tags.
type Config struct {
	FilterMode               Mode   `koanf:"filter_mode" yaml:"filter_mode"`
	SortingMode              Mode   `koanf:"sorting_mode" yaml:"sorting_mode"`
	DisableChildrenFiltering bool   `koanf:"disable_children_filtering" yaml:"disable_children_filtering"`
	DisableChildrenSorting   bool   `koanf:"disable_children_sorting" yaml:"disable_children_sorting"`
	DefaultExpansionDepth    int    `koanf:"default_expansion_depth" yaml:"default_expansion_depth"`
	PageSize                 int    `koanf:"page_size" yaml:"page_size"` // 0 disables pagination
	Page                     int    `koanf:"page" yaml:"page"`
	Locale                   string `koanf:"locale" yaml:"locale"` // collation of text, BCP 47
}

// DefaultConfig returns a configuration with client side sorting and
// filtering, collapsed nodes and no pagination.
func DefaultConfig() Config {
	return Config{
		FilterMode:  Client,
		SortingMode: Client,
		Locale:      "und",
	}
}

// UnsupportedConfigurationError is returned for configurations the engine
// cannot serve.
type UnsupportedConfigurationError struct {
	Setting string
	Value   any
	Reason  string
}

func (e *UnsupportedConfigurationError) Error() string {
	return fmt.Sprintf("unsupported configuration %s=%v: %s", e.Setting, e.Value, e.Reason)
}

// Validate checks a configuration. Errors are of type
// *UnsupportedConfigurationError.
func (c Config) Validate() error {
	var errs []error
	switch c.FilterMode {
	case Client, "":
	case Server:
		errs = append(errs, &UnsupportedConfigurationError{
			Setting: "filter_mode", Value: c.FilterMode,
			Reason: "tree data cannot be filtered by a server, descendant counts would be wrong",
		})
	default:
		errs = append(errs, &UnsupportedConfigurationError{
			Setting: "filter_mode", Value: c.FilterMode, Reason: "unknown mode",
		})
	}
	switch c.SortingMode {
	case Client, Server, "":
	default:
		errs = append(errs, &UnsupportedConfigurationError{
			Setting: "sorting_mode", Value: c.SortingMode, Reason: "unknown mode",
		})
	}
	if c.DefaultExpansionDepth < -1 {
		errs = append(errs, &UnsupportedConfigurationError{
			Setting: "default_expansion_depth", Value: c.DefaultExpansionDepth,
			Reason: "has to be -1 (all) or greater",
		})
	}
	if c.PageSize < 0 || c.Page < 0 {
		errs = append(errs, &UnsupportedConfigurationError{
			Setting: "page_size/page", Value: fmt.Sprintf("%d/%d", c.PageSize, c.Page),
			Reason: "must not be negative",
		})
	}
	if _, err := c.language(); err != nil {
		errs = append(errs, &UnsupportedConfigurationError{
			Setting: "locale", Value: c.Locale, Reason: err.Error(),
		})
	}
	return errors.Join(errs...)
}

func (c Config) language() (language.Tag, error) {
	if c.Locale == "" {
		return language.Und, nil
	}
	return language.Parse(c.Locale)
}
