package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/rowtree/grid"
	"github.com/npillmayer/rowtree/griddbg"
	"github.com/npillmayer/rowtree/gridmodel"
	"github.com/npillmayer/rowtree/rows"
	"github.com/npillmayer/rowtree/tree"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
)

// traceKeys are the trace keys of the engine's packages.
var traceKeys = []string{
	"rowtree.rows", "rowtree.tree", "rowtree.expansion", "rowtree.view",
	"rowtree.gridmodel", "rowtree.grid",
}

// NewRootCmd creates the rowtree command.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	root := &cobra.Command{
		Use:   "rowtree",
		Short: "Arrange rows as a tree and print what a grid displays",
		Long: `rowtree reads a JSON array of row objects, groups the rows by a path
field into a tree and prints the visible rows, sorted, filtered, expanded
and paginated as configured.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, eng, err := setup(cmd, cfgFile)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), eng, cfg.Output)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./rowtree.yaml)")
	flags.StringP("input", "i", "", "JSON file with rows (default: stdin)")
	flags.String("path-field", "", "field holding the tree path")
	flags.String("separator", "", "separator of path keys within the path field")
	flags.String("id-field", "", "field holding the row id")
	flags.String("trace", "", "trace level (error|info|debug)")
	flags.String("locale", "", "language for text collation (BCP 47)")
	f := root.Flags()
	f.StringSlice("sort", nil, "sort by field[:asc|desc], repeatable")
	f.StringArray("filter", nil, `filter condition "field operator [value]", repeatable`)
	f.String("link", "", "link of filter conditions (and|or)")
	f.Int("expand-depth", 0, "expand nodes above this depth, -1 for all")
	f.StringSlice("expand", nil, "ids of nodes to expand")
	f.StringSlice("collapse", nil, "ids of nodes to collapse")
	f.Int("page-size", 0, "top-level rows per page, 0 for no pagination")
	f.Int("page", 0, "page to print, counting from 0")
	f.String("sorting-mode", "", "client or server (rows are pre-sorted)")
	f.Bool("disable-children-filtering", false, "filter top-level rows only")
	f.Bool("disable-children-sorting", false, "sort top-level rows only")
	f.StringP("output", "o", "", "output format (tree|list|json|yaml)")
	_ = root.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"tree", "list", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	root.AddCommand(newDumpCmd(&cfgFile))
	return root
}

func newDumpCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the complete tree, auto-generated nodes included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, eng, err := setup(cmd, *cfgFile)
			if err != nil {
				return err
			}
			for _, w := range eng.Table().Warnings() {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", w)
			}
			return griddbg.Dump(eng.Table(), cmd.OutOrStdout(), nil)
		},
	}
}

// setup loads the configuration, reads the rows and prepares an engine.
func setup(cmd *cobra.Command, cfgFile string) (*Config, *grid.Engine, error) {
	flags := cmd.Flags()
	cfg, err := LoadConfig(cfgFile, flags)
	if err != nil {
		return nil, nil, err
	}
	setTraceLevel(cfg.Trace)
	rs, err := readRows(cmd.InOrStdin(), cfg.Input)
	if err != nil {
		return nil, nil, err
	}
	eng, err := newEngine(cfg, rs)
	if err != nil {
		return nil, nil, err
	}
	return cfg, eng, nil
}

func setTraceLevel(level string) {
	l := tracing.LevelError
	switch strings.ToLower(level) {
	case "info":
		l = tracing.LevelInfo
	case "debug":
		l = tracing.LevelDebug
	}
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
}

func readRows(stdin io.Reader, input string) ([]rows.Row, error) {
	if input == "" || input == "-" {
		return rows.Decode(stdin)
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return rows.Decode(f)
}

// newEngine creates an engine from the configuration and sets rows,
// models and node toggles.
func newEngine(cfg *Config, rs []rows.Row) (*grid.Engine, error) {
	eng, err := grid.New(tree.SplitField(cfg.PathField, cfg.Separator),
		grid.WithConfig(cfg.Config),
		grid.WithIdentity(rows.ByField(cfg.IDField)),
	)
	if err != nil {
		return nil, err
	}
	if err := eng.SetRows(rs); err != nil {
		return nil, err
	}
	sm, err := parseSortModel(cfg.Sort)
	if err != nil {
		return nil, err
	}
	if err := eng.SetSortModel(sm); err != nil {
		return nil, err
	}
	fm, err := parseFilterModel(cfg.Filter, cfg.Link)
	if err != nil {
		return nil, err
	}
	if err := eng.SetFilterModel(fm); err != nil {
		return nil, err
	}
	for _, id := range cfg.Expand {
		if err := eng.SetNodeExpansion(tree.NodeID(id), true); err != nil {
			return nil, err
		}
	}
	for _, id := range cfg.Collapse {
		if err := eng.SetNodeExpansion(tree.NodeID(id), false); err != nil {
			return nil, err
		}
	}
	return eng, nil
}

// parseSortModel reads items like "size:desc".
func parseSortModel(items []string) (gridmodel.SortModel, error) {
	var m gridmodel.SortModel
	for _, item := range items {
		field, dir, found := strings.Cut(item, ":")
		if !found {
			dir = string(gridmodel.Asc)
		}
		if field == "" {
			return nil, fmt.Errorf("sort item %q: missing field", item)
		}
		m = append(m, gridmodel.SortItem{Field: field, Sort: gridmodel.Direction(strings.ToLower(dir))})
	}
	return m, nil
}

// parseFilterModel reads conditions like "name endsWith .go". Values of
// isAnyOf are separated by commas.
func parseFilterModel(conds []string, link string) (gridmodel.FilterModel, error) {
	m := gridmodel.FilterModel{Link: gridmodel.Link(strings.ToLower(link))}
	for _, cond := range conds {
		parts := strings.SplitN(strings.TrimSpace(cond), " ", 3)
		if len(parts) < 2 {
			return m, fmt.Errorf("filter %q: expecting \"field operator [value]\"", cond)
		}
		item := gridmodel.FilterItem{Field: parts[0], Operator: gridmodel.Operator(parts[1])}
		if len(parts) == 3 {
			item.Value = parts[2]
			if item.Operator == gridmodel.IsAnyOf {
				var values []any
				for _, v := range strings.Split(parts[2], ",") {
					values = append(values, strings.TrimSpace(v))
				}
				item.Value = values
			}
		}
		m.Items = append(m.Items, item)
	}
	return m, nil
}
