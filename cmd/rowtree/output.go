package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/npillmayer/rowtree/grid"
	"github.com/npillmayer/rowtree/griddbg"
	"github.com/npillmayer/rowtree/rows"
	"gopkg.in/yaml.v3"
)

// render prints the rows an engine displays in the given format.
func render(w io.Writer, eng *grid.Engine, format string) error {
	switch format {
	case "tree":
		return griddbg.DumpVisible(eng, w)
	case "list":
		return renderList(w, eng)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(eng.Rows())
	case "yaml":
		infos := eng.Rows()
		for i := range infos {
			infos[i].Row = plain(infos[i].Row)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(infos); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}

// renderList prints one line per row, indented by depth. Groups show their
// filtered descendant count and a marker for expanded (-) or collapsed (+).
func renderList(w io.Writer, eng *grid.Engine) error {
	for _, info := range eng.Rows() {
		key := info.Path[len(info.Path)-1]
		marker := " "
		if info.HasChildren {
			marker = "+"
			if info.Expanded {
				marker = "-"
			}
		}
		line := strings.Repeat("  ", info.Depth) + marker + " " + key
		if info.HasChildren {
			line += fmt.Sprintf(" (%d)", info.FilteredDescendantCount)
		}
		if info.AutoGenerated {
			line += " *"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if pages := eng.PageCount(); pages > 1 {
		_, err := fmt.Fprintf(w, "-- page %d of %d\n", eng.Result().Page+1, pages)
		return err
	}
	return nil
}

// plain replaces decoded JSON numbers by Go numbers, for encoders which do
// not know about them.
func plain(r rows.Row) rows.Row {
	if r == nil {
		return nil
	}
	c := r.Clone()
	for k, v := range c {
		if _, isString := v.(string); isString {
			continue
		}
		if f, ok := rows.Number(v); ok {
			if f == float64(int64(f)) {
				c[k] = int64(f)
			} else {
				c[k] = f
			}
		}
	}
	return c
}
