/*
Package grid wires the parts of the row-tree engine into a single facade,
the Engine. An engine owns the rows, the node table and the expansion
flags of one grid and answers which rows to display.

Typical use:

    eng, err := grid.New(tree.SplitField("path", "."), grid.DefaultExpansionDepth(1))
    err = eng.SetRows(rs)
    err = eng.SetSortModel(gridmodel.SortModel{{Field: "name", Sort: gridmodel.Desc}})
    for _, r := range eng.Rows() {
        ...
    }

Setting rows or a new path function rebuilds the tree and applies the
default expansion policy to every node which has not been toggled.
UpdateRows applies a batch incrementally. Sort and filter models only
change what is resolved, never the tree or the expansion flags.

An Engine is not safe for concurrent use. It is meant to be driven by a
single state-management loop.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grid

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rowtree.grid'.
func tracer() tracing.Trace {
	return tracing.Select("rowtree.grid")
}
