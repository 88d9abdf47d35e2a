/*
Package gridmodel compiles the sort and filter models of a grid into the
comparator and predicate the view package works with.

A sort model is an ordered list of fields with a direction. A filter model
is a list of field conditions, linked by "and" or "or". Both address row
fields by name; the pseudo field GroupingField stands for a node's own
grouping key, which is also defined for auto-generated nodes.

Text comparisons are locale aware (golang.org/x/text/collate), text
conditions are case-insensitive (golang.org/x/text/cases). Neither a
comparator nor a predicate is safe for concurrent use.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gridmodel

import (
	"github.com/npillmayer/rowtree/tree"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rowtree.gridmodel'.
func tracer() tracing.Trace {
	return tracing.Select("rowtree.gridmodel")
}

// GroupingField is the name of the grouping column. Sorting or filtering
// by it operates on the last key of each node's path.
const GroupingField = "__tree_data_group__"

// value reads a field of the row backing node n. Auto-generated nodes have
// no fields except for the grouping field.
func value(n *tree.Node, field string) any {
	if field == GroupingField {
		return n.Key()
	}
	v, _ := n.Row.Field(field)
	return v
}
