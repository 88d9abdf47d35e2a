/*
Package view resolves a row tree into the sequence of rows to display.

Resolve takes a node table, an optional comparator, an optional filter
predicate and the expansion flags, and produces the flattened, ordered
sequence of visible nodes together with filtered descendant counts.

Filtering decides visibility per node. By default a node is visible if it
passes the predicate or if at least one of its descendants is visible.
With children filtering disabled, only top-level nodes are judged. The
subtree of a passing top-level node is displayed as a whole, with filtered
descendant counts equal to the plain ones.

Sorting orders every sibling group independently with a stable sort.
With children sorting disabled only the top-level group is reordered.

Flattening is a pre-order traversal. A node's children are emitted right
after the node if it is expanded. Auto-generated nodes are emitted like
any other node.

Pagination windows index the visible top-level nodes, so expanding a node
never moves a sibling to a different page.

Resolve never changes the table.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package view

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rowtree.view'.
func tracer() tracing.Trace {
	return tracing.Select("rowtree.view")
}
