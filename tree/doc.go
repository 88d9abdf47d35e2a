/*
Package tree builds and maintains the row tree of a grid.

Every row is placed in the tree by its grouping path, an ordered list of
keys describing the row's ancestry. Rows sharing a path prefix share an
ancestor node. Ancestors no row stands for are synthesized ("gap filling");
such nodes are auto-generated and carry no row. A row whose path is the
prefix of other rows' paths is a data-bearing group: it carries its own row
and has children.

Nodes live in an arena, the node table. Nodes reference their parent and
children by identifier only, so there are no ownership cycles and a table
can be cloned cheaply.

Tables are created from scratch with Build and changed incrementally with
ApplyBatch. Incremental updates keep node identities stable wherever a
row's path does not change, and report every structural change in a
change log, which is what the expansion state store consumes.

Functions of this package are not safe for concurrent use. A table is
owned by a single writer; readers must not observe it while a batch is
being applied.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rowtree.tree'.
func tracer() tracing.Trace {
	return tracing.Select("rowtree.tree")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("rowtree.tree: "+msg, msgargs...)
		panic(msg)
	}
}
