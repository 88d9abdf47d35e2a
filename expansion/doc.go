/*
Package expansion keeps track of which nodes of a row tree are expanded.

A Store maps node identifiers to an expanded/collapsed flag. Flags are
seeded by a default policy, either a fixed depth or a per-node predicate,
and changed by explicit toggles. The policy is applied on structural
rebuilds only. It never overwrites a flag the caller has toggled during
the lifetime of the store, as long as the node keeps existing.

After an incremental batch the store follows the tree's change log with
Track: flags move with renamed nodes, are forgotten for removed nodes and
seeded by the policy for added ones. Flags therefore never resurrect for a
different node which happens to reuse an identifier.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package expansion

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rowtree.expansion'.
func tracer() tracing.Trace {
	return tracing.Select("rowtree.expansion")
}
