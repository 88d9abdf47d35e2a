/*
Package rows holds the record type the row-tree engine operates on.

Rows are opaque associative containers keyed by field name. The engine
never assumes a schema beyond two user supplied functions: one deriving a
row's identity and one deriving its grouping path (see package tree).
Field values are typically strings, numbers or booleans, as produced by
decoding JSON with Decode.

Identities may be strings or numbers. They are coerced to a stable string
key of type ID, so the number 7 and the string "7" denote the same row.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package rows

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rowtree.rows'.
func tracer() tracing.Trace {
	return tracing.Select("rowtree.rows")
}
