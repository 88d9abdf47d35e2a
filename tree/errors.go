package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"

	"github.com/npillmayer/rowtree/rows"
)

// ErrNoPathFunc is returned if a table is to be built without a path function.
var ErrNoPathFunc = errors.New("no path function given")

// InvalidPathError is returned if a path function produced something which
// is not a non-empty sequence of string or number keys. It is fatal to a
// build or batch.
type InvalidPathError struct {
	RowID  rows.ID // empty if the row's identity is not known yet
	Value  any     // the offending path value
	Reason string
}

func (e *InvalidPathError) Error() string {
	if e.RowID == "" {
		return fmt.Sprintf("invalid tree data path %#v: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid tree data path %#v for row %q: %s", e.Value, e.RowID, e.Reason)
}

// DuplicateRowIDError is returned if two rows of one collection share an
// identity. It is fatal to a build.
type DuplicateRowIDError struct {
	RowID         rows.ID
	First, Second int // positions of the rows in the input
}

func (e *DuplicateRowIDError) Error() string {
	return fmt.Sprintf("rows #%d and #%d share the row id %q", e.First, e.Second, e.RowID)
}

// DuplicatePathWarning reports a row dropped from the tree because another
// row already occupies its path. The first row seen wins.
type DuplicatePathWarning struct {
	Path    Path
	Kept    rows.ID
	Dropped rows.ID
}

func (w *DuplicatePathWarning) Error() string {
	return fmt.Sprintf("rows %q and %q share the path %q; keeping %q", w.Kept, w.Dropped, w.Path, w.Kept)
}
