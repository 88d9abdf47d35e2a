package tree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"

	"github.com/npillmayer/rowtree/rows"
)

// OpKind is the kind of a row operation within a batch.
type OpKind int8

// Row operations of a batch.
const (
	OpInsert OpKind = iota
	OpUpdate
	OpDelete
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return fmt.Sprintf("OpKind(%d)", int8(k))
}

// Op is a single row operation. Create it with Insert, Update or Delete.
type Op struct {
	Kind OpKind
	Row  rows.Row // for inserts and updates
	ID   rows.ID  // for deletes
}

// Insert adds a row to the tree.
func Insert(r rows.Row) Op {
	return Op{Kind: OpInsert, Row: r}
}

// Update replaces the row carrying the same identity.
func Update(r rows.Row) Op {
	return Op{Kind: OpUpdate, Row: r}
}

// Delete removes the row with identity id.
func Delete(id rows.ID) Op {
	return Op{Kind: OpDelete, ID: id}
}

// Batch is a finished, coherent sequence of row operations. Operations are
// applied in order. Coalescing and debouncing of user edits is up to the
// caller.
type Batch []Op

// ChangeKind classifies entries of a change log.
type ChangeKind int8

// Kinds of structural changes.
const (
	Added   ChangeKind = iota // node has been created
	Removed                   // node has been destroyed
	Renamed                   // node identifier changed from ID to To, node survives
	Updated                   // row payload replaced in place
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Renamed:
		return "renamed"
	case Updated:
		return "updated"
	}
	return fmt.Sprintf("ChangeKind(%d)", int8(k))
}

// Change is an entry of a change log.
type Change struct {
	Kind ChangeKind
	ID   NodeID
	To   NodeID // new identifier, for Renamed only
}

// Changes is the outcome of applying a batch: an ordered log of
// structural changes plus non-fatal diagnostics.
type Changes struct {
	Log      []Change
	Warnings []error
}

func (c *Changes) add(ch Change) {
	if c != nil {
		c.Log = append(c.Log, ch)
	}
}

// prepared is an operation with identity and path resolved.
type prepared struct {
	kind OpKind
	e    entry
	skip bool
}

// ApplyBatch applies a batch to a clone of t and returns the clone. t is
// left untouched. This is the variant for callers which do not hold
// exclusive access to t.
func ApplyBatch(t *Table, b Batch) (*Table, Changes, error) {
	c := t.Clone()
	changes, err := c.ApplyBatch(b)
	if err != nil {
		return t, changes, err
	}
	return c, changes, nil
}

// ApplyBatch applies a batch of row operations in place.
//
// Rows are grafted into the existing structure as Build would do, and
// descendant counts of ancestors are adjusted incrementally. An update
// which keeps a row's path replaces the row in place; an update changing
// the path is a delete followed by an insert. Deleting a row prunes
// auto-generated ancestors which become childless.
//
// Identities and paths of all operations are resolved before the table is
// touched: if an *InvalidPathError occurs, the table is unchanged.
func (t *Table) ApplyBatch(b Batch) (Changes, error) {
	var changes Changes
	ops, err := t.prepare(b)
	if err != nil {
		return changes, err
	}
	for _, op := range ops {
		if op.skip {
			continue
		}
		switch op.kind {
		case OpInsert, OpUpdate:
			t.upsert(op.e, &changes)
		case OpDelete:
			t.deleteRow(op.e.id, &changes)
		}
	}
	tracer().Debugf("applied batch of %d operations, %d changes", len(b), len(changes.Log))
	return changes, nil
}

// prepare resolves identities and paths and coalesces a delete followed by
// an insert of the same row into an update.
func (t *Table) prepare(b Batch) ([]prepared, error) {
	ops := make([]prepared, len(b))
	pendingDelete := make(map[rows.ID]int)
	for i, op := range b {
		p := prepared{kind: op.Kind}
		switch op.Kind {
		case OpInsert, OpUpdate:
			e, err := t.resolve(op.Row)
			if err != nil {
				return nil, fmt.Errorf("batch operation #%d (%s): %w", i, op.Kind, err)
			}
			p.e = e
			if j, ok := pendingDelete[e.id]; ok && op.Kind == OpInsert {
				ops[j].skip = true
				p.kind = OpUpdate
			}
			delete(pendingDelete, e.id)
		case OpDelete:
			p.e = entry{id: op.ID}
			pendingDelete[op.ID] = i
		default:
			return nil, fmt.Errorf("batch operation #%d: unknown kind %s", i, op.Kind)
		}
		ops[i] = p
	}
	return ops, nil
}

// upsert inserts a new row or replaces an existing one.
func (t *Table) upsert(e entry, log *Changes) {
	n, exists := t.NodeForRow(e.id)
	if !exists {
		t.place(e, nil, log)
		return
	}
	if n.Path.Equal(e.path) {
		n.Row = e.row
		log.add(Change{Kind: Updated, ID: n.ID})
		return
	}
	tracer().Debugf("row %q moves from %s to %s", e.id, n.Path, e.path)
	t.remove(n, log)
	t.place(e, nil, log)
}

func (t *Table) deleteRow(id rows.ID, log *Changes) {
	n, exists := t.NodeForRow(id)
	if !exists {
		tracer().Infof("delete of unknown row %q ignored", id)
		return
	}
	t.remove(n, log)
}

// remove detaches the row from node n. A node with children stays in the
// tree as an auto-generated group, otherwise it is destroyed together with
// every auto-generated ancestor which becomes childless.
func (t *Table) remove(n *Node, log *Changes) {
	t.ancestors(n, func(a *Node) { a.DescendantCount-- })
	if n.HasChildren() {
		old := n.ID
		n.AutoGenerated = true
		n.Row = nil
		n.RowID = ""
		t.rekey(n, t.placeholderID(n.Path, nil))
		log.add(Change{Kind: Renamed, ID: old, To: n.ID})
		return
	}
	parent := n.Parent
	t.unlink(n)
	log.add(Change{Kind: Removed, ID: n.ID})
	for parent != NoParent {
		p := t.nodes[parent]
		if !p.AutoGenerated || p.HasChildren() {
			break
		}
		parent = p.Parent
		t.unlink(p)
		log.add(Change{Kind: Removed, ID: p.ID})
	}
}
