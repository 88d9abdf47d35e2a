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

// entry is a row with its identity and path resolved.
type entry struct {
	id   rows.ID
	row  rows.Row
	path Path
}

// Build creates a node table from scratch.
//
// Rows are placed in input order. Missing ancestors are synthesized as
// auto-generated nodes, siblings keep first-seen order. If a row's path
// has been used as an ancestor path by an earlier row, the auto-generated
// node is upgraded to carry the row. If two rows share a path, the first
// one wins and a *DuplicatePathWarning is recorded (see Table.Warnings).
//
// Build fails with *InvalidPathError or *DuplicateRowIDError; in this case no
// table is returned.
func Build(rs []rows.Row, pathOf PathFunc, opts ...Option) (*Table, error) {
	if pathOf == nil {
		return nil, ErrNoPathFunc
	}
	t := newTable(pathOf, opts...)
	entries := make([]entry, len(rs))
	seen := make(map[rows.ID]int, len(rs))
	reserved := make(map[NodeID]bool, len(rs))
	for i, r := range rs {
		e, err := t.resolve(r)
		if err != nil {
			return nil, fmt.Errorf("building row tree: %w", err)
		}
		if j, dup := seen[e.id]; dup {
			return nil, &DuplicateRowIDError{RowID: e.id, First: j, Second: i}
		}
		seen[e.id] = i
		reserved[NodeID(e.id)] = true
		entries[i] = e
	}
	for _, e := range entries {
		t.place(e, reserved, nil)
	}
	t.recount()
	tracer().Debugf("built row tree: %d rows, %d nodes, %d top-level", len(rs), len(t.nodes), len(t.roots))
	return t, nil
}

// resolve derives identity and path of a row.
func (t *Table) resolve(r rows.Row) (entry, error) {
	id, err := rows.Identify(t.idOf, r)
	if err != nil {
		return entry{}, err
	}
	path, err := Normalize(t.pathOf, r)
	if err != nil {
		if ipe, ok := err.(*InvalidPathError); ok {
			ipe.RowID = id
		}
		return entry{}, err
	}
	return entry{id: id, row: r, path: path}, nil
}

// place walks a row's path downward, creating missing ancestors, and
// attaches the row at the end of the path. It returns the node carrying the
// row, or nil if the row has been dropped as a duplicate.
//
// If log is non-nil, structural changes are recorded and descendant counts
// of ancestors are maintained incrementally.
func (t *Table) place(e entry, reserved map[NodeID]bool, log *Changes) *Node {
	parent := NoParent
	for d := 0; d < len(e.path)-1; d++ {
		prefix := e.path[:d+1]
		id, ok := t.byPath[prefix.key()]
		if !ok {
			n := newAutoNode(t.placeholderID(prefix, reserved), prefix, parent)
			t.link(n)
			log.add(Change{Kind: Added, ID: n.ID})
			id = n.ID
		}
		parent = id
	}
	var n *Node
	if id, ok := t.byPath[e.path.key()]; ok {
		n = t.nodes[id]
		if !n.AutoGenerated {
			w := &DuplicatePathWarning{Path: e.path, Kept: n.RowID, Dropped: e.id}
			tracer().Infof("%s", w.Error())
			t.warnings = append(t.warnings, w)
			if log != nil {
				log.Warnings = append(log.Warnings, w)
			}
			return nil
		}
		t.upgrade(n, e, reserved, log)
	} else {
		t.evict(NodeID(e.id), reserved, log)
		n = newRowNode(e.id, e.row, e.path, t.parentAt(e.path))
		t.link(n)
		log.add(Change{Kind: Added, ID: n.ID})
	}
	if log != nil {
		t.ancestors(n, func(a *Node) { a.DescendantCount++ })
	}
	return n
}

// parentAt returns the node for the parent path of path. Eviction may have
// re-keyed it, so it has to be looked up after evicting.
func (t *Table) parentAt(path Path) NodeID {
	if len(path) == 1 {
		return NoParent
	}
	id, ok := t.byPath[path[:len(path)-1].key()]
	assertThat(ok, "missing parent for path %s", path)
	return id
}

// upgrade turns an auto-generated node into a node carrying a row.
func (t *Table) upgrade(n *Node, e entry, reserved map[NodeID]bool, log *Changes) {
	old := n.ID
	t.evict(NodeID(e.id), reserved, log)
	t.rekey(n, NodeID(e.id))
	n.AutoGenerated = false
	n.RowID = e.id
	n.Row = e.row
	log.add(Change{Kind: Renamed, ID: old, To: n.ID})
}

// evict moves an auto-generated node out of the way if it happens to use
// identifier id.
func (t *Table) evict(id NodeID, reserved map[NodeID]bool, log *Changes) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	assertThat(n.AutoGenerated, "row identifier %q already in use", id)
	if reserved == nil {
		reserved = map[NodeID]bool{}
	}
	reserved[id] = true
	fresh := t.placeholderID(n.Path, reserved)
	t.rekey(n, fresh)
	log.add(Change{Kind: Renamed, ID: id, To: fresh})
}

// recount computes all descendant counts bottom-up.
func (t *Table) recount() {
	for _, n := range t.nodes {
		n.DescendantCount = 0
	}
	t.BottomUp(CalcDescendants)
}
