package view

import (
	"slices"

	"github.com/npillmayer/rowtree/tree"
)

// Result is the outcome of a resolution.
type Result struct {
	Rows      []*tree.Node  // flattened visible nodes of the selected page
	TopLevel  []tree.NodeID // visible top-level nodes of all pages, in order
	Page      int           // selected page, clamped to the available pages
	PageCount int           // 1 if pagination is off
	table     *tree.Table
	visible   map[tree.NodeID]bool // nil if there is no filter
	filtered  map[tree.NodeID]int  // nil if there is no filter
}

// Resolve computes the visible rows of table t. ex provides expansion
// flags; if it is nil, every node is collapsed.
func Resolve(t *tree.Table, ex Expansion, opts ...Option) *Result {
	var o options
	for _, option := range opts {
		option(&o)
	}
	if o.keepRowOrder {
		o.cmp = nil
	}
	r := &Result{table: t}
	if o.pred != nil {
		r.filter(&o)
	}
	top := r.children(tree.NoParent, &o)
	r.TopLevel = make([]tree.NodeID, len(top))
	for i, n := range top {
		r.TopLevel[i] = n.ID
	}
	window := r.paginate(top, &o)
	var emit func(n *tree.Node)
	emit = func(n *tree.Node) {
		r.Rows = append(r.Rows, n)
		if n.HasChildren() && ex != nil && ex.IsExpanded(n.ID) {
			for _, ch := range r.children(n.ID, &o) {
				emit(ch)
			}
		}
	}
	for _, n := range window {
		emit(n)
	}
	tracer().Debugf("resolved %d rows, %d visible top-level nodes, page %d/%d",
		len(r.Rows), len(r.TopLevel), r.Page+1, r.PageCount)
	return r
}

// IDs returns the identifiers of the resolved rows.
func (r *Result) IDs() []tree.NodeID {
	ids := make([]tree.NodeID, len(r.Rows))
	for i, n := range r.Rows {
		ids[i] = n.ID
	}
	return ids
}

// IsVisible is true if node id survives the filter. Without a filter every
// node of the table is visible, regardless of expansion.
func (r *Result) IsVisible(id tree.NodeID) bool {
	if r.visible == nil {
		_, ok := r.table.Lookup(id)
		return ok
	}
	return r.visible[id]
}

// FilteredDescendantCount returns the number of row-backed descendants of
// node id which are visible under the filter. Without a filter this is the
// node's descendant count.
func (r *Result) FilteredDescendantCount(id tree.NodeID) int {
	if r.filtered == nil {
		if n, ok := r.table.Lookup(id); ok {
			return n.DescendantCount
		}
		return 0
	}
	return r.filtered[id]
}

// filter decides visibility and counts visible descendants.
func (r *Result) filter(o *options) {
	r.visible = make(map[tree.NodeID]bool)
	r.filtered = make(map[tree.NodeID]int)
	var visit func(n *tree.Node) bool
	if o.topLevelFilter {
		// only top-level nodes are judged, subtrees follow their root
		var keep func(n *tree.Node) bool
		keep = func(n *tree.Node) bool {
			r.visible[n.ID] = true
			r.filtered[n.ID] = r.countVisible(n, keep)
			return true
		}
		visit = func(n *tree.Node) bool {
			if !o.pred(n) {
				return false
			}
			return keep(n)
		}
	} else {
		visit = func(n *tree.Node) bool {
			r.filtered[n.ID] = r.countVisible(n, visit)
			if r.anyVisibleChild(n) || o.pred(n) {
				r.visible[n.ID] = true
				return true
			}
			return false
		}
	}
	for _, id := range r.table.Roots() {
		n, _ := r.table.Lookup(id)
		visit(n)
	}
	tracer().Debugf("filter passes %d of %d nodes", len(r.visible), r.table.Len())
}

// countVisible visits the children of n and sums up the visible ones,
// together with their visible descendants.
func (r *Result) countVisible(n *tree.Node, visit func(*tree.Node) bool) int {
	cnt := 0
	for i := 0; i < n.ChildCount(); i++ {
		id, _ := n.Child(i)
		ch, _ := r.table.Lookup(id)
		if visit(ch) {
			cnt += r.filtered[ch.ID]
			if !ch.AutoGenerated {
				cnt++
			}
		}
	}
	return cnt
}

// anyVisibleChild is true if at least one child of n has been found visible.
func (r *Result) anyVisibleChild(n *tree.Node) bool {
	for i := 0; i < n.ChildCount(); i++ {
		if id, _ := n.Child(i); r.visible[id] {
			return true
		}
	}
	return false
}

// children returns the visible children of a node, sorted as configured.
// For tree.NoParent it returns the top-level nodes.
func (r *Result) children(parent tree.NodeID, o *options) []*tree.Node {
	ids := r.table.Children(parent)
	nodes := make([]*tree.Node, 0, len(ids))
	for _, id := range ids {
		if r.visible != nil && !r.visible[id] {
			continue
		}
		n, _ := r.table.Lookup(id)
		nodes = append(nodes, n)
	}
	if o.cmp != nil && (parent == tree.NoParent || !o.topLevelSorting) {
		slices.SortStableFunc(nodes, o.cmp)
	}
	return nodes
}

// paginate selects the top-level nodes of the configured page.
func (r *Result) paginate(top []*tree.Node, o *options) []*tree.Node {
	if o.pageSize <= 0 {
		r.PageCount = 1
		return top
	}
	r.PageCount = (len(top) + o.pageSize - 1) / o.pageSize
	r.Page = min(max(o.page, 0), max(r.PageCount-1, 0))
	from := min(r.Page*o.pageSize, len(top))
	to := min(from+o.pageSize, len(top))
	return top[from:to]
}
