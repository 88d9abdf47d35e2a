package view

import "github.com/npillmayer/rowtree/tree"

// Comparator orders two sibling nodes, returning a negative number if a
// sorts before b, a positive number if after, and zero for ties.
type Comparator func(a, b *tree.Node) int

// Predicate decides if a node passes a filter on its own.
type Predicate func(n *tree.Node) bool

// Expansion tells if a node is expanded. *expansion.Store implements it.
type Expansion interface {
	IsExpanded(id tree.NodeID) bool
}

type options struct {
	cmp             Comparator
	pred            Predicate
	topLevelSorting bool // sort depth 0 only
	topLevelFilter  bool // filter depth 0 only
	keepRowOrder    bool
	page, pageSize  int
}

// Option is a type to configure a resolution.
type Option func(*options)

// SortBy sets the comparator to order sibling groups. nil means no sort.
func SortBy(cmp Comparator) Option {
	return func(o *options) {
		o.cmp = cmp
	}
}

// FilterBy sets the filter predicate. nil means no filter.
func FilterBy(pred Predicate) Option {
	return func(o *options) {
		o.pred = pred
	}
}

// DisableChildrenSorting restricts sorting to top-level nodes. Deeper
// levels keep insertion order.
func DisableChildrenSorting() Option {
	return func(o *options) {
		o.topLevelSorting = true
	}
}

// DisableChildrenFiltering restricts filtering to top-level nodes. Every
// descendant of a passing top-level node is visible.
func DisableChildrenFiltering() Option {
	return func(o *options) {
		o.topLevelFilter = true
	}
}

// KeepRowOrder ignores any comparator. This is what a grid does if rows
// are sorted by a server.
func KeepRowOrder() Option {
	return func(o *options) {
		o.keepRowOrder = true
	}
}

// Paginate selects a window of size top-level nodes. Pages count from 0.
// A size of 0 or less disables pagination.
func Paginate(page, size int) Option {
	return func(o *options) {
		o.page = page
		o.pageSize = size
	}
}
