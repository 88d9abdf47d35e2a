package view

import (
	"strings"
	"testing"

	"github.com/npillmayer/rowtree/rows"
	"github.com/npillmayer/rowtree/tree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var rowsWithoutGap = []string{"A", "A.A", "A.B", "B", "B.A", "B.B", "B.B.A", "B.B.A.A", "C"}

func TestFlattenFillsGaps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rowtree.view")
	defer teardown()
	//
	table := build(t, "A", "A.B", "A.A", "B.A", "B.B")
	r := Resolve(table, expandAll{})
	assert.Equal(t, []string{"A", "A.B", "A.A", "", "B.A", "B.B"}, labels(r))
	assert.True(t, r.Rows[3].AutoGenerated)
}

func TestFlattenKeepsInsertionOrder(t *testing.T) {
	table := build(t, "D", "A.B", "A", "A.A")
	r := Resolve(table, expandAll{})
	assert.Equal(t, []string{"D", "A", "A.B", "A.A"}, labels(r))
}

func TestFlattenCollapsed(t *testing.T) {
	table := build(t, rowsWithoutGap...)
	assert.Equal(t, []string{"A", "B", "C"}, labels(Resolve(table, nil)))
	r := Resolve(table, expanded{"B": true, "B.B": true, "A.A": true})
	assert.Equal(t, []string{"A", "B", "B.A", "B.B", "B.B.A", "C"}, labels(r))
}

func TestSortEverySiblingGroup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rowtree.view")
	defer teardown()
	//
	table := build(t, rowsWithoutGap...)
	r := Resolve(table, expandAll{}, SortBy(byName(true)))
	assert.Equal(t, []string{"C", "B", "B.B", "B.B.A", "B.B.A.A", "B.A", "A", "A.B", "A.A"}, labels(r))
	r = Resolve(table, expandAll{}, SortBy(byName(false)))
	assert.Equal(t, rowsWithoutGap, labels(r))
}

func TestSortTopLevelOnly(t *testing.T) {
	table := build(t, rowsWithoutGap...)
	r := Resolve(table, expandAll{}, SortBy(byName(true)), DisableChildrenSorting())
	assert.Equal(t, []string{"C", "B", "B.A", "B.B", "B.B.A", "B.B.A.A", "A", "A.A", "A.B"}, labels(r))
}

func TestSortIsStable(t *testing.T) {
	table := build(t, "B.X", "A", "B", "A.Z", "A.Y")
	r := Resolve(table, expandAll{}, SortBy(func(a, b *tree.Node) int { return 0 }))
	assert.Equal(t, []string{"B", "B.X", "A", "A.Z", "A.Y"}, labels(r))
}

func TestKeepRowOrder(t *testing.T) {
	table := build(t, rowsWithoutGap...)
	r := Resolve(table, expandAll{}, SortBy(byName(true)), KeepRowOrder())
	assert.Equal(t, rowsWithoutGap, labels(r))
}

func TestResolveLeavesTableAlone(t *testing.T) {
	table := build(t, rowsWithoutGap...)
	roots := table.Roots()
	children := table.Children("B")
	Resolve(table, expandAll{}, SortBy(byName(true)), FilterBy(endsWith("A")))
	assert.Equal(t, roots, table.Roots())
	assert.Equal(t, children, table.Children("B"))
}

func TestFilterKeepsParentsOfPassingChildren(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rowtree.view")
	defer teardown()
	//
	table := build(t, "B", "B.A", "B.B")
	r := Resolve(table, expandAll{}, FilterBy(endsWith("A")))
	assert.Equal(t, []string{"B", "B.A"}, labels(r))
	r = Resolve(table, expandAll{}, FilterBy(endsWith("B")))
	assert.Equal(t, []string{"B", "B.B"}, labels(r))
	assert.Equal(t, 1, r.FilteredDescendantCount("B"))
	//
	table = build(t, "B", "B.B")
	assert.Empty(t, labels(Resolve(table, expandAll{}, FilterBy(endsWith("A")))))
	table = build(t, "A", "A.B")
	r = Resolve(table, expandAll{}, FilterBy(endsWith("A")))
	assert.Equal(t, []string{"A"}, labels(r))
	assert.Equal(t, 0, r.FilteredDescendantCount("A"))
}

func TestFilterTopLevelOnly(t *testing.T) {
	table := build(t, "B", "B.A", "B.B")
	r := Resolve(table, expandAll{}, FilterBy(endsWith("A")), DisableChildrenFiltering())
	assert.Empty(t, labels(r))
	assert.False(t, r.IsVisible("B.A"), "B.A passes, but its top-level node does not")
	r = Resolve(table, expandAll{}, FilterBy(endsWith("B")), DisableChildrenFiltering())
	assert.Equal(t, []string{"B", "B.A", "B.B"}, labels(r))
	assert.Equal(t, 2, r.FilteredDescendantCount("B"))
	//
	table = build(t, "A", "A.B", "A.B.A", "C.A")
	r = Resolve(table, expandAll{}, FilterBy(endsWith("A")), DisableChildrenFiltering())
	assert.Equal(t, []string{"A", "A.B", "A.B.A"}, labels(r))
	assert.Equal(t, 2, r.FilteredDescendantCount("A"))
	assert.Equal(t, 1, r.FilteredDescendantCount("A.B"))
	assert.False(t, r.IsVisible("C.A"), "C.A is hidden with its placeholder parent")
}

func TestFilteredCountsOfCollapsedChildren(t *testing.T) {
	table := build(t, rowsWithoutGap...)
	r := Resolve(table, nil, FilterBy(endsWith("A")))
	assert.Equal(t, []string{"A", "B"}, labels(r))
	assert.Equal(t, 1, r.FilteredDescendantCount("A"))
	assert.Equal(t, 4, r.FilteredDescendantCount("B"))
	assert.Equal(t, 2, r.FilteredDescendantCount("B.B"))
	assert.False(t, r.IsVisible("C"))
	//
	r = Resolve(table, nil)
	assert.Equal(t, 2, r.FilteredDescendantCount("A"))
	assert.Equal(t, 4, r.FilteredDescendantCount("B"))
	assert.True(t, r.IsVisible("C"))
}

func TestFilterThroughPlaceholders(t *testing.T) {
	table := build(t, "A", "A.B", "A.A", "B.A", "B.B")
	r := Resolve(table, expandAll{}, FilterBy(endsWith("B")))
	assert.Equal(t, []string{"A", "A.B", "", "B.B"}, labels(r))
	assert.Equal(t, 1, r.FilteredDescendantCount("auto-generated-row-B"))
}

func TestPaginateTopLevel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rowtree.view")
	defer teardown()
	//
	table := build(t, rowsWithoutGap...)
	r := Resolve(table, nil, Paginate(0, 2))
	assert.Equal(t, []string{"A", "B"}, labels(r))
	assert.Equal(t, 2, r.PageCount)
	r = Resolve(table, expanded{"A": true}, Paginate(0, 2))
	assert.Equal(t, []string{"A", "A.A", "A.B", "B"}, labels(r))
	r = Resolve(table, expanded{"A": true}, Paginate(1, 2))
	assert.Equal(t, []string{"C"}, labels(r))
	r = Resolve(table, nil, Paginate(7, 2))
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, []string{"C"}, labels(r))
	r = Resolve(table, nil, Paginate(0, 2), FilterBy(endsWith("A")))
	assert.Equal(t, 1, r.PageCount)
	assert.Equal(t, []tree.NodeID{"A", "B"}, r.TopLevel)
}

func TestPaginateEmpty(t *testing.T) {
	table := tree.Empty(tree.SplitField("name", "."))
	r := Resolve(table, nil, Paginate(3, 10))
	assert.Empty(t, r.Rows)
	assert.Zero(t, r.Page)
	assert.Zero(t, r.PageCount)
}

// --- Properties ------------------------------------------------------------

func TestFilterProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		keys := rapid.SliceOfN(rapid.SampledFrom([]string{"A", "B", "C"}), 1, 4)
		path := rapid.Custom(func(t *rapid.T) string { return strings.Join(keys.Draw(t, "keys"), ".") })
		names := rapid.SliceOfDistinct(path, func(s string) string { return s }).Draw(rt, "names")
		suffix := rapid.SampledFrom([]string{"A", "B", "C"}).Draw(rt, "suffix")
		table, err := tree.Build(namedRows(names...), tree.SplitField("name", "."),
			tree.WithIdentity(rows.ByField("name")))
		if err != nil {
			rt.Fatal(err)
		}
		pass := endsWith(suffix)
		r := Resolve(table, expandAll{}, FilterBy(pass))
		var count func(n *tree.Node) int
		count = func(n *tree.Node) int {
			c := 0
			for _, id := range n.Children() {
				if ch, _ := table.Lookup(id); r.IsVisible(id) {
					c += count(ch)
					if !ch.AutoGenerated {
						c++
					}
				}
			}
			return c
		}
		visible := 0
		table.Walk(func(n *tree.Node) bool {
			v := r.IsVisible(n.ID)
			if pass(n) && !v {
				rt.Fatalf("node %s passes, but is not visible", n.ID)
			}
			if v && !pass(n) && !anyVisible(r, n) {
				rt.Fatalf("node %s is visible without reason", n.ID)
			}
			if v {
				visible++
				if c := count(n); c != r.FilteredDescendantCount(n.ID) {
					rt.Fatalf("node %s: filtered count %d, should be %d", n.ID, r.FilteredDescendantCount(n.ID), c)
				}
			}
			return true
		})
		if len(r.Rows) != visible {
			rt.Fatalf("%d rows emitted, but %d nodes are visible", len(r.Rows), visible)
		}
		//
		r = Resolve(table, expandAll{}, FilterBy(pass), DisableChildrenFiltering())
		table.Walk(func(n *tree.Node) bool {
			root, _ := table.NodeAt(n.Path[:1])
			if r.IsVisible(n.ID) != pass(root) {
				rt.Fatalf("top-level filter: visibility of %s should follow %s", n.ID, root.ID)
			}
			if r.IsVisible(n.ID) && r.FilteredDescendantCount(n.ID) != n.DescendantCount {
				rt.Fatalf("top-level filter: %s counts %d, should be %d", n.ID,
					r.FilteredDescendantCount(n.ID), n.DescendantCount)
			}
			return true
		})
	})
}

// --- Helpers ---------------------------------------------------------------

type expandAll struct{}

func (expandAll) IsExpanded(tree.NodeID) bool { return true }

type expanded map[tree.NodeID]bool

func (e expanded) IsExpanded(id tree.NodeID) bool { return e[id] }

func namedRows(names ...string) []rows.Row {
	rs := make([]rows.Row, len(names))
	for i, n := range names {
		rs[i] = rows.Row{"name": n}
	}
	return rs
}

func build(t *testing.T, names ...string) *tree.Table {
	t.Helper()
	table, err := tree.Build(namedRows(names...), tree.SplitField("name", "."),
		tree.WithIdentity(rows.ByField("name")))
	require.NoError(t, err)
	return table
}

func labels(r *Result) []string {
	l := make([]string, len(r.Rows))
	for i, n := range r.Rows {
		l[i] = n.Row.Text("name")
	}
	return l
}

func byName(desc bool) Comparator {
	return func(a, b *tree.Node) int {
		c := strings.Compare(a.Row.Text("name"), b.Row.Text("name"))
		if desc {
			return -c
		}
		return c
	}
}

func endsWith(suffix string) Predicate {
	return func(n *tree.Node) bool {
		return !n.AutoGenerated && strings.HasSuffix(n.Row.Text("name"), suffix)
	}
}

func anyVisible(r *Result, n *tree.Node) bool {
	for _, id := range n.Children() {
		if r.IsVisible(id) {
			return true
		}
	}
	return false
}
