package tree

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/npillmayer/rowtree/rows"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEmptyBatchIsIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rowtree.tree")
	defer teardown()
	//
	table := buildNamed(t, rowsWithGap...)
	before := snapshot(table)
	changes, err := table.ApplyBatch(nil)
	require.NoError(t, err)
	assert.Empty(t, changes.Log)
	assert.Equal(t, before, snapshot(table))
}

func TestInsertCreatesAncestors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rowtree.tree")
	defer teardown()
	//
	table := buildNamed(t, "A")
	changes, err := table.ApplyBatch(Batch{Insert(rows.Row{"name": "B.C.D"})})
	require.NoError(t, err)
	assert.Equal(t, []Change{
		{Kind: Added, ID: "auto-generated-row-B"},
		{Kind: Added, ID: "auto-generated-row-B-C"},
		{Kind: Added, ID: "B.C.D"},
	}, changes.Log)
	b, ok := table.NodeAt(Path{"B"})
	require.True(t, ok)
	assert.Equal(t, 1, b.DescendantCount)
	bc, _ := table.NodeAt(Path{"B", "C"})
	assert.Equal(t, 1, bc.DescendantCount)
	assert.Equal(t, []NodeID{"A", "auto-generated-row-B"}, table.Roots())
}

func TestInsertUpgradesPlaceholder(t *testing.T) {
	table := buildNamed(t, "B.A", "B.B")
	changes, err := table.ApplyBatch(Batch{Insert(rows.Row{"name": "B"})})
	require.NoError(t, err)
	assert.Equal(t, []Change{{Kind: Renamed, ID: "auto-generated-row-B", To: "B"}}, changes.Log)
	b, ok := table.NodeForRow("B")
	require.True(t, ok)
	assert.False(t, b.AutoGenerated)
	assert.Equal(t, 2, b.DescendantCount)
	ba, _ := table.Lookup("B.A")
	assert.Equal(t, NodeID("B"), ba.Parent)
}

func TestUpdateKeepsNodeIdentity(t *testing.T) {
	table := buildNamed(t, rowsWithoutGap...)
	changes, err := table.ApplyBatch(Batch{Update(rows.Row{"name": "A.A", "size": 42})})
	require.NoError(t, err)
	assert.Equal(t, []Change{{Kind: Updated, ID: "A.A"}}, changes.Log)
	n, _ := table.NodeForRow("A.A")
	assert.Equal(t, 42, n.Row["size"])
	a, _ := table.Lookup("A")
	assert.Equal(t, 2, a.DescendantCount)
}

func TestUpdateMovesRow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rowtree.tree")
	defer teardown()
	//
	rs := []rows.Row{
		{"id": 1, "path": "A"},
		{"id": 2, "path": "A.X"},
		{"id": 3, "path": "B"},
	}
	table, err := Build(rs, SplitField("path", "."))
	require.NoError(t, err)
	changes, err := table.ApplyBatch(Batch{Update(rows.Row{"id": 2, "path": "B.X"})})
	require.NoError(t, err)
	assert.Equal(t, []Change{{Kind: Removed, ID: "2"}, {Kind: Added, ID: "2"}}, changes.Log)
	n, ok := table.NodeForRow("2")
	require.True(t, ok)
	assert.Equal(t, NodeID("3"), n.Parent)
	a, _ := table.Lookup("1")
	b, _ := table.Lookup("3")
	assert.Equal(t, 0, a.DescendantCount)
	assert.Equal(t, 1, b.DescendantCount)
}

func TestUpdateOfUnknownRowInserts(t *testing.T) {
	table := buildNamed(t, "A")
	changes, err := table.ApplyBatch(Batch{Update(rows.Row{"name": "C"})})
	require.NoError(t, err)
	assert.Equal(t, []Change{{Kind: Added, ID: "C"}}, changes.Log)
	assert.Equal(t, 2, table.RowCount())
}

func TestDeletePrunesPlaceholders(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rowtree.tree")
	defer teardown()
	//
	table := buildNamed(t, "A", "B.A.X")
	changes, err := table.ApplyBatch(Batch{Delete("B.A.X")})
	require.NoError(t, err)
	assert.Equal(t, []Change{
		{Kind: Removed, ID: "B.A.X"},
		{Kind: Removed, ID: "auto-generated-row-B-A"},
		{Kind: Removed, ID: "auto-generated-row-B"},
	}, changes.Log)
	assert.Equal(t, []NodeID{"A"}, table.Roots())
	assert.Equal(t, 1, table.Len())
}

func TestDeleteStopsAtRow(t *testing.T) {
	table := buildNamed(t, "B", "B.A.X")
	_, err := table.ApplyBatch(Batch{Delete("B.A.X")})
	require.NoError(t, err)
	b, ok := table.NodeForRow("B")
	require.True(t, ok)
	assert.False(t, b.HasChildren())
	assert.Equal(t, 0, b.DescendantCount)
	assert.Equal(t, 1, table.Len())
}

func TestDeleteGroupKeepsPlaceholder(t *testing.T) {
	table := buildNamed(t, "A", "A.A", "A.B")
	changes, err := table.ApplyBatch(Batch{Delete("A")})
	require.NoError(t, err)
	assert.Equal(t, []Change{{Kind: Renamed, ID: "A", To: "auto-generated-row-A"}}, changes.Log)
	a, ok := table.NodeAt(Path{"A"})
	require.True(t, ok)
	assert.True(t, a.AutoGenerated)
	assert.Nil(t, a.Row)
	assert.Equal(t, 2, a.DescendantCount)
	aa, _ := table.Lookup("A.A")
	assert.Equal(t, a.ID, aa.Parent)
	_, found := table.NodeForRow("A")
	assert.False(t, found)
}

func TestDeleteOfUnknownRowIsIgnored(t *testing.T) {
	table := buildNamed(t, "A")
	changes, err := table.ApplyBatch(Batch{Delete("Z")})
	require.NoError(t, err)
	assert.Empty(t, changes.Log)
	assert.Equal(t, 1, table.Len())
}

func TestDeleteThenInsertIsUpdate(t *testing.T) {
	table := buildNamed(t, "A", "A.A")
	changes, err := table.ApplyBatch(Batch{
		Delete("A"),
		Insert(rows.Row{"name": "A", "flag": true}),
	})
	require.NoError(t, err)
	assert.Equal(t, []Change{{Kind: Updated, ID: "A"}}, changes.Log)
	a, _ := table.NodeForRow("A")
	assert.Equal(t, true, a.Row["flag"])
}

func TestBatchWithInvalidPathChangesNothing(t *testing.T) {
	rs := []rows.Row{{"id": 1, "path": "A"}, {"id": 2, "path": "A.A"}}
	table, err := Build(rs, SplitField("path", "."))
	require.NoError(t, err)
	before := snapshot(table)
	_, err = table.ApplyBatch(Batch{
		Delete("2"),
		Insert(rows.Row{"id": 3, "path": "E"}),
		Insert(rows.Row{"id": 4, "path": []any{"X", map[string]int{}}}),
	})
	var ipe *InvalidPathError
	require.True(t, errors.As(err, &ipe), "expected InvalidPathError, is %v", err)
	assert.Equal(t, rows.ID("4"), ipe.RowID)
	assert.Equal(t, before, snapshot(table))
	_, ok := table.NodeForRow("2")
	assert.True(t, ok, "expected row 2 to survive a failed batch")
}

func TestCopyOnWriteBatch(t *testing.T) {
	table := buildNamed(t, rowsWithGap...)
	before := snapshot(table)
	next, changes, err := ApplyBatch(table, Batch{Delete("B.A"), Delete("B.B")})
	require.NoError(t, err)
	assert.Len(t, changes.Log, 3)
	assert.Equal(t, before, snapshot(table))
	assert.Equal(t, 3, next.Len())
	same, _, err := ApplyBatch(table, Batch{Insert(rows.Row{"name": true})})
	require.Error(t, err)
	assert.Same(t, table, same)
}

func TestInsertClaimsPlaceholderIDOfAncestor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rowtree.tree")
	defer teardown()
	//
	table, err := Build([]rows.Row{{"id": "x", "p": []string{"A", "B"}}}, pathField)
	require.NoError(t, err)
	changes, err := table.ApplyBatch(Batch{
		Insert(rows.Row{"id": "auto-generated-row-A", "p": []string{"A", "C"}}),
	})
	require.NoError(t, err)
	assert.Equal(t, []Change{
		{Kind: Renamed, ID: "auto-generated-row-A", To: "auto-generated-row-A~1"},
		{Kind: Added, ID: "auto-generated-row-A"},
	}, changes.Log)
	checkInvariants(t, table)
	n, ok := table.NodeForRow("auto-generated-row-A")
	require.True(t, ok)
	assert.Equal(t, NodeID("auto-generated-row-A~1"), n.Parent)
	a, _ := table.NodeAt(Path{"A"})
	assert.True(t, a.AutoGenerated)
	assert.Equal(t, 2, a.DescendantCount)
	assert.Equal(t, []NodeID{"x", "auto-generated-row-A"}, a.Children())
}

func TestInsertClaimsOwnPlaceholderID(t *testing.T) {
	table, err := Build([]rows.Row{{"id": "x", "p": []string{"A", "B"}}}, pathField)
	require.NoError(t, err)
	_, err = table.ApplyBatch(Batch{
		Insert(rows.Row{"id": "auto-generated-row-A", "p": []string{"A"}}),
	})
	require.NoError(t, err)
	checkInvariants(t, table)
	a, _ := table.NodeAt(Path{"A"})
	assert.False(t, a.AutoGenerated)
	assert.Equal(t, NodeID("auto-generated-row-A"), a.ID)
	x, _ := table.Lookup("x")
	assert.Equal(t, a.ID, x.Parent)
}

// --- Properties ------------------------------------------------------------

// pathGen draws paths over a small alphabet, to provoke shared prefixes.
func pathGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		keys := rapid.SliceOfN(rapid.SampledFrom([]string{"A", "B", "C"}), 1, 4).Draw(t, "keys")
		return strings.Join(keys, ".")
	})
}

func TestIncrementalInsertEqualsBuild(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfDistinct(pathGen(), func(s string) string { return s }).Draw(rt, "names")
		k := rapid.IntRange(0, len(names)).Draw(rt, "split")
		full, err := Build(namedRows(names...), SplitField("name", "."), WithIdentity(rows.ByField("name")))
		if err != nil {
			rt.Fatal(err)
		}
		part, err := Build(namedRows(names[:k]...), SplitField("name", "."), WithIdentity(rows.ByField("name")))
		if err != nil {
			rt.Fatal(err)
		}
		var b Batch
		for _, r := range namedRows(names[k:]...) {
			b = append(b, Insert(r))
		}
		if _, err := part.ApplyBatch(b); err != nil {
			rt.Fatal(err)
		}
		checkInvariants(rt, part)
		if s1, s2 := snapshot(full), snapshot(part); !equalStrings(s1, s2) {
			rt.Fatalf("incremental tree differs from rebuild:\n%s\nvs\n%s", printTable(full), printTable(part))
		}
	})
}

func TestIncrementalDeleteEqualsBuild(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		names := rapid.SliceOfDistinct(pathGen(), func(s string) string { return s }).Draw(rt, "names")
		table, err := Build(namedRows(names...), SplitField("name", "."), WithIdentity(rows.ByField("name")))
		if err != nil {
			rt.Fatal(err)
		}
		var b Batch
		var remaining []string
		for i, name := range names {
			if rapid.Bool().Draw(rt, fmt.Sprintf("delete#%d", i)) {
				b = append(b, Delete(rows.ID(name)))
			} else {
				remaining = append(remaining, name)
			}
		}
		if _, err := table.ApplyBatch(b); err != nil {
			rt.Fatal(err)
		}
		checkInvariants(rt, table)
		rebuilt, _ := Build(namedRows(remaining...), SplitField("name", "."), WithIdentity(rows.ByField("name")))
		// sibling order may differ after deletes, so compare as sets
		s1, s2 := snapshot(rebuilt), snapshot(table)
		sort.Strings(s1)
		sort.Strings(s2)
		if !equalStrings(s1, s2) {
			rt.Fatalf("tree after deletes differs from rebuild:\n%s\nvs\n%s", printTable(rebuilt), printTable(table))
		}
	})
}

// TestRandomBatchesKeepInvariants applies random batches of rows whose
// identities may collide with placeholder identifiers.
func TestRandomBatchesKeepInvariants(t *testing.T) {
	ids := []string{"1", "2", "3", "auto-generated-row-A", "auto-generated-row-A-B",
		"auto-generated-row-B", "auto-generated-row-A~1"}
	rapid.Check(t, func(rt *rapid.T) {
		table := Empty(pathField)
		for round := 0; round < 4; round++ {
			var b Batch
			for _, kind := range rapid.SliceOfN(rapid.IntRange(0, 2), 1, 6).Draw(rt, "ops") {
				id := rapid.SampledFrom(ids).Draw(rt, "id")
				switch OpKind(kind) {
				case OpDelete:
					b = append(b, Delete(rows.ID(id)))
				default:
					path := strings.Split(pathGen().Draw(rt, "path"), ".")
					b = append(b, Op{Kind: OpKind(kind), Row: rows.Row{"id": id, "p": path}})
				}
			}
			if _, err := table.ApplyBatch(b); err != nil {
				rt.Fatal(err)
			}
			checkInvariants(rt, table)
		}
	})
}

// checkInvariants verifies depths, parent links, path index and descendant
// counts of every node.
func checkInvariants(t interface{ Fatalf(string, ...any) }, table *Table) {
	var count func(n *Node) int
	count = func(n *Node) int {
		c := 0
		for _, ch := range n.children {
			child := table.nodes[ch]
			c += count(child) + child.countsAsDescendant()
		}
		return c
	}
	visited := 0
	table.Walk(func(n *Node) bool {
		visited++
		if n.Depth != len(n.Path)-1 {
			t.Fatalf("node %s: depth %d for path %s", n.ID, n.Depth, n.Path)
		}
		if id, ok := table.byPath[n.Path.key()]; !ok || id != n.ID {
			t.Fatalf("node %s: path index broken", n.ID)
		}
		if n.Parent != NoParent {
			p := table.nodes[n.Parent]
			if p == nil || !p.Path.Equal(n.Path[:len(n.Path)-1]) || p.IndexOfChild(n.ID) < 0 {
				t.Fatalf("node %s: parent link broken", n.ID)
			}
		}
		if n.AutoGenerated && !n.HasChildren() {
			t.Fatalf("node %s: childless auto-generated node", n.ID)
		}
		if c := count(n); c != n.DescendantCount {
			t.Fatalf("node %s: descendant count is %d, should be %d", n.ID, n.DescendantCount, c)
		}
		return true
	})
	if visited != table.Len() {
		t.Fatalf("%d nodes reachable, %d in table", visited, table.Len())
	}
}

// snapshot lists every node in pre-order as a comparable line.
func snapshot(table *Table) []string {
	var lines []string
	table.Walk(func(n *Node) bool {
		lines = append(lines, fmt.Sprintf("%s|%s|%s|%v|%d", n.Path, n.ID, n.Parent, n.AutoGenerated, n.DescendantCount))
		return true
	})
	return lines
}

func pathField(r rows.Row) any {
	return r["p"]
}
