package griddbg

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/rowtree/grid"
	"github.com/npillmayer/rowtree/tree"
	tp "github.com/xlab/treeprint"
)

// Labeler creates the text for a node.
type Labeler func(n *tree.Node) string

// DefaultLabel shows a node's key, its descendant count and marks
// auto-generated nodes.
func DefaultLabel(n *tree.Node) string {
	if n.AutoGenerated {
		return fmt.Sprintf("%s (%d) [auto]", n.Key(), n.DescendantCount)
	}
	if n.HasChildren() {
		return fmt.Sprintf("%s (%d)", n.Key(), n.DescendantCount)
	}
	return n.Key()
}

// Dump writes all nodes of table t as a tree. label may be nil.
func Dump(t *tree.Table, w io.Writer, label Labeler) error {
	if label == nil {
		label = DefaultLabel
	}
	printer := tp.NewWithRoot(fmt.Sprintf("rows=%d nodes=%d", t.RowCount(), t.Len()))
	var add func(branch tp.Tree, children []tree.NodeID)
	add = func(branch tp.Tree, children []tree.NodeID) {
		for _, id := range children {
			n, _ := t.Lookup(id)
			if n.HasChildren() {
				add(branch.AddMetaBranch(n.ID, label(n)), n.Children())
			} else {
				branch.AddMetaNode(n.ID, label(n))
			}
		}
	}
	add(printer, t.Roots())
	_, err := io.WriteString(w, printer.String())
	return err
}

// String returns the dump of a table, for logging.
func String(t *tree.Table) string {
	var b strings.Builder
	_ = Dump(t, &b, nil)
	return b.String()
}

// DumpVisible writes the rows an engine displays as a tree, with filtered
// descendant counts. Collapsed groups are marked with "+".
func DumpVisible(eng *grid.Engine, w io.Writer) error {
	printer := tp.NewWithRoot(fmt.Sprintf("page %d/%d", eng.Result().Page+1, eng.PageCount()))
	branches := map[int]tp.Tree{-1: printer}
	for _, info := range eng.Rows() {
		parent, ok := branches[info.Depth-1]
		if !ok {
			parent = printer
		}
		key := info.Path[len(info.Path)-1]
		switch {
		case !info.HasChildren:
			parent.AddNode(key)
		case info.Expanded:
			branches[info.Depth] = parent.AddBranch(fmt.Sprintf("%s (%d)", key, info.FilteredDescendantCount))
		default:
			parent.AddNode(fmt.Sprintf("+ %s (%d)", key, info.FilteredDescendantCount))
		}
	}
	_, err := io.WriteString(w, printer.String())
	return err
}
