package grid

import (
	"errors"
	"fmt"

	"github.com/npillmayer/rowtree/expansion"
	"github.com/npillmayer/rowtree/gridmodel"
	"github.com/npillmayer/rowtree/rows"
	"github.com/npillmayer/rowtree/tree"
	"github.com/npillmayer/rowtree/view"
	"golang.org/x/text/language"
)

// ErrUnknownNode is returned when toggling a node which is not in the tree.
var ErrUnknownNode = errors.New("unknown tree node")

// Engine is the row-tree engine of a single grid.
type Engine struct {
	cfg         Config
	lang        language.Tag
	pathOf      tree.PathFunc
	idOf        rows.IdentityFunc
	expandPred  expansion.PredicateFunc
	rows        []rows.Row
	table       *tree.Table
	store       *expansion.Store
	sortModel   gridmodel.SortModel
	filterModel gridmodel.FilterModel
	cmp         view.Comparator
	pred        view.Predicate
	resolved    *view.Result // cached, nil if outdated
}

// Option is a type to configure an engine.
type Option func(*Engine)

// WithConfig replaces the configuration. Options given after it override
// single settings.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithIdentity sets the function deriving row identities. The default
// reads the "id" field.
func WithIdentity(idOf rows.IdentityFunc) Option {
	return func(e *Engine) {
		e.idOf = idOf
	}
}

// DefaultExpansionDepth expands every node above depth d by default;
// expansion.All expands everything.
func DefaultExpansionDepth(d int) Option {
	return func(e *Engine) {
		e.cfg.DefaultExpansionDepth = d
	}
}

// DefaultExpansionPredicate decides per node whether it is expanded by
// default. It takes precedence over the default expansion depth.
func DefaultExpansionPredicate(fn expansion.PredicateFunc) Option {
	return func(e *Engine) {
		e.expandPred = fn
	}
}

// DisableChildrenFiltering applies the filter to top-level nodes only.
func DisableChildrenFiltering() Option {
	return func(e *Engine) {
		e.cfg.DisableChildrenFiltering = true
	}
}

// DisableChildrenSorting restricts sorting to top-level nodes.
func DisableChildrenSorting() Option {
	return func(e *Engine) {
		e.cfg.DisableChildrenSorting = true
	}
}

// Pagination displays size top-level nodes per page.
func Pagination(size int) Option {
	return func(e *Engine) {
		e.cfg.PageSize = size
	}
}

// SortingMode sets where rows are sorted. With Server, rows are displayed
// in the order they are set.
func SortingMode(m Mode) Option {
	return func(e *Engine) {
		e.cfg.SortingMode = m
	}
}

// FilterMode sets where rows are filtered. Only Client is supported.
func FilterMode(m Mode) Option {
	return func(e *Engine) {
		e.cfg.FilterMode = m
	}
}

// New creates an engine without rows. It fails with an
// *UnsupportedConfigurationError if the configuration is not supported.
func New(pathOf tree.PathFunc, opts ...Option) (*Engine, error) {
	if pathOf == nil {
		return nil, tree.ErrNoPathFunc
	}
	e := &Engine{
		cfg:    DefaultConfig(),
		pathOf: pathOf,
		idOf:   rows.ByField(rows.DefaultIDField),
		store:  expansion.NewStore(),
	}
	for _, option := range opts {
		option(e)
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	e.lang, _ = e.cfg.language()
	e.table = tree.Empty(e.pathOf, tree.WithIdentity(e.idOf))
	e.store.ApplyDefaultPolicy(e.table, e.policy())
	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Table returns the current node table. Clients must not modify it.
func (e *Engine) Table() *tree.Table {
	return e.table
}

// Expansion returns the expansion flags.
func (e *Engine) Expansion() *expansion.Store {
	return e.store
}

// SetRows replaces all rows and rebuilds the tree. On error, the engine
// keeps its previous rows.
func (e *Engine) SetRows(rs []rows.Row) error {
	table, err := tree.Build(rs, e.pathOf, tree.WithIdentity(e.idOf))
	if err != nil {
		return err
	}
	e.rows = append([]rows.Row(nil), rs...)
	e.install(table)
	return nil
}

// SetPathFunc replaces the path function and rebuilds the tree. On error,
// the engine keeps its previous path function.
func (e *Engine) SetPathFunc(pathOf tree.PathFunc) error {
	if pathOf == nil {
		return tree.ErrNoPathFunc
	}
	table, err := tree.Build(e.rows, pathOf, tree.WithIdentity(e.idOf))
	if err != nil {
		return err
	}
	e.pathOf = pathOf
	e.install(table)
	return nil
}

func (e *Engine) install(table *tree.Table) {
	for _, w := range table.Warnings() {
		tracer().Infof("%v", w)
	}
	e.table = table
	e.store.ApplyDefaultPolicy(table, e.policy())
	e.resolved = nil
	tracer().Infof("tree rebuilt: %d rows, %d nodes", table.RowCount(), table.Len())
}

func (e *Engine) policy() expansion.Policy {
	if e.expandPred != nil {
		return expansion.Predicate(e.expandPred)
	}
	return expansion.Depth(e.cfg.DefaultExpansionDepth)
}

// UpdateRows applies a batch of row operations incrementally. Expansion
// flags follow the changes; added nodes get the default policy. If the
// batch fails, neither rows nor tree are changed.
func (e *Engine) UpdateRows(b tree.Batch) (tree.Changes, error) {
	rs, err := e.patchRows(b)
	if err != nil {
		return tree.Changes{}, err
	}
	changes, err := e.table.ApplyBatch(b)
	if err != nil {
		return changes, err
	}
	e.rows = rs
	e.store.Track(e.table, changes)
	e.resolved = nil
	return changes, nil
}

// patchRows applies a batch to a copy of the row collection.
func (e *Engine) patchRows(b tree.Batch) ([]rows.Row, error) {
	rs := append([]rows.Row(nil), e.rows...)
	index := make(map[rows.ID]int, len(rs))
	for i, r := range rs {
		if id, err := rows.Identify(e.idOf, r); err == nil {
			index[id] = i
		}
	}
	deleted := make(map[rows.ID]int)
	for i, op := range b {
		switch op.Kind {
		case tree.OpInsert, tree.OpUpdate:
			id, err := rows.Identify(e.idOf, op.Row)
			if err != nil {
				return nil, fmt.Errorf("batch operation #%d (%s): %w", i, op.Kind, err)
			}
			if j, ok := index[id]; ok {
				rs[j] = op.Row
			} else if j, ok := deleted[id]; ok { // re-insert keeps the position
				rs[j] = op.Row
				index[id] = j
				delete(deleted, id)
			} else {
				index[id] = len(rs)
				rs = append(rs, op.Row)
			}
		case tree.OpDelete:
			if j, ok := index[op.ID]; ok {
				rs[j] = nil
				deleted[op.ID] = j
				delete(index, op.ID)
			}
		}
	}
	live := rs[:0]
	for _, r := range rs {
		if r != nil {
			live = append(live, r)
		}
	}
	return live, nil
}

// SetSortModel sets the sort model. With server side sorting the model is
// recorded, but rows keep their order.
func (e *Engine) SetSortModel(m gridmodel.SortModel) error {
	cmp, err := m.Comparator(e.lang)
	if err != nil {
		return err
	}
	e.sortModel, e.cmp = m, cmp
	e.resolved = nil
	return nil
}

// SortModel returns the current sort model.
func (e *Engine) SortModel() gridmodel.SortModel {
	return e.sortModel
}

// SetFilterModel sets the filter model.
func (e *Engine) SetFilterModel(m gridmodel.FilterModel) error {
	pred, err := m.Predicate()
	if err != nil {
		return err
	}
	e.filterModel, e.pred = m, pred
	e.resolved = nil
	return nil
}

// FilterModel returns the current filter model.
func (e *Engine) FilterModel() gridmodel.FilterModel {
	return e.filterModel
}

// SetChildrenFiltering switches between filtering every node (enabled)
// and filtering top-level nodes only.
func (e *Engine) SetChildrenFiltering(enabled bool) {
	e.cfg.DisableChildrenFiltering = !enabled
	e.resolved = nil
}

// SetPage selects a page. Pages count from 0 and are clamped to the
// available pages when resolving.
func (e *Engine) SetPage(page int) {
	e.cfg.Page = max(page, 0)
	e.resolved = nil
}

// SetNodeExpansion expands or collapses a node. The node's flag will not be
// reset by the default expansion policy as long as the node exists.
func (e *Engine) SetNodeExpansion(id tree.NodeID, expanded bool) error {
	if _, ok := e.table.Lookup(id); !ok {
		return fmt.Errorf("cannot toggle node %q: %w", id, ErrUnknownNode)
	}
	e.store.SetExpanded(id, expanded)
	e.resolved = nil
	return nil
}

// RowInfo is a row to display, with everything needed to render a tree
// cell.
type RowInfo struct {
	ID                      tree.NodeID `json:"id" yaml:"id"`
	RowID                   rows.ID     `json:"rowId,omitempty" yaml:"row_id,omitempty"`
	Path                    tree.Path   `json:"path" yaml:"path"`
	Depth                   int         `json:"depth" yaml:"depth"`
	DescendantCount         int         `json:"descendantCount" yaml:"descendant_count"`
	FilteredDescendantCount int         `json:"filteredDescendantCount" yaml:"filtered_descendant_count"`
	AutoGenerated           bool        `json:"autoGenerated,omitempty" yaml:"auto_generated,omitempty"`
	HasChildren             bool        `json:"hasChildren,omitempty" yaml:"has_children,omitempty"`
	Expanded                bool        `json:"expanded,omitempty" yaml:"expanded,omitempty"`
	Row                     rows.Row    `json:"row,omitempty" yaml:"row,omitempty"`
}

// Rows returns the rows to display, in order.
func (e *Engine) Rows() []RowInfo {
	r := e.resolve()
	infos := make([]RowInfo, len(r.Rows))
	for i, n := range r.Rows {
		infos[i] = RowInfo{
			ID:                      n.ID,
			RowID:                   n.RowID,
			Path:                    n.Path,
			Depth:                   n.Depth,
			DescendantCount:         n.DescendantCount,
			FilteredDescendantCount: r.FilteredDescendantCount(n.ID),
			AutoGenerated:           n.AutoGenerated,
			HasChildren:             n.HasChildren(),
			Expanded:                n.HasChildren() && e.store.IsExpanded(n.ID),
			Row:                     n.Row,
		}
	}
	return infos
}

// PageCount returns the number of pages, 1 without pagination.
func (e *Engine) PageCount() int {
	return e.resolve().PageCount
}

// Result returns the current resolution.
func (e *Engine) Result() *view.Result {
	return e.resolve()
}

func (e *Engine) resolve() *view.Result {
	if e.resolved != nil {
		return e.resolved
	}
	opts := []view.Option{
		view.SortBy(e.cmp),
		view.FilterBy(e.pred),
		view.Paginate(e.cfg.Page, e.cfg.PageSize),
	}
	if e.cfg.SortingMode == Server {
		opts = append(opts, view.KeepRowOrder())
	}
	if e.cfg.DisableChildrenSorting {
		opts = append(opts, view.DisableChildrenSorting())
	}
	if e.cfg.DisableChildrenFiltering {
		opts = append(opts, view.DisableChildrenFiltering())
	}
	e.resolved = view.Resolve(e.table, e.store, opts...)
	return e.resolved
}
