package expansion

import (
	"github.com/npillmayer/rowtree/tree"
)

// Store holds the expansion flags of the nodes of one row tree. The zero
// value is not usable, create stores with NewStore.
//
// A Store is not safe for concurrent use.
type Store struct {
	expanded map[tree.NodeID]bool
	toggled  map[tree.NodeID]bool
	policy   Policy
}

// NewStore creates an empty store. Until a policy is applied, every node
// is collapsed.
func NewStore() *Store {
	return &Store{
		expanded: make(map[tree.NodeID]bool),
		toggled:  make(map[tree.NodeID]bool),
	}
}

// IsExpanded is true if node id is expanded. Unknown nodes are collapsed.
func (s *Store) IsExpanded(id tree.NodeID) bool {
	return s.expanded[id]
}

// SetExpanded explicitly expands or collapses node id. The flag is marked
// as toggled and will not be touched by the default policy any more.
// Validating id is up to the caller.
func (s *Store) SetExpanded(id tree.NodeID, expanded bool) {
	tracer().Debugf("node %q expanded=%v", id, expanded)
	s.expanded[id] = expanded
	s.toggled[id] = true
}

// Toggled is true if node id has been explicitly expanded or collapsed.
func (s *Store) Toggled(id tree.NodeID) bool {
	return s.toggled[id]
}

// Policy returns the policy most recently applied, or nil.
func (s *Store) Policy() Policy {
	return s.policy
}

// Len returns the number of nodes the store holds a flag for.
func (s *Store) Len() int {
	return len(s.expanded)
}

// Reset forgets all flags, toggled ones included, and the policy.
func (s *Store) Reset() {
	s.expanded = make(map[tree.NodeID]bool)
	s.toggled = make(map[tree.NodeID]bool)
	s.policy = nil
}

// ApplyDefaultPolicy seeds the flags of every node of table t from
// policy p, except for nodes which have been toggled. Flags for nodes no
// longer in t are dropped. Call it after a structural rebuild.
func (s *Store) ApplyDefaultPolicy(t *tree.Table, p Policy) {
	s.policy = p
	for id := range s.expanded {
		if _, ok := t.Lookup(id); !ok {
			delete(s.expanded, id)
			delete(s.toggled, id)
		}
	}
	for id := range s.toggled {
		if _, ok := t.Lookup(id); !ok {
			delete(s.toggled, id)
		}
	}
	n := 0
	t.Walk(func(node *tree.Node) bool {
		if !s.toggled[node.ID] {
			s.expanded[node.ID] = expands(p, node)
			n++
		}
		return true
	})
	tracer().Debugf("applied expansion policy %v to %d nodes", p, n)
}

// Track brings the store in line with a batch applied to table t.
// Flags follow renamed nodes and are dropped for removed ones. Added nodes,
// and parents which might just have turned into groups, are seeded from
// the current policy unless they have been toggled.
func (s *Store) Track(t *tree.Table, changes tree.Changes) {
	var seed []tree.NodeID
	for _, ch := range changes.Log {
		switch ch.Kind {
		case tree.Renamed:
			s.move(ch.ID, ch.To)
		case tree.Removed:
			delete(s.expanded, ch.ID)
			delete(s.toggled, ch.ID)
		case tree.Added:
			seed = append(seed, ch.ID)
		}
	}
	for _, id := range seed {
		n, ok := t.Lookup(id)
		if !ok {
			continue
		}
		s.seed(n)
		if p, ok := t.Lookup(n.Parent); ok {
			s.seed(p)
		}
	}
}

func (s *Store) seed(n *tree.Node) {
	if !s.toggled[n.ID] {
		s.expanded[n.ID] = expands(s.policy, n)
	}
}

func (s *Store) move(from, to tree.NodeID) {
	e, hasE := s.expanded[from]
	tg := s.toggled[from]
	delete(s.expanded, from)
	delete(s.toggled, from)
	if hasE {
		s.expanded[to] = e
	}
	if tg {
		s.toggled[to] = true
	}
}
