package document

import (
	"iter"
	"sort"
)

// Nodeset is a duplicate-free set of nodes kept in document order.
//
// The zero value is an empty set ready to use. A nil *Nodeset behaves as an
// empty set for every read-only method.
type Nodeset struct {
	nodes []Node
	index map[Node]struct{}
}

// NewNodeset creates a set holding the given nodes.
func NewNodeset(nodes ...Node) *Nodeset {
	s := &Nodeset{}
	for _, n := range nodes {
		s.Add(n)
	}
	return s
}

// Add inserts n at its document-order position. It reports whether the set
// changed; adding a member again is a no-op.
func (s *Nodeset) Add(n Node) bool {
	if s.index == nil {
		s.index = make(map[Node]struct{})
	}
	if _, ok := s.index[n]; ok {
		return false
	}
	s.index[n] = struct{}{}

	// Axis walks mostly produce nodes in order.
	if len(s.nodes) == 0 || Compare(s.nodes[len(s.nodes)-1], n) < 0 {
		s.nodes = append(s.nodes, n)
		return true
	}
	i := sort.Search(len(s.nodes), func(i int) bool {
		return Compare(s.nodes[i], n) > 0
	})
	s.nodes = append(s.nodes, Node{})
	copy(s.nodes[i+1:], s.nodes[i:])
	s.nodes[i] = n
	return true
}

// Contains reports whether n is a member.
func (s *Nodeset) Contains(n Node) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[n]
	return ok
}

// Len returns the cardinality of the set.
func (s *Nodeset) Len() int {
	if s == nil {
		return 0
	}
	return len(s.nodes)
}

// At returns the i-th node (0-based) in document order.
func (s *Nodeset) At(i int) Node {
	return s.nodes[i]
}

// First returns the first node in document order.
func (s *Nodeset) First() (Node, bool) {
	if s.Len() == 0 {
		return Node{}, false
	}
	return s.nodes[0], true
}

// Nodes returns a copy of the members in document order.
func (s *Nodeset) Nodes() []Node {
	if s == nil {
		return nil
	}
	out := make([]Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// All iterates over the members in document order.
func (s *Nodeset) All() iter.Seq2[int, Node] {
	return func(yield func(int, Node) bool) {
		if s == nil {
			return
		}
		for i, n := range s.nodes {
			if !yield(i, n) {
				return
			}
		}
	}
}

// Equal reports set equality; order of insertion does not matter.
func (s *Nodeset) Equal(other *Nodeset) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, n := range s.nodes0() {
		if !other.Contains(n) {
			return false
		}
	}
	return true
}

// Union returns a new set holding the members of both sets.
func (s *Nodeset) Union(other *Nodeset) *Nodeset {
	out := &Nodeset{}
	for _, n := range s.nodes0() {
		out.Add(n)
	}
	for _, n := range other.nodes0() {
		out.Add(n)
	}
	return out
}

func (s *Nodeset) nodes0() []Node {
	if s == nil {
		return nil
	}
	return s.nodes
}
