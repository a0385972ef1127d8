package groups

import "fmt"

// Set holds groups keyed by name while preserving registration order.
type Set struct {
	order  []string
	groups map[string]Group
}

// NewSet builds a set from the supplied groups. Later duplicates replace
// earlier ones.
func NewSet(groups ...Group) *Set {
	s := &Set{groups: make(map[string]Group, len(groups))}
	for _, g := range groups {
		s.Put(g)
	}
	return s
}

// Add registers a group, rejecting duplicates.
func (s *Set) Add(g Group) error {
	g = g.Normalize()
	if g.Name == "" {
		return fmt.Errorf("groups: group name is required")
	}
	if _, exists := s.groups[g.Name]; exists {
		return fmt.Errorf("groups: duplicate group %q", g.Name)
	}
	s.Put(g)
	return nil
}

// Put registers or replaces a group.
func (s *Set) Put(g Group) {
	g = g.Normalize()
	if g.Name == "" {
		return
	}
	if s.groups == nil {
		s.groups = make(map[string]Group)
	}
	if _, exists := s.groups[g.Name]; !exists {
		s.order = append(s.order, g.Name)
	}
	s.groups[g.Name] = g
}

// Get returns the named group.
func (s *Set) Get(name string) (Group, bool) {
	if s == nil {
		return Group{}, false
	}
	g, ok := s.groups[name]
	return g, ok
}

// All returns groups in registration order.
func (s *Set) All() []Group {
	if s == nil {
		return nil
	}
	out := make([]Group, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.groups[name])
	}
	return out
}

// Len reports how many groups are registered.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}
