package artifact

import "sort"

// Set is an unordered collection of distinct identifiers.
// The zero value is not usable; create one with NewSet.
type Set struct {
	members map[ID]struct{}
}

// NewSet returns a set holding ids.
func NewSet(ids ...ID) *Set {
	s := &Set{members: make(map[ID]struct{}, len(ids))}
	s.Add(ids...)
	return s
}

// Add inserts ids, ignoring duplicates.
func (s *Set) Add(ids ...ID) {
	for _, id := range ids {
		s.members[id] = struct{}{}
	}
}

// Union adds every member of other to s.
func (s *Set) Union(other *Set) {
	if other == nil {
		return
	}
	for id := range other.members {
		s.members[id] = struct{}{}
	}
}

// Has reports membership.
func (s *Set) Has(id ID) bool {
	_, ok := s.members[id]
	return ok
}

// Len returns the number of distinct identifiers.
func (s *Set) Len() int {
	return len(s.members)
}

// Sorted returns the members in ascending order.
func (s *Set) Sorted() []ID {
	out := make([]ID, 0, len(s.members))
	for id := range s.members {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
