// Package household models the people sharing a housing unit and the record
// of who was present when. Occupancy is measured in person-days: one person
// present for one day.
package household

import (
	"sort"
	"strings"

	"roommates/internal/errors"
)

// Roommate is a member of the household, identified by name
type Roommate string

// NewRoommate creates a Roommate, trimming surrounding whitespace
func NewRoommate(name string) Roommate {
	return Roommate(strings.TrimSpace(name))
}

// String returns the roommate's name
func (r Roommate) String() string {
	return string(r)
}

// Group is the set of roommates sharing costs
type Group struct {
	members []Roommate
	index   map[Roommate]struct{}
}

// NewGroup creates a Group from names. Duplicates and blank names are
// dropped; a group must keep at least one member.
func NewGroup(names ...string) (*Group, error) {
	g := &Group{index: make(map[Roommate]struct{}, len(names))}
	for _, name := range names {
		r := NewRoommate(name)
		if r == "" {
			continue
		}
		if _, dup := g.index[r]; dup {
			continue
		}
		g.index[r] = struct{}{}
		g.members = append(g.members, r)
	}
	if len(g.members) == 0 {
		return nil, errors.ErrEmptyGroup
	}
	sort.Slice(g.members, func(i, j int) bool { return g.members[i] < g.members[j] })
	return g, nil
}

// Len returns the number of roommates
func (g *Group) Len() int {
	return len(g.members)
}

// Members returns the roommates sorted by name
func (g *Group) Members() []Roommate {
	out := make([]Roommate, len(g.members))
	copy(out, g.members)
	return out
}

// Contains reports whether r belongs to the group
func (g *Group) Contains(r Roommate) bool {
	_, ok := g.index[r]
	return ok
}

// Lookup returns the roommate with the given name, if present
func (g *Group) Lookup(name string) (Roommate, bool) {
	r := NewRoommate(name)
	if !g.Contains(r) {
		return "", false
	}
	return r, true
}
