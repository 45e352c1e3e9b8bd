package models

import (
	"net/url"
	"sort"
)

// ExpandedSet is the set of order rows currently expanded in the order list.
// Rows toggle independently and any number may be open at once.
type ExpandedSet map[string]struct{}

// ParseExpandedSet reads the repeated "open" query parameter
func ParseExpandedSet(values url.Values) ExpandedSet {
	set := ExpandedSet{}
	for _, id := range values["open"] {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Has reports whether a row is expanded
func (s ExpandedSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Toggle returns a copy of the set with the row flipped
func (s ExpandedSet) Toggle(id string) ExpandedSet {
	next := make(ExpandedSet, len(s)+1)
	for k := range s {
		next[k] = struct{}{}
	}
	if _, ok := next[id]; ok {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}
	return next
}

// IDs returns the expanded ids in sorted order
func (s ExpandedSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Query encodes the set back into query parameters
func (s ExpandedSet) Query() string {
	values := url.Values{}
	for _, id := range s.IDs() {
		values.Add("open", id)
	}
	return values.Encode()
}
