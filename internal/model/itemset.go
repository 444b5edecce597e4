package model

import (
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// ItemSet is an immutable set of product names that remembers insertion order.
type ItemSet struct {
	index map[string]struct{}
	items []string
}

// NewItemSet builds a set from names; duplicates keep their first position.
func NewItemSet(items ...string) ItemSet {
	s := ItemSet{
		items: make([]string, 0, len(items)),
		index: make(map[string]struct{}, len(items)),
	}
	for _, item := range items {
		if _, ok := s.index[item]; ok {
			continue
		}
		s.index[item] = struct{}{}
		s.items = append(s.items, item)
	}
	return s
}

// Len returns the number of items.
func (s ItemSet) Len() int {
	return len(s.items)
}

// Empty reports whether the set has no items.
func (s ItemSet) Empty() bool {
	return len(s.items) == 0
}

// Contains reports whether item is in the set.
func (s ItemSet) Contains(item string) bool {
	_, ok := s.index[item]
	return ok
}

// Items returns the items in insertion order. The slice is a copy.
func (s ItemSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Sorted returns the items in lexical order.
func (s ItemSet) Sorted() []string {
	out := s.Items()
	sort.Strings(out)
	return out
}

// IsSubsetOf reports whether every item of s is in other.
func (s ItemSet) IsSubsetOf(other ItemSet) bool {
	if s.Len() > other.Len() {
		return false
	}
	for _, item := range s.items {
		if !other.Contains(item) {
			return false
		}
	}
	return true
}

// Disjoint reports whether s and other share no item.
func (s ItemSet) Disjoint(other ItemSet) bool {
	for _, item := range s.items {
		if other.Contains(item) {
			return false
		}
	}
	return true
}

// Union returns s followed by the items of other not already in s.
func (s ItemSet) Union(other ItemSet) ItemSet {
	all := make([]string, 0, s.Len()+other.Len())
	all = append(all, s.items...)
	all = append(all, other.items...)
	return NewItemSet(all...)
}

// Equal reports set equality, ignoring order.
func (s ItemSet) Equal(other ItemSet) bool {
	return s.Len() == other.Len() && s.IsSubsetOf(other)
}

// Key is an order-independent identity suitable for map keys.
func (s ItemSet) Key() string {
	return strings.Join(s.Sorted(), "\x1f")
}

// Join concatenates the items in insertion order.
func (s ItemSet) Join(sep string) string {
	return strings.Join(s.items, sep)
}

// String implements fmt.Stringer.
func (s ItemSet) String() string {
	return "{" + s.Join(", ") + "}"
}

// MarshalJSON encodes the set as an array in insertion order.
func (s ItemSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Items())
}

// UnmarshalJSON decodes an array of names.
func (s *ItemSet) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewItemSet(items...)
	return nil
}

// Itemset is a frequent itemset with its support.
type Itemset struct {
	Items   ItemSet `json:"itemsets"`
	Support float64 `json:"support"`
}
