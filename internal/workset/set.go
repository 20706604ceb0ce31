// Package workset holds the workflow set: the ordered table of composed
// preprocessor+model entries, their per-entry options, and their execution
// outcomes. The set is the single owner of its entries; collaborators borrow
// workflows and options and hand back new outcomes.
package workset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/tunegridgo/internal/result"
	"github.com/specialistvlad/tunegridgo/internal/workflow"
)

// ErrUnknownID is returned when an id is not present in the set.
var ErrUnknownID = errors.New("unknown workflow id")

// Entry is one row of the workflow set.
type Entry struct {
	ID                string
	PreprocessorName  string
	ModelName         string
	Workflow          *workflow.Workflow
	Options           map[string]cty.Value
	Outcome           result.Outcome
}

// Set is an ordered collection of entries with unique ids. Physical order is
// insertion order; SortedIDs provides the insertion-order-independent view
// used for display.
type Set struct {
	entries []*Entry
	index   map[string]int
}

// New creates an empty workflow set.
func New() *Set {
	return &Set{index: make(map[string]int)}
}

// Add appends an entry. The id must be unique and options are normalized to
// an empty map so they are never nil.
func (s *Set) Add(e *Entry) error {
	if e.ID == "" {
		return fmt.Errorf("workflow id must not be empty")
	}
	if _, exists := s.index[e.ID]; exists {
		return fmt.Errorf("duplicate workflow id %q", e.ID)
	}
	if e.Options == nil {
		e.Options = make(map[string]cty.Value)
	}
	s.index[e.ID] = len(s.entries)
	s.entries = append(s.entries, e)
	return nil
}

// Remove deletes the entry with the given id.
func (s *Set) Remove(id string) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownID, id)
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.entries); j++ {
		s.index[s.entries[j].ID] = j
	}
	return nil
}

// Get returns the entry with the given id.
func (s *Set) Get(id string) (*Entry, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.entries[i], true
}

// Entries returns the entries in table (insertion) order.
func (s *Set) Entries() []*Entry {
	return s.entries
}

// Len returns the number of entries.
func (s *Set) Len() int {
	return len(s.entries)
}

// IDs returns entry ids in table order.
func (s *Set) IDs() []string {
	ids := make([]string, len(s.entries))
	for i, e := range s.entries {
		ids[i] = e.ID
	}
	return ids
}

// SortedIDs returns entry ids in lexical order.
func (s *Set) SortedIDs() []string {
	ids := s.IDs()
	sort.Strings(ids)
	return ids
}
