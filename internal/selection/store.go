// Package selection implements the shared store of named row subsets that
// every view reads from and writes back into. A saved selection is a value
// snapshot: its rows are copied at save time, so a later dataset reload never
// retroactively changes what the user saved.
package selection

import (
	"log"
	"strings"
	"sync"
	"time"

	"cellxplore/domain/core"
	"cellxplore/domain/table"
)

// Selection is a named, immutable snapshot of a subset of rows.
type Selection struct {
	ID        core.SelectionID `json:"id"`
	Name      string           `json:"name"`
	Rows      []table.Row      `json:"rows"`
	CreatedAt time.Time        `json:"created_at"`
}

// Store maps selection names to saved selections. It is process-lifetime,
// in-memory state: selections deliberately do not survive a restart. All
// operations are atomic; listing order is insertion order.
type Store struct {
	mu     sync.Mutex
	byName map[string]*Selection
	order  []string

	subsMu      sync.Mutex
	subscribers map[chan Event]bool
}

// NewStore creates an empty selection store.
func NewStore() *Store {
	return &Store{
		byName:      make(map[string]*Selection),
		subscribers: make(map[chan Event]bool),
	}
}

// Save stores a selection under the given name. Empty row sets and blank
// names are rejected. Saving over an existing name replaces it — intentional
// "replace" semantics, surfaced with a warning so the collision is never
// silent.
func (s *Store) Save(name string, rows []table.Row) (*Selection, error) {
	if strings.TrimSpace(name) == "" {
		return nil, core.ErrInvalidName
	}
	if len(rows) == 0 {
		return nil, core.ErrEmptySelection
	}

	snapshot := cloneRows(rows)
	sel := &Selection{
		ID:        core.SelectionID(core.NewID()),
		Name:      name,
		Rows:      snapshot,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	if _, exists := s.byName[name]; exists {
		log.Printf("[SelectionStore] Replacing existing selection %q", name)
	} else {
		s.order = append(s.order, name)
	}
	s.byName[name] = sel
	s.mu.Unlock()

	s.notify(Event{Type: EventSaved, Name: name, Count: len(snapshot), Timestamp: sel.CreatedAt})
	return sel.copy(), nil
}

// Rename moves a selection to a new name. Unlike Save, rename never clobbers:
// a taken target name is a NameCollision error.
func (s *Store) Rename(oldName, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return core.ErrInvalidName
	}

	s.mu.Lock()
	sel, ok := s.byName[oldName]
	if !ok {
		s.mu.Unlock()
		return core.NewNotFoundError(oldName)
	}
	if _, taken := s.byName[newName]; taken {
		s.mu.Unlock()
		return core.NewNameCollisionError(newName)
	}

	delete(s.byName, oldName)
	sel.Name = newName
	s.byName[newName] = sel
	for i, n := range s.order {
		if n == oldName {
			s.order[i] = newName
			break
		}
	}
	count := len(sel.Rows)
	s.mu.Unlock()

	s.notify(Event{Type: EventRenamed, Name: newName, OldName: oldName, Count: count, Timestamp: time.Now()})
	return nil
}

// Delete removes a selection. Deleting an absent name surfaces NotFound, also
// on the second of two identical calls.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	if _, ok := s.byName[name]; !ok {
		s.mu.Unlock()
		return core.NewNotFoundError(name)
	}
	delete(s.byName, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.notify(Event{Type: EventDeleted, Name: name, Timestamp: time.Now()})
	return nil
}

// Get returns a copy of the named selection. Absence is an ok=false, not an
// error: "no selection chosen" means "use the full dataset" and is the normal
// default state.
func (s *Store) Get(name string) (*Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return sel.copy(), true
}

// Names lists selection names in insertion order.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// Len returns the number of saved selections.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byName)
}

// Union merges the named selections into a single deduplicated row set. Any
// absent name fails the whole call with NotFound.
func (s *Store) Union(names ...string) ([]table.Row, error) {
	sets := make([][]table.Row, 0, len(names))
	s.mu.Lock()
	for _, name := range names {
		sel, ok := s.byName[name]
		if !ok {
			s.mu.Unlock()
			return nil, core.NewNotFoundError(name)
		}
		sets = append(sets, sel.Rows)
	}
	s.mu.Unlock()

	return MergeRows(sets...), nil
}

// MergeRows unions row sets keyed by row id where available, falling back to
// structural equality for rows without one. Exported so consumers can merge a
// store-resident selection with externally supplied saved sets.
func MergeRows(sets ...[]table.Row) []table.Row {
	seenID := make(map[int]bool)
	seenFP := make(map[string]bool)
	var merged []table.Row
	for _, set := range sets {
		for _, row := range set {
			if row.ID >= 0 {
				if seenID[row.ID] {
					continue
				}
				seenID[row.ID] = true
			} else {
				fp := row.Fingerprint()
				if seenFP[fp] {
					continue
				}
				seenFP[fp] = true
			}
			merged = append(merged, row.Clone())
		}
	}
	return merged
}

func (sel *Selection) copy() *Selection {
	return &Selection{
		ID:        sel.ID,
		Name:      sel.Name,
		Rows:      cloneRows(sel.Rows),
		CreatedAt: sel.CreatedAt,
	}
}

func cloneRows(rows []table.Row) []table.Row {
	cloned := make([]table.Row, len(rows))
	for i, row := range rows {
		cloned[i] = row.Clone()
	}
	return cloned
}
