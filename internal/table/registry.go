package table

import (
	"sort"
	"sync"
)

// Registry tracks the live tables by id. Table creation is delegated to a
// factory so callers control the random source and deck wiring.
type Registry struct {
	mu       sync.Mutex
	tables   map[string]*Table
	newTable func(id string) *Table
}

// NewRegistry creates a registry that builds missing tables with the given
// factory.
func NewRegistry(newTable func(id string) *Table) *Registry {
	return &Registry{
		tables:   make(map[string]*Table),
		newTable: newTable,
	}
}

// GetOrCreate returns the table with the given id, creating it on first use.
func (r *Registry) GetOrCreate(id string) *Table {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tables[id]
	if !ok {
		t = r.newTable(id)
		r.tables[id] = t
	}
	return t
}

// TryGet returns the table with the given id if it exists.
func (r *Registry) TryGet(id string) (*Table, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tables[id]
	return t, ok
}

// RemoveIfEmpty drops the table if it has no seated players, reporting
// whether it was removed.
func (r *Registry) RemoveIfEmpty(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tables[id]
	if !ok || !t.IsEmpty() {
		return false
	}
	delete(r.tables, id)
	return true
}

// ActiveIDs returns the ids of all live tables in sorted order.
func (r *Registry) ActiveIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.tables))
	for id := range r.tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
