package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownItem is returned when an item ID is not registered.
var ErrUnknownItem = errors.New("catalog: unknown item")

// Registry holds loaded item definitions indexed by ID.
type Registry struct {
	items map[string]*ItemDef
}

// NewRegistry returns an empty Registry.
//
// Postcondition: the internal map is initialised.
func NewRegistry() *Registry {
	return &Registry{
		items: make(map[string]*ItemDef),
	}
}

// NewRegistryFromDir loads every item definition in dir into a new Registry.
//
// Postcondition: returns a populated Registry, or an error on load failure or
// duplicate IDs.
func NewRegistryFromDir(dir string) (*Registry, error) {
	defs, err := LoadItems(dir)
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds d to the registry.
//
// Precondition:  d must not be nil.
// Postcondition: Item(d.ID) returns (d, true); returns error if d.ID already registered.
func (r *Registry) Register(d *ItemDef) error {
	if _, exists := r.items[d.ID]; exists {
		return fmt.Errorf("catalog: Registry.Register: item ID %q already registered", d.ID)
	}
	r.items[d.ID] = d
	return nil
}

// Item returns the ItemDef for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Item(id string) (*ItemDef, bool) {
	d, ok := r.items[id]
	return d, ok
}

// Lookup returns the ItemDef for id or an error wrapping ErrUnknownItem.
func (r *Registry) Lookup(id string) (*ItemDef, error) {
	d, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownItem, id)
	}
	return d, nil
}

// All returns all registered definitions sorted by ID.
//
// Postcondition: len(result) == Len().
func (r *Registry) All() []*ItemDef {
	out := make([]*ItemDef, 0, len(r.items))
	for _, d := range r.items {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.items)
}
