package stash

import (
	"sync"

	"github.com/google/uuid"

	"github.com/cory-johannsen/stacks/internal/catalog"
	"github.com/cory-johannsen/stacks/internal/inventory"
)

// Dropped is a stack lying on the floor of a location.
type Dropped struct {
	ID       string
	ItemID   string
	Quantity int
	// Owner is the stash the stack was evicted from, if any.
	Owner string
}

// Floor tracks stacks dropped at locations.
// It is thread-safe via sync.RWMutex.
type Floor struct {
	mu        sync.RWMutex
	locations map[string][]Dropped
}

// NewFloor creates a Floor with nothing dropped anywhere.
//
// Postcondition: returned Floor is ready for use with zero stacks.
func NewFloor() *Floor {
	return &Floor{
		locations: make(map[string][]Dropped),
	}
}

// Drop places a stack on the floor of the given location and returns the
// record created for it.
//
// Precondition: location is non-empty; q.Quantity > 0.
// Postcondition: the stack is appended to the location's floor with a fresh ID.
func (f *Floor) Drop(location, owner string, q inventory.ItemQuantity[*catalog.ItemDef]) Dropped {
	d := Dropped{
		ID:       uuid.New().String(),
		ItemID:   q.Item.ID,
		Quantity: q.Quantity,
		Owner:    owner,
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locations[location] = append(f.locations[location], d)
	return d
}

// Pickup removes and returns the stack with the given id from the location.
// Returns false if the stack is not found.
//
// Postcondition: on success, the stack is removed from the location's floor;
// on failure, floor state is unchanged.
func (f *Floor) Pickup(location, id string) (Dropped, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stacks := f.locations[location]
	for i, d := range stacks {
		if d.ID == id {
			f.locations[location] = append(stacks[:i], stacks[i+1:]...)
			return d, true
		}
	}
	return Dropped{}, false
}

// Return puts a previously picked-up stack back on the floor, keeping its ID.
//
// Precondition: d.Quantity > 0.
func (f *Floor) Return(location string, d Dropped) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locations[location] = append(f.locations[location], d)
}

// PickupAll removes and returns every stack at the location.
//
// Postcondition: the location's floor is empty; returned slice contains all previously held stacks.
func (f *Floor) PickupAll(location string) []Dropped {
	f.mu.Lock()
	defer f.mu.Unlock()
	stacks := f.locations[location]
	if len(stacks) == 0 {
		return []Dropped{}
	}
	delete(f.locations, location)
	return stacks
}

// ItemsAt returns a snapshot copy of every stack at the location.
//
// Postcondition: returned slice is a copy; mutations do not affect internal state.
func (f *Floor) ItemsAt(location string) []Dropped {
	f.mu.RLock()
	defer f.mu.RUnlock()
	stacks := f.locations[location]
	out := make([]Dropped, len(stacks))
	copy(out, stacks)
	return out
}
