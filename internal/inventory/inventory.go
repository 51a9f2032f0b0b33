package inventory

import (
	"errors"
	"fmt"
	"iter"
)

// ErrNegativeSize is returned when an inventory would be given fewer than
// zero slots.
var ErrNegativeSize = errors.New("inventory: size must be >= 0")

// Inventory is an ordered, index-addressable sequence of slots. It owns its
// slots exclusively; slots evicted by Resize are handed to the caller.
type Inventory[T Item] struct {
	slots []*Slot[T]
}

// SlotState is a point-in-time copy of an occupied slot.
type SlotState[T Item] struct {
	Index int
	ItemQuantity[T]
}

// New creates an inventory with size empty slots.
//
// Precondition: size >= 0.
// Postcondition: Size() == size and every slot is empty, or ErrNegativeSize.
func New[T Item](size int) (*Inventory[T], error) {
	if size < 0 {
		return nil, fmt.Errorf("New(%d): %w", size, ErrNegativeSize)
	}
	inv := &Inventory[T]{slots: make([]*Slot[T], 0, size)}
	for range size {
		inv.AddSlot()
	}
	return inv, nil
}

// Size returns the current slot count.
func (inv *Inventory[T]) Size() int {
	return len(inv.slots)
}

// Slot returns the slot at index, or false when index is out of range.
func (inv *Inventory[T]) Slot(index int) (*Slot[T], bool) {
	if index < 0 || index >= len(inv.slots) {
		return nil, false
	}
	return inv.slots[index], true
}

// Items returns every occupied slot in ascending index order.
func (inv *Inventory[T]) Items() []*Slot[T] {
	return inv.Filter(func(s *Slot[T], _ int) bool { return s.HasItem() })
}

// EmptySlots returns every empty slot in ascending index order.
func (inv *Inventory[T]) EmptySlots() []*Slot[T] {
	return inv.Filter(func(s *Slot[T], _ int) bool { return !s.HasItem() })
}

// SlotsWithItem returns every slot holding the same kind as item, in
// ascending index order.
func (inv *Inventory[T]) SlotsWithItem(item T) []*Slot[T] {
	return inv.Filter(func(s *Slot[T], _ int) bool {
		held, ok := s.Item()
		return ok && sameKind(held, item)
	})
}

// Count returns the total units of item's kind across all slots.
func (inv *Inventory[T]) Count(item T) int {
	total := 0
	for _, s := range inv.SlotsWithItem(item) {
		total += s.Quantity()
	}
	return total
}

// AddSlot appends an empty slot and returns it.
func (inv *Inventory[T]) AddSlot() *Slot[T] {
	s := NewSlot[T](len(inv.slots))
	inv.slots = append(inv.slots, s)
	return s
}

// AddSlotWith appends a slot holding item. The slot stores at most one
// stack; the quantity that did not fit is returned.
func (inv *Inventory[T]) AddSlotWith(item T, quantity int) (*Slot[T], int) {
	s, rest := NewSlotWith(len(inv.slots), item, quantity)
	inv.slots = append(inv.slots, s)
	return s, rest
}

// Resize changes the slot count to n.
//
// Growing appends empty slots. Shrinking removes the slots at index n and
// above and returns them in their original order; the inventory keeps no
// reference to them afterwards.
//
// Precondition: n >= 0.
// Postcondition: Size() == n, or ErrNegativeSize with the inventory unchanged.
func (inv *Inventory[T]) Resize(n int) ([]*Slot[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("Resize(%d): %w", n, ErrNegativeSize)
	}
	switch {
	case n < len(inv.slots):
		evicted := make([]*Slot[T], len(inv.slots)-n)
		copy(evicted, inv.slots[n:])
		clear(inv.slots[n:])
		inv.slots = inv.slots[:n:n]
		return evicted, nil
	case n > len(inv.slots):
		for len(inv.slots) < n {
			inv.AddSlot()
		}
	}
	return []*Slot[T]{}, nil
}

// TakeItem extracts up to quantity units from the slot at index.
//
// Postcondition: returns false when index is out of range or the slot is
// empty; otherwise behaves as Slot.Extract.
func (inv *Inventory[T]) TakeItem(index, quantity int) (ItemQuantity[T], bool) {
	s, ok := inv.Slot(index)
	if !ok {
		return ItemQuantity[T]{}, false
	}
	return s.Extract(quantity)
}

// AddItem places quantity units of item into the inventory. Stacks of the
// same kind are topped up first, in index order; the rest goes into empty
// slots, in index order.
//
// Placement is not atomic: whatever fits is stored. The surplus that could
// not be placed is returned with true; false means everything was stored.
func (inv *Inventory[T]) AddItem(item T, quantity int) (ItemQuantity[T], bool) {
	if quantity <= 0 {
		return ItemQuantity[T]{}, false
	}

	remaining := quantity
	for _, s := range inv.SlotsWithItem(item) {
		remaining = s.Add(remaining)
		if remaining == 0 {
			return ItemQuantity[T]{}, false
		}
	}

	for _, s := range inv.EmptySlots() {
		remaining = s.SetItem(item, remaining)
		if remaining == 0 {
			return ItemQuantity[T]{}, false
		}
	}

	return ItemQuantity[T]{Item: item, Quantity: remaining}, true
}

// Filter returns the slots for which fn reports true, in index order.
func (inv *Inventory[T]) Filter(fn func(s *Slot[T], index int) bool) []*Slot[T] {
	var out []*Slot[T]
	for i, s := range inv.slots {
		if fn(s, i) {
			out = append(out, s)
		}
	}
	return out
}

// All iterates over every slot in index order.
func (inv *Inventory[T]) All() iter.Seq2[int, *Slot[T]] {
	return func(yield func(int, *Slot[T]) bool) {
		for i, s := range inv.slots {
			if !yield(i, s) {
				return
			}
		}
	}
}

// Snapshot returns a copy of every occupied slot in index order.
func (inv *Inventory[T]) Snapshot() []SlotState[T] {
	var out []SlotState[T]
	for i, s := range inv.slots {
		if c, ok := s.Contents(); ok {
			out = append(out, SlotState[T]{Index: i, ItemQuantity: c})
		}
	}
	return out
}

// Map applies fn to each slot in index order and collects the results.
func Map[T Item, V any](inv *Inventory[T], fn func(s *Slot[T], index int) V) []V {
	out := make([]V, 0, len(inv.slots))
	for i, s := range inv.slots {
		out = append(out, fn(s, i))
	}
	return out
}
