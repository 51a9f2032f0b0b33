package inventory

// Slot is one position of an Inventory. It is either empty or occupied by a
// single item kind and a quantity; the two never diverge.
type Slot[T Item] struct {
	index    int
	contents *ItemQuantity[T] // nil when empty
}

// NewSlot creates an empty slot at the given index.
func NewSlot[T Item](index int) *Slot[T] {
	return &Slot[T]{index: index}
}

// NewSlotWith creates a slot at index holding item, storing at most
// item.StackSize() units.
//
// Postcondition: returns the slot and the quantity that did not fit.
func NewSlotWith[T Item](index int, item T, quantity int) (*Slot[T], int) {
	s := NewSlot[T](index)
	return s, s.SetItem(item, quantity)
}

// Index returns the slot's position within its inventory.
func (s *Slot[T]) Index() int {
	return s.index
}

// HasItem reports whether the slot is occupied.
func (s *Slot[T]) HasItem() bool {
	return s.contents != nil
}

// Item returns the stored item kind and true, or the zero value and false
// when the slot is empty.
func (s *Slot[T]) Item() (T, bool) {
	if s.contents == nil {
		var zero T
		return zero, false
	}
	return s.contents.Item, true
}

// Quantity returns the number of units stored; 0 when empty.
func (s *Slot[T]) Quantity() int {
	if s.contents == nil {
		return 0
	}
	return s.contents.Quantity
}

// Contents returns a copy of the stored item and quantity, or false when empty.
func (s *Slot[T]) Contents() (ItemQuantity[T], bool) {
	if s.contents == nil {
		return ItemQuantity[T]{}, false
	}
	return *s.contents, true
}

// IsFilled reports whether the slot holds exactly a full stack.
// An empty slot is never filled.
func (s *Slot[T]) IsFilled() bool {
	if s.contents == nil {
		return false
	}
	return s.contents.Quantity == s.contents.Item.StackSize()
}

// Add merges q more units of the already stored item into the slot.
//
// Precondition: q >= 0.
// Postcondition: returns the units that could not be absorbed. An empty or
// filled slot is left untouched and q is returned unchanged.
func (s *Slot[T]) Add(q int) int {
	if s.contents == nil || q <= 0 || s.IsFilled() {
		return q
	}
	var remaining int
	s.contents.Quantity, remaining = storeInto(s.contents.Item.StackSize(), s.contents.Quantity, q)
	return remaining
}

// Extract removes up to q units from the slot.
//
// Postcondition: returns false when the slot is empty or q <= 0. When
// q >= Quantity() the slot is cleared and the full stack is returned, so the
// returned quantity may be smaller than q.
func (s *Slot[T]) Extract(q int) (ItemQuantity[T], bool) {
	if s.contents == nil || q <= 0 {
		return ItemQuantity[T]{}, false
	}
	if q >= s.contents.Quantity {
		out := *s.contents
		s.contents = nil
		return out, true
	}
	s.contents.Quantity -= q
	return ItemQuantity[T]{Item: s.contents.Item, Quantity: q}, true
}

// SetItem places quantity units of item into the slot. An empty slot adopts
// item; a slot holding the same kind merges; a slot holding a different kind
// rejects the whole quantity.
//
// Postcondition: returns the units that were not stored.
func (s *Slot[T]) SetItem(item T, quantity int) int {
	if quantity <= 0 {
		return quantity
	}
	if s.contents == nil {
		stored, remaining := storeInto(item.StackSize(), 0, quantity)
		s.contents = &ItemQuantity[T]{Item: item, Quantity: stored}
		return remaining
	}
	if !sameKind(s.contents.Item, item) {
		return quantity
	}
	var remaining int
	s.contents.Quantity, remaining = storeInto(item.StackSize(), s.contents.Quantity, quantity)
	return remaining
}

// SwapItem replaces the slot's contents with (item, quantity) and returns the
// previous contents with true.
//
// An empty slot is not swapped into: the input is handed back with false and
// the slot stays empty. The new contents are installed without checking them
// against item.StackSize().
func (s *Slot[T]) SwapItem(item T, quantity int) (ItemQuantity[T], bool) {
	in := ItemQuantity[T]{Item: item, Quantity: quantity}
	if s.contents == nil || quantity <= 0 {
		return in, false
	}
	out := *s.contents
	s.contents = &in
	return out, true
}

// SwapOrStore drops a held stack onto the slot, as a cursor does in an
// inventory screen.
//
//   - empty slot: the stack is stored up to item.StackSize(); any overflow is
//     returned with true, otherwise false.
//   - same kind: the stack is merged and (item, leftover) is returned with
//     true; leftover may be 0.
//   - different kind: the contents are swapped unconditionally and the
//     displaced stack is returned with true.
//
// A quantity <= 0 leaves the slot untouched and returns false.
func (s *Slot[T]) SwapOrStore(item T, quantity int) (ItemQuantity[T], bool) {
	if quantity <= 0 {
		return ItemQuantity[T]{}, false
	}
	if s.contents == nil {
		rest := s.SetItem(item, quantity)
		if rest == 0 {
			return ItemQuantity[T]{}, false
		}
		return ItemQuantity[T]{Item: item, Quantity: rest}, true
	}
	if sameKind(s.contents.Item, item) {
		var rest int
		s.contents.Quantity, rest = storeInto(item.StackSize(), s.contents.Quantity, quantity)
		return ItemQuantity[T]{Item: item, Quantity: rest}, true
	}
	out := *s.contents
	s.contents = &ItemQuantity[T]{Item: item, Quantity: quantity}
	return out, true
}
