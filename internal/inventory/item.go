// Package inventory provides a fixed-capacity, slot-based item-stacking
// inventory. Each slot is either empty or holds a homogeneous stack of one
// item kind bounded by that kind's stack size.
//
// The package performs no locking; callers sharing an Inventory across
// goroutines must serialise access themselves.
package inventory

// Item is the capability an item kind must provide to be stored in a Slot.
//
// Two items are the same kind iff their ItemID values are equal.
type Item interface {
	// ItemID returns the stable identity of the item kind.
	ItemID() string
	// StackSize returns the maximum number of units one slot may hold (> 0).
	StackSize() int
}

// ItemQuantity pairs an item kind with a unit count. Depending on the
// operation that returns it, it describes either what was moved or what is
// left over.
type ItemQuantity[T Item] struct {
	Item     T
	Quantity int
}

// sameKind reports whether a and b share an item identity.
func sameKind[T Item](a, b T) bool {
	return a.ItemID() == b.ItemID()
}

// storeInto computes the outcome of adding add units to a stack currently
// holding current units of an item whose capacity is stackSize.
//
// Postcondition: stored <= max(stackSize, current); stored + remaining == current + add.
func storeInto(stackSize, current, add int) (stored, remaining int) {
	free := stackSize - current
	if free < 0 {
		free = 0
	}
	taken := min(add, free)
	return current + taken, add - taken
}
