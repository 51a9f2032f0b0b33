package catalog

import (
	"fmt"
	"strings"
)

// DecomposeStacks splits a unit count into full stacks and a remainder.
//
// Precondition: total >= 0; stackSize >= 1.
// Postcondition: stacks*stackSize + rest == total; 0 <= rest < stackSize.
func DecomposeStacks(total, stackSize int) (stacks, rest int) {
	return total / stackSize, total % stackSize
}

// FormatQuantity returns a human-readable count of d, e.g. "2 stacks + 6 (134)".
// Counts below one stack, and items that do not stack, are printed plainly.
//
// Precondition: total >= 0.
func (d *ItemDef) FormatQuantity(total int) string {
	if d.MaxStack <= 1 || total < d.MaxStack {
		return fmt.Sprintf("%d", total)
	}
	stacks, rest := DecomposeStacks(total, d.MaxStack)

	var parts []string
	parts = append(parts, fmt.Sprintf("%d %s", stacks, plural(stacks, "stack")))
	if rest > 0 {
		parts = append(parts, fmt.Sprintf("%d", rest))
	}
	return fmt.Sprintf("%s (%d)", strings.Join(parts, " + "), total)
}

func plural(n int, singular string) string {
	if n == 1 {
		return singular
	}
	return singular + "s"
}
