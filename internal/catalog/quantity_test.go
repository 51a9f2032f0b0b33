package catalog_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/cory-johannsen/stacks/internal/catalog"
)

func TestFormatQuantity(t *testing.T) {
	cobble := &catalog.ItemDef{ID: "cobblestone", MaxStack: 64}
	pick := &catalog.ItemDef{ID: "iron_pickaxe", MaxStack: 1}
	cases := []struct {
		def   *catalog.ItemDef
		total int
		want  string
	}{
		{cobble, 0, "0"},
		{cobble, 63, "63"},
		{cobble, 64, "1 stack (64)"},
		{cobble, 134, "2 stacks + 6 (134)"},
		{pick, 3, "3"},
	}
	for _, c := range cases {
		if got := c.def.FormatQuantity(c.total); got != c.want {
			t.Errorf("FormatQuantity(%d) for %s = %q, want %q", c.total, c.def.ID, got, c.want)
		}
	}
}

func TestProperty_DecomposeStacks_Invariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		total := rapid.IntRange(0, 100000).Draw(rt, "total")
		size := rapid.IntRange(1, 64).Draw(rt, "size")
		stacks, rest := catalog.DecomposeStacks(total, size)
		if stacks*size+rest != total {
			rt.Fatalf("%d*%d + %d != %d", stacks, size, rest, total)
		}
		if rest < 0 || rest >= size {
			rt.Fatalf("rest %d out of [0, %d)", rest, size)
		}
	})
}
