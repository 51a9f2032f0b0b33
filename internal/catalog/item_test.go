package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cory-johannsen/stacks/internal/catalog"
	"github.com/cory-johannsen/stacks/internal/inventory"
	"pgregory.net/rapid"
)

var _ inventory.Item = (*catalog.ItemDef)(nil)

func minimalDef() *catalog.ItemDef {
	return &catalog.ItemDef{
		ID:       "junk1",
		Name:     "Junk",
		Kind:     catalog.KindJunk,
		MaxStack: 1,
	}
}

func TestItemDef_Validate_AcceptsMinimalJunk(t *testing.T) {
	if err := minimalDef().Validate(); err != nil {
		t.Fatalf("expected no error for minimal junk, got: %v", err)
	}
}

func TestItemDef_Validate_Rejects(t *testing.T) {
	cases := map[string]func(d *catalog.ItemDef){
		"empty id":        func(d *catalog.ItemDef) { d.ID = "" },
		"empty name":      func(d *catalog.ItemDef) { d.Name = "" },
		"empty kind":      func(d *catalog.ItemDef) { d.Kind = "" },
		"invalid kind":    func(d *catalog.ItemDef) { d.Kind = "weapon" },
		"zero max_stack":  func(d *catalog.ItemDef) { d.MaxStack = 0 },
		"negative weight": func(d *catalog.ItemDef) { d.Weight = -1 },
		"negative value":  func(d *catalog.ItemDef) { d.Value = -5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			d := minimalDef()
			mutate(d)
			if err := d.Validate(); err == nil {
				t.Fatalf("expected error for %s, got nil", name)
			}
		})
	}
}

func TestItemDef_ImplementsItem(t *testing.T) {
	d := &catalog.ItemDef{ID: "torch", MaxStack: 64}
	if d.ItemID() != "torch" || d.StackSize() != 64 {
		t.Fatalf("got %q/%d, want torch/64", d.ItemID(), d.StackSize())
	}
}

func TestLoadItems_LoadsSingleAndListFiles(t *testing.T) {
	dir := t.TempDir()
	single := `id: bread
name: Bread
kind: consumable
weight: 0.2
max_stack: 64
`
	if err := os.WriteFile(filepath.Join(dir, "bread.yml"), []byte(single), 0644); err != nil {
		t.Fatalf("failed to write temp YAML: %v", err)
	}
	list := `items:
  - id: cobblestone
    name: Cobblestone
    kind: material
    max_stack: 64
  - id: ender_pearl
    name: Ender Pearl
    kind: material
    max_stack: 16
`
	if err := os.WriteFile(filepath.Join(dir, "materials.yaml"), []byte(list), 0644); err != nil {
		t.Fatalf("failed to write temp YAML: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	items, err := catalog.LoadItems(dir)
	if err != nil {
		t.Fatalf("LoadItems failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	byID := make(map[string]*catalog.ItemDef)
	for _, it := range items {
		byID[it.ID] = it
	}
	if byID["bread"] == nil || byID["bread"].Weight != 0.2 {
		t.Errorf("bread not loaded correctly: %+v", byID["bread"])
	}
	if byID["ender_pearl"] == nil || byID["ender_pearl"].MaxStack != 16 {
		t.Errorf("ender_pearl not loaded correctly: %+v", byID["ender_pearl"])
	}
}

func TestLoadItems_RejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: x\nname: X\nkind: junk\nmax_stack: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write temp YAML: %v", err)
	}
	if _, err := catalog.LoadItems(dir); err == nil {
		t.Fatal("expected validation error, got nil")
	}
}

func TestLoadItems_MissingDir(t *testing.T) {
	if _, err := catalog.LoadItems(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := catalog.NewRegistry()
	def := minimalDef()
	if err := r.Register(def); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := r.Item(def.ID)
	if !ok || got != def {
		t.Fatalf("expected %q to be found", def.ID)
	}
	if err := r.Register(def); err == nil {
		t.Fatal("expected collision error on second register, got nil")
	}
	if _, err := r.Lookup("does-not-exist"); !errors.Is(err, catalog.ErrUnknownItem) {
		t.Fatalf("got err=%v, want ErrUnknownItem", err)
	}
}

func TestRegistry_AllSorted(t *testing.T) {
	r := catalog.NewRegistry()
	for _, id := range []string{"c", "a", "b"} {
		d := minimalDef()
		d.ID = id
		if err := r.Register(d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	all := r.All()
	if len(all) != 3 || r.Len() != 3 {
		t.Fatalf("expected 3 items, got %d", len(all))
	}
	for i, want := range []string{"a", "b", "c"} {
		if all[i].ID != want {
			t.Errorf("All()[%d]=%q, want %q", i, all[i].ID, want)
		}
	}
}

func TestNewRegistryFromDir_ShippedContent(t *testing.T) {
	r, err := catalog.NewRegistryFromDir("../../content/items")
	if err != nil {
		t.Fatalf("loading shipped content: %v", err)
	}
	for _, id := range []string{"cobblestone", "oak_log", "ender_pearl", "iron_pickaxe", "bread"} {
		if _, ok := r.Item(id); !ok {
			t.Errorf("expected %q in shipped content", id)
		}
	}
}

func TestNewRegistryFromDir_RejectsDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	body := []byte("id: x\nname: X\nkind: junk\nmax_stack: 1\n")
	for _, name := range []string{"a.yaml", "b.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), body, 0644); err != nil {
			t.Fatalf("failed to write temp YAML: %v", err)
		}
	}
	if _, err := catalog.NewRegistryFromDir(dir); err == nil {
		t.Fatal("expected duplicate ID error")
	}
}

func TestProperty_ItemDef_ValidKind_AcceptsAll(t *testing.T) {
	kinds := []string{catalog.KindMaterial, catalog.KindTool, catalog.KindConsumable, catalog.KindJunk}
	rapid.Check(t, func(rt *rapid.T) {
		d := &catalog.ItemDef{
			ID:       rapid.StringMatching(`[a-z][a-z0-9_]{2,19}`).Draw(rt, "id"),
			Name:     rapid.StringMatching(`[A-Z][a-zA-Z ]{2,29}`).Draw(rt, "name"),
			Kind:     rapid.SampledFrom(kinds).Draw(rt, "kind"),
			MaxStack: rapid.IntRange(1, 100).Draw(rt, "max_stack"),
			Weight:   rapid.Float64Range(0, 100).Draw(rt, "weight"),
		}
		if err := d.Validate(); err != nil {
			rt.Fatalf("expected valid ItemDef to pass validation, got: %v", err)
		}
	})
}
