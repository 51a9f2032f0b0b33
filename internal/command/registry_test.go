package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Len(t, r.Commands(), len(BuiltinCommands()))
}

func TestResolve_CanonicalName(t *testing.T) {
	cmd, ok := DefaultRegistry().Resolve("move")
	require.True(t, ok)
	assert.Equal(t, "move", cmd.Name)
	assert.Equal(t, HandlerMove, cmd.Handler)
}

func TestResolve_Alias(t *testing.T) {
	r := DefaultRegistry()
	for alias, name := range map[string]string{"mv": "move", "ls": "show", "q": "quit", "?": "help", "x": "examine"} {
		cmd, ok := r.Resolve(alias)
		require.True(t, ok, "alias %q", alias)
		assert.Equal(t, name, cmd.Name)
	}
}

func TestResolve_NotFound(t *testing.T) {
	_, ok := DefaultRegistry().Resolve("teleport")
	assert.False(t, ok)
}

func TestCommands_Sorted(t *testing.T) {
	cmds := DefaultRegistry().Commands()
	for i := 1; i < len(cmds); i++ {
		assert.Less(t, cmds[i-1].Name, cmds[i].Name)
	}
}

func TestCommandsByCategory(t *testing.T) {
	cats := DefaultRegistry().CommandsByCategory()
	for _, c := range []string{CategoryStash, CategoryFloor, CategoryCatalog, CategorySystem} {
		assert.NotEmpty(t, cats[c], "category %q", c)
	}
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry([]Command{{Name: "add"}, {Name: "add"}})
	assert.Error(t, err)
}

func TestNewRegistry_AliasConflictsWithName(t *testing.T) {
	_, err := NewRegistry([]Command{{Name: "add"}, {Name: "give", Aliases: []string{"add"}}})
	assert.Error(t, err)
}

func TestNewRegistry_DuplicateAlias(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "add", Aliases: []string{"a"}},
		{Name: "take", Aliases: []string{"a"}},
	})
	assert.Error(t, err)
}

func TestBuiltinCommands_AllHaveHelpAndHandler(t *testing.T) {
	for _, c := range BuiltinCommands() {
		assert.NotEmpty(t, c.Help, "command %q", c.Name)
		assert.NotEmpty(t, c.Handler, "command %q", c.Name)
		assert.NotEmpty(t, c.Category, "command %q", c.Name)
	}
}

func TestPropertyResolveUnknownNeverFound(t *testing.T) {
	r := DefaultRegistry()
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`zz[a-z]{3,10}`).Draw(t, "word")
		if _, ok := r.Resolve(word); ok {
			t.Fatalf("unexpected command for %q", word)
		}
	})
}
