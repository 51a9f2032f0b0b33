// Package command provides the stackctl command registry, parser and
// built-in command definitions.
package command

// Categories for organizing commands.
const (
	CategoryStash   = "stash"
	CategoryFloor   = "floor"
	CategoryCatalog = "catalog"
	CategorySystem  = "system"
)

// Handler identifiers mapping commands to shell handlers.
const (
	HandlerOpen    = "open"
	HandlerClose   = "close"
	HandlerUse     = "use"
	HandlerOwners  = "owners"
	HandlerShow    = "show"
	HandlerAdd     = "add"
	HandlerTake    = "take"
	HandlerMove    = "move"
	HandlerResize  = "resize"
	HandlerWeight  = "weight"
	HandlerCount   = "count"
	HandlerFloor   = "floor"
	HandlerPickup  = "pickup"
	HandlerItems   = "items"
	HandlerExamine = "examine"
	HandlerSave    = "save"
	HandlerLoad    = "load"
	HandlerHelp    = "help"
	HandlerQuit    = "quit"
)

// Command defines a shell command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument shape, e.g. "add <item> [qty]".
	Usage string
	// Help is the short help text.
	Help string
	// Category groups the command.
	Category string
	// Handler selects the shell handler.
	Handler string
}

// BuiltinCommands returns all built-in stackctl commands.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "open", Usage: "open <owner> [size]", Help: "Open an empty stash and switch to it", Category: CategoryStash, Handler: HandlerOpen},
		{Name: "close", Usage: "close [owner]", Help: "Close a stash without saving", Category: CategoryStash, Handler: HandlerClose},
		{Name: "use", Usage: "use <owner>", Help: "Switch to an open stash", Category: CategoryStash, Handler: HandlerUse},
		{Name: "owners", Help: "List open stashes", Category: CategoryStash, Handler: HandlerOwners},
		{Name: "show", Aliases: []string{"ls", "inv"}, Help: "Show the current stash", Category: CategoryStash, Handler: HandlerShow},
		{Name: "add", Aliases: []string{"give"}, Usage: "add <item> [qty]", Help: "Add items to the current stash", Category: CategoryStash, Handler: HandlerAdd},
		{Name: "take", Usage: "take <slot> [qty]", Help: "Take items out of a slot", Category: CategoryStash, Handler: HandlerTake},
		{Name: "move", Aliases: []string{"mv"}, Usage: "move <from> <to> [qty]", Help: "Move items between slots, swapping if needed", Category: CategoryStash, Handler: HandlerMove},
		{Name: "resize", Usage: "resize <size>", Help: "Change the slot count; evicted stacks drop to the floor", Category: CategoryStash, Handler: HandlerResize},
		{Name: "count", Usage: "count <item>", Help: "Count units of an item in the current stash", Category: CategoryStash, Handler: HandlerCount},
		{Name: "weight", Help: "Show the total weight of the current stash", Category: CategoryStash, Handler: HandlerWeight},
		{Name: "floor", Usage: "floor [location]", Help: "List stacks on the floor", Category: CategoryFloor, Handler: HandlerFloor},
		{Name: "pickup", Usage: "pickup <id|all> [location]", Help: "Pick stacks up from the floor into the current stash", Category: CategoryFloor, Handler: HandlerPickup},
		{Name: "items", Help: "List catalog items", Category: CategoryCatalog, Handler: HandlerItems},
		{Name: "examine", Aliases: []string{"x"}, Usage: "examine <item>", Help: "Describe a catalog item", Category: CategoryCatalog, Handler: HandlerExamine},
		{Name: "save", Usage: "save [owner]", Help: "Save a stash", Category: CategorySystem, Handler: HandlerSave},
		{Name: "load", Usage: "load <owner>", Help: "Load a saved stash and switch to it", Category: CategorySystem, Handler: HandlerLoad},
		{Name: "help", Aliases: []string{"?"}, Usage: "help [command]", Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Help: "Leave stackctl", Category: CategorySystem, Handler: HandlerQuit},
	}
}
