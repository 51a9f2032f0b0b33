// Package shell implements the stackctl line-oriented command interpreter
// over a stash.Manager.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/cory-johannsen/stacks/internal/catalog"
	"github.com/cory-johannsen/stacks/internal/command"
	"github.com/cory-johannsen/stacks/internal/observability"
	"github.com/cory-johannsen/stacks/internal/stash"
)

// ErrQuit is returned by Exec when the quit command is run.
var ErrQuit = errors.New("shell: quit")

// errNoOwner is returned by stash commands before any stash is selected.
var errNoOwner = errors.New("no stash selected; use 'open <owner>' or 'load <owner>'")

// Options configures a Shell.
type Options struct {
	// DefaultSize is the slot count used by 'open' without a size.
	DefaultSize int
	// DropLocation is the default location for 'floor' and 'pickup'.
	DropLocation string
}

// Shell interprets stackctl commands. It is not safe for concurrent use;
// the Manager it drives is.
type Shell struct {
	mgr   *stash.Manager
	items *catalog.Registry
	floor *stash.Floor
	cmds  *command.Registry
	opts  Options
	out   io.Writer

	base   *zap.Logger
	logger *zap.Logger
	owner  string
}

// New creates a Shell writing its output to out.
//
// Precondition: all arguments must be non-nil.
func New(logger *zap.Logger, mgr *stash.Manager, items *catalog.Registry, floor *stash.Floor, out io.Writer, opts Options) *Shell {
	return &Shell{
		mgr:    mgr,
		items:  items,
		floor:  floor,
		cmds:   command.DefaultRegistry(),
		opts:   opts,
		out:    out,
		base:   logger,
		logger: logger.Named("shell"),
	}
}

// Owner returns the currently selected stash owner, or "".
func (s *Shell) Owner() string {
	return s.owner
}

// Prompt returns the prompt for the next line.
func (s *Shell) Prompt() string {
	if s.owner == "" {
		return "stacks> "
	}
	return fmt.Sprintf("stacks(%s)> ", s.owner)
}

// Run reads commands from in until EOF, quit, or ctx is cancelled. Command
// errors are printed and do not stop the loop.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
		close(lines)
	}()

	for {
		fmt.Fprint(s.out, s.Prompt())
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out)
				return <-readErr
			}
			err := s.Exec(ctx, line)
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(s.out, "error: %v\n", err)
			}
		}
	}
}

// Exec runs a single command line.
//
// Postcondition: returns ErrQuit for the quit command, nil for a blank line.
func (s *Shell) Exec(ctx context.Context, line string) error {
	p := command.Parse(line)
	if p.Command == "" {
		return nil
	}
	cmd, ok := s.cmds.Resolve(p.Command)
	if !ok {
		return fmt.Errorf("unknown command %q; try 'help'", p.Command)
	}
	s.logger.Debug("exec", zap.String("command", cmd.Name), zap.Strings("args", p.Args))

	switch cmd.Handler {
	case command.HandlerOpen:
		return s.open(p)
	case command.HandlerClose:
		return s.close(p)
	case command.HandlerUse:
		return s.use(p)
	case command.HandlerOwners:
		return s.owners()
	case command.HandlerShow:
		return s.show()
	case command.HandlerAdd:
		return s.add(p)
	case command.HandlerTake:
		return s.take(p)
	case command.HandlerMove:
		return s.move(p)
	case command.HandlerResize:
		return s.resize(p)
	case command.HandlerWeight:
		return s.weight()
	case command.HandlerCount:
		return s.count(p)
	case command.HandlerFloor:
		return s.listFloor(p)
	case command.HandlerPickup:
		return s.pickup(p)
	case command.HandlerItems:
		return s.listItems()
	case command.HandlerExamine:
		return s.examine(p)
	case command.HandlerSave:
		return s.save(ctx, p)
	case command.HandlerLoad:
		return s.load(ctx, p)
	case command.HandlerHelp:
		return s.help(p)
	case command.HandlerQuit:
		return ErrQuit
	}
	return fmt.Errorf("command %q has no handler", cmd.Name)
}

func (s *Shell) selectOwner(owner string) {
	s.owner = owner
	s.logger = observability.ForOwner(s.base, "shell", owner)
}

func (s *Shell) current() (string, error) {
	if s.owner == "" {
		return "", errNoOwner
	}
	return s.owner, nil
}

func (s *Shell) open(p command.ParseResult) error {
	owner, err := p.Arg(0, "owner")
	if err != nil {
		return err
	}
	size, err := p.OptionalIntArg(1, "size", s.opts.DefaultSize)
	if err != nil {
		return err
	}
	if err := s.mgr.Open(owner, size); err != nil {
		return err
	}
	s.selectOwner(owner)
	fmt.Fprintf(s.out, "opened %s with %d slots\n", owner, size)
	return nil
}

func (s *Shell) close(p command.ParseResult) error {
	owner := p.OptionalArg(0, s.owner)
	if owner == "" {
		return errNoOwner
	}
	if err := s.mgr.Close(owner); err != nil {
		return err
	}
	if owner == s.owner {
		s.owner = ""
		s.logger = s.base.Named("shell")
	}
	fmt.Fprintf(s.out, "closed %s\n", owner)
	return nil
}

func (s *Shell) use(p command.ParseResult) error {
	owner, err := p.Arg(0, "owner")
	if err != nil {
		return err
	}
	if err := s.mgr.View(owner, func(*stash.Inventory) {}); err != nil {
		return err
	}
	s.selectOwner(owner)
	return nil
}

func (s *Shell) owners() error {
	owners := s.mgr.Owners()
	if len(owners) == 0 {
		fmt.Fprintln(s.out, "no open stashes")
		return nil
	}
	for _, o := range owners {
		marker := " "
		if o == s.owner {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s %s\n", marker, o)
	}
	return nil
}

func (s *Shell) show() error {
	owner, err := s.current()
	if err != nil {
		return err
	}
	var b strings.Builder
	err = s.mgr.View(owner, func(inv *stash.Inventory) {
		used := len(inv.Items())
		total := 0
		width := 0
		for _, slot := range inv.Items() {
			c, _ := slot.Contents()
			total += c.Quantity
			width = max(width, runewidth.StringWidth(c.Item.Name))
		}
		fmt.Fprintf(&b, "%s: %d/%d slots used, %d items\n", owner, used, inv.Size(), total)
		for i, slot := range inv.All() {
			c, ok := slot.Contents()
			if !ok {
				fmt.Fprintf(&b, "  [%2d] -\n", i)
				continue
			}
			fmt.Fprintf(&b, "  [%2d] %s  %d/%d  (%s)\n",
				i, runewidth.FillRight(c.Item.Name, width), c.Quantity, c.Item.MaxStack, c.Item.ID)
		}
	})
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, b.String())
	return nil
}

func (s *Shell) add(p command.ParseResult) error {
	owner, err := s.current()
	if err != nil {
		return err
	}
	itemID, err := p.Arg(0, "item")
	if err != nil {
		return err
	}
	qty, err := p.OptionalIntArg(1, "qty", 1)
	if err != nil {
		return err
	}
	surplus, err := s.mgr.Add(owner, itemID, qty)
	if err != nil {
		return err
	}
	stored := max(qty, 0) - surplus
	fmt.Fprintf(s.out, "stored %d %s", stored, itemID)
	if surplus > 0 {
		fmt.Fprintf(s.out, "; %d did not fit", surplus)
	}
	fmt.Fprintln(s.out)
	return nil
}

func (s *Shell) take(p command.ParseResult) error {
	owner, err := s.current()
	if err != nil {
		return err
	}
	index, err := p.IntArg(0, "slot")
	if err != nil {
		return err
	}
	qty, err := p.OptionalIntArg(1, "qty", 1)
	if err != nil {
		return err
	}
	got, ok, err := s.mgr.Take(owner, index, qty)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintf(s.out, "slot %d is empty\n", index)
		return nil
	}
	fmt.Fprintf(s.out, "took %d %s from slot %d\n", got.Quantity, got.Item.ID, index)
	return nil
}

func (s *Shell) move(p command.ParseResult) error {
	owner, err := s.current()
	if err != nil {
		return err
	}
	from, err := p.IntArg(0, "from")
	if err != nil {
		return err
	}
	to, err := p.IntArg(1, "to")
	if err != nil {
		return err
	}
	var fromQty int
	if err := s.mgr.View(owner, func(inv *stash.Inventory) {
		if slot, ok := inv.Slot(from); ok {
			fromQty = slot.Quantity()
		}
	}); err != nil {
		return err
	}
	qty, err := p.OptionalIntArg(2, "qty", fromQty)
	if err != nil {
		return err
	}
	if err := s.mgr.Move(owner, from, to, qty); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "moved slot %d to slot %d\n", from, to)
	return nil
}

func (s *Shell) resize(p command.ParseResult) error {
	owner, err := s.current()
	if err != nil {
		return err
	}
	n, err := p.IntArg(0, "size")
	if err != nil {
		return err
	}
	dropped, err := s.mgr.Resize(owner, n)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "resized %s to %d slots\n", owner, n)
	for _, d := range dropped {
		fmt.Fprintf(s.out, "  dropped %d %s at %s (%s)\n", d.Quantity, d.ItemID, s.opts.DropLocation, d.ID)
	}
	return nil
}

func (s *Shell) count(p command.ParseResult) error {
	owner, err := s.current()
	if err != nil {
		return err
	}
	itemID, err := p.Arg(0, "item")
	if err != nil {
		return err
	}
	def, err := s.items.Lookup(itemID)
	if err != nil {
		return err
	}
	n, err := s.mgr.Count(owner, itemID)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s holds %s %s\n", owner, def.FormatQuantity(n), itemID)
	return nil
}

func (s *Shell) weight() error {
	owner, err := s.current()
	if err != nil {
		return err
	}
	w, err := s.mgr.Weight(owner)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s carries %.2f\n", owner, w)
	return nil
}

func (s *Shell) listFloor(p command.ParseResult) error {
	loc := p.OptionalArg(0, s.opts.DropLocation)
	stacks := s.floor.ItemsAt(loc)
	if len(stacks) == 0 {
		fmt.Fprintf(s.out, "nothing on the floor at %s\n", loc)
		return nil
	}
	for _, d := range stacks {
		from := ""
		if d.Owner != "" {
			from = " from " + d.Owner
		}
		fmt.Fprintf(s.out, "  %s  %d %s%s\n", d.ID, d.Quantity, d.ItemID, from)
	}
	return nil
}

func (s *Shell) pickup(p command.ParseResult) error {
	owner, err := s.current()
	if err != nil {
		return err
	}
	id, err := p.Arg(0, "id")
	if err != nil {
		return err
	}
	loc := p.OptionalArg(1, s.opts.DropLocation)

	var picked []stash.Dropped
	if id == "all" {
		picked = s.floor.PickupAll(loc)
	} else {
		d, ok := s.floor.Pickup(loc, id)
		if !ok {
			return fmt.Errorf("no stack %q at %s", id, loc)
		}
		picked = []stash.Dropped{d}
	}

	for i, d := range picked {
		surplus, err := s.mgr.Add(owner, d.ItemID, d.Quantity)
		if err != nil {
			for _, rest := range picked[i:] {
				s.floor.Return(loc, rest)
			}
			return err
		}
		if surplus > 0 {
			left := d
			left.Quantity = surplus
			s.floor.Return(loc, left)
			fmt.Fprintf(s.out, "picked up %d %s; %d left on the floor\n", d.Quantity-surplus, d.ItemID, surplus)
			continue
		}
		fmt.Fprintf(s.out, "picked up %d %s\n", d.Quantity, d.ItemID)
	}
	return nil
}

func (s *Shell) listItems() error {
	all := s.items.All()
	width := 0
	for _, d := range all {
		width = max(width, runewidth.StringWidth(d.ID))
	}
	for _, d := range all {
		fmt.Fprintf(s.out, "  %s  %-10s stack %-3d %s\n", runewidth.FillRight(d.ID, width), d.Kind, d.MaxStack, d.Name)
	}
	return nil
}

func (s *Shell) examine(p command.ParseResult) error {
	id, err := p.Arg(0, "item")
	if err != nil {
		return err
	}
	d, err := s.items.Lookup(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s (%s)\n  kind: %s\n  stacks to: %d\n  weight: %.2f\n  value: %d\n",
		d.Name, d.ID, d.Kind, d.MaxStack, d.Weight, d.Value)
	if d.Description != "" {
		fmt.Fprintf(s.out, "  %s\n", d.Description)
	}
	return nil
}

func (s *Shell) save(ctx context.Context, p command.ParseResult) error {
	owner := p.OptionalArg(0, s.owner)
	if owner == "" {
		return errNoOwner
	}
	if err := s.mgr.Save(ctx, owner); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "saved %s\n", owner)
	return nil
}

func (s *Shell) load(ctx context.Context, p command.ParseResult) error {
	owner, err := p.Arg(0, "owner")
	if err != nil {
		return err
	}
	if err := s.mgr.Load(ctx, owner); err != nil {
		return err
	}
	s.selectOwner(owner)
	fmt.Fprintf(s.out, "loaded %s\n", owner)
	return nil
}

func (s *Shell) help(p command.ParseResult) error {
	if len(p.Args) > 0 {
		cmd, ok := s.cmds.Resolve(strings.ToLower(p.Args[0]))
		if !ok {
			return fmt.Errorf("unknown command %q", p.Args[0])
		}
		usage := cmd.Usage
		if usage == "" {
			usage = cmd.Name
		}
		fmt.Fprintf(s.out, "%s\n  %s\n", usage, cmd.Help)
		if len(cmd.Aliases) > 0 {
			fmt.Fprintf(s.out, "  aliases: %s\n", strings.Join(cmd.Aliases, ", "))
		}
		return nil
	}
	byCat := s.cmds.CommandsByCategory()
	for _, cat := range []string{command.CategoryStash, command.CategoryFloor, command.CategoryCatalog, command.CategorySystem} {
		fmt.Fprintf(s.out, "%s:\n", cat)
		for _, cmd := range byCat[cat] {
			usage := cmd.Usage
			if usage == "" {
				usage = cmd.Name
			}
			fmt.Fprintf(s.out, "  %-28s %s\n", usage, cmd.Help)
		}
	}
	return nil
}
