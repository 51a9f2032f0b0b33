// Package stash hosts per-owner inventories: it resolves item IDs against the
// catalog, serialises access to each inventory, drops evicted stacks on the
// floor and persists contents through a Repository.
package stash

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/stacks/internal/catalog"
	"github.com/cory-johannsen/stacks/internal/inventory"
)

var (
	// ErrStashNotFound is returned when an owner has no open stash.
	ErrStashNotFound = errors.New("stash: not open")
	// ErrStashExists is returned when opening a stash that is already open.
	ErrStashExists = errors.New("stash: already open")
	// ErrSizeOutOfRange is returned for a size below zero or above the maximum.
	ErrSizeOutOfRange = errors.New("stash: size out of range")
	// ErrSlotOutOfRange is returned when a slot index does not exist.
	ErrSlotOutOfRange = errors.New("stash: slot out of range")
)

// Inventory is the concrete inventory type held for each owner.
type Inventory = inventory.Inventory[*catalog.ItemDef]

// Stack is a quantity of a catalog item.
type Stack = inventory.ItemQuantity[*catalog.ItemDef]

// Options configures a Manager.
type Options struct {
	// MaxSize bounds the slot count of any stash.
	MaxSize int
	// DropLocation is where evicted and unplaceable stacks are dropped.
	DropLocation string
}

type entry struct {
	mu  sync.Mutex
	inv *Inventory
}

// Manager tracks open stashes by owner.
// All methods are safe for concurrent use.
type Manager struct {
	logger *zap.Logger
	reg    *catalog.Registry
	floor  *Floor
	repo   Repository
	opts   Options

	mu      sync.RWMutex
	stashes map[string]*entry
}

// NewManager creates a Manager with no open stashes.
//
// Precondition: logger, reg, floor and repo must be non-nil; opts.MaxSize >= 0.
func NewManager(logger *zap.Logger, reg *catalog.Registry, floor *Floor, repo Repository, opts Options) *Manager {
	return &Manager{
		logger:  logger,
		reg:     reg,
		floor:   floor,
		repo:    repo,
		opts:    opts,
		stashes: make(map[string]*entry),
	}
}

// Open creates an empty stash with size slots for owner.
//
// Postcondition: returns ErrStashExists if owner already has one open, or
// ErrSizeOutOfRange if size is outside [0, MaxSize].
func (m *Manager) Open(owner string, size int) error {
	if err := m.checkSize(size); err != nil {
		return err
	}
	inv, err := inventory.New[*catalog.ItemDef](size)
	if err != nil {
		return fmt.Errorf("opening stash %q: %w", owner, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.stashes[owner]; exists {
		return fmt.Errorf("%w: %q", ErrStashExists, owner)
	}
	m.stashes[owner] = &entry{inv: inv}
	m.logger.Info("stash opened", zap.String("owner", owner), zap.Int("size", size))
	return nil
}

// Close forgets owner's stash without saving it.
func (m *Manager) Close(owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.stashes[owner]; !ok {
		return fmt.Errorf("%w: %q", ErrStashNotFound, owner)
	}
	delete(m.stashes, owner)
	m.logger.Info("stash closed", zap.String("owner", owner))
	return nil
}

// Owners returns the owners of all open stashes, sorted.
func (m *Manager) Owners() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.stashes))
	for owner := range m.stashes {
		out = append(out, owner)
	}
	sort.Strings(out)
	return out
}

// Add places quantity units of itemID into owner's stash.
//
// Postcondition: returns the surplus that did not fit (0 when everything was
// stored). Whatever fits is stored even when a surplus remains.
func (m *Manager) Add(owner, itemID string, quantity int) (int, error) {
	def, err := m.reg.Lookup(itemID)
	if err != nil {
		return 0, err
	}
	var surplus int
	err = m.with(owner, func(inv *Inventory) error {
		if rest, ok := inv.AddItem(def, quantity); ok {
			surplus = rest.Quantity
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	m.logger.Debug("stash add",
		zap.String("owner", owner),
		zap.String("item", itemID),
		zap.Int("quantity", quantity),
		zap.Int("surplus", surplus),
	)
	return surplus, nil
}

// Take extracts up to quantity units from slot index of owner's stash.
//
// Postcondition: ok is false when the slot is empty; an index outside the
// stash yields ErrSlotOutOfRange.
func (m *Manager) Take(owner string, index, quantity int) (Stack, bool, error) {
	var (
		out Stack
		ok  bool
	)
	err := m.with(owner, func(inv *Inventory) error {
		if _, exists := inv.Slot(index); !exists {
			return fmt.Errorf("%w: %d", ErrSlotOutOfRange, index)
		}
		out, ok = inv.TakeItem(index, quantity)
		return nil
	})
	if err != nil {
		return Stack{}, false, err
	}
	if ok {
		m.logger.Debug("stash take",
			zap.String("owner", owner),
			zap.Int("slot", index),
			zap.String("item", out.Item.ID),
			zap.Int("quantity", out.Quantity),
		)
	}
	return out, ok, nil
}

// Move picks up quantity units from slot from and drops them onto slot to,
// merging with or swapping against what is there. Whatever ends up back on
// the cursor is returned to from, then to the rest of the stash, and as a
// last resort dropped on the floor.
//
// Postcondition: total units per item across stash and floor are unchanged.
func (m *Manager) Move(owner string, from, to, quantity int) error {
	return m.with(owner, func(inv *Inventory) error {
		src, ok := inv.Slot(from)
		if !ok {
			return fmt.Errorf("%w: %d", ErrSlotOutOfRange, from)
		}
		dst, ok := inv.Slot(to)
		if !ok {
			return fmt.Errorf("%w: %d", ErrSlotOutOfRange, to)
		}
		if from == to {
			return nil
		}
		cursor, ok := src.Extract(quantity)
		if !ok {
			return nil
		}
		held, ok := dst.SwapOrStore(cursor.Item, cursor.Quantity)
		if !ok || held.Quantity == 0 {
			return nil
		}
		rest := src.SetItem(held.Item, held.Quantity)
		if rest == 0 {
			return nil
		}
		if surplus, ok := inv.AddItem(held.Item, rest); ok {
			d := m.floor.Drop(m.opts.DropLocation, owner, surplus)
			m.logger.Warn("stash full after move; dropped surplus",
				zap.String("owner", owner),
				zap.String("item", d.ItemID),
				zap.Int("quantity", d.Quantity),
				zap.String("drop_id", d.ID),
			)
		}
		return nil
	})
}

// Resize changes the slot count of owner's stash. Stacks in evicted slots
// are dropped on the floor and returned.
//
// Postcondition: returns ErrSizeOutOfRange if n is outside [0, MaxSize].
func (m *Manager) Resize(owner string, n int) ([]Dropped, error) {
	if err := m.checkSize(n); err != nil {
		return nil, err
	}
	var dropped []Dropped
	err := m.with(owner, func(inv *Inventory) error {
		evicted, err := inv.Resize(n)
		if err != nil {
			return err
		}
		for _, s := range evicted {
			if c, ok := s.Contents(); ok {
				dropped = append(dropped, m.floor.Drop(m.opts.DropLocation, owner, c))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.logger.Info("stash resized",
		zap.String("owner", owner),
		zap.Int("size", n),
		zap.Int("dropped", len(dropped)),
	)
	return dropped, nil
}

// Snapshot returns the persisted form of owner's stash.
func (m *Manager) Snapshot(owner string) (Saved, error) {
	var out Saved
	err := m.with(owner, func(inv *Inventory) error {
		out = toSaved(inv)
		return nil
	})
	return out, err
}

// Count returns how many units of itemID owner's stash holds.
func (m *Manager) Count(owner, itemID string) (int, error) {
	def, err := m.reg.Lookup(itemID)
	if err != nil {
		return 0, err
	}
	var n int
	err = m.with(owner, func(inv *Inventory) error {
		n = inv.Count(def)
		return nil
	})
	return n, err
}

// Weight returns the total weight of everything in owner's stash.
func (m *Manager) Weight(owner string) (float64, error) {
	var total float64
	err := m.with(owner, func(inv *Inventory) error {
		for _, s := range inv.Items() {
			c, _ := s.Contents()
			total += float64(c.Quantity) * c.Item.Weight
		}
		return nil
	})
	return total, err
}

// Save writes owner's stash to the repository.
func (m *Manager) Save(ctx context.Context, owner string) error {
	s, err := m.Snapshot(owner)
	if err != nil {
		return err
	}
	if err := m.repo.Save(ctx, owner, s); err != nil {
		return fmt.Errorf("saving stash %q: %w", owner, err)
	}
	m.logger.Info("stash saved", zap.String("owner", owner), zap.Int("occupied", len(s.Slots)))
	return nil
}

// SaveAll writes every open stash to the repository.
//
// Postcondition: every stash is attempted; the returned error joins all failures.
func (m *Manager) SaveAll(ctx context.Context) error {
	var errs []error
	for _, owner := range m.Owners() {
		if err := m.Save(ctx, owner); err != nil && !errors.Is(err, ErrStashNotFound) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Load replaces owner's open stash, or opens one, with the repository copy.
//
// Postcondition: returns an error wrapping ErrNotSaved when nothing was saved,
// or catalog.ErrUnknownItem when a saved item is no longer defined.
func (m *Manager) Load(ctx context.Context, owner string) error {
	s, err := m.repo.Load(ctx, owner)
	if err != nil {
		return fmt.Errorf("loading stash %q: %w", owner, err)
	}
	inv, err := m.fromSaved(s)
	if err != nil {
		return fmt.Errorf("loading stash %q: %w", owner, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.stashes[owner]; ok {
		e.mu.Lock()
		e.inv = inv
		e.mu.Unlock()
	} else {
		m.stashes[owner] = &entry{inv: inv}
	}
	m.logger.Info("stash loaded", zap.String("owner", owner), zap.Int("size", s.Size))
	return nil
}

// View runs fn with exclusive access to owner's inventory. fn must not retain
// the inventory after returning.
func (m *Manager) View(owner string, fn func(inv *Inventory)) error {
	return m.with(owner, func(inv *Inventory) error {
		fn(inv)
		return nil
	})
}

func (m *Manager) with(owner string, fn func(inv *Inventory) error) error {
	m.mu.RLock()
	e, ok := m.stashes[owner]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrStashNotFound, owner)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.inv)
}

func (m *Manager) checkSize(n int) error {
	if n < 0 || n > m.opts.MaxSize {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrSizeOutOfRange, n, m.opts.MaxSize)
	}
	return nil
}

func toSaved(inv *Inventory) Saved {
	out := Saved{Size: inv.Size()}
	for _, st := range inv.Snapshot() {
		out.Slots = append(out.Slots, Record{Index: st.Index, ItemID: st.Item.ID, Quantity: st.Quantity})
	}
	return out
}

func (m *Manager) fromSaved(s Saved) (*Inventory, error) {
	inv, err := inventory.New[*catalog.ItemDef](s.Size)
	if err != nil {
		return nil, err
	}
	for _, r := range s.Slots {
		def, err := m.reg.Lookup(r.ItemID)
		if err != nil {
			return nil, err
		}
		slot, ok := inv.Slot(r.Index)
		if !ok {
			return nil, fmt.Errorf("%w: saved index %d", ErrSlotOutOfRange, r.Index)
		}
		if rest := slot.SetItem(def, r.Quantity); rest != 0 {
			return nil, fmt.Errorf("slot %d: %d units of %q exceed stack size %d", r.Index, r.Quantity, r.ItemID, def.MaxStack)
		}
	}
	return inv, nil
}
