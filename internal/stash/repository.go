package stash

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrNotSaved is returned by a Repository when an owner has no saved stash.
var ErrNotSaved = errors.New("stash: no saved stash for owner")

// Record is the persisted form of one occupied slot.
type Record struct {
	Index    int
	ItemID   string
	Quantity int
}

// Saved is the persisted form of a stash: its slot count and occupied slots.
type Saved struct {
	Size  int
	Slots []Record
}

// Repository persists stash contents.
type Repository interface {
	// Save replaces whatever is stored for owner with s.
	Save(ctx context.Context, owner string, s Saved) error
	// Load returns the stored stash for owner, or ErrNotSaved.
	Load(ctx context.Context, owner string) (Saved, error)
}

// MemoryRepository is an in-process Repository.
// All methods are safe for concurrent use.
type MemoryRepository struct {
	mu     sync.RWMutex
	stored map[string]Saved
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{stored: make(map[string]Saved)}
}

// Save stores a copy of s for owner.
func (r *MemoryRepository) Save(_ context.Context, owner string, s Saved) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored[owner] = Saved{Size: s.Size, Slots: slices.Clone(s.Slots)}
	return nil
}

// Load returns a copy of what was saved for owner.
func (r *MemoryRepository) Load(_ context.Context, owner string) (Saved, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stored[owner]
	if !ok {
		return Saved{}, ErrNotSaved
	}
	return Saved{Size: s.Size, Slots: slices.Clone(s.Slots)}, nil
}
