package stash

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Autosaver periodically saves every open stash. It saves once more when
// its context is cancelled.
type Autosaver struct {
	mgr      *Manager
	interval time.Duration
	logger   *zap.Logger
}

// NewAutosaver creates an Autosaver.
//
// Precondition: interval > 0.
func NewAutosaver(mgr *Manager, interval time.Duration, logger *zap.Logger) *Autosaver {
	return &Autosaver{mgr: mgr, interval: interval, logger: logger}
}

// Run saves on every tick until ctx is cancelled, then performs a final save.
//
// Postcondition: returns the error of the final save, if any.
func (a *Autosaver) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := a.mgr.SaveAll(ctx); err != nil {
				a.logger.Warn("autosave failed", zap.Error(err))
			}
		case <-ctx.Done():
			return a.mgr.SaveAll(context.WithoutCancel(ctx))
		}
	}
}
