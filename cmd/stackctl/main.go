// Package main provides stackctl, an interactive shell for opening, editing
// and saving slot-based stashes.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/stacks/internal/catalog"
	"github.com/cory-johannsen/stacks/internal/config"
	"github.com/cory-johannsen/stacks/internal/lifecycle"
	"github.com/cory-johannsen/stacks/internal/observability"
	"github.com/cory-johannsen/stacks/internal/shell"
	"github.com/cory-johannsen/stacks/internal/stash"
	"github.com/cory-johannsen/stacks/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	owner := flag.String("owner", "", "load this owner's saved stash on startup, or open an empty one")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	itemsStart := time.Now()
	items, err := catalog.NewRegistryFromDir(cfg.Inventory.ItemsDir)
	if err != nil {
		logger.Fatal("loading item catalog", zap.String("dir", cfg.Inventory.ItemsDir), zap.Error(err))
	}
	logger.Info("item catalog loaded",
		zap.Int("items", items.Len()),
		zap.Duration("elapsed", time.Since(itemsStart)),
	)

	repo, closeRepo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("opening stash repository", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer closeRepo()

	floor := stash.NewFloor()
	mgr := stash.NewManager(logger, items, floor, repo, stash.Options{
		MaxSize:      cfg.Inventory.MaxSize,
		DropLocation: cfg.Inventory.DropLocation,
	})
	sh := shell.New(logger, mgr, items, floor, os.Stdout, shell.Options{
		DefaultSize:  cfg.Inventory.DefaultSize,
		DropLocation: cfg.Inventory.DropLocation,
	})

	if *owner != "" {
		line := "load " + *owner
		if err := sh.Exec(ctx, line); err != nil {
			line = fmt.Sprintf("open %s %d", *owner, cfg.Inventory.DefaultSize)
			if err := sh.Exec(ctx, line); err != nil {
				logger.Fatal("opening startup stash", zap.String("owner", *owner), zap.Error(err))
			}
		}
	}

	lc := lifecycle.New(logger)
	lc.Add("shell", lifecycle.ServiceFunc(func(ctx context.Context) error {
		return sh.Run(ctx, os.Stdin)
	}))
	if cfg.Inventory.AutosaveInterval > 0 {
		lc.Add("autosave", stash.NewAutosaver(mgr, cfg.Inventory.AutosaveInterval, logger))
	}

	logger.Info("stackctl ready",
		zap.String("backend", cfg.Storage.Backend),
		zap.Duration("startup", time.Since(start)),
	)
	if err := lc.Run(ctx); err != nil {
		logger.Error("stackctl stopped with errors", zap.Error(err))
		os.Exit(1)
	}
}

// openRepository builds the configured stash repository. The returned func
// releases its resources.
func openRepository(ctx context.Context, cfg config.Config, logger *zap.Logger) (stash.Repository, func(), error) {
	if cfg.Storage.Backend != config.BackendPostgres {
		return stash.NewMemoryRepository(), func() {}, nil
	}

	if cfg.Storage.AutoMigrate {
		res, err := postgres.Migrate(cfg.Storage.MigrationsDir, cfg.Database.DSN(), postgres.Up, 0)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("schema migrated",
			zap.Uint("version", res.Version),
			zap.Bool("changed", res.Changed),
		)
	}

	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Health(ctx, 5*time.Second); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("database health check: %w", err)
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)
	return postgres.NewInventoryRepository(pool.DB()), pool.Close, nil
}
