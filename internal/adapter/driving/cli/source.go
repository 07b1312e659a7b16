package cli

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/reviewsift/internal/adapter/driven/cache"
	sqliteadapter "github.com/ericfisherdev/reviewsift/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/reviewsift/internal/domain/port/driven"
)

const (
	sourceCache = "cache"
	sourceDB    = "db"
)

func noopClose() error { return nil }

// openSource returns the PRSource named by kind along with a function that
// releases it.
func (a *App) openSource(ctx context.Context, kind string) (driven.PRSource, func() error, error) {
	switch kind {
	case sourceCache, "":
		return cache.NewLoader(a.cfg.CacheDir), noopClose, nil
	case sourceDB:
		store, closeFn, err := a.openSnapshot(ctx)
		if err != nil {
			return nil, nil, err
		}
		return store, closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown source %q: expected %s or %s", kind, sourceCache, sourceDB)
	}
}

// openSnapshot opens the SQLite snapshot and applies pending migrations.
func (a *App) openSnapshot(ctx context.Context) (driven.SnapshotStore, func() error, error) {
	db, err := sqliteadapter.NewDB(ctx, a.cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return sqliteadapter.NewSnapshotRepo(db), db.Close, nil
}
