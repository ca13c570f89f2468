// Package storage persists a ledger between runs, either to the flat text
// file format or to PostgreSQL.
package storage

import (
	"context"
	"fmt"

	gokitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/nonsonwune/cgpa_tracker/config"
	"github.com/nonsonwune/cgpa_tracker/ledger"
)

// Store loads and saves a whole ledger
type Store interface {
	Load(ctx context.Context) (*ledger.Ledger, error)
	Save(ctx context.Context, l *ledger.Ledger) error
	Close() error
	String() string
}

// Backuper is implemented by stores that can keep a copy of their current
// contents before they are overwritten
type Backuper interface {
	Backup(ctx context.Context) (string, error)
}

// Open returns the store selected by cfg.Store
func Open(ctx context.Context, cfg config.Config, logger gokitlog.Logger) (Store, error) {
	switch cfg.Store {
	case config.StorePostgres:
		s, err := OpenPostgres(ctx, cfg.DB.DSN())
		if err != nil {
			return nil, err
		}
		level.Info(logger).Log("msg", "using postgres store", "host", cfg.DB.Host, "db", cfg.DB.Name)
		return s, nil
	case config.StoreFile, "":
		level.Info(logger).Log("msg", "using file store", "path", cfg.DataFile)
		return NewFileStore(cfg.DataFile), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
