// Package backend selects and constructs the plan store from
// configuration.
package backend

import (
	"fmt"

	"offerplan/internal/config"
	"offerplan/internal/log"
	"offerplan/internal/store"
	"offerplan/internal/store/memory"
	"offerplan/internal/store/sqlite"
)

type Type string

const (
	MemoryBackend Type = "memory"
	SQLiteBackend Type = "sqlite"
)

func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Result bundles the constructed store with its cleanup hook. Cleanup
// may be nil for backends with nothing to release.
type Result struct {
	Store   store.PlanStore
	Cleanup func() error
}

// New builds the plan store named by cfg.DataBackend.
func New(cfg *config.Config, logger *log.Logger) (*Result, error) {
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid data backend: %s", cfg.DataBackend)
	}

	switch t {
	case SQLiteBackend:
		if cfg.SQLiteDBPath == "" {
			return nil, fmt.Errorf("sqlite backend requires SQLITE_DB_PATH")
		}
		s, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: s, Cleanup: s.Close}, nil
	case MemoryBackend:
		logger.Info("Initialized memory backend")
		return &Result{Store: memory.New()}, nil
	default:
		return nil, fmt.Errorf("unsupported data backend: %s", t)
	}
}
