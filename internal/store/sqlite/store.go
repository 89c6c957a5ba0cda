// Package sqlite persists the plan as a single JSON document in a
// one-row table, so the whole year is read and replaced atomically.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"offerplan/internal/core"
	"offerplan/internal/store"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateSchema(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// migrateSchema brings plan_documents up to date. It opens its own
// connection because migrate.Close tears down the handle it was given.
func migrateSchema(dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open schema connection: %w", err)
	}
	defer db.Close()

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("wrap schema connection: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("build migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply plan_documents migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) LoadPlan(ctx context.Context) (store.PlanDocument, error) {
	var (
		raw       string
		revision  int64
		updatedAt string
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT document, revision, updated_at FROM plan_documents WHERE id = 1`)
	if err := row.Scan(&raw, &revision, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.PlanDocument{}, store.ErrNoDocument
		}
		return store.PlanDocument{}, fmt.Errorf("read plan document: %w", err)
	}

	var plan core.Plan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return store.PlanDocument{}, fmt.Errorf("decode plan document: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return store.PlanDocument{}, fmt.Errorf("parse updated_at: %w", err)
	}

	return store.PlanDocument{Plan: plan, Revision: revision, UpdatedAt: ts}, nil
}

func (s *Store) SavePlan(ctx context.Context, doc store.PlanDocument) error {
	raw, err := json.Marshal(doc.Plan)
	if err != nil {
		return fmt.Errorf("encode plan document: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO plan_documents (id, document, revision, updated_at)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   document = excluded.document,
		   revision = excluded.revision,
		   updated_at = excluded.updated_at`,
		string(raw), doc.Revision, doc.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write plan document: %w", err)
	}
	return nil
}

func (s *Store) ClearPlan(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM plan_documents WHERE id = 1`); err != nil {
		return fmt.Errorf("clear plan document: %w", err)
	}
	return nil
}
