package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const sqliteSlotsSchemaV1 = `
CREATE TABLE IF NOT EXISTS slots (
    name TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    updated_at_ms INTEGER NOT NULL DEFAULT 0
);
`

// SQLiteMedium keeps the slot as one row of a SQLite table, so several slots
// can share a database file.
type SQLiteMedium struct {
	mu     sync.Mutex
	db     *sql.DB
	slot   string
	closed bool
}

var _ Medium = (*SQLiteMedium)(nil)

func NewSQLiteMedium(dsn string, slot string) (*SQLiteMedium, error) {
	if dsn == "" {
		return nil, errors.New("sqlite medium: empty dsn")
	}
	if slot == "" {
		slot = DefaultSlot
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "sqlite medium: could not open database")
	}
	m := &SQLiteMedium{db: db, slot: slot}
	if err := m.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

// SQLiteDSNForFile returns a DSN for a database file in WAL mode.
func SQLiteDSNForFile(path string) (string, error) {
	if path == "" {
		return "", errors.New("sqlite medium: empty path")
	}
	return fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path), nil
}

func (m *SQLiteMedium) migrate() error {
	if _, err := m.db.Exec(sqliteSlotsSchemaV1); err != nil {
		return errors.Wrap(err, "sqlite medium: could not create schema")
	}
	return nil
}

func (m *SQLiteMedium) Read(ctx context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureOpen(); err != nil {
		return "", false, err
	}

	var payload string
	err := m.db.QueryRowContext(ctx, `SELECT payload FROM slots WHERE name = ?`, m.slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "sqlite medium: could not read slot %s", m.slot)
	}
	return payload, true, nil
}

func (m *SQLiteMedium) Write(ctx context.Context, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureOpen(); err != nil {
		return err
	}

	_, err := m.db.ExecContext(
		ctx,
		`INSERT INTO slots (name, payload, updated_at_ms)
VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at_ms = excluded.updated_at_ms`,
		m.slot,
		content,
		time.Now().UnixMilli(),
	)
	if err != nil {
		return errors.Wrapf(err, "sqlite medium: could not write slot %s", m.slot)
	}
	return nil
}

func (m *SQLiteMedium) Remove(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureOpen(); err != nil {
		return err
	}

	if _, err := m.db.ExecContext(ctx, `DELETE FROM slots WHERE name = ?`, m.slot); err != nil {
		return errors.Wrapf(err, "sqlite medium: could not remove slot %s", m.slot)
	}
	return nil
}

func (m *SQLiteMedium) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return m.db.Close()
}

func (m *SQLiteMedium) ensureOpen() error {
	if m.closed {
		return errors.New("sqlite medium closed")
	}
	return nil
}
