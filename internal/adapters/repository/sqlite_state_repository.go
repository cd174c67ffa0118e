package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/comitanigiacomo/kanso-rituals/internal/core/domain"
)

var _ domain.StateRepository = (*SQLiteStateRepository)(nil)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS kanso_state (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`

type SQLiteStateRepository struct {
	db *sqlx.DB
}

// OpenSQLite opens the local database file. A single connection keeps
// writes serialized.
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite at %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

func NewSQLiteStateRepository(db *sqlx.DB) *SQLiteStateRepository {
	return &SQLiteStateRepository{db: db}
}

func (r *SQLiteStateRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create state table: %w", err)
	}
	return nil
}

func (r *SQLiteStateRepository) Load(ctx context.Context, key string, dest any) (bool, error) {
	var value string

	err := r.db.GetContext(ctx, &value, `SELECT value FROM kanso_state WHERE key = ?`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		if strings.Contains(err.Error(), "no such table") {
			return false, fmt.Errorf("%w: %v", domain.ErrStateSchemaMissing, err)
		}
		return false, fmt.Errorf("state query failed: %w", err)
	}

	if err := json.Unmarshal([]byte(value), dest); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (r *SQLiteStateRepository) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	query := `
		INSERT INTO kanso_state (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := r.db.ExecContext(ctx, query, key, string(data), now); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}
