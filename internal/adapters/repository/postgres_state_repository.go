package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/comitanigiacomo/kanso-rituals/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var _ domain.StateRepository = (*PostgresStateRepository)(nil)

const (
	DefaultStateTable  = "kanso_state"
	pgUndefinedTable   = "42P01"
	pgInvalidTextValue = "22P02"
)

type PostgresStateRepository struct {
	db    *sqlx.DB
	table string
}

func NewPostgresStateRepository(db *sqlx.DB, table string) *PostgresStateRepository {
	if table == "" {
		table = DefaultStateTable
	}
	return &PostgresStateRepository{
		db:    db,
		table: pq.QuoteIdentifier(table),
	}
}

func (r *PostgresStateRepository) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, r.table)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create state table: %w", err)
	}
	return nil
}

func (r *PostgresStateRepository) mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUndefinedTable:
			return fmt.Errorf("%w: %s", domain.ErrStateSchemaMissing, pgErr.Message)
		case pgInvalidTextValue:
			return fmt.Errorf("invalid state payload: %w", err)
		}
	}
	return err
}

func (r *PostgresStateRepository) Load(ctx context.Context, key string, dest any) (bool, error) {
	var value []byte
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, r.table)

	err := r.db.GetContext(ctx, &value, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("state query failed: %w", r.mapError(err))
	}

	if err := json.Unmarshal(value, dest); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (r *PostgresStateRepository) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()`, r.table)

	if _, err := r.db.ExecContext(ctx, query, key, string(data)); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, r.mapError(err))
	}
	return nil
}
