package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// DefaultRecordTable is the table holding ledger records.
const DefaultRecordTable = "ledger_records"

// PostgresRecordStore keeps the durable record as a JSONB row keyed by
// LedgerRecordKey.
type PostgresRecordStore struct {
	db    *sql.DB
	table string
	key   string
}

func NewPostgresRecordStore(db *sql.DB, table string) *PostgresRecordStore {
	if table == "" {
		table = DefaultRecordTable
	}
	return &PostgresRecordStore{db: db, table: pq.QuoteIdentifier(table), key: LedgerRecordKey}
}

// EnsureSchema creates the record table when it does not exist yet.
func (s *PostgresRecordStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS ` + s.table + ` (
			key        TEXT PRIMARY KEY,
			body       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.table, err)
	}
	return nil
}

func (s *PostgresRecordStore) ReadRecord(ctx context.Context) ([]byte, error) {
	query := `SELECT body FROM ` + s.table + ` WHERE key = $1`
	var body []byte
	err := s.db.QueryRowContext(ctx, query, s.key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger record: %w", err)
	}
	return body, nil
}

func (s *PostgresRecordStore) WriteRecord(ctx context.Context, data []byte) error {
	query := `
		INSERT INTO ` + s.table + ` (key, body, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, s.key, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write ledger record: %w", err)
	}
	return nil
}
