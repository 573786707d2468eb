package ledger

import (
	"context"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"vendido/internal/config"
	"vendido/internal/domain"
	"vendido/internal/port"
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS processed_documents (
    doc_ref TEXT PRIMARY KEY
)`

// NewDB creates a PostgreSQL connection pool for the ledger.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	return db, nil
}

// PostgresStore keeps the ledger in a single-column table. The snapshot
// never shrinks, so Save only inserts refs not yet present.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates the store and bootstraps the schema.
func NewPostgresStore(db *sqlx.DB) (*PostgresStore, error) {
	if _, err := db.Exec(ledgerSchema); err != nil {
		return nil, fmt.Errorf("creating ledger table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

var _ port.LedgerStore = (*PostgresStore)(nil)

// Load reads all persisted refs. A query failure yields an empty set so a
// degraded database never blocks a report run.
func (s *PostgresStore) Load(ctx context.Context) (domain.ProcessedSet, error) {
	var refs []string
	if err := s.db.SelectContext(ctx, &refs, `SELECT doc_ref FROM processed_documents`); err != nil {
		log.Printf("ledger.PostgresStore: loading snapshot: %v; starting with empty ledger", err)
		return domain.ProcessedSet{}, nil
	}
	return domain.NewProcessedSet(refs), nil
}

// Save upserts the snapshot. Existing refs are left untouched.
func (s *PostgresStore) Save(ctx context.Context, set domain.ProcessedSet) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning ledger tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, ref := range set.Refs() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO processed_documents (doc_ref) VALUES ($1) ON CONFLICT DO NOTHING`, ref); err != nil {
			return fmt.Errorf("inserting ledger ref %s: %w", ref, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing ledger tx: %w", err)
	}
	return nil
}
