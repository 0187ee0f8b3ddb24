package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"sjsage522/pricewatcher/internal/scraper"
	"sjsage522/pricewatcher/pkg/errors"
)

// timestampLayout is the storage format of observation timestamps
const timestampLayout = "2006-01-02 15:04:05"

// SQLiteLedger implements Ledger on a local SQLite database
type SQLiteLedger struct {
	db *sql.DB
}

// Ensure SQLiteLedger implements Ledger
var _ Ledger = (*SQLiteLedger)(nil)

// Open opens (creating if necessary) the ledger database at the given
// path and ensures the schema exists. Safe to call on every startup.
func Open(dbPath string) (*SQLiteLedger, error) {
	if dbPath == "" {
		return nil, errors.NewStorage("ledger", "db path must not be empty", nil)
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.NewStorage("ledger", "failed to create db directory", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.NewStorage("ledger", "failed to open sqlite database", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteLedger{db: db}, nil
}

func createSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS prices (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_name TEXT,
	old_price INTEGER,
	new_price INTEGER,
	installment_price INTEGER,
	timestamp TEXT
);
`
	if _, err := db.Exec(schema); err != nil {
		return errors.NewStorage("ledger", "failed to create schema", err)
	}
	return nil
}

// Append persists one observation. A nil observation is a no-op so a
// failed extraction can never produce a partial row.
func (l *SQLiteLedger) Append(ctx context.Context, obs *scraper.PriceObservation) error {
	if obs == nil {
		return nil
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO prices (product_name, old_price, new_price, installment_price, timestamp) VALUES (?, ?, ?, ?, ?)`,
		obs.ProductName, obs.OldPrice, obs.NewPrice, obs.InstallmentPrice,
		obs.Timestamp.Format(timestampLayout))
	if err != nil {
		return errors.NewStorage("ledger", "failed to insert observation", err)
	}
	return nil
}

// MaxObservedPrice returns the maximum recorded current price and its
// timestamp. Ties resolve to the earliest record achieving the max.
func (l *SQLiteLedger) MaxObservedPrice(ctx context.Context) (int, string, bool, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT new_price, timestamp FROM prices ORDER BY new_price DESC, id ASC LIMIT 1`)

	var max int
	var timestamp string
	if err := row.Scan(&max, &timestamp); err != nil {
		if err == sql.ErrNoRows {
			return 0, "", false, nil
		}
		return 0, "", false, errors.NewStorage("ledger", "failed to query maximum price", err)
	}

	return max, timestamp, true, nil
}

// Count returns the number of stored observations
func (l *SQLiteLedger) Count(ctx context.Context) (int, error) {
	var count int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prices`).Scan(&count); err != nil {
		return 0, errors.NewStorage("ledger", "failed to count observations", err)
	}
	return count, nil
}

// Close releases the database handle
func (l *SQLiteLedger) Close() error {
	if err := l.db.Close(); err != nil {
		return fmt.Errorf("failed to close ledger: %w", err)
	}
	return nil
}
