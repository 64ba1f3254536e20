// Package sqlite is the sqlite backend of the bill history store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"roommates/adapters/storage"
	"roommates/core/bill"
	"roommates/core/household"
	"roommates/core/money"
	"roommates/internal/errors"
	"roommates/internal/logging"
)

var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on a sqlite database
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens or creates the database at dbPath and applies migrations
func Open(dbPath string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, errors.Storage("create database directory", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Storage("open database", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Storage("ping database", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, errors.Storage("migrate database", err)
	}

	return &Store{db: db, logger: logging.OrNop(logger)}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

const upsertBill = `
INSERT INTO bills (id, category, start_date, end_date, currency, amount_minor, fixed_minor, imported_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (category, start_date, end_date) DO UPDATE SET
    currency     = excluded.currency,
    amount_minor = excluded.amount_minor,
    fixed_minor  = excluded.fixed_minor,
    imported_at  = excluded.imported_at`

// Save writes bills in a single transaction
func (s *Store) Save(ctx context.Context, category string, bills []bill.Bill) (int, error) {
	if category == "" {
		return 0, errors.Input("category is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Storage("begin transaction", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertBill)
	if err != nil {
		return 0, errors.Storage("prepare insert", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, b := range bills {
		p := b.Period()
		_, err := stmt.ExecContext(ctx,
			uuid.New().String(),
			category,
			p.Start().Format(storage.DateLayout),
			p.End().Format(storage.DateLayout),
			string(b.Currency()),
			b.AmountDue().Minor(),
			b.FixedCost().Minor(),
			now,
		)
		if err != nil {
			return 0, errors.Storage(fmt.Sprintf("insert %s bill for %s", category, p), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Storage("commit", err)
	}
	s.logger.Debug("bills saved", zap.String("category", category), zap.Int("count", len(bills)))
	return len(bills), nil
}

// List returns the bills of a category ordered by period
func (s *Store) List(ctx context.Context, category string) ([]storage.StoredBill, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, start_date, end_date, currency, amount_minor, fixed_minor, imported_at
FROM bills
WHERE category = ?
ORDER BY start_date, end_date`, category)
	if err != nil {
		return nil, errors.Storage("query bills", err)
	}
	defer rows.Close()

	var out []storage.StoredBill
	for rows.Next() {
		var (
			id, start, end, currency string
			amount, fixed, imported  int64
		)
		if err := rows.Scan(&id, &start, &end, &currency, &amount, &fixed, &imported); err != nil {
			return nil, errors.Storage("scan bill", err)
		}

		period, err := household.ParseDateInterval(storage.DateLayout, start, end)
		if err != nil {
			return nil, errors.Storage(fmt.Sprintf("bill %s has a bad period", id), err)
		}
		cur := money.Currency(currency)
		b, err := bill.NewWithFixedCost(money.OfMinor(cur, amount), period, money.OfMinor(cur, fixed))
		if err != nil {
			return nil, errors.Storage(fmt.Sprintf("bill %s is inconsistent", id), err)
		}
		out = append(out, storage.StoredBill{
			ID:         id,
			Category:   category,
			Bill:       b,
			ImportedAt: time.Unix(imported, 0),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("iterate bills", err)
	}
	return out, nil
}

// Categories returns the categories with at least one bill
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT category FROM bills ORDER BY category`)
	if err != nil {
		return nil, errors.Storage("query categories", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, errors.Storage("scan category", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a category's bills
func (s *Store) Delete(ctx context.Context, category string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bills WHERE category = ?`, category)
	if err != nil {
		return 0, errors.Storage("delete bills", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Storage("delete bills", err)
	}
	return int(n), nil
}
