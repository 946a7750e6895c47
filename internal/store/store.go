// Package store keeps imported claims and payments in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/claimtrack/internal/model"
	"github.com/theirongolddev/claimtrack/internal/period"

	_ "modernc.org/sqlite" // register sqlite driver
)

// governingDate picks the date that decides a payment's bucket.
const governingDate = `COALESCE(NULLIF(payment_date, ''), NULLIF(created_at, ''))`

// Store is a SQLite-backed event store. It satisfies pipeline.Source.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at dbPath and applies pending migrations.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// TrackedFile records the state of an imported file at import time.
type TrackedFile struct {
	Path      string
	Kind      string
	MtimeNs   int64
	SizeBytes int64
}

// Unchanged reports whether a file with the given mtime and size matches t.
func (t TrackedFile) Unchanged(mtimeNs, size int64) bool {
	return t.MtimeNs == mtimeNs && t.SizeBytes == size
}

// TrackedFiles returns every tracked file keyed by path.
func (s *Store) TrackedFiles(ctx context.Context) (map[string]TrackedFile, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT file_path, kind, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]TrackedFile)
	for rows.Next() {
		var tf TrackedFile
		if err := rows.Scan(&tf.Path, &tf.Kind, &tf.MtimeNs, &tf.SizeBytes); err != nil {
			return nil, err
		}
		result[tf.Path] = tf
	}
	return result, rows.Err()
}

// ReplaceFile swaps everything previously imported from f.Path for the given
// events and records f as tracked, all in one transaction.
func (s *Store) ReplaceFile(ctx context.Context, f TrackedFile, claims []model.ClaimEvent, payments []model.PaymentEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM claims WHERE origin = ?", f.Path); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM payments WHERE origin = ?", f.Path); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if err := insertClaims(ctx, tx, f.Path, now, claims); err != nil {
		return err
	}
	if err := insertPayments(ctx, tx, f.Path, now, payments); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO file_tracker
		(file_path, kind, mtime_ns, size_bytes, imported_at) VALUES (?, ?, ?, ?, ?)`,
		f.Path, f.Kind, f.MtimeNs, f.SizeBytes, now)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func insertClaims(ctx context.Context, tx *sql.Tx, origin, now string, claims []model.ClaimEvent) error {
	if len(claims) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO claims
		(origin, period_start, claimed_amount, imported_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, c := range claims {
		if _, err := stmt.ExecContext(ctx, origin, c.PeriodStart, string(c.ClaimedAmount), now); err != nil {
			return fmt.Errorf("inserting claim: %w", err)
		}
	}
	return nil
}

func insertPayments(ctx context.Context, tx *sql.Tx, origin, now string, payments []model.PaymentEvent) error {
	if len(payments) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO payments
		(origin, payment_date, created_at, amount, imported_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range payments {
		if _, err := stmt.ExecContext(ctx, origin, nullable(p.PaymentDate), nullable(p.CreatedAt), string(p.Amount), now); err != nil {
			return fmt.Errorf("inserting payment: %w", err)
		}
	}
	return nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Claims returns the claims whose period start falls inside w, in insertion order.
func (s *Store) Claims(ctx context.Context, w period.Window) ([]model.ClaimEvent, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT period_start, claimed_amount FROM claims
		WHERE substr(period_start, 1, 10) BETWEEN ? AND ?
		ORDER BY id`, w.From.String(), w.To.String())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	claims := []model.ClaimEvent{}
	for rows.Next() {
		var c model.ClaimEvent
		var amount string
		if err := rows.Scan(&c.PeriodStart, &amount); err != nil {
			return nil, err
		}
		c.ClaimedAmount = model.RawAmount(amount)
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

// Payments returns the payments whose governing date falls inside w, plus
// every payment with no date at all, in insertion order.
func (s *Store) Payments(ctx context.Context, w period.Window) ([]model.PaymentEvent, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payment_date, created_at, amount FROM payments
		WHERE `+governingDate+` IS NULL
		   OR substr(`+governingDate+`, 1, 10) BETWEEN ? AND ?
		ORDER BY id`, w.From.String(), w.To.String())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	payments := []model.PaymentEvent{}
	for rows.Next() {
		var p model.PaymentEvent
		var paymentDate, createdAt sql.NullString
		var amount string
		if err := rows.Scan(&paymentDate, &createdAt, &amount); err != nil {
			return nil, err
		}
		if paymentDate.Valid {
			p.PaymentDate = &paymentDate.String
		}
		if createdAt.Valid {
			p.CreatedAt = &createdAt.String
		}
		p.Amount = model.RawAmount(amount)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// Counts summarises what the store holds.
type Counts struct {
	Claims   int
	Payments int
	Files    int
}

// Counts returns row counts for each table.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM claims),
		(SELECT COUNT(*) FROM payments),
		(SELECT COUNT(*) FROM file_tracker)`).Scan(&c.Claims, &c.Payments, &c.Files)
	return c, err
}

// DeleteFile removes a tracked file and every event imported from it.
func (s *Store) DeleteFile(ctx context.Context, path string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{
		"DELETE FROM claims WHERE origin = ?",
		"DELETE FROM payments WHERE origin = ?",
		"DELETE FROM file_tracker WHERE file_path = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, path); err != nil {
			return err
		}
	}
	return tx.Commit()
}
