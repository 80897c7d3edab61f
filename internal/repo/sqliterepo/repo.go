package sqliterepo

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dachrisch/energy.consumption-sub001/internal/domain"
	"github.com/dachrisch/energy.consumption-sub001/internal/repo"

	_ "modernc.org/sqlite"
)

var _ repo.ReadingRepository = (*Repo)(nil)

// Repo stores readings in SQLite. Timestamps are kept as UTC unix
// milliseconds; (timestamp, type) is unique.
type Repo struct {
	db *sql.DB
}

// Open creates the database file if needed and migrates it.
func Open(ctx context.Context, path string) (*Repo, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	if err := runMigrations(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Upsert stores readings in one transaction. A reading with an existing
// (timestamp, type) replaces the stored amount.
func (r *Repo) Upsert(ctx context.Context, readings ...domain.Reading) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO readings (ts_ms, amount, type) VALUES (?, ?, ?)
		ON CONFLICT (ts_ms, type) DO UPDATE SET amount = excluded.amount`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, rd := range readings {
		if _, err := stmt.ExecContext(ctx, rd.Time.UTC().UnixMilli(), rd.Amount, string(rd.Type)); err != nil {
			return fmt.Errorf("upsert reading at %s: %w", rd.Time.Format(time.RFC3339), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context, commodity domain.CommodityType, startInclusive *time.Time, endExclusive *time.Time) ([]domain.Reading, error) {
	var (
		where []string
		args  []any
	)
	if commodity != "" {
		where = append(where, "type = ?")
		args = append(args, string(commodity))
	}
	if startInclusive != nil {
		where = append(where, "ts_ms >= ?")
		args = append(args, startInclusive.UTC().UnixMilli())
	}
	if endExclusive != nil {
		where = append(where, "ts_ms < ?")
		args = append(args, endExclusive.UTC().UnixMilli())
	}
	q := "SELECT ts_ms, amount, type FROM readings"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY ts_ms ASC, type ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	defer rows.Close()

	out := []domain.Reading{}
	for rows.Next() {
		var (
			ms     int64
			amount float64
			typ    string
		)
		if err := rows.Scan(&ms, &amount, &typ); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		out = append(out, domain.Reading{
			Time:   time.UnixMilli(ms).UTC(),
			Amount: amount,
			Type:   domain.CommodityType(typ),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate readings: %w", err)
	}
	return out, nil
}
