package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"farofino/internal/model"
	"farofino/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load reads the whole subscription record. A missing singleton row
// yields the default empty subscription rather than an error.
func (s *SQLite) Load(ctx context.Context) (model.Subscription, error) {
	sub := model.NewSubscription()

	var monitoring int
	err := s.db.QueryRowContext(ctx,
		`SELECT owner_id, monitoring_on FROM subscription WHERE id = 1`,
	).Scan(&sub.OwnerID, &monitoring)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return sub, nil
	case err != nil:
		return sub, fmt.Errorf("scan subscription: %w", err)
	}
	sub.MonitoringOn = monitoring == 1

	rows, err := s.db.QueryContext(ctx, `SELECT word FROM keywords ORDER BY word COLLATE NOCASE`)
	if err != nil {
		return sub, fmt.Errorf("query keywords: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return sub, fmt.Errorf("scan keyword: %w", err)
		}
		sub.Keywords = append(sub.Keywords, w)
	}
	if err := rows.Err(); err != nil {
		return sub, fmt.Errorf("iterate keywords: %w", err)
	}

	links, err := s.db.QueryContext(ctx, `SELECT link FROM seen_links`)
	if err != nil {
		return sub, fmt.Errorf("query seen links: %w", err)
	}
	defer func() { _ = links.Close() }()
	for links.Next() {
		var l string
		if err := links.Scan(&l); err != nil {
			return sub, fmt.Errorf("scan seen link: %w", err)
		}
		sub.History[l] = struct{}{}
	}
	if err := links.Err(); err != nil {
		return sub, fmt.Errorf("iterate seen links: %w", err)
	}

	return sub, nil
}

// Save replaces the persisted record in one transaction: the singleton
// row is upserted, keywords are rewritten, and new history links are
// inserted. History never shrinks, so insert-or-ignore is equivalent
// to replacing the whole set.
func (s *SQLite) Save(ctx context.Context, sub model.Subscription) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(timeLayout)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO subscription (id, owner_id, monitoring_on, updated_at)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET owner_id = ?, monitoring_on = ?, updated_at = ?`,
		sub.OwnerID, boolToInt(sub.MonitoringOn), now,
		sub.OwnerID, boolToInt(sub.MonitoringOn), now,
	)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM keywords`); err != nil {
		return fmt.Errorf("clear keywords: %w", err)
	}
	for _, w := range sub.Keywords {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO keywords (word) VALUES (?)`, w); err != nil {
			return fmt.Errorf("insert keyword: %w", err)
		}
	}

	for link := range sub.History {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO seen_links (link, seen_at) VALUES (?, ?)`, link, now,
		); err != nil {
			return fmt.Errorf("insert seen link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
