// Package storage persists the outcome of each pipeline run.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sevigo/merge-warden/internal/core"
)

const defaultListLimit = 50

// Store defines the interface for all database operations.
type Store interface {
	UpsertReview(ctx context.Context, repoURL, prLink string, status core.Status, feedback string) (*core.ReviewRecord, error)
	GetReview(ctx context.Context, id int64) (*core.ReviewRecord, error)
	ListReviews(ctx context.Context, limit int) ([]core.ReviewRecord, error)
	DeleteReview(ctx context.Context, id int64) error
}

type sqlStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewStore creates a new Store. Queries are written with '?' placeholders and
// rebound for the connection's driver.
func NewStore(db *sqlx.DB) Store {
	return &sqlStore{db: db, now: time.Now}
}

const reviewColumns = `id, repo_url, pr_link, status, feedback, created_at, updated_at`

// UpsertReview records the latest outcome for a (repo, PR) pair. A second run
// for the same PR replaces status and feedback and keeps the original
// creation time.
func (s *sqlStore) UpsertReview(ctx context.Context, repoURL, prLink string, status core.Status, feedback string) (*core.ReviewRecord, error) {
	now := s.now().UTC()
	query := s.db.Rebind(`
		INSERT INTO reviews (repo_url, pr_link, status, feedback, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (repo_url, pr_link) DO UPDATE
		SET status = excluded.status, feedback = excluded.feedback, updated_at = excluded.updated_at
		RETURNING id`)

	var id int64
	if err := s.db.GetContext(ctx, &id, query, repoURL, prLink, status, feedback, now, now); err != nil {
		return nil, fmt.Errorf("failed to save review for %s: %w", prLink, err)
	}
	return s.GetReview(ctx, id)
}

// GetReview returns a single record; core.ErrNotFound if there is none.
func (s *sqlStore) GetReview(ctx context.Context, id int64) (*core.ReviewRecord, error) {
	query := s.db.Rebind(`SELECT ` + reviewColumns + ` FROM reviews WHERE id = ?`)

	var rec core.ReviewRecord
	err := s.db.GetContext(ctx, &rec, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: review %d", core.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get review %d: %w", id, err)
	}
	return &rec, nil
}

// ListReviews returns the most recently created records first.
func (s *sqlStore) ListReviews(ctx context.Context, limit int) ([]core.ReviewRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := s.db.Rebind(`
		SELECT ` + reviewColumns + `
		FROM reviews
		ORDER BY created_at DESC, id DESC
		LIMIT ?`)

	records := []core.ReviewRecord{}
	if err := s.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return records, nil
}

func (s *sqlStore) DeleteReview(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM reviews WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete review %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete review %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: review %d", core.ErrNotFound, id)
	}
	return nil
}
