package store

import (
	"context"
)

// ReviewStats is the per-word mastery record. There is at most one row per
// word; the row is created lazily by the first review and removed by the
// word's ON DELETE CASCADE.
type ReviewStats struct {
	WordID       int32
	SuccessCount int32
	PartialCount int32
	FailCount    int32
	Score        int32
	// LastReviewedTs is nil until the first review is applied.
	LastReviewedTs *int64
}

// Attempts returns the total number of applied review events.
func (r *ReviewStats) Attempts() int32 {
	return r.SuccessCount + r.PartialCount + r.FailCount
}

// UpsertReviewStats carries the increments of one review event. The driver
// applies it as a single create-or-increment statement keyed by WordID.
type UpsertReviewStats struct {
	WordID         int32
	SuccessInc     int32
	PartialInc     int32
	FailInc        int32
	ScoreDelta     int32
	LastReviewedTs int64
}

// FindReviewStats is the find condition for review stats.
type FindReviewStats struct {
	WordID *int32
	// CreatorID scopes results to words owned by a user (join against word).
	CreatorID *int32
}

// UpsertReviewStats applies one review event atomically and returns the
// updated record.
func (s *Store) UpsertReviewStats(ctx context.Context, upsert *UpsertReviewStats) (*ReviewStats, error) {
	return s.driver.UpsertReviewStats(ctx, upsert)
}

// UpsertReviewStatsBatch applies a completed session's review events in one
// all-or-nothing transaction.
func (s *Store) UpsertReviewStatsBatch(ctx context.Context, upserts []*UpsertReviewStats) error {
	return s.driver.UpsertReviewStatsBatch(ctx, upserts)
}

// ListReviewStats lists review stats with filter.
func (s *Store) ListReviewStats(ctx context.Context, find *FindReviewStats) ([]*ReviewStats, error) {
	return s.driver.ListReviewStats(ctx, find)
}

// GetReviewStats gets the stats row for a single word, or nil if the word has
// never been reviewed.
func (s *Store) GetReviewStats(ctx context.Context, find *FindReviewStats) (*ReviewStats, error) {
	list, err := s.driver.ListReviewStats(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}
