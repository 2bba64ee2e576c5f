package review

import (
	"context"

	"github.com/hrygo/kotoba/store"
)

// Default classification parameters. Tunable per request; these values are
// what the recap UI relies on.
const (
	DefaultScoreThreshold    int32   = -5
	DefaultMinAttempts       int32   = 5
	DefaultFailRateThreshold float64 = 0.4
)

// Service defines the core business logic for review tracking.
type Service interface {
	// SubmitReview applies a single review outcome to a word owned by the
	// acting user and returns the updated stats record. A word outside the
	// user's scope yields NOT_FOUND.
	SubmitReview(ctx context.Context, userID int32, wordUID string, outcome Outcome) (*store.ReviewStats, error)

	// SubmitBulkReviews applies a completed session's outcomes in order as one
	// all-or-nothing batch. Entries for words the user does not own are
	// silently skipped; the returned count covers only applied entries.
	SubmitBulkReviews(ctx context.Context, userID int32, entries []BulkReviewEntry) (int, error)

	// ListDifficultWords returns the user's words classified as difficult,
	// hardest first.
	ListDifficultWords(ctx context.Context, userID int32, params DifficultyParams) ([]*DifficultWord, error)
}

// BulkReviewEntry is one (word, outcome) pair of a bulk submission. The same
// word may appear more than once; every occurrence is applied.
type BulkReviewEntry struct {
	WordUID string
	Outcome Outcome
}

// DifficultyParams are the tunable thresholds of the difficulty classifier.
// Nil fields fall back to the package defaults.
type DifficultyParams struct {
	ScoreThreshold    *int32
	MinAttempts       *int32
	FailRateThreshold *float64
}

// DifficultWord pairs a word with its stats record in classifier output.
type DifficultWord struct {
	Word  *store.Word
	Stats *store.ReviewStats
}

// Store is the interface for store operations needed by the review service.
type Store interface {
	GetWord(ctx context.Context, find *store.FindWord) (*store.Word, error)
	ListWords(ctx context.Context, find *store.FindWord) ([]*store.Word, error)
	UpsertReviewStats(ctx context.Context, upsert *store.UpsertReviewStats) (*store.ReviewStats, error)
	UpsertReviewStatsBatch(ctx context.Context, upserts []*store.UpsertReviewStats) error
	ListReviewStats(ctx context.Context, find *store.FindReviewStats) ([]*store.ReviewStats, error)
}
