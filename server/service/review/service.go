// Package review implements the mastery-tracking engine: it turns review
// outcomes into per-word counter and score updates and classifies words by
// learning difficulty.
//
// Key properties:
//   - A word's stats row is created lazily by its first review; creation is
//     idempotent, so concurrent first reviews never duplicate a record.
//   - Single submissions are atomic per word at the storage level; concurrent
//     submissions for the same word are all reflected.
//   - Bulk submissions apply as one all-or-nothing transaction, with entries
//     for unowned words filtered out before any write.
package review

import (
	"context"
	"log/slog"
	"time"

	"github.com/hrygo/kotoba/internal/util"
	"github.com/hrygo/kotoba/server/internal/apperrors"
	"github.com/hrygo/kotoba/store"
)

type service struct {
	store Store
}

// NewService creates a new review service.
func NewService(store Store) Service {
	return &service{store: store}
}

func (s *service) SubmitReview(ctx context.Context, userID int32, wordUID string, outcome Outcome) (*store.ReviewStats, error) {
	if !outcome.Valid() {
		return nil, apperrors.InvalidArgumentf("unrecognized review outcome %q", outcome)
	}
	if !util.ValidateUID(wordUID) {
		return nil, apperrors.InvalidArgumentf("malformed word uid %q", wordUID)
	}

	// Scope the lookup to the acting user so foreign words are
	// indistinguishable from missing ones.
	word, err := s.store.GetWord(ctx, &store.FindWord{UID: &wordUID, CreatorID: &userID})
	if err != nil {
		return nil, apperrors.Unavailable("failed to load word", err)
	}
	if word == nil {
		return nil, apperrors.NotFoundf("word %q not found", wordUID)
	}

	stats, err := s.store.UpsertReviewStats(ctx, newUpsert(word.ID, outcome, time.Now().Unix()))
	if err != nil {
		return nil, apperrors.Unavailable("failed to apply review", err)
	}

	slog.Debug("review applied",
		slog.Int64("user_id", int64(userID)),
		slog.String("word_uid", wordUID),
		slog.String("outcome", string(outcome)),
		slog.Int64("score", int64(stats.Score)),
	)
	return stats, nil
}

func (s *service) SubmitBulkReviews(ctx context.Context, userID int32, entries []BulkReviewEntry) (int, error) {
	// Validate everything before touching storage so a bad entry has no
	// partial effect.
	for _, entry := range entries {
		if !entry.Outcome.Valid() {
			return 0, apperrors.InvalidArgumentf("unrecognized review outcome %q", entry.Outcome)
		}
	}

	words, err := s.store.ListWords(ctx, &store.FindWord{CreatorID: &userID})
	if err != nil {
		return 0, apperrors.Unavailable("failed to list words", err)
	}
	wordIDByUID := make(map[string]int32, len(words))
	for _, word := range words {
		wordIDByUID[word.UID] = word.ID
	}

	// Entries for words outside the user's scope are dropped here, before any
	// write: review recaps may reference words deleted since the session
	// started, and one stale entry must not fail the whole batch. Duplicates
	// are kept and applied in order.
	//
	// Every surviving entry goes through the same create-or-increment upsert,
	// so a first-time word gets "now" as its last-reviewed baseline exactly
	// like a repeat entry does.
	nowTs := time.Now().Unix()
	upserts := make([]*store.UpsertReviewStats, 0, len(entries))
	for _, entry := range entries {
		wordID, ok := wordIDByUID[entry.WordUID]
		if !ok {
			continue
		}
		upserts = append(upserts, newUpsert(wordID, entry.Outcome, nowTs))
	}

	if len(upserts) == 0 {
		return 0, nil
	}
	if err := s.store.UpsertReviewStatsBatch(ctx, upserts); err != nil {
		return 0, apperrors.Unavailable("failed to apply review batch", err)
	}

	slog.Info("bulk reviews applied",
		slog.Int64("user_id", int64(userID)),
		slog.Int("submitted", len(entries)),
		slog.Int("applied", len(upserts)),
	)
	return len(upserts), nil
}
