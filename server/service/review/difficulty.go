package review

import (
	"context"
	"sort"

	"github.com/hrygo/kotoba/server/internal/apperrors"
	"github.com/hrygo/kotoba/store"
)

func (s *service) ListDifficultWords(ctx context.Context, userID int32, params DifficultyParams) ([]*DifficultWord, error) {
	scoreThreshold := DefaultScoreThreshold
	if params.ScoreThreshold != nil {
		scoreThreshold = *params.ScoreThreshold
	}
	minAttempts := DefaultMinAttempts
	if params.MinAttempts != nil {
		minAttempts = *params.MinAttempts
	}
	failRateThreshold := DefaultFailRateThreshold
	if params.FailRateThreshold != nil {
		failRateThreshold = *params.FailRateThreshold
	}
	if failRateThreshold < 0 || failRateThreshold > 1 {
		return nil, apperrors.InvalidArgumentf("fail rate threshold %v out of range [0, 1]", failRateThreshold)
	}

	words, err := s.store.ListWords(ctx, &store.FindWord{CreatorID: &userID})
	if err != nil {
		return nil, apperrors.Unavailable("failed to list words", err)
	}
	statsList, err := s.store.ListReviewStats(ctx, &store.FindReviewStats{CreatorID: &userID})
	if err != nil {
		return nil, apperrors.Unavailable("failed to list review stats", err)
	}
	statsByWordID := make(map[int32]*store.ReviewStats, len(statsList))
	for _, stats := range statsList {
		statsByWordID[stats.WordID] = stats
	}

	list := make([]*DifficultWord, 0)
	for _, word := range words {
		stats := statsByWordID[word.ID]
		if stats == nil {
			// Never-reviewed words rank as score 0 with 0 attempts. They can
			// still qualify when the caller raises scoreThreshold to >= 0.
			stats = &store.ReviewStats{WordID: word.ID}
		}
		if IsDifficult(stats, scoreThreshold, minAttempts, failRateThreshold) {
			list = append(list, &DifficultWord{Word: word, Stats: stats})
		}
	}

	// Hardest first; ties go to the newer word.
	sort.Slice(list, func(i, j int) bool {
		if list[i].Stats.Score != list[j].Stats.Score {
			return list[i].Stats.Score < list[j].Stats.Score
		}
		return list[i].Word.ID > list[j].Word.ID
	})

	return list, nil
}

// IsDifficult classifies one stats record. The two clauses are deliberately
// OR-ed: a word with very few attempts but a deeply negative score is flagged
// before it reaches minAttempts.
func IsDifficult(stats *store.ReviewStats, scoreThreshold, minAttempts int32, failRateThreshold float64) bool {
	if stats.Score <= scoreThreshold {
		return true
	}
	attempts := stats.Attempts()
	if attempts >= minAttempts && attempts > 0 {
		if float64(stats.FailCount)/float64(attempts) > failRateThreshold {
			return true
		}
	}
	return false
}
