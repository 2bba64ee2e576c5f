package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/kotoba/server/internal/apperrors"
	"github.com/hrygo/kotoba/store"
)

func seedStats(mock *MockStoreForReview, stats *store.ReviewStats) {
	mock.stats[stats.WordID] = stats
}

func TestListDifficultWordsFailRateClause(t *testing.T) {
	mock := NewMockStoreForReview(testWord(1, testUserID, "word-000000000000001"))
	// attempts = 5 >= minAttempts, fail rate 4/5 = 0.8 > 0.4; score -3 alone
	// would not qualify (-3 > -5).
	seedStats(mock, &store.ReviewStats{WordID: 1, SuccessCount: 1, FailCount: 4, Score: -3})
	svc := NewService(mock)

	list, err := svc.ListDifficultWords(context.Background(), testUserID, DifficultyParams{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int32(1), list[0].Word.ID)
}

func TestListDifficultWordsScoreClauseBeforeMinAttempts(t *testing.T) {
	mock := NewMockStoreForReview(testWord(1, testUserID, "word-000000000000001"))
	// Only one attempt, but score -6 <= -5 already qualifies.
	seedStats(mock, &store.ReviewStats{WordID: 1, FailCount: 1, Score: -6})
	svc := NewService(mock)

	list, err := svc.ListDifficultWords(context.Background(), testUserID, DifficultyParams{})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestListDifficultWordsBoundaryCases(t *testing.T) {
	mock := NewMockStoreForReview(
		testWord(1, testUserID, "word-000000000000001"),
		testWord(2, testUserID, "word-000000000000002"),
		testWord(3, testUserID, "word-000000000000003"),
	)
	// Exactly at the score threshold: qualifies (<=).
	seedStats(mock, &store.ReviewStats{WordID: 1, FailCount: 1, Score: -5})
	// Fail rate exactly at the threshold: does not qualify (> is strict).
	seedStats(mock, &store.ReviewStats{WordID: 2, SuccessCount: 3, FailCount: 2, Score: 2})
	// Below minAttempts with a high fail rate but shallow score: not flagged.
	seedStats(mock, &store.ReviewStats{WordID: 3, FailCount: 2, Score: -4})
	svc := NewService(mock)

	list, err := svc.ListDifficultWords(context.Background(), testUserID, DifficultyParams{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int32(1), list[0].Word.ID)
}

func TestListDifficultWordsOrdering(t *testing.T) {
	mock := NewMockStoreForReview(
		testWord(1, testUserID, "word-000000000000001"),
		testWord(2, testUserID, "word-000000000000002"),
		testWord(3, testUserID, "word-000000000000003"),
	)
	seedStats(mock, &store.ReviewStats{WordID: 1, FailCount: 3, Score: -3, SuccessCount: 0, PartialCount: 2})
	seedStats(mock, &store.ReviewStats{WordID: 2, FailCount: 5, Score: -10})
	seedStats(mock, &store.ReviewStats{WordID: 3, FailCount: 5, Score: -10})
	svc := NewService(mock)

	list, err := svc.ListDifficultWords(context.Background(), testUserID, DifficultyParams{})
	require.NoError(t, err)
	require.Len(t, list, 3)

	// Most negative score first; equal scores break toward the newer word.
	assert.Equal(t, int32(3), list[0].Word.ID)
	assert.Equal(t, int32(2), list[1].Word.ID)
	assert.Equal(t, int32(1), list[2].Word.ID)
}

func TestListDifficultWordsNeverReviewedExcludedByDefault(t *testing.T) {
	mock := NewMockStoreForReview(testWord(1, testUserID, "word-000000000000001"))
	svc := NewService(mock)

	list, err := svc.ListDifficultWords(context.Background(), testUserID, DifficultyParams{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListDifficultWordsCustomParams(t *testing.T) {
	mock := NewMockStoreForReview(
		testWord(1, testUserID, "word-000000000000001"),
		testWord(2, testUserID, "word-000000000000002"),
	)
	seedStats(mock, &store.ReviewStats{WordID: 1, SuccessCount: 1, FailCount: 1, Score: 0})
	svc := NewService(mock)

	minAttempts := int32(2)
	failRate := 0.3
	list, err := svc.ListDifficultWords(context.Background(), testUserID, DifficultyParams{
		MinAttempts:       &minAttempts,
		FailRateThreshold: &failRate,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int32(1), list[0].Word.ID)
}

func TestListDifficultWordsScopedToUser(t *testing.T) {
	mock := NewMockStoreForReview(
		testWord(1, testUserID, "word-000000000000001"),
		testWord(2, foreignUserID, "word-000000000000002"),
	)
	seedStats(mock, &store.ReviewStats{WordID: 2, FailCount: 10, Score: -20})
	svc := NewService(mock)

	list, err := svc.ListDifficultWords(context.Background(), testUserID, DifficultyParams{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListDifficultWordsRejectsBadFailRate(t *testing.T) {
	mock := NewMockStoreForReview()
	svc := NewService(mock)

	failRate := 1.5
	_, err := svc.ListDifficultWords(context.Background(), testUserID, DifficultyParams{FailRateThreshold: &failRate})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidArgument))
}
