package review

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/kotoba/server/internal/apperrors"
	"github.com/hrygo/kotoba/store"
)

// MockStoreForReview is a mock implementation of the Store interface for testing.
type MockStoreForReview struct {
	mu    sync.Mutex
	words []*store.Word
	stats map[int32]*store.ReviewStats

	// failBatch makes UpsertReviewStatsBatch fail without applying anything,
	// mimicking the all-or-nothing transaction.
	failBatch bool
}

func NewMockStoreForReview(words ...*store.Word) *MockStoreForReview {
	return &MockStoreForReview{
		words: words,
		stats: map[int32]*store.ReviewStats{},
	}
}

func (m *MockStoreForReview) matchWord(word *store.Word, find *store.FindWord) bool {
	if find.ID != nil && word.ID != *find.ID {
		return false
	}
	if find.UID != nil && word.UID != *find.UID {
		return false
	}
	if find.CreatorID != nil && word.CreatorID != *find.CreatorID {
		return false
	}
	return true
}

func (m *MockStoreForReview) GetWord(ctx context.Context, find *store.FindWord) (*store.Word, error) {
	list, err := m.ListWords(ctx, find)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

func (m *MockStoreForReview) ListWords(_ context.Context, find *store.FindWord) ([]*store.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*store.Word, 0)
	for _, word := range m.words {
		if m.matchWord(word, find) {
			result = append(result, word)
		}
	}
	return result, nil
}

func (m *MockStoreForReview) applyLocked(upsert *store.UpsertReviewStats) *store.ReviewStats {
	stats, ok := m.stats[upsert.WordID]
	if !ok {
		stats = &store.ReviewStats{WordID: upsert.WordID}
		m.stats[upsert.WordID] = stats
	}
	stats.SuccessCount += upsert.SuccessInc
	stats.PartialCount += upsert.PartialInc
	stats.FailCount += upsert.FailInc
	stats.Score += upsert.ScoreDelta
	ts := upsert.LastReviewedTs
	stats.LastReviewedTs = &ts
	return stats
}

func (m *MockStoreForReview) UpsertReviewStats(_ context.Context, upsert *store.UpsertReviewStats) (*store.ReviewStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	applied := *m.applyLocked(upsert)
	return &applied, nil
}

func (m *MockStoreForReview) UpsertReviewStatsBatch(_ context.Context, upserts []*store.UpsertReviewStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failBatch {
		return errors.New("tx aborted")
	}
	for _, upsert := range upserts {
		m.applyLocked(upsert)
	}
	return nil
}

func (m *MockStoreForReview) ListReviewStats(_ context.Context, find *store.FindReviewStats) ([]*store.ReviewStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	creatorWords := map[int32]bool{}
	for _, word := range m.words {
		if find.CreatorID == nil || word.CreatorID == *find.CreatorID {
			creatorWords[word.ID] = true
		}
	}

	result := make([]*store.ReviewStats, 0)
	for _, stats := range m.stats {
		if find.WordID != nil && stats.WordID != *find.WordID {
			continue
		}
		if !creatorWords[stats.WordID] {
			continue
		}
		copied := *stats
		result = append(result, &copied)
	}
	return result, nil
}

func (m *MockStoreForReview) statsFor(wordID int32) *store.ReviewStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats[wordID]
}

const (
	testUserID    int32 = 1
	foreignUserID int32 = 2
)

func testWord(id int32, creatorID int32, uid string) *store.Word {
	return &store.Word{ID: id, UID: uid, CreatorID: creatorID, Text: "word", RowStatus: store.Normal}
}

func TestSubmitReviewCreatesRecordOnFirstReview(t *testing.T) {
	mock := NewMockStoreForReview(testWord(1, testUserID, "word-000000000000001"))
	svc := NewService(mock)

	stats, err := svc.SubmitReview(context.Background(), testUserID, "word-000000000000001", OutcomeSuccess)
	require.NoError(t, err)

	assert.Equal(t, int32(1), stats.SuccessCount)
	assert.Equal(t, int32(0), stats.PartialCount)
	assert.Equal(t, int32(0), stats.FailCount)
	assert.Equal(t, int32(2), stats.Score)
	require.NotNil(t, stats.LastReviewedTs)
}

func TestSubmitReviewAccumulates(t *testing.T) {
	mock := NewMockStoreForReview(testWord(1, testUserID, "word-000000000000001"))
	svc := NewService(mock)
	ctx := context.Background()

	_, err := svc.SubmitReview(ctx, testUserID, "word-000000000000001", OutcomeSuccess)
	require.NoError(t, err)
	_, err = svc.SubmitReview(ctx, testUserID, "word-000000000000001", OutcomePartial)
	require.NoError(t, err)
	stats, err := svc.SubmitReview(ctx, testUserID, "word-000000000000001", OutcomeFail)
	require.NoError(t, err)

	assert.Equal(t, int32(1), stats.SuccessCount)
	assert.Equal(t, int32(1), stats.PartialCount)
	assert.Equal(t, int32(1), stats.FailCount)
	assert.Equal(t, int32(1), stats.Score) // +2 +1 -2
}

func TestSubmitReviewUnknownWordYieldsNotFound(t *testing.T) {
	mock := NewMockStoreForReview()
	svc := NewService(mock)

	_, err := svc.SubmitReview(context.Background(), testUserID, "word-000000000000404", OutcomeSuccess)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
}

func TestSubmitReviewForeignWordYieldsNotFound(t *testing.T) {
	// A word owned by another user must be indistinguishable from a missing
	// one.
	mock := NewMockStoreForReview(testWord(1, foreignUserID, "word-000000000000001"))
	svc := NewService(mock)

	_, err := svc.SubmitReview(context.Background(), testUserID, "word-000000000000001", OutcomeSuccess)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotFound))
	assert.Nil(t, mock.statsFor(1))
}

func TestSubmitReviewInvalidOutcome(t *testing.T) {
	mock := NewMockStoreForReview(testWord(1, testUserID, "word-000000000000001"))
	svc := NewService(mock)

	_, err := svc.SubmitReview(context.Background(), testUserID, "word-000000000000001", Outcome("perfect"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidArgument))
	assert.Nil(t, mock.statsFor(1))
}

func TestSubmitReviewMalformedUID(t *testing.T) {
	mock := NewMockStoreForReview()
	svc := NewService(mock)

	_, err := svc.SubmitReview(context.Background(), testUserID, "x", OutcomeSuccess)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidArgument))
}

func TestSubmitReviewConcurrentSameWord(t *testing.T) {
	mock := NewMockStoreForReview(testWord(1, testUserID, "word-000000000000001"))
	svc := NewService(mock)

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SubmitReview(context.Background(), testUserID, "word-000000000000001", OutcomeSuccess)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats := mock.statsFor(1)
	require.NotNil(t, stats)
	assert.Equal(t, int32(n), stats.SuccessCount)
	assert.Equal(t, int32(2*n), stats.Score)
}

func TestSubmitBulkReviewsAppliesInOrder(t *testing.T) {
	mock := NewMockStoreForReview(
		testWord(1, testUserID, "word-000000000000001"),
		testWord(2, testUserID, "word-000000000000002"),
	)
	svc := NewService(mock)

	applied, err := svc.SubmitBulkReviews(context.Background(), testUserID, []BulkReviewEntry{
		{WordUID: "word-000000000000001", Outcome: OutcomeSuccess},
		{WordUID: "word-000000000000002", Outcome: OutcomeFail},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	assert.Equal(t, int32(2), mock.statsFor(1).Score)
	assert.Equal(t, int32(-2), mock.statsFor(2).Score)
}

func TestSubmitBulkReviewsDuplicatesApplyIndependently(t *testing.T) {
	mock := NewMockStoreForReview(testWord(1, testUserID, "word-000000000000001"))
	svc := NewService(mock)

	applied, err := svc.SubmitBulkReviews(context.Background(), testUserID, []BulkReviewEntry{
		{WordUID: "word-000000000000001", Outcome: OutcomeFail},
		{WordUID: "word-000000000000001", Outcome: OutcomeSuccess},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	stats := mock.statsFor(1)
	assert.Equal(t, int32(1), stats.FailCount)
	assert.Equal(t, int32(1), stats.SuccessCount)
	assert.Equal(t, int32(0), stats.Score)
}

func TestSubmitBulkReviewsSkipsForeignWordsSilently(t *testing.T) {
	mock := NewMockStoreForReview(
		testWord(1, testUserID, "word-000000000000001"),
		testWord(2, foreignUserID, "word-000000000000002"),
	)
	svc := NewService(mock)

	applied, err := svc.SubmitBulkReviews(context.Background(), testUserID, []BulkReviewEntry{
		{WordUID: "word-000000000000001", Outcome: OutcomeSuccess},
		{WordUID: "word-000000000000002", Outcome: OutcomeSuccess},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.Nil(t, mock.statsFor(2), "foreign word stats must be untouched")
}

func TestSubmitBulkReviewsStaleUIDSkipped(t *testing.T) {
	mock := NewMockStoreForReview(testWord(1, testUserID, "word-000000000000001"))
	svc := NewService(mock)

	applied, err := svc.SubmitBulkReviews(context.Background(), testUserID, []BulkReviewEntry{
		{WordUID: "word-000000000000001", Outcome: OutcomePartial},
		{WordUID: "word-00000000deleted", Outcome: OutcomePartial},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
}

func TestSubmitBulkReviewsInvalidOutcomeHasNoEffect(t *testing.T) {
	mock := NewMockStoreForReview(testWord(1, testUserID, "word-000000000000001"))
	svc := NewService(mock)

	_, err := svc.SubmitBulkReviews(context.Background(), testUserID, []BulkReviewEntry{
		{WordUID: "word-000000000000001", Outcome: OutcomeSuccess},
		{WordUID: "word-000000000000001", Outcome: Outcome("meh")},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidArgument))
	assert.Nil(t, mock.statsFor(1))
}

func TestSubmitBulkReviewsStorageFailureLeavesNothingApplied(t *testing.T) {
	mock := NewMockStoreForReview(
		testWord(1, testUserID, "word-000000000000001"),
		testWord(2, testUserID, "word-000000000000002"),
	)
	mock.failBatch = true
	svc := NewService(mock)

	_, err := svc.SubmitBulkReviews(context.Background(), testUserID, []BulkReviewEntry{
		{WordUID: "word-000000000000001", Outcome: OutcomeSuccess},
		{WordUID: "word-000000000000002", Outcome: OutcomeFail},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUnavailable))
	assert.Nil(t, mock.statsFor(1))
	assert.Nil(t, mock.statsFor(2))
}

func TestSubmitBulkReviewsEmptyAfterFilter(t *testing.T) {
	mock := NewMockStoreForReview()
	svc := NewService(mock)

	applied, err := svc.SubmitBulkReviews(context.Background(), testUserID, []BulkReviewEntry{
		{WordUID: "word-00000000unknown", Outcome: OutcomeSuccess},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, applied)
}
