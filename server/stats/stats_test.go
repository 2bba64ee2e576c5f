package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/kotoba/store"
)

// MockStoreForStats is a mock implementation of the Store interface for testing.
type MockStoreForStats struct {
	words     []*store.Word
	series    []*store.Series
	statsRows []*store.ReviewStats
}

func (m *MockStoreForStats) ListWords(context.Context, *store.FindWord) ([]*store.Word, error) {
	return m.words, nil
}

func (m *MockStoreForStats) ListSeries(context.Context, *store.FindSeries) ([]*store.Series, error) {
	return m.series, nil
}

func (m *MockStoreForStats) ListReviewStats(context.Context, *store.FindReviewStats) ([]*store.ReviewStats, error) {
	return m.statsRows, nil
}

func ts(t time.Time) *int64 {
	unix := t.Unix()
	return &unix
}

func TestCollectorCollect(t *testing.T) {
	now := time.Now()
	mock := &MockStoreForStats{
		words: []*store.Word{
			{ID: 1, CreatedTs: now.Add(-2 * time.Hour).Unix()},
			{ID: 2, CreatedTs: now.AddDate(0, 0, -10).Unix()},
			{ID: 3, CreatedTs: now.AddDate(0, 0, -40).Unix()},
		},
		series: []*store.Series{{ID: 1, Name: "jlpt-n5"}},
		statsRows: []*store.ReviewStats{
			{WordID: 1, SuccessCount: 3, FailCount: 1, Score: 5, LastReviewedTs: ts(now.Add(-time.Hour))},
			{WordID: 2, FailCount: 4, Score: -8, LastReviewedTs: ts(now.AddDate(0, 0, -9))},
		},
	}

	collector := NewCollector(mock)
	collector.Collect(context.Background())
	stats := collector.GetStats()

	assert.Equal(t, int64(3), stats.TotalWords)
	assert.Equal(t, int64(1), stats.WordsLastWeek)
	assert.Equal(t, int64(2), stats.WordsLastMonth)
	assert.Equal(t, int64(1), stats.TotalSeries)
	assert.Equal(t, int64(8), stats.TotalReviews)
	assert.Equal(t, int64(2), stats.WordsReviewed)
	assert.Equal(t, int64(1), stats.ReviewedLastWeek)
	assert.Equal(t, int64(1), stats.DifficultWords, "score -8 is under the default threshold")
	assert.False(t, stats.LastUpdated.IsZero())
}

func TestCollectorRecordReview(t *testing.T) {
	collector := NewCollector(&MockStoreForStats{})

	collector.RecordReview()
	collector.RecordReview()

	stats := collector.GetStats()
	assert.Equal(t, int64(2), stats.ReviewsToday)
	assert.False(t, stats.LastReviewTime.IsZero())
}

func TestCalculateStreakDays(t *testing.T) {
	now := time.Now()

	times := []time.Time{
		now,
		now.AddDate(0, 0, -1),
		now.AddDate(0, 0, -2),
		// Gap at day -3.
		now.AddDate(0, 0, -4),
	}
	assert.Equal(t, int64(3), calculateStreakDays(times, now))

	// No activity today breaks the streak immediately.
	assert.Equal(t, int64(0), calculateStreakDays([]time.Time{now.AddDate(0, 0, -1)}, now))
}

func TestStatsGetSummary(t *testing.T) {
	stats := &Stats{
		TotalWords:     120,
		WordsLastWeek:  8,
		TotalSeries:    4,
		TotalReviews:   560,
		DifficultWords: 11,
		StreakDays:     7,
		LastUpdated:    time.Now(),
	}

	summary := stats.GetSummary()
	require.NotEmpty(t, summary)
	assert.Contains(t, summary, "total: 120")
	assert.Contains(t, summary, "streak: 7 days")
}
