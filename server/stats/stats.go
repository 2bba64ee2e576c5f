// Package stats provides simple local usage statistics for the flashcard
// server. This is a lightweight alternative to an external monitoring stack.
package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hrygo/kotoba/server/service/review"
	"github.com/hrygo/kotoba/store"
)

// Stats represents usage statistics.
type Stats struct {
	// Word stats
	TotalWords     int64
	WordsLastWeek  int64
	WordsLastMonth int64

	// Series stats
	TotalSeries int64

	// Review stats
	TotalReviews      int64 // sum of applied review events across all words
	WordsReviewed     int64 // words with at least one review
	ReviewedLastWeek  int64 // words reviewed in the last 7 days
	DifficultWords    int64 // words classified difficult under default thresholds
	ReviewsToday      int64 // submissions recorded since midnight (process-local)
	LastReviewTime    time.Time

	// Activity stats
	ActiveDays int64 // days with activity in the last 30 days
	StreakDays int64 // current consecutive days with activity

	// Timestamp
	LastUpdated time.Time
}

// Store is the interface for store operations needed by the collector.
type Store interface {
	ListWords(ctx context.Context, find *store.FindWord) ([]*store.Word, error)
	ListSeries(ctx context.Context, find *store.FindSeries) ([]*store.Series, error)
	ListReviewStats(ctx context.Context, find *store.FindReviewStats) ([]*store.ReviewStats, error)
}

// Collector collects and manages usage statistics.
type Collector struct {
	store    Store
	stats    *Stats
	mu       sync.Mutex
	tickStop chan struct{}
	stopOnce sync.Once
}

// NewCollector creates a new statistics collector.
func NewCollector(st Store) *Collector {
	return &Collector{
		store: st,
		stats: &Stats{
			LastUpdated: time.Now(),
		},
		tickStop: make(chan struct{}),
	}
}

// Start begins periodic statistics collection.
// Updates every hour.
func (c *Collector) Start(ctx context.Context) {
	c.Collect(ctx)

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Collect(ctx)
			case <-ctx.Done():
				return
			case <-c.tickStop:
				return
			}
		}
	}()
}

// Stop stops the statistics collector.
func (c *Collector) Stop() {
	c.stopOnce.Do(func() {
		close(c.tickStop)
	})
}

// GetStats returns a copy of current statistics.
func (c *Collector) GetStats() *Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	copied := *c.stats
	return &copied
}

// RecordReview records a review submission. Unlike the collected totals this
// counter is process-local and resets on restart.
func (c *Collector) RecordReview() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.ReviewsToday++
	c.stats.LastReviewTime = time.Now()
}

// Collect gathers current statistics from the store.
func (c *Collector) Collect(ctx context.Context) {
	now := time.Now()
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	words, err := c.store.ListWords(ctx, &store.FindWord{})
	if err != nil {
		return
	}
	series, err := c.store.ListSeries(ctx, &store.FindSeries{})
	if err != nil {
		return
	}
	statsList, err := c.store.ListReviewStats(ctx, &store.FindReviewStats{})
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.TotalWords = int64(len(words))
	c.stats.TotalSeries = int64(len(series))

	weekCount := int64(0)
	monthCount := int64(0)
	activityTimes := make([]time.Time, 0, len(words)+len(statsList))
	for _, w := range words {
		created := time.Unix(w.CreatedTs, 0)
		if !created.Before(weekAgo) {
			weekCount++
		}
		if !created.Before(monthAgo) {
			monthCount++
		}
		activityTimes = append(activityTimes, created)
	}
	c.stats.WordsLastWeek = weekCount
	c.stats.WordsLastMonth = monthCount

	totalReviews := int64(0)
	reviewedLastWeek := int64(0)
	difficult := int64(0)
	for _, rs := range statsList {
		totalReviews += int64(rs.Attempts())
		if rs.LastReviewedTs != nil {
			reviewed := time.Unix(*rs.LastReviewedTs, 0)
			if !reviewed.Before(weekAgo) {
				reviewedLastWeek++
			}
			activityTimes = append(activityTimes, reviewed)
		}
		if review.IsDifficult(rs, review.DefaultScoreThreshold, review.DefaultMinAttempts, review.DefaultFailRateThreshold) {
			difficult++
		}
	}
	c.stats.TotalReviews = totalReviews
	c.stats.WordsReviewed = int64(len(statsList))
	c.stats.ReviewedLastWeek = reviewedLastWeek
	c.stats.DifficultWords = difficult

	c.stats.ActiveDays = countActiveDays(activityTimes, now)
	c.stats.StreakDays = calculateStreakDays(activityTimes, now)
	c.stats.LastUpdated = now
}

// GetSummary returns a human-readable summary.
func (s *Stats) GetSummary() string {
	return fmt.Sprintf(
		`Usage statistics (updated %s)

Words
  total: %d
  added last week: %d
  added last month: %d

Series
  total: %d

Reviews
  total: %d
  words reviewed: %d
  reviewed last week: %d
  difficult words: %d

Activity
  active days (30d): %d
  streak: %d days`,
		s.LastUpdated.Format("2006-01-02 15:04"),
		s.TotalWords,
		s.WordsLastWeek,
		s.WordsLastMonth,
		s.TotalSeries,
		s.TotalReviews,
		s.WordsReviewed,
		s.ReviewedLastWeek,
		s.DifficultWords,
		s.ActiveDays,
		s.StreakDays,
	)
}

// countActiveDays counts distinct days with activity in the 30 days up to now.
func countActiveDays(times []time.Time, now time.Time) int64 {
	cutoff := now.AddDate(0, 0, -30)
	days := make(map[string]bool)
	for _, t := range times {
		if t.Before(cutoff) {
			continue
		}
		days[t.Format("2006-01-02")] = true
	}
	return int64(len(days))
}

// calculateStreakDays calculates the current streak of consecutive days with
// activity ending today. A day counts as active when at least one word was
// added or reviewed on it.
func calculateStreakDays(times []time.Time, now time.Time) int64 {
	days := make(map[string]bool)
	for _, t := range times {
		days[t.Format("2006-01-02")] = true
	}

	streak := int64(0)
	for i := 0; i < 365; i++ {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		if !days[day] {
			break
		}
		streak++
	}
	return streak
}
