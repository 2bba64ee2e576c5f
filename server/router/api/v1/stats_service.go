package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/kotoba/server/stats"
)

type StatsResponse struct {
	TotalWords       int64  `json:"totalWords"`
	WordsLastWeek    int64  `json:"wordsLastWeek"`
	WordsLastMonth   int64  `json:"wordsLastMonth"`
	TotalSeries      int64  `json:"totalSeries"`
	TotalReviews     int64  `json:"totalReviews"`
	WordsReviewed    int64  `json:"wordsReviewed"`
	ReviewedLastWeek int64  `json:"reviewedLastWeek"`
	DifficultWords   int64  `json:"difficultWords"`
	ReviewsToday     int64  `json:"reviewsToday"`
	ActiveDays       int64  `json:"activeDays"`
	StreakDays       int64  `json:"streakDays"`
	Summary          string `json:"summary"`
}

func (s *APIV1Service) GetStats(c echo.Context) error {
	if _, err := requireUser(c); err != nil {
		return err
	}

	collected := s.Collector.GetStats()
	return c.JSON(http.StatusOK, convertStats(collected))
}

func convertStats(collected *stats.Stats) *StatsResponse {
	return &StatsResponse{
		TotalWords:       collected.TotalWords,
		WordsLastWeek:    collected.WordsLastWeek,
		WordsLastMonth:   collected.WordsLastMonth,
		TotalSeries:      collected.TotalSeries,
		TotalReviews:     collected.TotalReviews,
		WordsReviewed:    collected.WordsReviewed,
		ReviewedLastWeek: collected.ReviewedLastWeek,
		DifficultWords:   collected.DifficultWords,
		ReviewsToday:     collected.ReviewsToday,
		ActiveDays:       collected.ActiveDays,
		StreakDays:       collected.StreakDays,
		Summary:          collected.GetSummary(),
	}
}
