package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/kotoba/server/internal/observability"
	"github.com/hrygo/kotoba/server/service/review"
	"github.com/hrygo/kotoba/store"
)

type SubmitReviewRequest struct {
	Outcome string `json:"outcome"`
}

type BulkReviewRequest struct {
	Entries []BulkReviewEntryRequest `json:"entries"`
}

type BulkReviewEntryRequest struct {
	WordUID string `json:"wordUid"`
	Outcome string `json:"outcome"`
}

type BulkReviewResponse struct {
	Applied int `json:"applied"`
}

type ReviewStatsResponse struct {
	WordID         int32  `json:"-"`
	SuccessCount   int32  `json:"successCount"`
	PartialCount   int32  `json:"partialCount"`
	FailCount      int32  `json:"failCount"`
	Score          int32  `json:"score"`
	Attempts       int32  `json:"attempts"`
	LastReviewedTs *int64 `json:"lastReviewedTs"`
}

type DifficultWordResponse struct {
	Word  *WordResponse        `json:"word"`
	Stats *ReviewStatsResponse `json:"stats"`
}

func convertReviewStats(stats *store.ReviewStats) *ReviewStatsResponse {
	return &ReviewStatsResponse{
		WordID:         stats.WordID,
		SuccessCount:   stats.SuccessCount,
		PartialCount:   stats.PartialCount,
		FailCount:      stats.FailCount,
		Score:          stats.Score,
		Attempts:       stats.Attempts(),
		LastReviewedTs: stats.LastReviewedTs,
	}
}

func (s *APIV1Service) SubmitReview(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	request := &SubmitReviewRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed review")
	}
	outcome, err := review.ParseOutcome(request.Outcome)
	if err != nil {
		return toHTTPError(err)
	}

	stats, err := s.ReviewService.SubmitReview(ctx, user.ID, c.Param("uid"), outcome)
	if err != nil {
		return toHTTPError(err)
	}

	s.Collector.RecordReview()
	return c.JSON(http.StatusOK, convertReviewStats(stats))
}

func (s *APIV1Service) SubmitBulkReviews(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	request := &BulkReviewRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed review batch")
	}

	entries := make([]review.BulkReviewEntry, 0, len(request.Entries))
	for _, entry := range request.Entries {
		entries = append(entries, review.BulkReviewEntry{
			WordUID: entry.WordUID,
			Outcome: review.Outcome(entry.Outcome),
		})
	}

	applied, err := s.ReviewService.SubmitBulkReviews(ctx, user.ID, entries)
	if err != nil {
		return toHTTPError(err)
	}

	for i := 0; i < applied; i++ {
		s.Collector.RecordReview()
	}
	if reqCtx, ok := observability.FromContext(ctx); ok {
		reqCtx.Info("review batch applied",
			slog.Int("submitted", len(entries)),
			slog.Int("applied", applied),
			slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
		)
	}
	return c.JSON(http.StatusOK, &BulkReviewResponse{Applied: applied})
}

func (s *APIV1Service) ListDifficultWords(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	params := review.DifficultyParams{}
	var scoreThreshold, minAttempts int32
	var failRate float64
	binder := echo.QueryParamsBinder(c).
		Int32("scoreThreshold", &scoreThreshold).
		Int32("minAttempts", &minAttempts).
		Float64("failRateThreshold", &failRate)
	if err := binder.BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed classifier params")
	}
	if c.QueryParams().Has("scoreThreshold") {
		params.ScoreThreshold = &scoreThreshold
	}
	if c.QueryParams().Has("minAttempts") {
		params.MinAttempts = &minAttempts
	}
	if c.QueryParams().Has("failRateThreshold") {
		params.FailRateThreshold = &failRate
	}

	list, err := s.ReviewService.ListDifficultWords(ctx, user.ID, params)
	if err != nil {
		return toHTTPError(err)
	}

	response := make([]*DifficultWordResponse, 0, len(list))
	for _, item := range list {
		response = append(response, &DifficultWordResponse{
			Word:  s.convertWord(item.Word, false),
			Stats: convertReviewStats(item.Stats),
		})
	}
	return c.JSON(http.StatusOK, response)
}
