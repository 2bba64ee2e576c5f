// Package v1 exposes the JSON REST API under /api/v1.
package v1

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/kotoba/internal/profile"
	"github.com/hrygo/kotoba/plugin/markdown"
	"github.com/hrygo/kotoba/server/auth"
	"github.com/hrygo/kotoba/server/internal/observability"
	"github.com/hrygo/kotoba/server/middleware"
	"github.com/hrygo/kotoba/server/service/review"
	"github.com/hrygo/kotoba/server/stats"
	"github.com/hrygo/kotoba/store"
)

type APIV1Service struct {
	Profile         *profile.Profile
	Store           *store.Store
	Sessions        *auth.SessionManager
	ReviewService   review.Service
	MarkdownService markdown.Service
	Collector       *stats.Collector

	rateLimiter *middleware.RateLimiter
}

func NewAPIV1Service(profile *profile.Profile, st *store.Store, collector *stats.Collector) *APIV1Service {
	return &APIV1Service{
		Profile:         profile,
		Store:           st,
		Sessions:        auth.NewSessionManager(time.Duration(profile.SessionTTLHours) * time.Hour),
		ReviewService:   review.NewService(st),
		MarkdownService: markdown.NewService(markdown.WithHardWraps()),
		Collector:       collector,
		rateLimiter:     middleware.DefaultRateLimiter(),
	}
}

// Register wires all /api/v1 routes onto the echo instance.
func (s *APIV1Service) Register(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.Use(auth.Middleware(s.Sessions, s.Store))
	g.Use(requestContextMiddleware)
	g.Use(middleware.RateLimitMiddleware(s.rateLimiter))

	// Auth.
	g.POST("/auth/signup", s.SignUp)
	g.POST("/auth/signin", s.SignIn)
	g.POST("/auth/signout", s.SignOut)
	g.GET("/auth/me", s.Me)

	// Words. Static segments must be registered alongside :uid; echo prefers
	// the static match.
	g.GET("/words", s.ListWords)
	g.POST("/words", s.CreateWord)
	g.GET("/words/difficult", s.ListDifficultWords)
	g.GET("/words/feed.rss", s.WordFeed)
	g.GET("/words/:uid", s.GetWord)
	g.PATCH("/words/:uid", s.UpdateWord)
	g.DELETE("/words/:uid", s.DeleteWord)

	// Reviews.
	g.POST("/words/:uid/review", s.SubmitReview)
	g.POST("/reviews/batch", s.SubmitBulkReviews)

	// Series.
	g.GET("/series", s.ListSeries)
	g.POST("/series", s.CreateSeries)
	g.DELETE("/series/:uid", s.DeleteSeries)
	g.POST("/series/:uid/words/:wordUid", s.AddWordToSeries)
	g.DELETE("/series/:uid/words/:wordUid", s.RemoveWordFromSeries)

	// Stats.
	g.GET("/stats", s.GetStats)
}

// requestContextMiddleware attaches a request-scoped logging context (request
// id + acting user) for handlers that emit structured logs.
func requestContextMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		var userID int32
		if user := auth.UserFromContext(ctx); user != nil {
			userID = user.ID
		}
		reqCtx := observability.NewRequestContext(slog.Default(), userID)
		c.SetRequest(c.Request().WithContext(observability.WithRequestContext(ctx, reqCtx)))
		return next(c)
	}
}

// Close releases resources held by the API layer.
func (s *APIV1Service) Close() {
	s.Sessions.Close()
}
