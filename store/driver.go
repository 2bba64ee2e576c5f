package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)

	// Word model related methods.
	CreateWord(ctx context.Context, create *Word) (*Word, error)
	ListWords(ctx context.Context, find *FindWord) ([]*Word, error)
	UpdateWord(ctx context.Context, update *UpdateWord) error
	DeleteWord(ctx context.Context, delete *DeleteWord) error

	// Series model related methods.
	CreateSeries(ctx context.Context, create *Series) (*Series, error)
	ListSeries(ctx context.Context, find *FindSeries) ([]*Series, error)
	DeleteSeries(ctx context.Context, delete *DeleteSeries) error
	AddWordToSeries(ctx context.Context, wordID, seriesID int32) error
	RemoveWordFromSeries(ctx context.Context, wordID, seriesID int32) error

	// ReviewStats model related methods.
	//
	// UpsertReviewStats applies counter and score increments as one atomic
	// statement (create-if-absent included), so concurrent submissions for the
	// same word never lose updates.
	UpsertReviewStats(ctx context.Context, upsert *UpsertReviewStats) (*ReviewStats, error)
	// UpsertReviewStatsBatch applies all increments inside a single
	// transaction; either every entry is applied or none is.
	UpsertReviewStatsBatch(ctx context.Context, upserts []*UpsertReviewStats) error
	ListReviewStats(ctx context.Context, find *FindReviewStats) ([]*ReviewStats, error)
}
