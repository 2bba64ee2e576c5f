package store

import (
	"context"
)

// Series is a named group of words used to bound review sessions.
type Series struct {
	ID        int32
	UID       string
	CreatorID int32
	Name      string
	CreatedTs int64
}

// FindSeries is the find condition for series.
type FindSeries struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	Name      *string
}

// DeleteSeries is the delete request for series.
type DeleteSeries struct {
	ID int32
}

// CreateSeries creates a new series.
func (s *Store) CreateSeries(ctx context.Context, create *Series) (*Series, error) {
	return s.driver.CreateSeries(ctx, create)
}

// ListSeries lists series with filter.
func (s *Store) ListSeries(ctx context.Context, find *FindSeries) ([]*Series, error) {
	return s.driver.ListSeries(ctx, find)
}

// GetSeries gets a series by find condition.
func (s *Store) GetSeries(ctx context.Context, find *FindSeries) (*Series, error) {
	list, err := s.driver.ListSeries(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// DeleteSeries deletes a series. Word memberships cascade; words themselves
// are untouched.
func (s *Store) DeleteSeries(ctx context.Context, delete *DeleteSeries) error {
	return s.driver.DeleteSeries(ctx, delete)
}

// AddWordToSeries adds a word to a series. Adding twice is a no-op.
func (s *Store) AddWordToSeries(ctx context.Context, wordID, seriesID int32) error {
	return s.driver.AddWordToSeries(ctx, wordID, seriesID)
}

// RemoveWordFromSeries removes a word from a series.
func (s *Store) RemoveWordFromSeries(ctx context.Context, wordID, seriesID int32) error {
	return s.driver.RemoveWordFromSeries(ctx, wordID, seriesID)
}
