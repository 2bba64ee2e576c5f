package store

import (
	"context"
)

// Word is the object representing a vocabulary entry.
type Word struct {
	ID        int32
	UID       string
	CreatorID int32
	RowStatus RowStatus
	CreatedTs int64
	UpdatedTs int64

	// Text is the source text (meaning) of the word.
	Text string
	// Phonetic is the phonetic transcription.
	Phonetic string
	// Script is the primary script variant.
	Script string
	// ScriptAlt is the secondary script variant.
	ScriptAlt string
	// Notes is free-form markdown.
	Notes string
}

// FindWord is the find condition for word.
type FindWord struct {
	ID        *int32
	UID       *string
	CreatorID *int32
	RowStatus *RowStatus

	// SeriesID filters words belonging to a series.
	SeriesID *int32

	// Pagination
	Limit  *int
	Offset *int
}

// UpdateWord is the update request for word.
type UpdateWord struct {
	ID        int32
	UpdatedTs *int64
	RowStatus *RowStatus
	Text      *string
	Phonetic  *string
	Script    *string
	ScriptAlt *string
	Notes     *string
}

// DeleteWord is the delete request for word.
// Deleting a word cascades its review stats row at the schema level.
type DeleteWord struct {
	ID int32
}

// CreateWord creates a new word.
func (s *Store) CreateWord(ctx context.Context, create *Word) (*Word, error) {
	return s.driver.CreateWord(ctx, create)
}

// ListWords lists words with filter.
func (s *Store) ListWords(ctx context.Context, find *FindWord) ([]*Word, error) {
	return s.driver.ListWords(ctx, find)
}

// GetWord gets a word by find condition.
func (s *Store) GetWord(ctx context.Context, find *FindWord) (*Word, error) {
	list, err := s.driver.ListWords(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateWord updates a word.
func (s *Store) UpdateWord(ctx context.Context, update *UpdateWord) error {
	return s.driver.UpdateWord(ctx, update)
}

// DeleteWord deletes a word.
func (s *Store) DeleteWord(ctx context.Context, delete *DeleteWord) error {
	return s.driver.DeleteWord(ctx, delete)
}
