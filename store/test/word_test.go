package test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/kotoba/store"
)

func TestWordCRUD(t *testing.T) {
	ctx := context.Background()
	st := NewTestingStore(ctx, t)
	user := CreateTestingUser(ctx, t, st, "alice")

	word, err := st.CreateWord(ctx, &store.Word{
		UID:       "word-000000000000001",
		CreatorID: user.ID,
		Text:      "to eat",
		Phonetic:  "taberu",
		Script:    "食べる",
		ScriptAlt: "たべる",
		Notes:     "ichidan verb",
	})
	require.NoError(t, err)
	assert.NotZero(t, word.ID)
	assert.NotZero(t, word.CreatedTs)
	assert.Equal(t, store.Normal, word.RowStatus)

	got, err := st.GetWord(ctx, &store.FindWord{UID: &word.UID, CreatorID: &user.ID})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "食べる", got.Script)
	assert.Equal(t, "たべる", got.ScriptAlt)

	newText := "to eat (casual)"
	updatedTs := time.Now().Unix() + 5
	err = st.UpdateWord(ctx, &store.UpdateWord{ID: word.ID, Text: &newText, UpdatedTs: &updatedTs})
	require.NoError(t, err)

	got, err = st.GetWord(ctx, &store.FindWord{ID: &word.ID})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newText, got.Text)
	assert.Equal(t, updatedTs, got.UpdatedTs)

	require.NoError(t, st.DeleteWord(ctx, &store.DeleteWord{ID: word.ID}))
	got, err = st.GetWord(ctx, &store.FindWord{ID: &word.ID})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSeriesMembership(t *testing.T) {
	ctx := context.Background()
	st := NewTestingStore(ctx, t)
	user := CreateTestingUser(ctx, t, st, "alice")

	verbs, err := st.CreateSeries(ctx, &store.Series{
		UID:       "series-00000000000001",
		CreatorID: user.ID,
		Name:      "verbs",
	})
	require.NoError(t, err)

	eat := CreateTestingWord(ctx, t, st, user.ID, "word-000000000000001", "to eat")
	water := CreateTestingWord(ctx, t, st, user.ID, "word-000000000000002", "water")

	require.NoError(t, st.AddWordToSeries(ctx, eat.ID, verbs.ID))
	// Adding the same pair twice is a no-op.
	require.NoError(t, st.AddWordToSeries(ctx, eat.ID, verbs.ID))

	words, err := st.ListWords(ctx, &store.FindWord{CreatorID: &user.ID, SeriesID: &verbs.ID})
	require.NoError(t, err)
	require.Len(t, words, 1)
	assert.Equal(t, eat.ID, words[0].ID)

	require.NoError(t, st.RemoveWordFromSeries(ctx, eat.ID, verbs.ID))
	words, err = st.ListWords(ctx, &store.FindWord{CreatorID: &user.ID, SeriesID: &verbs.ID})
	require.NoError(t, err)
	assert.Empty(t, words)

	// Deleting the series leaves the words in place.
	require.NoError(t, st.AddWordToSeries(ctx, water.ID, verbs.ID))
	require.NoError(t, st.DeleteSeries(ctx, &store.DeleteSeries{ID: verbs.ID}))

	all, err := st.ListWords(ctx, &store.FindWord{CreatorID: &user.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
