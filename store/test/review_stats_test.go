package test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/kotoba/store"
)

func TestUpsertReviewStatsCreatesAndIncrements(t *testing.T) {
	ctx := context.Background()
	st := NewTestingStore(ctx, t)
	user := CreateTestingUser(ctx, t, st, "alice")
	word := CreateTestingWord(ctx, t, st, user.ID, "word-000000000000001", "to eat")

	now := time.Now().Unix()
	stats, err := st.UpsertReviewStats(ctx, &store.UpsertReviewStats{
		WordID:         word.ID,
		SuccessInc:     1,
		ScoreDelta:     2,
		LastReviewedTs: now,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), stats.SuccessCount)
	assert.Equal(t, int32(2), stats.Score)
	require.NotNil(t, stats.LastReviewedTs)
	assert.Equal(t, now, *stats.LastReviewedTs)

	stats, err = st.UpsertReviewStats(ctx, &store.UpsertReviewStats{
		WordID:         word.ID,
		FailInc:        1,
		ScoreDelta:     -2,
		LastReviewedTs: now + 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), stats.SuccessCount)
	assert.Equal(t, int32(1), stats.FailCount)
	assert.Equal(t, int32(0), stats.Score)
	assert.Equal(t, now+1, *stats.LastReviewedTs)
}

func TestUpsertReviewStatsConcurrentNoLostUpdates(t *testing.T) {
	ctx := context.Background()
	st := NewTestingStore(ctx, t)
	user := CreateTestingUser(ctx, t, st, "alice")
	word := CreateTestingWord(ctx, t, st, user.ID, "word-000000000000001", "to eat")

	const workers = 8
	const perWorker = 4

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, err := st.UpsertReviewStats(ctx, &store.UpsertReviewStats{
					WordID:         word.ID,
					SuccessInc:     1,
					ScoreDelta:     2,
					LastReviewedTs: time.Now().Unix(),
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	stats, err := st.GetReviewStats(ctx, &store.FindReviewStats{WordID: &word.ID})
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, int32(workers*perWorker), stats.SuccessCount)
	assert.Equal(t, int32(2*workers*perWorker), stats.Score)
}

func TestUpsertReviewStatsBatchAllOrNothing(t *testing.T) {
	ctx := context.Background()
	st := NewTestingStore(ctx, t)
	user := CreateTestingUser(ctx, t, st, "alice")
	word := CreateTestingWord(ctx, t, st, user.ID, "word-000000000000001", "to eat")

	now := time.Now().Unix()
	// The second entry violates the word foreign key, so the whole batch must
	// roll back.
	err := st.UpsertReviewStatsBatch(ctx, []*store.UpsertReviewStats{
		{WordID: word.ID, SuccessInc: 1, ScoreDelta: 2, LastReviewedTs: now},
		{WordID: word.ID + 999, SuccessInc: 1, ScoreDelta: 2, LastReviewedTs: now},
	})
	require.Error(t, err)

	stats, err := st.GetReviewStats(ctx, &store.FindReviewStats{WordID: &word.ID})
	require.NoError(t, err)
	assert.Nil(t, stats, "rolled-back batch must leave no stats row")
}

func TestUpsertReviewStatsBatchAppliesAll(t *testing.T) {
	ctx := context.Background()
	st := NewTestingStore(ctx, t)
	user := CreateTestingUser(ctx, t, st, "alice")
	first := CreateTestingWord(ctx, t, st, user.ID, "word-000000000000001", "to eat")
	second := CreateTestingWord(ctx, t, st, user.ID, "word-000000000000002", "to drink")

	now := time.Now().Unix()
	err := st.UpsertReviewStatsBatch(ctx, []*store.UpsertReviewStats{
		{WordID: first.ID, SuccessInc: 1, ScoreDelta: 2, LastReviewedTs: now},
		{WordID: second.ID, FailInc: 1, ScoreDelta: -2, LastReviewedTs: now},
		// Duplicate entry for the first word accumulates.
		{WordID: first.ID, PartialInc: 1, ScoreDelta: 1, LastReviewedTs: now},
	})
	require.NoError(t, err)

	stats, err := st.GetReviewStats(ctx, &store.FindReviewStats{WordID: &first.ID})
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, int32(1), stats.SuccessCount)
	assert.Equal(t, int32(1), stats.PartialCount)
	assert.Equal(t, int32(3), stats.Score)

	stats, err = st.GetReviewStats(ctx, &store.FindReviewStats{WordID: &second.ID})
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, int32(1), stats.FailCount)
	assert.Equal(t, int32(-2), stats.Score)
}

func TestDeleteWordCascadesReviewStats(t *testing.T) {
	ctx := context.Background()
	st := NewTestingStore(ctx, t)
	user := CreateTestingUser(ctx, t, st, "alice")
	word := CreateTestingWord(ctx, t, st, user.ID, "word-000000000000001", "to eat")

	_, err := st.UpsertReviewStats(ctx, &store.UpsertReviewStats{
		WordID:         word.ID,
		SuccessInc:     1,
		ScoreDelta:     2,
		LastReviewedTs: time.Now().Unix(),
	})
	require.NoError(t, err)

	require.NoError(t, st.DeleteWord(ctx, &store.DeleteWord{ID: word.ID}))

	stats, err := st.GetReviewStats(ctx, &store.FindReviewStats{WordID: &word.ID})
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestListReviewStatsCreatorScopeAndOrder(t *testing.T) {
	ctx := context.Background()
	st := NewTestingStore(ctx, t)
	alice := CreateTestingUser(ctx, t, st, "alice")
	bob := CreateTestingUser(ctx, t, st, "bob")

	easy := CreateTestingWord(ctx, t, st, alice.ID, "word-000000000000001", "easy")
	hard := CreateTestingWord(ctx, t, st, alice.ID, "word-000000000000002", "hard")
	foreign := CreateTestingWord(ctx, t, st, bob.ID, "word-000000000000003", "foreign")

	now := time.Now().Unix()
	for _, upsert := range []*store.UpsertReviewStats{
		{WordID: easy.ID, SuccessInc: 1, ScoreDelta: 2, LastReviewedTs: now},
		{WordID: hard.ID, FailInc: 1, ScoreDelta: -2, LastReviewedTs: now},
		{WordID: foreign.ID, FailInc: 1, ScoreDelta: -2, LastReviewedTs: now},
	} {
		_, err := st.UpsertReviewStats(ctx, upsert)
		require.NoError(t, err)
	}

	list, err := st.ListReviewStats(ctx, &store.FindReviewStats{CreatorID: &alice.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Score ascending: the struggling word comes first.
	assert.Equal(t, hard.ID, list[0].WordID)
	assert.Equal(t, easy.ID, list[1].WordID)
}
