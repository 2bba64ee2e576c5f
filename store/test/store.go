// Package test provides a real sqlite-backed store for integration-style
// tests of the storage layer.
package test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hrygo/kotoba/internal/profile"
	"github.com/hrygo/kotoba/store"
	"github.com/hrygo/kotoba/store/db/sqlite"
)

// NewTestingStore opens a migrated sqlite store backed by a per-test temp
// file. The store is closed automatically when the test finishes.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()

	dir := t.TempDir()
	testProfile := &profile.Profile{
		Mode:   "dev",
		Data:   dir,
		DSN:    filepath.Join(dir, "kotoba_test.db"),
		Driver: "sqlite",
	}

	driver, err := sqlite.NewDB(testProfile)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}

	st := store.New(driver, testProfile)
	if err := st.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Logf("failed to close test store: %v", err)
		}
	})
	return st
}

// CreateTestingUser inserts a user for tests that need an owner.
func CreateTestingUser(ctx context.Context, t *testing.T, st *store.Store, username string) *store.User {
	t.Helper()

	user, err := st.CreateUser(ctx, &store.User{
		Username:     username,
		Nickname:     username,
		PasswordHash: "not-a-real-hash",
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestingWord inserts a word owned by the given user.
func CreateTestingWord(ctx context.Context, t *testing.T, st *store.Store, creatorID int32, uid, text string) *store.Word {
	t.Helper()

	word, err := st.CreateWord(ctx, &store.Word{
		UID:       uid,
		CreatorID: creatorID,
		Text:      text,
	})
	if err != nil {
		t.Fatalf("failed to create test word: %v", err)
	}
	return word
}
