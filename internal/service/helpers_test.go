package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ppandey/bookshelf/internal/models"
	"github.com/ppandey/bookshelf/internal/storage/sqlite"
)

// newTestStore creates a store backed by a fresh temp database.
func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func createUser(t *testing.T, store *sqlite.SQLiteStore, username string, staff bool) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		Staff:        staff,
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func createBook(t *testing.T, store *sqlite.SQLiteStore, title string) *models.Book {
	t.Helper()

	book := &models.Book{Title: title, Author: "Test Author", Genre: "Fiction", PublishedYear: 2000}
	require.NoError(t, store.CreateBook(context.Background(), book))
	return book
}

func createReview(t *testing.T, store *sqlite.SQLiteStore, book *models.Book, owner *models.User, rating int) *models.Review {
	t.Helper()

	review := &models.Review{BookID: book.ID, Rating: rating, Comment: "test review"}
	if owner != nil {
		review.UserID = owner.ID
		review.Username = owner.Username
	}
	require.NoError(t, store.CreateReview(context.Background(), review))
	return review
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
