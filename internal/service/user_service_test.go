package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppandey/bookshelf/internal/auth"
	"github.com/ppandey/bookshelf/internal/storage"
)

func TestUserServiceSignup(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store, auth.NewPasswordAuthenticator(store))
	ctx := context.Background()

	t.Run("signup is open and hashes the password", func(t *testing.T) {
		user, err := svc.Create(ctx, UserInput{
			Username: "alice", Email: "alice@example.com", Password: "correct horse",
			FirstName: "Alice",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.NotEqual(t, "correct horse", user.PasswordHash)
		assert.NotEmpty(t, user.PasswordHash)
		assert.False(t, user.Staff)
	})

	t.Run("duplicate username is a field error", func(t *testing.T) {
		_, err := svc.Create(ctx, UserInput{Username: "alice", Email: "a2@example.com", Password: "long enough pw"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "username")
	})

	t.Run("short password is a field error", func(t *testing.T) {
		_, err := svc.Create(ctx, UserInput{Username: "bob", Email: "b@example.com", Password: "short"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "password")
	})

	t.Run("missing fields are reported", func(t *testing.T) {
		_, err := svc.Create(ctx, UserInput{})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "username")
		assert.Contains(t, verr.Fields, "email")
		assert.Contains(t, verr.Fields, "password")
	})
}

func TestUserServiceVisibility(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store, auth.NewPasswordAuthenticator(store))
	ctx := context.Background()

	staff := createUser(t, store, "admin", true)
	alice := createUser(t, store, "alice", false)
	bob := createUser(t, store, "bob", false)

	t.Run("staff list sees everyone", func(t *testing.T) {
		users, err := svc.List(ctx, staff)
		require.NoError(t, err)
		assert.Len(t, users, 3)
	})

	t.Run("non-staff list sees only themselves", func(t *testing.T) {
		users, err := svc.List(ctx, alice)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, alice.ID, users[0].ID)
	})

	t.Run("anonymous list is rejected", func(t *testing.T) {
		_, err := svc.List(ctx, nil)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("non-staff get of another user reads as not found", func(t *testing.T) {
		_, err := svc.Get(ctx, alice, bob.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("staff get of any user succeeds", func(t *testing.T) {
		got, err := svc.Get(ctx, staff, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "bob", got.Username)
	})

	t.Run("me returns the caller", func(t *testing.T) {
		got, err := svc.Me(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)

		_, err = svc.Me(ctx, nil)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestUserServiceUpdateAndDelete(t *testing.T) {
	store := newTestStore(t)
	svc := NewUserService(store, auth.NewPasswordAuthenticator(store))
	ctx := context.Background()

	staff := createUser(t, store, "admin", true)
	alice := createUser(t, store, "alice", false)
	bob := createUser(t, store, "bob", false)

	t.Run("self update succeeds", func(t *testing.T) {
		updated, err := svc.Update(ctx, alice, alice.ID, UserPatch{FirstName: strPtr("Alice")})
		require.NoError(t, err)
		assert.Equal(t, "Alice", updated.FirstName)
	})

	t.Run("password update re-hashes", func(t *testing.T) {
		before := alice.PasswordHash
		updated, err := svc.Update(ctx, alice, alice.ID, UserPatch{Password: strPtr("a brand new password")})
		require.NoError(t, err)
		assert.NotEqual(t, before, updated.PasswordHash)
		assert.NotEqual(t, "a brand new password", updated.PasswordHash)
	})

	t.Run("update of another user reads as not found for non-staff", func(t *testing.T) {
		_, err := svc.Update(ctx, alice, bob.ID, UserPatch{FirstName: strPtr("Hacked")})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("staff can update anyone", func(t *testing.T) {
		updated, err := svc.Update(ctx, staff, bob.ID, UserPatch{LastName: strPtr("Builder")})
		require.NoError(t, err)
		assert.Equal(t, "Builder", updated.LastName)
	})

	t.Run("taken username is a field error", func(t *testing.T) {
		_, err := svc.Update(ctx, alice, alice.ID, UserPatch{Username: strPtr("bob")})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "username")
	})

	t.Run("delete cascades to owned reviews", func(t *testing.T) {
		book := createBook(t, store, "Dune")
		review := createReview(t, store, book, bob, 4)

		require.NoError(t, svc.Delete(ctx, bob, bob.ID))

		_, err := store.GetReview(ctx, review.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("non-staff delete of another user reads as not found", func(t *testing.T) {
		err := svc.Delete(ctx, alice, staff.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
