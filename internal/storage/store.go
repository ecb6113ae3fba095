// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/ppandey/bookshelf/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// BookFilter narrows and orders book listings.
type BookFilter struct {
	// Genre matches the genre exactly, case-insensitively.
	Genre string

	// Author matches books whose author contains the value,
	// case-insensitively.
	Author string

	// Search matches books whose title, author or genre contains the
	// value, case-insensitively.
	Search string

	// Ordering is a column name, optionally prefixed with "-" for
	// descending order. Unknown values fall back to newest-first.
	Ordering string
}

// ReviewFilter narrows and orders review listings.
type ReviewFilter struct {
	// BookID restricts results to one book.
	BookID string

	// UserID restricts results to reviews owned by one user.
	UserID string

	// Search matches reviews whose display name or comment contains the
	// value, case-insensitively.
	Search string

	// Ordering is a column name, optionally prefixed with "-" for
	// descending order. Unknown values fall back to newest-first.
	Ordering string
}

// Store defines the interface for catalogue storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateUser persists a new user. ID and timestamps are assigned by
	// the store when unset.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByID retrieves a user by ID, or ErrNotFound.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByUsername retrieves a user by username, or ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// ListUsers retrieves all users, newest first.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// UpdateUser updates an existing user, or returns ErrNotFound.
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser removes a user and, by cascade, every review they own.
	DeleteUser(ctx context.Context, id string) error

	// CreateBook persists a new book. ID and timestamps are assigned by
	// the store when unset.
	CreateBook(ctx context.Context, book *models.Book) error

	// GetBook retrieves a book by ID with its average rating filled in,
	// or ErrNotFound.
	GetBook(ctx context.Context, id string) (*models.Book, error)

	// ListBooks retrieves books matching the filter, with average
	// ratings filled in.
	ListBooks(ctx context.Context, filter BookFilter) ([]*models.Book, error)

	// UpdateBook updates an existing book, or returns ErrNotFound.
	UpdateBook(ctx context.Context, book *models.Book) error

	// DeleteBook removes a book and, by cascade, all its reviews.
	DeleteBook(ctx context.Context, id string) error

	// CreateReview persists a new review. ID and timestamps are assigned
	// by the store when unset.
	CreateReview(ctx context.Context, review *models.Review) error

	// GetReview retrieves a review by ID with the owner's username
	// resolved, or ErrNotFound.
	GetReview(ctx context.Context, id string) (*models.Review, error)

	// ListReviews retrieves reviews matching the filter, with owner
	// usernames resolved.
	ListReviews(ctx context.Context, filter ReviewFilter) ([]*models.Review, error)

	// UpdateReview updates an existing review, or returns ErrNotFound.
	UpdateReview(ctx context.Context, review *models.Review) error

	// DeleteReview removes a review by ID.
	DeleteReview(ctx context.Context, id string) error

	// LinkLegacyReviews assigns ownerless reviews to accounts whose
	// username exactly matches the stored legacy display name. Returns
	// the number of reviews linked.
	LinkLegacyReviews(ctx context.Context) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
