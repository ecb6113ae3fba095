// Package service implements the domain operations: query filtering,
// validation and authorization for books, reviews and users.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ppandey/bookshelf/internal/models"
	"github.com/ppandey/bookshelf/internal/storage"
)

// bookOrderings lists the fields clients may order book listings by.
var bookOrderings = map[string]bool{
	"title":          true,
	"author":         true,
	"published_year": true,
	"created_at":     true,
}

// BookService implements catalogue operations. Reads are public; writes
// require a staff caller.
type BookService struct {
	store storage.Store
}

// NewBookService creates a new BookService with the given storage backend.
func NewBookService(store storage.Store) *BookService {
	return &BookService{store: store}
}

// BookInput is the client-supplied representation of a book.
type BookInput struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	PublishedYear int    `json:"published_year"`
}

// BookPatch is a partial update; nil fields are left unchanged.
type BookPatch struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Genre         *string `json:"genre"`
	PublishedYear *int    `json:"published_year"`
}

// List returns books matching the filter, newest first unless an
// ordering is requested.
func (s *BookService) List(ctx context.Context, filter storage.BookFilter) ([]*models.Book, error) {
	if err := validateOrdering(filter.Ordering, bookOrderings); err != nil {
		return nil, err
	}
	return s.store.ListBooks(ctx, filter)
}

// Get returns one book by ID.
func (s *BookService) Get(ctx context.Context, id string) (*models.Book, error) {
	return s.store.GetBook(ctx, id)
}

// Create adds a book to the catalogue. Staff only.
func (s *BookService) Create(ctx context.Context, caller *models.User, in BookInput) (*models.Book, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if !canWriteBooks(caller) {
		return nil, ErrPermissionDenied
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	book := &models.Book{
		Title:         in.Title,
		Author:        in.Author,
		Genre:         in.Genre,
		PublishedYear: in.PublishedYear,
	}
	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	slog.Info("Book created", "book_id", book.ID, "title", book.Title, "caller_id", caller.ID)
	return book, nil
}

// Update modifies a book. Staff only. With partial set, absent fields
// keep their stored values; otherwise every field must be supplied.
func (s *BookService) Update(ctx context.Context, caller *models.User, id string, patch BookPatch, partial bool) (*models.Book, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if !canWriteBooks(caller) {
		return nil, ErrPermissionDenied
	}

	book, err := s.store.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	if !partial {
		if err := patch.requireAll(); err != nil {
			return nil, err
		}
	}
	patch.apply(book)

	if book.Title == "" || book.Author == "" || book.Genre == "" {
		return nil, requireFields(blankBookFields(book))
	}

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, err
	}

	slog.Info("Book updated", "book_id", book.ID, "caller_id", caller.ID)
	return book, nil
}

// Delete removes a book and all its reviews. Staff only.
func (s *BookService) Delete(ctx context.Context, caller *models.User, id string) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	if !canWriteBooks(caller) {
		return ErrPermissionDenied
	}

	if err := s.store.DeleteBook(ctx, id); err != nil {
		return err
	}

	slog.Info("Book deleted", "book_id", id, "caller_id", caller.ID)
	return nil
}

func (in BookInput) validate() error {
	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Author == "" {
		missing = append(missing, "author")
	}
	if in.Genre == "" {
		missing = append(missing, "genre")
	}
	if in.PublishedYear == 0 {
		missing = append(missing, "published_year")
	}
	return requireFields(missing)
}

func (p BookPatch) requireAll() error {
	var missing []string
	if p.Title == nil {
		missing = append(missing, "title")
	}
	if p.Author == nil {
		missing = append(missing, "author")
	}
	if p.Genre == nil {
		missing = append(missing, "genre")
	}
	if p.PublishedYear == nil {
		missing = append(missing, "published_year")
	}
	return requireFields(missing)
}

func (p BookPatch) apply(book *models.Book) {
	if p.Title != nil {
		book.Title = *p.Title
	}
	if p.Author != nil {
		book.Author = *p.Author
	}
	if p.Genre != nil {
		book.Genre = *p.Genre
	}
	if p.PublishedYear != nil {
		book.PublishedYear = *p.PublishedYear
	}
}

func blankBookFields(book *models.Book) []string {
	var missing []string
	if book.Title == "" {
		missing = append(missing, "title")
	}
	if book.Author == "" {
		missing = append(missing, "author")
	}
	if book.Genre == "" {
		missing = append(missing, "genre")
	}
	return missing
}

// validateOrdering rejects ordering fields outside the whitelist.
func validateOrdering(ordering string, allowed map[string]bool) error {
	if ordering == "" {
		return nil
	}
	field := strings.TrimPrefix(ordering, "-")
	if !allowed[field] {
		return invalid("ordering", fmt.Sprintf("Cannot order by %q.", field))
	}
	return nil
}
