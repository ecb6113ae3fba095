package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppandey/bookshelf/internal/models"
	"github.com/ppandey/bookshelf/internal/storage"
)

const bookColumns = "id, title, author, genre, published_year, created_at, updated_at"

// bookOrderColumns whitelists the fields clients may order book listings by.
var bookOrderColumns = map[string]string{
	"title":          "title",
	"author":         "author",
	"published_year": "published_year",
	"created_at":     "created_at",
}

// CreateBook persists a new book to the database.
func (s *SQLiteStore) CreateBook(ctx context.Context, book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if book.CreatedAt == 0 {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	query := `
		INSERT INTO books (` + bookColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Genre,
		book.PublishedYear,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

// GetBook retrieves a book by ID, with its average rating computed from
// the current set of reviews.
func (s *SQLiteStore) GetBook(ctx context.Context, id string) (*models.Book, error) {
	book := &models.Book{}
	err := s.db.QueryRowContext(ctx,
		"SELECT "+bookColumns+" FROM books WHERE id = ?", id,
	).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.PublishedYear,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	if err := s.fillAvgRatings(ctx, []*models.Book{book}); err != nil {
		return nil, err
	}

	return book, nil
}

// ListBooks retrieves books matching the filter, with average ratings
// computed from the current set of reviews.
func (s *SQLiteStore) ListBooks(ctx context.Context, filter storage.BookFilter) ([]*models.Book, error) {
	query := "SELECT " + bookColumns + " FROM books"

	var conds []string
	var args []interface{}

	if filter.Genre != "" {
		conds = append(conds, "LOWER(genre) = LOWER(?)")
		args = append(args, filter.Genre)
	}
	if filter.Author != "" {
		conds = append(conds, "instr(LOWER(author), LOWER(?)) > 0")
		args = append(args, filter.Author)
	}
	if filter.Search != "" {
		conds = append(conds,
			"(instr(LOWER(title), LOWER(?)) > 0 OR instr(LOWER(author), LOWER(?)) > 0 OR instr(LOWER(genre), LOWER(?)) > 0)")
		args = append(args, filter.Search, filter.Search, filter.Search)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY " + orderClause(filter.Ordering, bookOrderColumns, "created_at DESC")

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		book := &models.Book{}
		if err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Genre,
			&book.PublishedYear,
			&book.CreatedAt,
			&book.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	if err := s.fillAvgRatings(ctx, books); err != nil {
		return nil, err
	}

	return books, nil
}

// UpdateBook updates an existing book.
func (s *SQLiteStore) UpdateBook(ctx context.Context, book *models.Book) error {
	book.UpdatedAt = time.Now().Unix()

	query := `
		UPDATE books
		SET title = ?, author = ?, genre = ?, published_year = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		book.Title,
		book.Author,
		book.Genre,
		book.PublishedYear,
		book.UpdatedAt,
		book.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteBook removes a book. Its reviews are removed by the foreign key
// cascade.
func (s *SQLiteStore) DeleteBook(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM books WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// fillAvgRatings loads the review ratings for the given books in one
// query and computes each book's average.
func (s *SQLiteStore) fillAvgRatings(ctx context.Context, books []*models.Book) error {
	if len(books) == 0 {
		return nil
	}

	query := "SELECT book_id, rating FROM reviews WHERE book_id IN (?" + repeatPlaceholder(len(books)-1) + ")"
	args := make([]interface{}, len(books))
	for i, book := range books {
		args[i] = book.ID
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to get ratings: %w", err)
	}
	defer rows.Close()

	ratings := make(map[string][]int)
	for rows.Next() {
		var bookID string
		var rating int
		if err := rows.Scan(&bookID, &rating); err != nil {
			return fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings[bookID] = append(ratings[bookID], rating)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating ratings: %w", err)
	}

	for _, book := range books {
		book.AvgRating = models.AverageRating(ratings[book.ID])
	}

	return nil
}
