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

// reviewSelect joins the owning user so the username is resolved in the
// same query. COALESCE falls back to the legacy display name column for
// ownerless rows.
const reviewSelect = `
	SELECT r.id, r.book_id, r.user_id, COALESCE(u.username, ''), r.user_name,
	       r.rating, r.comment, r.created_at, r.updated_at
	FROM reviews r
	LEFT JOIN users u ON u.id = r.user_id
`

// reviewOrderColumns whitelists the fields clients may order review
// listings by.
var reviewOrderColumns = map[string]string{
	"rating":     "r.rating",
	"created_at": "r.created_at",
}

// CreateReview persists a new review to the database.
func (s *SQLiteStore) CreateReview(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if review.CreatedAt == 0 {
		review.CreatedAt = now
	}
	review.UpdatedAt = review.CreatedAt

	query := `
		INSERT INTO reviews (id, book_id, user_id, user_name, rating, comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		review.ID,
		review.BookID,
		nullableString(review.UserID),
		review.LegacyName,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// GetReview retrieves a review by ID with the owner's username resolved.
func (s *SQLiteStore) GetReview(ctx context.Context, id string) (*models.Review, error) {
	row := s.db.QueryRowContext(ctx, reviewSelect+" WHERE r.id = ?", id)

	review, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// ListReviews retrieves reviews matching the filter.
func (s *SQLiteStore) ListReviews(ctx context.Context, filter storage.ReviewFilter) ([]*models.Review, error) {
	query := reviewSelect

	var conds []string
	var args []interface{}

	if filter.BookID != "" {
		conds = append(conds, "r.book_id = ?")
		args = append(args, filter.BookID)
	}
	if filter.UserID != "" {
		conds = append(conds, "r.user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Search != "" {
		conds = append(conds,
			"(instr(LOWER(COALESCE(u.username, r.user_name)), LOWER(?)) > 0 OR instr(LOWER(r.comment), LOWER(?)) > 0)")
		args = append(args, filter.Search, filter.Search)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY " + orderClause(filter.Ordering, reviewOrderColumns, "r.created_at DESC")

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// UpdateReview updates an existing review's book, rating and comment.
// Ownership and legacy attribution are immutable once written.
func (s *SQLiteStore) UpdateReview(ctx context.Context, review *models.Review) error {
	review.UpdatedAt = time.Now().Unix()

	query := `
		UPDATE reviews
		SET book_id = ?, rating = ?, comment = ?, updated_at = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		review.BookID,
		review.Rating,
		review.Comment,
		review.UpdatedAt,
		review.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteReview removes a review by ID.
func (s *SQLiteStore) DeleteReview(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// LinkLegacyReviews assigns ownerless reviews to the account whose
// username exactly matches the stored legacy display name. Rows with no
// matching account are left untouched and keep resolving through their
// legacy name.
func (s *SQLiteStore) LinkLegacyReviews(ctx context.Context) (int64, error) {
	query := `
		UPDATE reviews
		SET user_id = (SELECT id FROM users WHERE users.username = reviews.user_name)
		WHERE user_id IS NULL
		  AND user_name != ''
		  AND EXISTS (SELECT 1 FROM users WHERE users.username = reviews.user_name)
	`

	res, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to link legacy reviews: %w", err)
	}

	linked, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to link legacy reviews: %w", err)
	}

	return linked, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReview(row scanner) (*models.Review, error) {
	review := &models.Review{}
	var userID sql.NullString
	if err := row.Scan(
		&review.ID,
		&review.BookID,
		&userID,
		&review.Username,
		&review.LegacyName,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	); err != nil {
		return nil, err
	}
	review.UserID = userID.String
	return review, nil
}

// nullableString maps the empty string onto SQL NULL.
func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
