package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ppandey/bookshelf/internal/models"
	"github.com/ppandey/bookshelf/internal/storage"
)

// reviewOrderings lists the fields clients may order review listings by.
var reviewOrderings = map[string]bool{
	"rating":     true,
	"created_at": true,
}

// ReviewService implements review operations. Reads are public; writes
// require the caller to own the review.
type ReviewService struct {
	store storage.Store
}

// NewReviewService creates a new ReviewService with the given storage
// backend.
func NewReviewService(store storage.Store) *ReviewService {
	return &ReviewService{store: store}
}

// ReviewInput is the client-supplied representation of a review. The
// owning user is never client-supplied; it is always the caller.
type ReviewInput struct {
	BookID  string `json:"book"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewPatch is a partial update; nil fields are left unchanged.
type ReviewPatch struct {
	BookID  *string `json:"book"`
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// List returns reviews matching the filter, newest first unless an
// ordering is requested.
func (s *ReviewService) List(ctx context.Context, filter storage.ReviewFilter) ([]*models.Review, error) {
	if err := validateOrdering(filter.Ordering, reviewOrderings); err != nil {
		return nil, err
	}
	return s.store.ListReviews(ctx, filter)
}

// Get returns one review by ID.
func (s *ReviewService) Get(ctx context.Context, id string) (*models.Review, error) {
	return s.store.GetReview(ctx, id)
}

// Create adds a review owned by the caller. The referenced book must
// exist and the rating must be within [1,5].
func (s *ReviewService) Create(ctx context.Context, caller *models.User, in ReviewInput) (*models.Review, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}
	if in.BookID == "" {
		return nil, invalid("book", "This field is required.")
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	if err := s.checkBookExists(ctx, in.BookID); err != nil {
		return nil, err
	}

	review := &models.Review{
		BookID:   in.BookID,
		UserID:   caller.ID,
		Username: caller.Username,
		Rating:   in.Rating,
		Comment:  in.Comment,
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, err
	}

	slog.Info("Review created", "review_id", review.ID, "book_id", review.BookID, "caller_id", caller.ID)
	return review, nil
}

// Update modifies a review. Owner only. With partial set, absent fields
// keep their stored values; otherwise book and rating must be supplied.
func (s *ReviewService) Update(ctx context.Context, caller *models.User, id string, patch ReviewPatch, partial bool) (*models.Review, error) {
	if caller == nil {
		return nil, ErrUnauthenticated
	}

	review, err := s.store.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canWriteReview(caller, review) {
		return nil, ErrPermissionDenied
	}

	if !partial {
		if err := patch.requireAll(); err != nil {
			return nil, err
		}
	}

	if patch.BookID != nil && *patch.BookID != review.BookID {
		if err := s.checkBookExists(ctx, *patch.BookID); err != nil {
			return nil, err
		}
		review.BookID = *patch.BookID
	}
	if patch.Rating != nil {
		if err := validateRating(*patch.Rating); err != nil {
			return nil, err
		}
		review.Rating = *patch.Rating
	}
	if patch.Comment != nil {
		review.Comment = *patch.Comment
	}

	if err := s.store.UpdateReview(ctx, review); err != nil {
		return nil, err
	}

	slog.Info("Review updated", "review_id", review.ID, "caller_id", caller.ID)
	return review, nil
}

// Delete removes a review. Owner only.
func (s *ReviewService) Delete(ctx context.Context, caller *models.User, id string) error {
	if caller == nil {
		return ErrUnauthenticated
	}

	review, err := s.store.GetReview(ctx, id)
	if err != nil {
		return err
	}
	if !canWriteReview(caller, review) {
		return ErrPermissionDenied
	}

	if err := s.store.DeleteReview(ctx, id); err != nil {
		return err
	}

	slog.Info("Review deleted", "review_id", id, "caller_id", caller.ID)
	return nil
}

func (s *ReviewService) checkBookExists(ctx context.Context, bookID string) error {
	_, err := s.store.GetBook(ctx, bookID)
	if errors.Is(err, storage.ErrNotFound) {
		return invalid("book", fmt.Sprintf("Invalid book %q - object does not exist.", bookID))
	}
	return err
}

func (p ReviewPatch) requireAll() error {
	var missing []string
	if p.BookID == nil {
		missing = append(missing, "book")
	}
	if p.Rating == nil {
		missing = append(missing, "rating")
	}
	return requireFields(missing)
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return invalid("rating", "Rating must be between 1 and 5")
	}
	return nil
}
