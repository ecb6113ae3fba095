package service

import "github.com/ppandey/bookshelf/internal/models"

// Authorization predicates. Each write operation calls the relevant
// predicate up front; reads are open to everyone.

// canWriteBooks reports whether the caller may create, update or delete
// catalogue entries. Only staff accounts may.
func canWriteBooks(caller *models.User) bool {
	return caller != nil && caller.Staff
}

// canWriteReview reports whether the caller owns the given review.
// Legacy reviews with no owning user are read-only for everyone.
func canWriteReview(caller *models.User, review *models.Review) bool {
	return caller != nil && review.UserID != "" && review.UserID == caller.ID
}

// canSeeUser reports whether the caller may see the given user record.
// Staff see everyone; other callers see only themselves.
func canSeeUser(caller *models.User, userID string) bool {
	return caller != nil && (caller.Staff || caller.ID == userID)
}

// IsOwner reports whether the caller owns the review. Exposed so the API
// layer can annotate review responses for the requesting caller.
func IsOwner(caller *models.User, review *models.Review) bool {
	return canWriteReview(caller, review)
}
