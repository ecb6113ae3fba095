package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ppandey/bookshelf/internal/middleware"
	"github.com/ppandey/bookshelf/internal/models"
	"github.com/ppandey/bookshelf/internal/service"
	"github.com/ppandey/bookshelf/internal/storage"
)

// reviewResponse is the wire representation of a review. The username
// field carries the resolved attribution; user is null for legacy and
// anonymous rows.
type reviewResponse struct {
	ID        string  `json:"id"`
	Book      string  `json:"book"`
	User      *string `json:"user"`
	Username  string  `json:"username"`
	Rating    int     `json:"rating"`
	Comment   string  `json:"comment"`
	CreatedAt int64   `json:"created_at"`
	UpdatedAt int64   `json:"updated_at"`
	IsOwner   bool    `json:"is_owner"`
}

func toReviewResponse(review *models.Review, caller *models.User) reviewResponse {
	out := reviewResponse{
		ID:        review.ID,
		Book:      review.BookID,
		Username:  review.Attribution().DisplayName(),
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
		IsOwner:   service.IsOwner(caller, review),
	}
	if review.UserID != "" {
		out.User = &review.UserID
	}
	return out
}

// ReviewHandler routes review endpoints to the review service.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.ReviewFilter{
		BookID:   q.Get("book"),
		UserID:   q.Get("user"),
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
	}

	reviews, err := h.reviews.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	caller := middleware.CallerFrom(r.Context())
	out := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, toReviewResponse(review, caller))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *ReviewHandler) get(w http.ResponseWriter, r *http.Request) {
	review, err := h.reviews.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toReviewResponse(review, middleware.CallerFrom(r.Context())))
}

func (h *ReviewHandler) create(w http.ResponseWriter, r *http.Request) {
	var in service.ReviewInput
	if !decodeJSON(w, r, &in) {
		return
	}

	caller := middleware.CallerFrom(r.Context())
	review, err := h.reviews.Create(r.Context(), caller, in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toReviewResponse(review, caller))
}

func (h *ReviewHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch service.ReviewPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	caller := middleware.CallerFrom(r.Context())
	partial := r.Method == http.MethodPatch
	review, err := h.reviews.Update(r.Context(), caller, mux.Vars(r)["id"], patch, partial)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toReviewResponse(review, caller))
}

func (h *ReviewHandler) delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())
	if err := h.reviews.Delete(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
