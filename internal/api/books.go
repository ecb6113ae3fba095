package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ppandey/bookshelf/internal/middleware"
	"github.com/ppandey/bookshelf/internal/models"
	"github.com/ppandey/bookshelf/internal/service"
	"github.com/ppandey/bookshelf/internal/storage"
)

// bookResponse is the wire representation of a book.
type bookResponse struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Genre         string  `json:"genre"`
	PublishedYear int     `json:"published_year"`
	CreatedAt     int64   `json:"created_at"`
	UpdatedAt     int64   `json:"updated_at"`
	AvgRating     float64 `json:"avg_rating"`
}

func toBookResponse(book *models.Book) bookResponse {
	return bookResponse{
		ID:            book.ID,
		Title:         book.Title,
		Author:        book.Author,
		Genre:         book.Genre,
		PublishedYear: book.PublishedYear,
		CreatedAt:     book.CreatedAt,
		UpdatedAt:     book.UpdatedAt,
		AvgRating:     book.AvgRating,
	}
}

// BookHandler routes book endpoints to the book service.
type BookHandler struct {
	books *service.BookService
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(books *service.BookService) *BookHandler {
	return &BookHandler{books: books}
}

func (h *BookHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.BookFilter{
		Genre:    q.Get("genre"),
		Author:   q.Get("author"),
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
	}

	books, err := h.books.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]bookResponse, 0, len(books))
	for _, book := range books {
		out = append(out, toBookResponse(book))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *BookHandler) get(w http.ResponseWriter, r *http.Request) {
	book, err := h.books.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBookResponse(book))
}

func (h *BookHandler) create(w http.ResponseWriter, r *http.Request) {
	var in service.BookInput
	if !decodeJSON(w, r, &in) {
		return
	}

	caller := middleware.CallerFrom(r.Context())
	book, err := h.books.Create(r.Context(), caller, in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBookResponse(book))
}

func (h *BookHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch service.BookPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	caller := middleware.CallerFrom(r.Context())
	partial := r.Method == http.MethodPatch
	book, err := h.books.Update(r.Context(), caller, mux.Vars(r)["id"], patch, partial)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBookResponse(book))
}

func (h *BookHandler) delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())
	if err := h.books.Delete(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
