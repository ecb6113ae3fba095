package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ppandey/bookshelf/internal/auth"
	"github.com/ppandey/bookshelf/internal/middleware"
	"github.com/ppandey/bookshelf/internal/service"
	"github.com/ppandey/bookshelf/internal/storage"
)

// NewRouter wires every endpoint. All routes share the metrics,
// authentication and logging middleware; authorization happens in the
// services, not here.
func NewRouter(store storage.Store, authenticator auth.Authenticator, jwtManager *auth.JWTManager, metrics *middleware.Metrics) http.Handler {
	books := NewBookHandler(service.NewBookService(store))
	reviews := NewReviewHandler(service.NewReviewService(store))
	users := NewUserHandler(service.NewUserService(store, authenticator))
	tokens := NewTokenHandler(service.NewAuthService(authenticator, jwtManager, store))

	r := mux.NewRouter().StrictSlash(true)
	r.Use(metrics.Middleware(), middleware.Authenticate(jwtManager, store), middleware.Logging)

	r.HandleFunc("/books/", books.list).Methods(http.MethodGet)
	r.HandleFunc("/books/", books.create).Methods(http.MethodPost)
	r.HandleFunc("/books/{id}/", books.get).Methods(http.MethodGet)
	r.HandleFunc("/books/{id}/", books.update).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/books/{id}/", books.delete).Methods(http.MethodDelete)

	r.HandleFunc("/reviews/", reviews.list).Methods(http.MethodGet)
	r.HandleFunc("/reviews/", reviews.create).Methods(http.MethodPost)
	r.HandleFunc("/reviews/{id}/", reviews.get).Methods(http.MethodGet)
	r.HandleFunc("/reviews/{id}/", reviews.update).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/reviews/{id}/", reviews.delete).Methods(http.MethodDelete)

	// "/users/me/" must precede "/users/{id}/"; mux matches in order.
	r.HandleFunc("/users/me/", users.me).Methods(http.MethodGet)
	r.HandleFunc("/users/", users.list).Methods(http.MethodGet)
	r.HandleFunc("/users/", users.create).Methods(http.MethodPost)
	r.HandleFunc("/users/{id}/", users.get).Methods(http.MethodGet)
	r.HandleFunc("/users/{id}/", users.update).Methods(http.MethodPut, http.MethodPatch)
	r.HandleFunc("/users/{id}/", users.delete).Methods(http.MethodDelete)

	r.HandleFunc("/token/", tokens.obtain).Methods(http.MethodPost)
	r.HandleFunc("/token/refresh/", tokens.refresh).Methods(http.MethodPost)
	r.HandleFunc("/token/verify/", tokens.verify).Methods(http.MethodPost)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	return r
}
