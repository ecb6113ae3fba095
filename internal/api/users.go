package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ppandey/bookshelf/internal/middleware"
	"github.com/ppandey/bookshelf/internal/models"
	"github.com/ppandey/bookshelf/internal/service"
)

// userResponse is the wire representation of a user. The password hash
// never leaves the server.
type userResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func toUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// UserHandler routes user endpoints to the user service.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())
	users, err := h.users.List(r.Context(), caller)
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())
	user, err := h.users.Get(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) me(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())
	user, err := h.users.Me(r.Context(), caller)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var in service.UserInput
	if !decodeJSON(w, r, &in) {
		return
	}

	user, err := h.users.Create(r.Context(), in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request) {
	var patch service.UserPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	caller := middleware.CallerFrom(r.Context())
	user, err := h.users.Update(r.Context(), caller, mux.Vars(r)["id"], patch)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())
	if err := h.users.Delete(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
