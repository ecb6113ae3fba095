package api

import (
	"net/http"

	"github.com/ppandey/bookshelf/internal/service"
)

// TokenHandler exposes the token obtain/refresh/verify endpoints.
type TokenHandler struct {
	auth *service.AuthService
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(auth *service.AuthService) *TokenHandler {
	return &TokenHandler{auth: auth}
}

func (h *TokenHandler) obtain(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}

	pair, err := h.auth.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pair)
}

func (h *TokenHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Refresh string `json:"refresh"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}

	access, err := h.auth.Refresh(r.Context(), in.Refresh)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"access": access})
}

func (h *TokenHandler) verify(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Token string `json:"token"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}

	if err := h.auth.Verify(in.Token); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{})
}
