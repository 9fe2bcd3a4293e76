package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vncsmyrnk/pollingapp/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
	pollService ports.PollService
}

func NewUserHandler(userService ports.UserService, pollService ports.PollService) *UserHandler {
	return &UserHandler{
		userService: userService,
		pollService: pollService,
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())
	if caller == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	me, err := h.userService.GetMe(r.Context(), *caller)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, me)
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := h.userService.GetProfile(r.Context(), username)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) GetPollsCreatedBy(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	page, size, ok := pageParams(w, r)
	if !ok {
		return
	}

	paged, err := h.pollService.GetPollsCreatedBy(r.Context(), username, CallerFrom(r.Context()), page, size)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, paged)
}

func (h *UserHandler) GetPollsVotedBy(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	page, size, ok := pageParams(w, r)
	if !ok {
		return
	}

	paged, err := h.pollService.GetPollsVotedBy(r.Context(), username, CallerFrom(r.Context()), page, size)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, paged)
}
