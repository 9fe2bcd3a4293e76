package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollingapp/internal/core/ports"
)

type PollHandler struct {
	pollService ports.PollService
	voteService ports.VoteService
}

func NewPollHandler(pollService ports.PollService, voteService ports.VoteService) *PollHandler {
	return &PollHandler{
		pollService: pollService,
		voteService: voteService,
	}
}

type pollLength struct {
	Days  int `json:"days"`
	Hours int `json:"hours"`
}

type createPollRequest struct {
	Question   string     `json:"question"`
	Choices    []string   `json:"choices"`
	PollLength pollLength `json:"poll_length"`
}

func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())
	if caller == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createPollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	input := ports.CreatePollInput{
		Question: req.Question,
		Choices:  req.Choices,
		Days:     req.PollLength.Days,
		Hours:    req.PollLength.Hours,
	}

	summary, err := h.pollService.Create(r.Context(), input, *caller)
	if err != nil {
		respondError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/polls/%s", summary.ID))
	respondJSON(w, http.StatusCreated, summary)
}

func (h *PollHandler) GetPolls(w http.ResponseWriter, r *http.Request) {
	page, size, ok := pageParams(w, r)
	if !ok {
		return
	}

	paged, err := h.pollService.GetAllPolls(r.Context(), CallerFrom(r.Context()), page, size)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, paged)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "pollId"))
	if err != nil {
		http.Error(w, "invalid poll id", http.StatusBadRequest)
		return
	}

	summary, err := h.pollService.GetPollByID(r.Context(), pollID, CallerFrom(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

type voteRequest struct {
	ChoiceID uuid.UUID `json:"choice_id"`
}

func (h *PollHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())
	if caller == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	pollID, err := uuid.Parse(chi.URLParam(r, "pollId"))
	if err != nil {
		http.Error(w, "invalid poll id", http.StatusBadRequest)
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	summary, err := h.voteService.CastVote(r.Context(), pollID, req.ChoiceID, *caller)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, summary)
}

// pageParams parses the page and size query parameters. Absent values come
// back as zero; the service substitutes the configured default size.
func pageParams(w http.ResponseWriter, r *http.Request) (page, size int, ok bool) {
	var err error
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid page parameter", http.StatusBadRequest)
			return 0, 0, false
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid size parameter", http.StatusBadRequest)
			return 0, 0, false
		}
	}
	return page, size, true
}
