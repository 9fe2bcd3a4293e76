package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/pollingapp/internal/core/domain"
)

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

// respondError maps domain errors to HTTP statuses. Consistency faults and
// anything unrecognized are logged as bugs and surfaced as a bare 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, apiResponse{Success: false, Message: err.Error()})
	case errors.Is(err, domain.ErrPollExpired):
		respondJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "Sorry! This poll has already expired"})
	case errors.Is(err, domain.ErrBadRequest):
		respondJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyVoted):
		respondJSON(w, http.StatusConflict, apiResponse{Success: false, Message: "Sorry! You have already cast your vote in this poll"})
	default:
		logrus.WithError(err).WithField("path", r.URL.Path).Error("unexpected error")
		respondJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Message: "internal server error"})
	}
}
