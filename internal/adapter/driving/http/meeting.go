package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/classmeet/server/internal/core/domain"
)

type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type createMeetingRequest struct {
	Name     string                  `json:"name"`
	Settings *domain.MeetingSettings `json:"settings,omitempty"`
}

func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req createMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "invalid request body"})
		return
	}

	meeting, err := h.Meetings.Create(r.Context(), req.Name, req.Settings)
	if err != nil {
		log.Error().Err(err).Msg("Error creating meeting")
		writeJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Message: "server error"})
		return
	}
	writeJSON(w, http.StatusCreated, apiResponse{Success: true, Data: meeting})
}

func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.Meetings.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Error fetching meetings")
		writeJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Message: "server error"})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: meetings})
}

func (h *Handler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	id := domain.MeetingID(chi.URLParam(r, "id"))

	meeting, err := h.Meetings.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, apiResponse{Success: false, Message: "Meeting not found"})
			return
		}
		log.Error().Err(err).Msg("Error fetching meeting")
		writeJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Message: "server error"})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: meeting})
}

func writeJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
