package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/readcircle/readcircle-server/internal/domain"
	"github.com/readcircle/readcircle-server/internal/http/response"
	"github.com/readcircle/readcircle-server/internal/service"
)

// UpdateReadingStateRequest is the request body for updating reading state.
// Omitted fields are left unchanged.
type UpdateReadingStateRequest struct {
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=unset want_to_read reading read"`
	CurrentPage *int    `json:"current_page,omitempty" validate:"omitempty,gte=0"`
}

// handleListReadingStates returns all of the caller's reading states.
func (s *Server) handleListReadingStates(w http.ResponseWriter, r *http.Request) {
	wrappers, err := s.readingService.ListReadingStates(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, wrappers, s.logger)
}

// handleGetReadingState returns the caller's reading state for one book.
func (s *Server) handleGetReadingState(w http.ResponseWriter, r *http.Request) {
	wrapper, err := s.readingService.GetReadingState(r.Context(), chi.URLParam(r, "bookID"), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, wrapper, s.logger)
}

// handleUpdateReadingState updates the caller's status or page for one book.
func (s *Server) handleUpdateReadingState(w http.ResponseWriter, r *http.Request) {
	var req UpdateReadingStateRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	params := service.UpdateReadingStateParams{CurrentPage: req.CurrentPage}
	if req.Status != nil {
		status := domain.ReadingStatus(*req.Status)
		params.Status = &status
	}

	wrapper, err := s.readingService.UpdateReadingState(r.Context(), chi.URLParam(r, "bookID"), getUserID(r.Context()), params)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, wrapper, s.logger)
}
