package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/readcircle/readcircle-server/internal/http/response"
	"github.com/readcircle/readcircle-server/internal/service"
)

// UpdateProfileRequest is the request body for profile edits.
// Omitted fields are left unchanged.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=100"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=8,max=1024"`
}

// handleGetCurrentUser returns the authenticated user's profile.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.userService.GetUser(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}

// handleUpdateProfile edits the authenticated user's profile.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	user, err := s.userService.UpdateProfile(r.Context(), getUserID(r.Context()), service.UpdateProfileParams{
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}

// handleGetInsights returns the authenticated user's reading insights.
func (s *Server) handleGetInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.insightService.GetInsights(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, insights, s.logger)
}
