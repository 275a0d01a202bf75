package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/readcircle/readcircle-server/internal/http/response"
)

// AddMemberRequest is the request body for directly adding a circle member.
type AddMemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// handleRequestToJoin records the caller's join request on the shelf's
// pending queue.
func (s *Server) handleRequestToJoin(w http.ResponseWriter, r *http.Request) {
	err := s.circleService.RequestToJoin(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.JSON(w, http.StatusAccepted, map[string]string{"status": "pending"}, s.logger)
}

// handleGetMembers returns the circle's member IDs.
func (s *Server) handleGetMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.circleService.GetMembers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, members, s.logger)
}

// handleAddMember directly adds a user to the circle. Owner only.
func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req AddMemberRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	update, err := s.circleService.AddMember(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context()), req.UserID)
	if err != nil {
		// Membership may have persisted with the wrapper fan-out incomplete;
		// report the partial result alongside the error status.
		if update != nil && !update.WrappersSynced {
			response.JSON(w, http.StatusInternalServerError, update, s.logger)
			return
		}
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, update, s.logger)
}

// handleRemoveMember removes a user from the circle. Owner only.
func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	update, err := s.circleService.RemoveMember(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context()), chi.URLParam(r, "userID"))
	if err != nil {
		if update != nil && !update.WrappersSynced {
			response.JSON(w, http.StatusInternalServerError, update, s.logger)
			return
		}
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, update, s.logger)
}

// handleGetPendingMembers returns the pending join requests. Owner only.
func (s *Server) handleGetPendingMembers(w http.ResponseWriter, r *http.Request) {
	pending, err := s.circleService.GetPendingMembers(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, pending, s.logger)
}

// handleAcceptPending promotes a pending requester to member. Owner only.
func (s *Server) handleAcceptPending(w http.ResponseWriter, r *http.Request) {
	update, err := s.circleService.AcceptPending(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context()), chi.URLParam(r, "userID"))
	if err != nil {
		if update != nil && !update.WrappersSynced {
			response.JSON(w, http.StatusInternalServerError, update, s.logger)
			return
		}
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, update, s.logger)
}

// handleRejectPending discards a pending join request. Owner only.
func (s *Server) handleRejectPending(w http.ResponseWriter, r *http.Request) {
	err := s.circleService.RejectPending(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context()), chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
