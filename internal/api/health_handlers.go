package api

import (
	"net/http"

	"github.com/readcircle/readcircle-server/internal/http/response"
)

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// handleHealthCheck reports service liveness.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, HealthResponse{
		Status:  "ok",
		Service: "readcircle-server",
	}, s.logger)
}
