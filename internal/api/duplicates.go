package api

import (
	"net/http"
	"time"

	"github.com/ledgerly/backend/internal/service"
)

// DuplicateCheckResponse reports the advisory probe's answer.
type DuplicateCheckResponse struct {
	Duplicate bool                    `json:"duplicate"`
	Match     *service.DuplicateMatch `json:"match,omitempty"`
}

// handleCheckDuplicate runs an advisory duplicate probe without writing
// anything.
func (s *Server) handleCheckDuplicate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var probe service.DuplicateProbe
	if !decodeBody(w, r, &probe) {
		return
	}

	match, err := s.detector.FindRecentDuplicate(r.Context(), probe)
	s.observe("check_duplicate", start, err)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if s.metrics != nil && match != nil {
		s.metrics.ObserveDuplicate(string(match.Kind))
	}
	writeJSON(w, http.StatusOK, DuplicateCheckResponse{Duplicate: match != nil, Match: match})
}
