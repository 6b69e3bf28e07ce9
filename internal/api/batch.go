package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ledgerly/backend/internal/actions"
)

// BatchRequest is the body of POST /api/v1/batch: a list of action
// envelopes, each tagged with a "type" field.
type BatchRequest struct {
	Actions []json.RawMessage `json:"actions"`
}

// handleBatch decodes and runs a sequential batch of actions.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req BatchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Actions) == 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_input", "Batch requires at least one action")
		return
	}

	list, err := actions.DecodeList(req.Actions)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	result := s.batch.Run(r.Context(), list)
	s.observe("batch", start, nil)
	writeJSON(w, http.StatusOK, result)
}
