package api

import (
	"net/http"
	"time"

	"github.com/ledgerly/backend/internal/service"
)

// RecordEntryRequest is the body of POST /api/v1/entries.
type RecordEntryRequest struct {
	// Kind is "expense" or "income".
	Kind string `json:"kind"`
	service.RecordEntryInput
}

// handleRecordEntry records a plain expense or income entry. An expense
// against a credit account becomes an outstanding balance, same as the
// charges endpoint.
func (s *Server) handleRecordEntry(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RecordEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var (
		result *service.RecordEntryResult
		err    error
	)
	switch req.Kind {
	case "expense":
		result, err = s.ledger.RecordExpense(r.Context(), req.RecordEntryInput)
	case "income":
		result, err = s.ledger.RecordIncome(r.Context(), req.RecordEntryInput)
	default:
		writeJSONError(w, http.StatusBadRequest, "invalid_input", "Kind must be expense or income")
		return
	}

	s.observe("record_"+req.Kind, start, err)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if s.metrics != nil && result.Duplicate != nil {
		s.metrics.ObserveDuplicate(string(result.Duplicate.Kind))
	}
	writeJSON(w, http.StatusOK, result)
}

// handleRecordCharge records a credit charge: an expense against a
// credit-type account, producing an outstanding balance.
func (s *Server) handleRecordCharge(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req service.RecordEntryInput
	if !decodeBody(w, r, &req) {
		return
	}

	// Reject non-credit accounts before anything is written; a plain
	// entry is never acceptable fallout from this endpoint.
	account, err := s.resolver.Resolve(r.Context(), req.Account)
	if err != nil {
		s.observe("record_charge", start, err)
		writeServiceError(w, err)
		return
	}
	if !account.Kind.IsCredit() {
		writeJSONError(w, http.StatusBadRequest, "invalid_input",
			"Charges require a credit account; use /api/v1/entries for other accounts")
		return
	}

	result, err := s.ledger.RecordExpense(r.Context(), req)
	s.observe("record_charge", start, err)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if s.metrics != nil && result.Duplicate != nil {
		s.metrics.ObserveDuplicate(string(result.Duplicate.Kind))
	}
	writeJSON(w, http.StatusOK, result)
}
