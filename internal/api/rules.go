package api

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerly/backend/internal/service"
)

// ReplaceRuleRequest is the body of POST /api/v1/rules/{name}.
type ReplaceRuleRequest struct {
	Allocations []AllocationRequest `json:"allocations"`
}

// AllocationRequest is one (account, percentage) row of a requested rule.
type AllocationRequest struct {
	Account    string          `json:"account"`
	Percentage decimal.Decimal `json:"percentage"`
}

// AllocationResponse is one active row of a rule.
type AllocationResponse struct {
	ID         string          `json:"id"`
	AccountID  string          `json:"account_id"`
	Percentage decimal.Decimal `json:"percentage"`
}

// handleReplaceRule replaces a named allocation rule's definition.
func (s *Server) handleReplaceRule(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	name := r.PathValue("name")

	var req ReplaceRuleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	allocations := make([]service.AllocationInput, len(req.Allocations))
	for i, a := range req.Allocations {
		allocations[i] = service.AllocationInput{Account: a.Account, Percentage: a.Percentage}
	}

	result, err := s.rules.ReplaceRule(r.Context(), name, allocations)
	s.observe("replace_rule", start, err)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleGetRule returns the active rows of a rule.
func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	rows, err := s.rules.GetRule(r.Context(), name)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]AllocationResponse, len(rows))
	for i, row := range rows {
		out[i] = AllocationResponse{ID: row.ID, AccountID: row.AccountID, Percentage: row.Percentage}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rule_name": name, "allocations": out})
}
