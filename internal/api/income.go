package api

import (
	"net/http"
	"time"

	"github.com/ledgerly/backend/internal/service"
)

// handleSplitIncome splits a gross income amount by an allocation rule.
func (s *Server) handleSplitIncome(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req service.SplitIncomeInput
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.income.SplitIncome(r.Context(), req)
	s.observe("split_income", start, err)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
