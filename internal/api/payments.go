package api

import (
	"net/http"
	"time"

	"github.com/ledgerly/backend/internal/service"
)

// handleSettlePayment records a payment and applies it FIFO against
// outstanding balances.
func (s *Server) handleSettlePayment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req service.SettlePaymentInput
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.settlement.SettlePayment(r.Context(), req)
	s.observe("settle_payment", start, err)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveSettlement(len(result.Touched))
	}
	writeJSON(w, http.StatusOK, result)
}
