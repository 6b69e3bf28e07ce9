// Package api exposes the ledger engine as an authenticated JSON HTTP API.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ledgerly/backend/internal/auth"
	"github.com/ledgerly/backend/internal/metrics"
	"github.com/ledgerly/backend/internal/middleware"
	"github.com/ledgerly/backend/internal/service"
)

// Server holds the handlers' dependencies and builds the route table.
type Server struct {
	rules      *service.RuleService
	income     *service.IncomeService
	settlement *service.SettlementService
	ledger     *service.LedgerService
	detector   *service.DuplicateDetector
	batch      *service.BatchService
	resolver   *service.AccountResolver

	authenticator *auth.OwnerAuthenticator
	jwtManager    *auth.JWTManager
	metrics       *metrics.Metrics
}

// Config wires a Server.
type Config struct {
	Rules      *service.RuleService
	Income     *service.IncomeService
	Settlement *service.SettlementService
	Ledger     *service.LedgerService
	Detector   *service.DuplicateDetector
	Batch      *service.BatchService
	Resolver   *service.AccountResolver

	Authenticator *auth.OwnerAuthenticator
	JWTManager    *auth.JWTManager
	Metrics       *metrics.Metrics
}

// NewServer creates a Server from its dependencies.
func NewServer(cfg Config) *Server {
	return &Server{
		rules:         cfg.Rules,
		income:        cfg.Income,
		settlement:    cfg.Settlement,
		ledger:        cfg.Ledger,
		detector:      cfg.Detector,
		batch:         cfg.Batch,
		resolver:      cfg.Resolver,
		authenticator: cfg.Authenticator,
		jwtManager:    cfg.JWTManager,
		metrics:       cfg.Metrics,
	}
}

// Handler builds the full route table. Everything under /api/v1 except
// /login requires a bearer token.
func (s *Server) Handler() http.Handler {
	protected := http.NewServeMux()
	protected.HandleFunc("GET /api/v1/accounts", s.handleListAccounts)
	protected.HandleFunc("POST /api/v1/rules/{name}", s.handleReplaceRule)
	protected.HandleFunc("GET /api/v1/rules/{name}", s.handleGetRule)
	protected.HandleFunc("POST /api/v1/income/split", s.handleSplitIncome)
	protected.HandleFunc("POST /api/v1/payments/settle", s.handleSettlePayment)
	protected.HandleFunc("POST /api/v1/charges", s.handleRecordCharge)
	protected.HandleFunc("POST /api/v1/entries", s.handleRecordEntry)
	protected.HandleFunc("POST /api/v1/duplicates/check", s.handleCheckDuplicate)
	protected.HandleFunc("POST /api/v1/batch", s.handleBatch)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/login", s.handleLogin)
	mux.Handle("/api/v1/", middleware.RequireAuth(s.jwtManager, protected))
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	return middleware.Logging(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// observe records one API operation on the metrics registry, if configured.
func (s *Server) observe(operation string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = service.KindOf(err).String()
	}
	s.metrics.ObserveOperation(operation, outcome, time.Since(start))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSONError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Kind: kind})
}

// writeServiceError maps a service error to its HTTP status.
func writeServiceError(w http.ResponseWriter, err error) {
	kind := service.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case service.KindInvalidInput:
		status = http.StatusBadRequest
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindUpstream:
		status = http.StatusBadGateway
	}
	writeJSONError(w, status, kind.String(), err.Error())
}

// decodeBody parses a JSON request body into req.
func decodeBody(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_input", "Failed to parse request body")
		return false
	}
	return true
}
