package api

import (
	"net/http"
)

// AccountResponse is one account of the chart.
type AccountResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// handleListAccounts returns the account chart.
func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.resolver.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = AccountResponse{ID: a.ID, Name: a.Name, Kind: string(a.Kind)}
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": out})
}
