package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fortexlabs/early-warning-api/api"
	"github.com/fortexlabs/early-warning-api/api/risk"
	"github.com/fortexlabs/early-warning-api/config"
	"github.com/fortexlabs/early-warning-api/databases"
)

// Dashboard serves the derived risk views. Nothing here is cached: every
// request recomputes from the current store contents.
type Dashboard struct {
	DB databases.ComplaintDatabase
}

// RiskHandler returns the institutional risk report
func (d Dashboard) RiskHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing identity", http.StatusUnauthorized, w, errors.New("no identity in context"))
		return
	}
	if !isAdminRole(identity.Role) {
		config.ErrorStatus("forbidden", http.StatusForbidden, w, errForbidden)
		return
	}

	complaints, err := d.DB.Find(r.Context())
	if err != nil {
		config.ErrorStatus("failed to get complaints", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(risk.Compute(complaints, time.Now()))
}

// PatternsHandler returns the escalation pattern analysis
func (d Dashboard) PatternsHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing identity", http.StatusUnauthorized, w, errors.New("no identity in context"))
		return
	}
	if !isAdminRole(identity.Role) {
		config.ErrorStatus("forbidden", http.StatusForbidden, w, errForbidden)
		return
	}

	complaints, err := d.DB.Find(r.Context())
	if err != nil {
		config.ErrorStatus("failed to get complaints", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(risk.Patterns(complaints, time.Now()))
}
