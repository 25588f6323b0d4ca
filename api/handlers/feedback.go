package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fortexlabs/early-warning-api/api"
	"github.com/fortexlabs/early-warning-api/config"
	"github.com/fortexlabs/early-warning-api/databases"
	"github.com/fortexlabs/early-warning-api/models"
)

type feedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// SubmitFeedbackHandler lets the owning student rate a resolved complaint
func (c Complaint) SubmitFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing identity", http.StatusUnauthorized, w, errors.New("no identity in context"))
		return
	}

	id, err := complaintID(r)
	if err != nil {
		config.ErrorStatus("invalid complaint id", http.StatusBadRequest, w, err)
		return
	}

	complaint, err := c.DB.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, databases.ErrNotFound) {
			config.ErrorStatus("complaint not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to get complaint", http.StatusInternalServerError, w, err)
		return
	}

	if complaint.UserID != identity.UserID {
		config.ErrorStatus("only the complaint owner can leave feedback", http.StatusForbidden, w, errors.New("not the owner"))
		return
	}
	if complaint.Status != models.StatusResolved {
		config.ErrorStatus("feedback is only accepted on resolved complaints", http.StatusBadRequest, w, errors.New(complaint.Status))
		return
	}

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		config.ErrorStatus("rating must be between 1 and 5", http.StatusBadRequest, w, errors.New("rating out of range"))
		return
	}

	complaint.Feedback = &models.Feedback{
		Rating:      req.Rating,
		Comment:     req.Comment,
		SubmittedAt: time.Now(),
	}

	stored, err := c.DB.Replace(r.Context(), *complaint)
	if err != nil {
		config.ErrorStatus("failed to store feedback", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(stored)
}
