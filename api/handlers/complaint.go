package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/fortexlabs/early-warning-api/api"
	"github.com/fortexlabs/early-warning-api/config"
	"github.com/fortexlabs/early-warning-api/databases"
	"github.com/fortexlabs/early-warning-api/models"
)

// StatusNotifier is the piece of the notifier the complaint handlers need
type StatusNotifier interface {
	Notify(email, name, category, status string)
}

// Complaint exported for testing purposes
type Complaint struct {
	DB       databases.ComplaintDatabase
	UDB      databases.UserDatabase
	Notifier StatusNotifier
}

type createComplaintResponse struct {
	Message   string           `json:"message"`
	Complaint models.Complaint `json:"complaint"`
}

// MyComplaintsHandler returns the complaints owned by the caller
func (c Complaint) MyComplaintsHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing identity", http.StatusUnauthorized, w, errors.New("no identity in context"))
		return
	}

	complaints, err := c.DB.Find(r.Context())
	if err != nil {
		config.ErrorStatus("failed to get complaints", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(ownedBy(identity.UserID, complaints))
}

// ComplaintsHandler returns the role-filtered complaint list
func (c Complaint) ComplaintsHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing identity", http.StatusUnauthorized, w, errors.New("no identity in context"))
		return
	}

	department := ""
	if identity.Role == models.RoleDeptAdmin {
		user, err := c.UDB.FindByID(r.Context(), identity.UserID)
		if err == nil {
			department = user.Department
		}
	}

	complaints, err := c.DB.Find(r.Context())
	if err != nil {
		config.ErrorStatus("failed to get complaints", http.StatusInternalServerError, w, err)
		return
	}

	visible, err := visibleTo(identity.Role, department, complaints)
	if err != nil {
		config.ErrorStatus("forbidden", http.StatusForbidden, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(visible)
}

// CreateComplaintHandler files a new complaint owned by the caller
func (c Complaint) CreateComplaintHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := api.IdentityFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing identity", http.StatusUnauthorized, w, errors.New("no identity in context"))
		return
	}

	var req complaintCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	complaint, err := normalizeCreate(req, identity.UserID, time.Now())
	if err != nil {
		config.ErrorStatus("invalid complaint", http.StatusBadRequest, w, err)
		return
	}

	created, err := c.DB.Create(r.Context(), complaint)
	if err != nil {
		config.ErrorStatus("failed to create complaint", http.StatusInternalServerError, w, err)
		return
	}

	zap.S().Infow("complaint created",
		"complaintId", created.ID,
		"category", created.Category,
		"userId", created.UserID,
	)
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(createComplaintResponse{Message: "Complaint created successfully", Complaint: created})
}

// ComplaintByIDHandler retrieves a single complaint
func (c Complaint) ComplaintByIDHandler(w http.ResponseWriter, r *http.Request) {
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

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(complaint)
}

// UpdateComplaintHandler merges a partial update into a complaint and, when
// the status changed, queues a notification email to the owner
func (c Complaint) UpdateComplaintHandler(w http.ResponseWriter, r *http.Request) {
	id, err := complaintID(r)
	if err != nil {
		config.ErrorStatus("invalid complaint id", http.StatusBadRequest, w, err)
		return
	}

	current, err := c.DB.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, databases.ErrNotFound) {
			config.ErrorStatus("complaint not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to get complaint", http.StatusInternalServerError, w, err)
		return
	}

	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	updated, statusChanged, err := applyUpdate(*current, patch, time.Now())
	if err != nil {
		config.ErrorStatus("invalid update", http.StatusBadRequest, w, err)
		return
	}

	stored, err := c.DB.Replace(r.Context(), updated)
	if err != nil {
		config.ErrorStatus("failed to update complaint", http.StatusInternalServerError, w, err)
		return
	}

	if statusChanged {
		c.notifyOwner(*stored)
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(stored)
}

// DeleteComplaintHandler removes a complaint entirely
func (c Complaint) DeleteComplaintHandler(w http.ResponseWriter, r *http.Request) {
	id, err := complaintID(r)
	if err != nil {
		config.ErrorStatus("invalid complaint id", http.StatusBadRequest, w, err)
		return
	}

	removed, err := c.DB.Delete(r.Context(), id)
	if err != nil {
		config.ErrorStatus("failed to delete complaint", http.StatusInternalServerError, w, err)
		return
	}
	if !removed {
		config.ErrorStatus("complaint not found", http.StatusNotFound, w, databases.ErrNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(models.MessageResponse{Message: "Complaint deleted successfully"})
}

// notifyOwner queues the status-change email. Lookup or queue failures are
// logged and never affect the update that triggered them.
func (c Complaint) notifyOwner(complaint models.Complaint) {
	if c.Notifier == nil || c.UDB == nil {
		return
	}
	owner, err := c.UDB.FindByID(context.Background(), complaint.UserID)
	if err != nil {
		zap.S().Warnw("skipping status notification, owner not found",
			"complaintId", complaint.ID,
			"userId", complaint.UserID,
			"error", err,
		)
		return
	}
	c.Notifier.Notify(owner.Email, owner.Name, complaint.Category, complaint.Status)
}

func complaintID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["complaint_id"])
}
