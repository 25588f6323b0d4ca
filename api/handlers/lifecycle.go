package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/fortexlabs/early-warning-api/models"
)

// Input normalization for the complaint store boundary. The frontend has sent
// several spellings for the same fields over time (department vs category,
// date/customDate/dueDate vs deadline, assignee vs assignedTo); everything is
// folded to the canonical shape here so the stores and handlers only ever see
// one.

const defaultDeadlineOffset = 7 * 24 * time.Hour

var (
	errMissingDescription = errors.New("description is required")
	errBadDeadline        = errors.New("deadline is not a valid timestamp")
	errUnknownStatus      = errors.New("unknown status")
)

// complaintCreateRequest accepts every field alias the clients send
type complaintCreateRequest struct {
	Category    string                 `json:"category"`
	Department  string                 `json:"department"`
	Description string                 `json:"description"`
	Deadline    string                 `json:"deadline"`
	Date        string                 `json:"date"`
	CustomDate  string                 `json:"customDate"`
	DueDate     string                 `json:"dueDate"`
	AssignedTo  string                 `json:"assignedTo"`
	Assignee    string                 `json:"assignee"`
	AIAnalysis  map[string]interface{} `json:"aiAnalysis"`
}

// normalizeCreate folds aliases and defaults into a new complaint owned by
// the calling user. Status is always Submitted with a one-entry timeline.
func normalizeCreate(req complaintCreateRequest, userID int, now time.Time) (models.Complaint, error) {
	if req.Description == "" {
		return models.Complaint{}, errMissingDescription
	}

	category := firstNonEmpty(req.Category, req.Department)
	if category == "" {
		category = "General"
	}

	deadline := now.Add(defaultDeadlineOffset)
	if raw := firstNonEmpty(req.Deadline, req.Date, req.CustomDate, req.DueDate); raw != "" {
		parsed, err := parseDeadline(raw)
		if err != nil {
			return models.Complaint{}, err
		}
		deadline = parsed
	}

	return models.Complaint{
		Category:    category,
		Description: req.Description,
		Status:      models.StatusSubmitted,
		UserID:      userID,
		Timestamp:   now,
		Deadline:    deadline,
		AssignedTo:  firstNonEmpty(req.AssignedTo, req.Assignee),
		AIAnalysis:  req.AIAnalysis,
		Timeline:    []models.TimelineEntry{{Status: models.StatusSubmitted, Timestamp: now}},
	}, nil
}

// applyUpdate merges a partial update into a stored complaint. The id is
// immutable and silently dropped from the patch. Returns the merged complaint
// and whether the status changed (which drives the owner notification).
func applyUpdate(current models.Complaint, patch map[string]interface{}, now time.Time) (models.Complaint, bool, error) {
	updated := current

	// identity is immutable
	delete(patch, "id")

	if v, ok := stringField(patch, "department"); ok {
		if _, hasCategory := stringField(patch, "category"); !hasCategory {
			patch["category"] = v
		}
	}
	if _, hasDeadline := stringField(patch, "deadline"); !hasDeadline {
		for _, alias := range []string{"date", "customDate", "dueDate"} {
			if v, ok := stringField(patch, alias); ok {
				patch["deadline"] = v
				break
			}
		}
	}

	if v, ok := stringField(patch, "category"); ok {
		updated.Category = v
	}
	if v, ok := stringField(patch, "description"); ok {
		updated.Description = v
	}
	if v, ok := stringField(patch, "assignedTo"); ok {
		updated.AssignedTo = v
	}
	if v, ok := stringField(patch, "status"); ok {
		if models.StatusOrder(v) < 0 {
			return models.Complaint{}, false, fmt.Errorf("%w: %q", errUnknownStatus, v)
		}
		updated.Status = v
	}
	if v, ok := stringField(patch, "deadline"); ok {
		parsed, err := parseDeadline(v)
		if err != nil {
			return models.Complaint{}, false, err
		}
		updated.Deadline = parsed
	}
	if v, ok := stringField(patch, "completedAt"); ok {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return models.Complaint{}, false, fmt.Errorf("completedAt is not a valid timestamp: %w", err)
		}
		updated.CompletedAt = &parsed
	}
	if v, ok := patch["aiAnalysis"].(map[string]interface{}); ok {
		updated.AIAnalysis = v
	}

	// assigning a Submitted complaint advances it to Assigned in the same
	// update
	if updated.AssignedTo != "" && updated.Status == models.StatusSubmitted {
		updated.Status = models.StatusAssigned
	}

	statusChanged := updated.Status != current.Status
	if statusChanged {
		updated.Timeline = append(append([]models.TimelineEntry{}, current.Timeline...),
			models.TimelineEntry{Status: updated.Status, Timestamp: now})
	}

	return updated, statusChanged, nil
}

// parseDeadline accepts a full RFC3339 timestamp or a bare calendar date.
// Day-granularity values (bare dates, or timestamps at exactly midnight)
// normalize to 23:59:59.999 of that day, so "today" and custom-date picks
// expire at end of day rather than at midnight before it.
func parseDeadline(raw string) (time.Time, error) {
	if d, err := time.Parse("2006-01-02", raw); err == nil {
		return endOfDay(d), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", errBadDeadline, raw)
	}
	if h, m, s := t.Clock(); h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0 {
		return endOfDay(t), nil
	}
	return t, nil
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999000000, t.Location())
}

func stringField(patch map[string]interface{}, key string) (string, bool) {
	v, ok := patch[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
