package models

import "time"

// Complaint statuses in their canonical presentation order. Any status is
// reachable from any other via an update; the order only drives progress
// rendering and risk weighting.
const (
	StatusSubmitted  = "Submitted"
	StatusAssigned   = "Assigned"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
)

// StatusOrder returns the index of a status in the canonical ordering, or -1
// for an unknown status. Presentation concern only.
func StatusOrder(status string) int {
	switch status {
	case StatusSubmitted:
		return 0
	case StatusAssigned:
		return 1
	case StatusInProgress:
		return 2
	case StatusResolved:
		return 3
	}
	return -1
}

// Complaint holds the structure for a tracked student complaint
type Complaint struct {
	ID          int                    `json:"id" bson:"id"`
	Category    string                 `json:"category" bson:"category"`
	Description string                 `json:"description" bson:"description"`
	Status      string                 `json:"status" bson:"status"`
	UserID      int                    `json:"user_id" bson:"user_id"`
	Timestamp   time.Time              `json:"timestamp" bson:"timestamp"`
	Deadline    time.Time              `json:"deadline" bson:"deadline"`
	AssignedTo  string                 `json:"assignedTo" bson:"assignedTo"`
	AIAnalysis  map[string]interface{} `json:"aiAnalysis,omitempty" bson:"aiAnalysis,omitempty"`
	Timeline    []TimelineEntry        `json:"timeline" bson:"timeline"`
	CompletedAt *time.Time             `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	Feedback    *Feedback              `json:"feedback,omitempty" bson:"feedback,omitempty"`
}

// TimelineEntry is one audit record in a complaint's status timeline
type TimelineEntry struct {
	Status    string    `json:"status" bson:"status"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Feedback holds the structure for student feedback on a resolved complaint
type Feedback struct {
	Rating      int       `json:"rating" bson:"rating"`
	Comment     string    `json:"comment,omitempty" bson:"comment,omitempty"`
	SubmittedAt time.Time `json:"submittedAt" bson:"submittedAt"`
}

// Sentiment returns the sentiment annotation stored on the complaint, or an
// empty string when the client supplied none.
func (c Complaint) Sentiment() string {
	if c.AIAnalysis == nil {
		return ""
	}
	s, _ := c.AIAnalysis["sentiment"].(string)
	return s
}
