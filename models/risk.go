package models

import "time"

// Risk levels reported by the dashboard
const (
	RiskLevelHigh   = "HIGH"
	RiskLevelMedium = "MEDIUM"
	RiskLevelLow    = "LOW"
)

// RiskReport is the point-in-time institutional risk summary derived from the
// complaint store
type RiskReport struct {
	Score                  int           `json:"score"`
	Level                  string        `json:"level"`
	ComplaintCount         int           `json:"complaintCount"`
	UnresolvedCount        int           `json:"unresolvedCount"`
	NegativeSentimentCount int           `json:"negativeSentimentCount"`
	MissedDeadlines        []Complaint   `json:"missedDeadlines"`
	Alerts                 []UnrestAlert `json:"alerts"`
	GeneratedAt            time.Time     `json:"generatedAt"`
}

// UnrestAlert flags a complaint whose deadline passed while unresolved
type UnrestAlert struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Complaint   Complaint `json:"complaint"`
	Severity    string    `json:"severity"`
}

// EscalationPattern is one entry of the category pattern analysis
type EscalationPattern struct {
	Category    string `json:"category"`
	Count       int    `json:"count"`
	Trend       string `json:"trend"`
	Explanation string `json:"explanation"`
	Impact      string `json:"impact"`
	Timeframe   string `json:"timeframe"`
}
