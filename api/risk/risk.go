// Package risk derives point-in-time institutional risk metrics from the
// complaint store. Everything here is a pure function of the complaint list
// and the clock; nothing is cached between calls.
package risk

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fortexlabs/early-warning-api/models"
)

const (
	baseScore           = 40
	complaintFactorCap  = 25
	unresolvedFactorCap = 20
	sentimentFactorCap  = 15
	deadlineFactorCap   = 20
)

// Compute builds the full risk report for the given complaint set
func Compute(complaints []models.Complaint, now time.Time) models.RiskReport {
	unresolved := 0
	negative := 0
	for _, c := range complaints {
		if c.Status != models.StatusResolved {
			unresolved++
		}
		if c.Sentiment() == "negative" {
			negative++
		}
	}

	missed := MissedDeadlines(complaints, now)

	complaintFactor := capped(len(complaints)*2, complaintFactorCap)
	unresolvedFactor := capped(unresolved*3, unresolvedFactorCap)
	sentimentFactor := capped(negative*2, sentimentFactorCap)
	deadlineFactor := capped(len(missed)*8, deadlineFactorCap)

	score := capped(baseScore+complaintFactor+unresolvedFactor+sentimentFactor+deadlineFactor, 100)

	return models.RiskReport{
		Score:                  score,
		Level:                  Level(score),
		ComplaintCount:         len(complaints),
		UnresolvedCount:        unresolved,
		NegativeSentimentCount: negative,
		MissedDeadlines:        missed,
		Alerts:                 Alerts(missed),
		GeneratedAt:            now,
	}
}

// Level buckets a score into HIGH / MEDIUM / LOW
func Level(score int) string {
	switch {
	case score >= 70:
		return models.RiskLevelHigh
	case score >= 50:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

// MissedDeadlines returns the complaints whose deadline has passed while
// still unresolved
func MissedDeadlines(complaints []models.Complaint, now time.Time) []models.Complaint {
	missed := []models.Complaint{}
	for _, c := range complaints {
		if c.Deadline.IsZero() || c.Status == models.StatusResolved {
			continue
		}
		if c.Deadline.Before(now) {
			missed = append(missed, c)
		}
	}
	return missed
}

// Alerts produces one high-severity unrest alert per missed-deadline complaint
func Alerts(missed []models.Complaint) []models.UnrestAlert {
	alerts := []models.UnrestAlert{}
	for _, c := range missed {
		alerts = append(alerts, models.UnrestAlert{
			ID:          c.ID,
			Title:       fmt.Sprintf("Deadline Missed: %s", c.Category),
			Description: fmt.Sprintf("Complaint ID %s has exceeded its deadline. Escalation risk is increasing.", shortID(c.ID)),
			Complaint:   c,
			Severity:    "high",
		})
	}
	return alerts
}

// Patterns groups unresolved complaints by the text before the first " - " in
// their category and reports groups of two or more as escalating patterns.
// Missed deadlines are reported first as a distinguished critical pattern.
func Patterns(complaints []models.Complaint, now time.Time) []models.EscalationPattern {
	counts := map[string]int{}
	order := []string{}
	for _, c := range complaints {
		if c.Status == models.StatusResolved {
			continue
		}
		mainCat := mainCategory(c.Category)
		if counts[mainCat] == 0 {
			order = append(order, mainCat)
		}
		counts[mainCat]++
	}

	patterns := []models.EscalationPattern{}
	for _, cat := range order {
		count := counts[cat]
		if count < 2 {
			continue
		}
		impact := "Medium risk - requires monitoring"
		timeframe := "5-7 days monitoring period"
		if count >= 4 {
			impact = "High risk of collective action"
			timeframe = "2-4 days to potential escalation"
		}
		patterns = append(patterns, models.EscalationPattern{
			Category:    cat,
			Count:       count,
			Trend:       "increasing",
			Explanation: fmt.Sprintf("%d active complaints in %s category.", count, strings.ToLower(cat)),
			Impact:      impact,
			Timeframe:   timeframe,
		})
	}

	missed := MissedDeadlines(complaints, now)
	if len(missed) > 0 {
		critical := models.EscalationPattern{
			Category:    "Urgent: Missed Deadlines",
			Count:       len(missed),
			Trend:       "critical",
			Explanation: fmt.Sprintf("%d complaints have exceeded their resolution deadline.", len(missed)),
			Impact:      "Very High risk of immediate escalation and trust loss",
			Timeframe:   "Immediate intervention required",
		}
		patterns = append([]models.EscalationPattern{critical}, patterns...)
	}

	return patterns
}

func mainCategory(category string) string {
	return strings.SplitN(category, " - ", 2)[0]
}

func shortID(id int) string {
	s := strconv.Itoa(id)
	if len(s) > 6 {
		return s[len(s)-6:]
	}
	return s
}

func capped(v, cap int) int {
	if v > cap {
		return cap
	}
	return v
}
