package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fortexlabs/early-warning-api/models"
)

func complaint(id int, status string, deadline time.Time) models.Complaint {
	return models.Complaint{
		ID:       id,
		Category: "Hostel - Maintenance",
		Status:   status,
		Deadline: deadline,
	}
}

func TestComputeEmptyStore(t *testing.T) {
	now := time.Now()
	report := Compute([]models.Complaint{}, now)

	assert.Equal(t, 40, report.Score)
	assert.Equal(t, models.RiskLevelLow, report.Level)
	assert.Empty(t, report.MissedDeadlines)
	assert.Empty(t, report.Alerts)
}

func TestComputeSingleMissedDeadline(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	report := Compute([]models.Complaint{complaint(1, models.StatusSubmitted, yesterday)}, now)

	// 40 base + 2 complaint + 3 unresolved + 0 sentiment + 8 deadline
	assert.Equal(t, 53, report.Score)
	assert.Equal(t, models.RiskLevelMedium, report.Level)
	assert.Len(t, report.MissedDeadlines, 1)
	assert.Len(t, report.Alerts, 1)
}

func TestComputeResolvedNeverMissesDeadline(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	report := Compute([]models.Complaint{complaint(1, models.StatusResolved, yesterday)}, now)

	assert.Empty(t, report.MissedDeadlines)
	// 40 base + 2 complaint, nothing unresolved
	assert.Equal(t, 42, report.Score)
}

func TestComputeScoreIsCappedAt100(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)
	var complaints []models.Complaint
	for i := 1; i <= 50; i++ {
		c := complaint(i, models.StatusSubmitted, yesterday)
		c.AIAnalysis = map[string]interface{}{"sentiment": "negative"}
		complaints = append(complaints, c)
	}

	report := Compute(complaints, now)
	assert.Equal(t, 100, report.Score)
	assert.Equal(t, models.RiskLevelHigh, report.Level)
}

func TestComputeScoreMonotonicInComplaintCount(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)

	prev := Compute(nil, now).Score
	var complaints []models.Complaint
	for i := 1; i <= 20; i++ {
		complaints = append(complaints, complaint(i, models.StatusResolved, future))
		score := Compute(complaints, now).Score
		assert.GreaterOrEqual(t, score, prev)
		assert.LessOrEqual(t, score, 100)
		prev = score
	}
}

func TestComputeNegativeSentimentFactor(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	c := complaint(1, models.StatusSubmitted, future)
	c.AIAnalysis = map[string]interface{}{"sentiment": "negative", "severity": "High"}

	report := Compute([]models.Complaint{c}, now)
	// 40 base + 2 complaint + 3 unresolved + 2 sentiment
	assert.Equal(t, 47, report.Score)
	assert.Equal(t, 1, report.NegativeSentimentCount)
}

func TestAlertsCarryComplaintAndSeverity(t *testing.T) {
	now := time.Now()
	c := complaint(123456789, models.StatusInProgress, now.Add(-time.Hour))
	alerts := Alerts([]models.Complaint{c})

	assert.Len(t, alerts, 1)
	assert.Equal(t, "Deadline Missed: Hostel - Maintenance", alerts[0].Title)
	assert.Contains(t, alerts[0].Description, "456789")
	assert.Equal(t, "high", alerts[0].Severity)
	assert.Equal(t, c, alerts[0].Complaint)
}

func TestLevelBuckets(t *testing.T) {
	assert.Equal(t, models.RiskLevelLow, Level(49))
	assert.Equal(t, models.RiskLevelMedium, Level(50))
	assert.Equal(t, models.RiskLevelMedium, Level(69))
	assert.Equal(t, models.RiskLevelHigh, Level(70))
}

func TestPatternsGroupByMainCategory(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	complaints := []models.Complaint{
		{ID: 1, Category: "Hostel - Maintenance", Status: models.StatusSubmitted, Deadline: future},
		{ID: 2, Category: "Hostel - Food Quality", Status: models.StatusAssigned, Deadline: future},
		{ID: 3, Category: "Academic - Exams", Status: models.StatusSubmitted, Deadline: future},
		{ID: 4, Category: "Hostel - WiFi", Status: models.StatusResolved, Deadline: future},
	}

	patterns := Patterns(complaints, now)
	assert.Len(t, patterns, 1)
	assert.Equal(t, "Hostel", patterns[0].Category)
	assert.Equal(t, 2, patterns[0].Count)
	assert.Equal(t, "increasing", patterns[0].Trend)
	assert.Equal(t, "2 active complaints in hostel category.", patterns[0].Explanation)
}

func TestPatternsCriticalMissedDeadlineFirst(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(24 * time.Hour)
	complaints := []models.Complaint{
		{ID: 1, Category: "Hostel - Maintenance", Status: models.StatusSubmitted, Deadline: past},
		{ID: 2, Category: "Hostel - Food Quality", Status: models.StatusAssigned, Deadline: future},
	}

	patterns := Patterns(complaints, now)
	assert.Len(t, patterns, 2)
	assert.Equal(t, "Urgent: Missed Deadlines", patterns[0].Category)
	assert.Equal(t, "critical", patterns[0].Trend)
	assert.Equal(t, 1, patterns[0].Count)
	assert.Equal(t, "Hostel", patterns[1].Category)
}

func TestPatternsHighCountEscalation(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	var complaints []models.Complaint
	for i := 1; i <= 4; i++ {
		complaints = append(complaints, models.Complaint{ID: i, Category: "Academic - Exams", Status: models.StatusSubmitted, Deadline: future})
	}

	patterns := Patterns(complaints, now)
	assert.Len(t, patterns, 1)
	assert.Equal(t, "High risk of collective action", patterns[0].Impact)
	assert.Equal(t, "2-4 days to potential escalation", patterns[0].Timeframe)
}
