package scheduler_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fortexlabs/early-warning-api/api/scheduler"
	"github.com/fortexlabs/early-warning-api/databases"
	"github.com/fortexlabs/early-warning-api/models"
)

type stubHub struct {
	events []string
	data   []interface{}
}

func (s *stubHub) Broadcast(event string, data interface{}) {
	s.events = append(s.events, event)
	s.data = append(s.data, data)
}

func TestSweepDeadlinesBroadcastsAlerts(t *testing.T) {
	now := time.Now()
	cdb := databases.NewMemoryComplaintDatabase([]models.Complaint{
		{ID: 1, Category: "Hostel - Maintenance", Status: models.StatusAssigned, Deadline: now.Add(-time.Hour)},
		{ID: 2, Category: "Transport", Status: models.StatusSubmitted, Deadline: now.Add(time.Hour)},
	})
	hub := &stubHub{}

	s := scheduler.New(cdb, hub, "", "")
	s.SweepDeadlines()

	assert.Equal(t, []string{"unrest_alert"}, hub.events)
	alert, ok := hub.data[0].(models.UnrestAlert)
	assert.True(t, ok)
	assert.Equal(t, 1, alert.ID)
	assert.Equal(t, "high", alert.Severity)
}

func TestSweepDeadlinesQuietWhenNothingMissed(t *testing.T) {
	now := time.Now()
	cdb := databases.NewMemoryComplaintDatabase([]models.Complaint{
		{ID: 1, Category: "Transport", Status: models.StatusSubmitted, Deadline: now.Add(time.Hour)},
	})
	hub := &stubHub{}

	s := scheduler.New(cdb, hub, "", "")
	s.SweepDeadlines()

	assert.Empty(t, hub.events)
}

func TestSweepDeadlinesNilHub(t *testing.T) {
	now := time.Now()
	cdb := databases.NewMemoryComplaintDatabase([]models.Complaint{
		{ID: 1, Category: "Hostel", Status: models.StatusAssigned, Deadline: now.Add(-time.Hour)},
	})

	s := scheduler.New(cdb, nil, "", "")
	assert.NotPanics(t, s.SweepDeadlines)
}
