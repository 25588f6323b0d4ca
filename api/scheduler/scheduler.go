package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/fortexlabs/early-warning-api/api/risk"
	"github.com/fortexlabs/early-warning-api/databases"
	"github.com/fortexlabs/early-warning-api/models"
	templates "github.com/fortexlabs/early-warning-api/templates/html"
)

// Broadcaster pushes an event to the live dashboard clients
type Broadcaster interface {
	Broadcast(event string, data interface{})
}

// Scheduler handles the periodic deadline sweep. Every run recomputes the
// institutional risk report, fans the unrest alerts out over the live feed
// and, when the risk level first turns high, emails a digest to the
// configured admin address.
type Scheduler struct {
	cron       *cron.Cron
	CDB        databases.ComplaintDatabase
	Hub        Broadcaster
	apiKey     string
	adminEmail string
	lastLevel  string
}

// New creates a new scheduler instance
func New(cdb databases.ComplaintDatabase, hub Broadcaster, apiKey, adminEmail string) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		CDB:        cdb,
		Hub:        hub,
		apiKey:     apiKey,
		adminEmail: adminEmail,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Sweep deadlines every 10 minutes
	_, err := s.cron.AddFunc("*/10 * * * *", s.SweepDeadlines)
	if err != nil {
		zap.S().Errorw("failed to register deadline sweep job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Deadline sweep scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Deadline sweep scheduler stopped")
}

// SweepDeadlines recomputes the risk report from the current complaint set
func (s *Scheduler) SweepDeadlines() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	complaints, err := s.CDB.Find(ctx)
	if err != nil {
		zap.S().Errorw("deadline sweep failed to load complaints", "error", err)
		return
	}

	report := risk.Compute(complaints, time.Now())
	if report.Level == models.RiskLevelHigh {
		zap.S().Warnw("institutional risk is high",
			"score", report.Score,
			"missedDeadlines", len(report.MissedDeadlines),
		)
	} else {
		zap.S().Infow("deadline sweep completed",
			"score", report.Score,
			"level", report.Level,
			"missedDeadlines", len(report.MissedDeadlines),
		)
	}

	if s.Hub != nil {
		for _, alert := range report.Alerts {
			s.Hub.Broadcast("unrest_alert", alert)
		}
	}

	if report.Level == models.RiskLevelHigh && s.lastLevel != models.RiskLevelHigh {
		s.sendRiskDigest(report)
	}
	s.lastLevel = report.Level
}

// sendRiskDigest emails the admin when the risk level crosses into high.
// Failures are logged only, the sweep itself never depends on delivery.
func (s *Scheduler) sendRiskDigest(report models.RiskReport) {
	if s.apiKey == "" || s.adminEmail == "" {
		return
	}

	body := fmt.Sprintf("The institutional risk score has reached %d (%s).\n\n"+
		"Unresolved complaints: %d of %d\n"+
		"Missed deadlines: %d\n\n"+
		"Review the dashboard for the full breakdown.",
		report.Score, report.Level,
		report.UnresolvedCount, report.ComplaintCount,
		len(report.MissedDeadlines),
	)

	from := mail.NewEmail("Fortex Admin", "admin@fortex.com")
	to := mail.NewEmail("", s.adminEmail)
	subject := "High Institutional Risk Detected"
	message := mail.NewSingleEmail(from, subject, to, body, templates.RenderGenericEmail(subject, body))

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		zap.S().Errorw("failed to send risk digest email", "error", err)
		return
	}
	zap.S().Infow("risk digest email sent",
		"to", s.adminEmail,
		"statusCode", resp.StatusCode,
	)
}
