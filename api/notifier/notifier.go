// Package notifier owns the fire-and-forget status-update emails. Sends are
// queued on a bounded channel and handled by one background goroutine, so a
// slow or failing mail provider never delays or fails a status update. When
// the queue is full the notification is dropped and logged.
package notifier

import (
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	templates "github.com/fortexlabs/early-warning-api/templates/html"
)

const queueSize = 64

// Sender abstracts the sendgrid client for testing
type Sender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// Notification carries everything needed to email a student about a status
// change on their complaint
type Notification struct {
	Email    string
	Name     string
	Category string
	Status   string
}

// Notifier is the background email worker
type Notifier struct {
	queue  chan Notification
	stop   chan struct{}
	sender Sender
}

// New creates a notifier backed by the sendgrid API
func New(apiKey string) *Notifier {
	return NewWithSender(sendgrid.NewSendClient(apiKey))
}

// NewWithSender creates a notifier with a custom sender and starts its worker
func NewWithSender(sender Sender) *Notifier {
	n := &Notifier{
		queue:  make(chan Notification, queueSize),
		stop:   make(chan struct{}),
		sender: sender,
	}
	go n.run()
	return n
}

// Notify queues a status-update email. It never blocks: when the queue is
// full the notification is dropped.
func (n *Notifier) Notify(email, name, category, status string) {
	select {
	case n.queue <- Notification{Email: email, Name: name, Category: category, Status: status}:
	default:
		zap.S().Warnw("notification queue full, dropping status update email",
			"to", email,
			"status", status,
		)
	}
}

// Stop shuts the worker down. Queued notifications that have not been picked
// up yet are discarded.
func (n *Notifier) Stop() {
	close(n.stop)
}

func (n *Notifier) run() {
	for {
		select {
		case msg := <-n.queue:
			n.send(msg)
		case <-n.stop:
			return
		}
	}
}

func (n *Notifier) send(msg Notification) {
	from := mail.NewEmail("Fortex Admin", "admin@fortex.com")
	subject := fmt.Sprintf("Complaint Status Updated: %s", msg.Status)
	to := mail.NewEmail(msg.Name, msg.Email)
	plain := fmt.Sprintf("Hello %s,\n\nYour complaint regarding %q has been updated to: %s.\n\nPlease check your dashboard for more details.\n\nRegards,\nFortex Admin",
		msg.Name, msg.Category, msg.Status)
	html := templates.RenderStatusUpdate(msg.Name, msg.Category, msg.Status)

	m := mail.NewSingleEmail(from, subject, to, plain, html)
	if _, err := n.sender.Send(m); err != nil {
		zap.S().Errorw("failed to send status update email",
			"to", msg.Email,
			"status", msg.Status,
			"error", err,
		)
		return
	}
	zap.S().Debugw("status update email sent",
		"to", msg.Email,
		"status", msg.Status,
	)
}
