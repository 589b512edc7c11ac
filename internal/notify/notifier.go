package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"text/template"
	"time"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/PYAG1/scheduling-agent/internal/instrumentation"
	"github.com/PYAG1/scheduling-agent/internal/logging"
)

// Notification kinds.
const (
	KindAdmin    = "admin"
	KindAttendee = "attendee"
)

const timeLayout = "Monday, January 2, 2006 at 3:04 PM MST"

// Confirmation describes a booked meeting.
type Confirmation struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []string
	PhoneNumber string
	MeetLink    string
	EventLink   string
}

// Options configures a GmailNotifier.
type Options struct {
	// From is the sender address. Empty means the authenticated user.
	From string
	// AdminEmail receives the admin notification. Empty skips it.
	AdminEmail string
	// Signature closes attendee confirmations.
	Signature string
	// Location renders meeting times. Defaults to UTC.
	Location *time.Location

	Logger  *slog.Logger
	Metrics *instrumentation.Metrics

	// APIOptions are appended when building the Gmail service.
	APIOptions []option.ClientOption
}

// GmailNotifier sends confirmations through the Gmail API.
type GmailNotifier struct {
	svc     *gmail.Service
	opts    Options
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// NewGmailNotifier creates a notifier that sends as the user httpClient
// authenticates.
func NewGmailNotifier(ctx context.Context, httpClient *http.Client, opts Options) (*GmailNotifier, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client cannot be nil")
	}

	apiOpts := append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts.APIOptions...)
	svc, err := gmail.NewService(ctx, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Signature == "" {
		opts.Signature = "The Scheduling Team"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &GmailNotifier{
		svc:     svc,
		opts:    opts,
		logger:  logger.With(logging.KeyService, instrumentation.ServiceGmail),
		metrics: opts.Metrics,
	}, nil
}

// SendConfirmation sends the admin notification and one confirmation per
// attendee. Every message is attempted; the returned error joins all
// failures.
func (n *GmailNotifier) SendConfirmation(ctx context.Context, c Confirmation) error {
	var errs []error

	contact := "there"
	if len(c.Attendees) > 0 {
		contact = FirstName(c.Attendees[0])
	}

	if n.opts.AdminEmail != "" {
		body, err := render(adminTemplate, n.adminData(c, contact))
		if err == nil {
			err = n.send(ctx, KindAdmin, message{
				From:    n.opts.From,
				To:      []string{n.opts.AdminEmail},
				Subject: "New Demo Request: " + c.Summary,
				Body:    body,
			})
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("admin notification: %w", err))
		}
	}

	for _, attendee := range c.Attendees {
		body, err := render(attendeeTemplate, n.attendeeData(c, attendee))
		if err == nil {
			err = n.send(ctx, KindAttendee, message{
				From:    n.opts.From,
				To:      []string{attendee},
				Subject: "Meeting Confirmation: " + c.Summary,
				Body:    body,
			})
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("confirmation to %s: %w", logging.AnonymizeEmail(attendee), err))
		}
	}

	return errors.Join(errs...)
}

func (n *GmailNotifier) send(ctx context.Context, kind string, msg message) error {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceGmail, instrumentation.OperationSend)
	defer span.End()

	start := time.Now()
	sent, err := n.svc.Users.Messages.Send("me", &gmail.Message{Raw: msg.raw()}).Context(ctx).Do()
	status := instrumentation.StatusFromError(err)
	n.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceGmail, instrumentation.OperationSend, status, time.Since(start))
	n.metrics.RecordNotification(ctx, kind, status)

	if err != nil {
		instrumentation.SetSpanError(span, err)
		n.logger.WarnContext(ctx, "confirmation email failed",
			slog.String("kind", kind),
			logging.Attendees(msg.To),
			logging.Err(err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	instrumentation.SetSpanSuccess(span)
	n.logger.DebugContext(ctx, "confirmation email sent",
		slog.String("kind", kind),
		slog.String("message_id", sent.Id),
		logging.Attendees(msg.To))
	return nil
}

type adminData struct {
	Confirmation
	StartText   string
	EndText     string
	ContactName string
}

type attendeeData struct {
	Confirmation
	Name            string
	StartText       string
	DurationMinutes int
	Signature       string
}

func (n *GmailNotifier) adminData(c Confirmation, contact string) adminData {
	return adminData{
		Confirmation: c,
		StartText:    c.Start.In(n.opts.Location).Format(timeLayout),
		EndText:      c.End.In(n.opts.Location).Format(timeLayout),
		ContactName:  contact,
	}
}

func (n *GmailNotifier) attendeeData(c Confirmation, attendee string) attendeeData {
	return attendeeData{
		Confirmation:    c,
		Name:            FirstName(attendee),
		StartText:       c.Start.In(n.opts.Location).Format(timeLayout),
		DurationMinutes: int(c.End.Sub(c.Start) / time.Minute),
		Signature:       n.opts.Signature,
	}
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
