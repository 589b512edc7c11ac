package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PYAG1/scheduling-agent/internal/availability"
	"github.com/PYAG1/scheduling-agent/internal/calendar"
	"github.com/PYAG1/scheduling-agent/internal/instrumentation"
	"github.com/PYAG1/scheduling-agent/internal/logging"
	"github.com/PYAG1/scheduling-agent/internal/meeting"
	"github.com/PYAG1/scheduling-agent/internal/notify"
)

// ErrCalendarUnavailable is returned when busy time could not be fetched.
var ErrCalendarUnavailable = errors.New("calendar unavailable")

// Booking statuses.
const (
	BookingStatusSuccess = "success"
	BookingStatusPartial = "partial"
)

// EventSource lists the events that make up busy time.
type EventSource interface {
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, maxResults int64) ([]calendar.EventSummary, error)
}

// Booker creates calendar events.
type Booker interface {
	CreateEvent(ctx context.Context, calendarID string, input calendar.EventInput) (*calendar.EventSummary, error)
}

// Notifier sends booking confirmations.
type Notifier interface {
	SendConfirmation(ctx context.Context, c notify.Confirmation) error
}

// invalidator is implemented by event sources that cache listings.
type invalidator interface {
	Invalidate(calendarID string)
}

// ScheduleQuery narrows an availability lookup. Zero values use the
// configured defaults.
type ScheduleQuery struct {
	DurationMinutes int
	WorkingHours    *availability.WorkingHours
}

// BookingResult describes a booked meeting.
type BookingResult struct {
	EventID    string    `json:"eventId"`
	HTMLLink   string    `json:"htmlLink,omitempty"`
	MeetLink   string    `json:"meetLink,omitempty"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	EndDerived bool      `json:"endDerived,omitempty"`
	Recipients []string  `json:"recipients,omitempty"`

	NotificationError string `json:"notificationError,omitempty"`
}

// Service answers availability lookups and books meetings.
type Service struct {
	cfg      Config
	loc      *time.Location
	source   EventSource
	booker   Booker
	notifier Notifier
	logger   *slog.Logger
	metrics  *instrumentation.Metrics
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sends confirmations after every booking.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithMetrics records lookups and bookings on m.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService validates cfg and wires the collaborators.
func NewService(cfg Config, source EventSource, booker Booker, opts ...Option) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("event source cannot be nil")
	}
	if booker == nil {
		return nil, fmt.Errorf("booker cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:    cfg,
		loc:    loc,
		source: source,
		booker: booker,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.WithCalendar(s.logger, cfg.CalendarID)
	return s, nil
}

// Config returns the service configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// GetSchedule fetches the events in the horizon [now, now+HorizonDays) and
// recommends a slot with up to three alternatives. now is truncated to the
// minute, so lookups within the same minute share a cached listing.
// Cancelled events and events shown as available do not block time, but
// every fetched event is echoed back as a busy period.
func (s *Service) GetSchedule(ctx context.Context, q ScheduleQuery) (availability.ScheduleRecommendation, error) {
	durationMinutes := q.DurationMinutes
	if durationMinutes == 0 {
		durationMinutes = s.cfg.DefaultDurationMinutes
	}
	if durationMinutes < s.cfg.MinDurationMinutes {
		return availability.ScheduleRecommendation{}, fmt.Errorf("%w: %d minutes is below the %d minute minimum",
			availability.ErrInvalidDuration, durationMinutes, s.cfg.MinDurationMinutes)
	}

	wh := s.cfg.WorkingHours
	if q.WorkingHours != nil {
		wh = *q.WorkingHours
	}
	if err := wh.Validate(); err != nil {
		return availability.ScheduleRecommendation{}, err
	}

	ctx, span := instrumentation.StartSchedulingSpan(ctx, "get_schedule",
		instrumentation.NewSpanAttributeBuilder().
			WithCalendar(s.cfg.CalendarID).
			WithDurationMinutes(durationMinutes).
			Build()...)
	defer span.End()

	logger := logging.WithOperation(s.logger, "get_schedule")
	horizonStart := s.now().In(s.loc).Truncate(time.Minute)
	horizonEnd := horizonStart.AddDate(0, 0, s.cfg.HorizonDays)

	events, err := s.source.ListEvents(ctx, s.cfg.CalendarID, horizonStart, horizonEnd, s.cfg.MaxEvents)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		s.metrics.RecordScheduleFailure(ctx, instrumentation.OutcomeCalendarError)
		logger.ErrorContext(ctx, "failed to fetch calendar events", logging.Err(err))
		return availability.ScheduleRecommendation{}, fmt.Errorf("%w: %w", ErrCalendarUnavailable, err)
	}

	periods := make([]availability.RawInterval, 0, len(events))
	blocking := make([]availability.RawInterval, 0, len(events))
	for _, ev := range events {
		periods = append(periods, ev.Interval())
		if ev.BlocksTime() {
			blocking = append(blocking, ev.Interval())
		}
	}

	busy, dropped := availability.NormalizeIntervals(blocking, s.loc)
	if len(dropped) > 0 {
		s.metrics.RecordDroppedIntervals(ctx, s.cfg.CalendarID, len(dropped))
		logger.DebugContext(ctx, "dropped unusable busy intervals",
			slog.Int("count", len(dropped)),
			logging.Err(errors.Join(dropped...)))
	}

	slots, err := availability.FindAvailableSlots(busy, durationMinutes, horizonStart, horizonEnd, wh)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return availability.ScheduleRecommendation{}, err
	}

	rec := availability.BuildScheduleRecommendation(slots, periods, horizonStart)
	s.metrics.RecordScheduleResult(ctx, len(slots), rec.NoAvailability)
	span.SetAttributes(instrumentation.NewSpanAttributeBuilder().
		WithSlotCount(len(slots)).
		WithBusyCount(len(busy)).
		Build()...)
	instrumentation.SetSpanSuccess(span)

	logger.InfoContext(ctx, "schedule computed",
		logging.SlotCount(len(slots)),
		slog.Int("busy_count", len(busy)),
		slog.Bool("no_availability", rec.NoAvailability))
	return rec, nil
}

// BookMeeting validates req, creates the calendar event and sends the
// confirmations. A failed confirmation never undoes the booking; it is
// reported in the result instead.
func (s *Service) BookMeeting(ctx context.Context, req meeting.Request) (BookingResult, error) {
	ctx, span := instrumentation.StartSchedulingSpan(ctx, "book_meeting",
		instrumentation.NewSpanAttributeBuilder().
			WithCalendar(s.cfg.CalendarID).
			WithAttendeeCount(len(req.Attendees)).
			Build()...)
	defer span.End()

	logger := logging.WithOperation(s.logger, "book_meeting")

	v, err := meeting.ValidateMeetingRequestIn(req, s.cfg.DefaultDurationMinutes, s.loc)
	if err != nil {
		var ve *meeting.ValidationError
		if errors.As(err, &ve) {
			s.metrics.RecordValidationFailure(ctx, string(ve.Kind))
		}
		instrumentation.SetSpanError(span, err)
		logger.InfoContext(ctx, "rejected booking request", logging.Err(err))
		return BookingResult{}, err
	}
	if v.EndDerived {
		logger.DebugContext(ctx, "end time derived from default duration",
			slog.String("requested_end", req.End),
			slog.Time("end", v.End))
	}

	recipients := v.Attendees
	if len(recipients) == 0 && s.cfg.DefaultAttendee != "" {
		recipients = []string{s.cfg.DefaultAttendee}
	}

	input := calendar.EventInput{
		ID:          newEventID(),
		Summary:     v.Summary,
		Description: eventDescription(v),
		Start:       v.Start,
		End:         v.End,
		TimeZone:    s.loc.String(),
		Attendees:   v.Attendees,
		AddMeetLink: s.cfg.AddMeetLink,
	}

	created, err := s.booker.CreateEvent(ctx, s.cfg.CalendarID, input)
	if err != nil {
		s.metrics.RecordBooking(ctx, instrumentation.StatusError)
		instrumentation.SetSpanError(span, err)
		logger.ErrorContext(ctx, "failed to create calendar event", logging.Err(err))
		return BookingResult{}, fmt.Errorf("failed to book meeting: %w", err)
	}
	if inv, ok := s.source.(invalidator); ok {
		inv.Invalidate(s.cfg.CalendarID)
	}

	result := BookingResult{
		EventID:    created.ID,
		HTMLLink:   created.HTMLLink,
		MeetLink:   created.MeetLink,
		Status:     BookingStatusSuccess,
		Start:      v.Start,
		End:        v.End,
		EndDerived: v.EndDerived,
		Recipients: recipients,
		Message:    fmt.Sprintf("Meeting for %q scheduled successfully!", v.Summary),
	}

	if s.notifier != nil {
		err := s.notifier.SendConfirmation(ctx, notify.Confirmation{
			Summary:     v.Summary,
			Description: v.Description,
			Start:       v.Start,
			End:         v.End,
			Attendees:   recipients,
			PhoneNumber: v.PhoneNumber,
			MeetLink:    created.MeetLink,
			EventLink:   created.HTMLLink,
		})
		switch {
		case err != nil:
			logger.WarnContext(ctx, "booking confirmed but notifications failed",
				slog.String(logging.KeyBookingID, created.ID),
				logging.Err(err))
			result.Status = BookingStatusPartial
			result.NotificationError = err.Error()
			result.Message = fmt.Sprintf("Meeting for %q scheduled successfully, but some confirmation emails could not be sent.", v.Summary)
		case len(recipients) > 0:
			result.Message = fmt.Sprintf("Meeting for %q scheduled successfully! A confirmation has been sent to %s.",
				v.Summary, strings.Join(recipients, ", "))
		}
	}

	s.metrics.RecordBooking(ctx, instrumentation.StatusSuccess)
	instrumentation.SetSpanSuccess(span)
	logger.InfoContext(ctx, "meeting booked",
		slog.String(logging.KeyBookingID, created.ID),
		logging.Attendees(recipients),
		slog.Time("start", v.Start),
		slog.Duration("length", v.Duration()))
	return result, nil
}

// newEventID returns a random calendar event ID. Hex digits are valid
// base32hex, which the Calendar API requires for client-chosen IDs.
func newEventID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func eventDescription(v meeting.ValidatedRequest) string {
	if v.PhoneNumber == "" {
		return v.Description
	}
	if v.Description == "" {
		return "Phone: " + v.PhoneNumber
	}
	return v.Description + "\n\nPhone: " + v.PhoneNumber
}
