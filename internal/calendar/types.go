package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"github.com/PYAG1/scheduling-agent/internal/availability"
)

const dateLayout = "2006-01-02"

// Event statuses and transparency values reported by the API.
const (
	StatusCancelled         = "cancelled"
	TransparencyTransparent = "transparent"
)

// EventInput represents the input for creating a calendar event.
type EventInput struct {
	// ID is an optional client-chosen event ID (base32hex, 5-1024 chars).
	// Reusing an ID makes the insert idempotent.
	ID          string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Attendees   []string

	// AddMeetLink requests a Google Meet conference for the event.
	AddMeetLink bool
	// ConferenceRequestID identifies the Meet creation request.
	ConferenceRequestID string

	// SendUpdates is "all", "externalOnly" or "none" (default "all").
	SendUpdates string
}

// EventSummary represents a calendar event as the scheduler sees it.
type EventSummary struct {
	ID           string
	Summary      string
	Description  string
	Start        time.Time
	End          time.Time
	AllDay       bool
	Status       string
	Transparency string
	HTMLLink     string
	MeetLink     string
	Organizer    string
	Attendees    []AttendeeInfo

	// RawStart and RawEnd hold the dateTime or date exactly as reported.
	RawStart string
	RawEnd   string
}

// AttendeeInfo represents information about an event attendee
type AttendeeInfo struct {
	Email          string
	DisplayName    string
	ResponseStatus string // "needsAction", "declined", "tentative", "accepted"
	Optional       bool
}

// Interval returns the event's raw busy period.
func (e EventSummary) Interval() availability.RawInterval {
	return availability.RawInterval{Start: e.RawStart, End: e.RawEnd}
}

// BlocksTime reports whether the event makes its owner unavailable.
// Cancelled events and events marked "show as available" do not.
func (e EventSummary) BlocksTime() bool {
	return e.Status != StatusCancelled && e.Transparency != TransparencyTransparent
}

// rawDateTime returns dateTime when set, otherwise date.
func rawDateTime(edt *calendar.EventDateTime) (raw string, allDay bool) {
	if edt == nil {
		return "", false
	}
	if edt.DateTime != "" {
		return edt.DateTime, false
	}
	return edt.Date, edt.Date != ""
}

func parseEventTime(raw string, allDay bool) time.Time {
	layout := time.RFC3339
	if allDay {
		layout = dateLayout
	}
	t, err := time.Parse(layout, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

// toEventSummary converts a Google Calendar event to an EventSummary
func toEventSummary(event *calendar.Event) EventSummary {
	if event == nil {
		return EventSummary{}
	}

	summary := EventSummary{
		ID:           event.Id,
		Summary:      event.Summary,
		Description:  event.Description,
		Status:       event.Status,
		Transparency: event.Transparency,
		HTMLLink:     event.HtmlLink,
	}

	var startAllDay, endAllDay bool
	summary.RawStart, startAllDay = rawDateTime(event.Start)
	summary.RawEnd, endAllDay = rawDateTime(event.End)
	summary.AllDay = startAllDay
	summary.Start = parseEventTime(summary.RawStart, startAllDay)
	summary.End = parseEventTime(summary.RawEnd, endAllDay)

	if event.Organizer != nil {
		summary.Organizer = event.Organizer.Email
	}

	for _, att := range event.Attendees {
		summary.Attendees = append(summary.Attendees, AttendeeInfo{
			Email:          att.Email,
			DisplayName:    att.DisplayName,
			ResponseStatus: att.ResponseStatus,
			Optional:       att.Optional,
		})
	}

	if event.ConferenceData != nil {
		for _, ep := range event.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				summary.MeetLink = ep.Uri
				break
			}
		}
	}

	return summary
}

// toEvent converts an EventInput to the API representation.
func toEvent(input EventInput) *calendar.Event {
	tz := input.TimeZone
	if tz == "" {
		tz = "UTC"
	}

	event := &calendar.Event{
		Id:          input.ID,
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: tz,
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: tz,
		},
	}

	for _, email := range input.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	if input.AddMeetLink {
		event.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: input.ConferenceRequestID,
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		}
	}

	return event
}
