package google

import (
	calendar "google.golang.org/api/calendar/v3"
	gmail "google.golang.org/api/gmail/v1"
)

// DefaultScopes are the scopes the service account requests:
//   - Calendar: read events and insert bookings
//   - Gmail: send confirmations (requires domain-wide delegation)
var DefaultScopes = []string{
	calendar.CalendarScope,
	gmail.GmailSendScope,
}
