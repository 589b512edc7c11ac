// Package meeting validates booking requests before they reach a calendar.
//
// ValidateMeetingRequest is the single place where a request's summary, start,
// end and attendee addresses are checked. A missing or unusable end is derived
// from the start and a default duration instead of being rejected. Failures are
// returned as *ValidationError values whose Kind tells the caller what to ask
// the user for.
package meeting
