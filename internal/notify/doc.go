// Package notify sends booking confirmation emails through the Gmail API.
//
// Two kinds of message go out for every booking: an admin notification to
// the calendar owner and a confirmation to each attendee. Bodies are plain
// text rendered from templates; headers are RFC 2047 encoded so summaries
// with non-ASCII characters survive transport.
package notify
