package notify

import "text/template"

var adminTemplate = template.Must(template.New("admin").Parse(
	`New Meeting Request

Summary:     {{.Summary}}
{{- if .Description}}
Description: {{.Description}}
{{- end}}
Start:       {{.StartText}}
End:         {{.EndText}}
Contact:     {{.ContactName}}
{{- if .PhoneNumber}}
Phone:       {{.PhoneNumber}}
{{- end}}
{{- if .Attendees}}

Attendees:
{{- range .Attendees}}
  - {{.}}
{{- end}}
{{- end}}
{{- if .EventLink}}

Event: {{.EventLink}}
{{- end}}

Please review and confirm this meeting request at your earliest convenience.
`))

var attendeeTemplate = template.Must(template.New("attendee").Parse(
	`Hi {{.Name}},

Great news! Your meeting for "{{.Summary}}" has been confirmed.

When:     {{.StartText}}
Duration: {{.DurationMinutes}} minutes
{{- if .Description}}
Details:  {{.Description}}
{{- end}}
{{- if .MeetLink}}
Join:     {{.MeetLink}}
{{- end}}

Need to reschedule? Just reply to this email and we'll find another time that works.

See you soon,
{{.Signature}}
`))
