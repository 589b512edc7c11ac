package notify

import (
	"encoding/base64"
	"mime"
	"strings"
	"unicode"
)

// message is a plain-text email.
type message struct {
	From    string
	To      []string
	Subject string
	Body    string
}

// raw renders the message in RFC 2822 format, base64url encoded as the
// Gmail API expects.
func (m message) raw() string {
	var b strings.Builder

	if m.From != "" {
		b.WriteString("From: ")
		b.WriteString(m.From)
		b.WriteString("\r\n")
	}
	b.WriteString("To: ")
	b.WriteString(strings.Join(m.To, ", "))
	b.WriteString("\r\n")
	b.WriteString("Subject: ")
	b.WriteString(encodeRFC2047(m.Subject))
	b.WriteString("\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.Body)

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

// encodeRFC2047 encodes a header value containing non-ASCII characters.
func encodeRFC2047(s string) string {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return mime.BEncoding.Encode("UTF-8", s)
		}
	}
	return s
}

// FirstName derives a greeting name from an email address: the letters of
// the local part, capitalized. "jane.doe42@example.com" becomes "Janedoe".
func FirstName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	letters := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			return r
		}
		return -1
	}, local)
	if letters == "" {
		return "there"
	}
	return strings.ToUpper(letters[:1]) + letters[1:]
}
