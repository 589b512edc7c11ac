package notify

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstName(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane@example.com", "Jane"},
		{"jane.doe42@example.com", "Janedoe"},
		{"JOHN@example.com", "JOHN"},
		{"123@example.com", "there"},
		{"", "there"},
		{"müller@example.com", "Mller"},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstName(tt.email))
		})
	}
}

func TestEncodeRFC2047(t *testing.T) {
	assert.Equal(t, "Demo call", encodeRFC2047("Demo call"))

	encoded := encodeRFC2047("Demo für Team")
	assert.True(t, strings.HasPrefix(encoded, "=?UTF-8?b?"))
	assert.NotContains(t, encoded, "ü")
}

func TestMessageRaw(t *testing.T) {
	msg := message{
		From:    "owner@example.com",
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "Meeting Confirmation: Demo",
		Body:    "Hello",
	}

	decoded, err := base64.URLEncoding.DecodeString(msg.raw())
	require.NoError(t, err)

	raw := string(decoded)
	assert.Contains(t, raw, "From: owner@example.com\r\n")
	assert.Contains(t, raw, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, raw, "Subject: Meeting Confirmation: Demo\r\n")
	assert.Contains(t, raw, "MIME-Version: 1.0\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nHello"))

	msg.From = ""
	decoded, err = base64.URLEncoding.DecodeString(msg.raw())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(decoded), "To: "))
}
