package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// fakeGmail records sent messages and fails for recipients in failFor.
type fakeGmail struct {
	mu      sync.Mutex
	sent    []string
	failFor string
}

func (f *fakeGmail) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/messages/send") {
		http.NotFound(w, r)
		return
	}

	var msg gmail.Message
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	raw, err := base64.URLEncoding.DecodeString(msg.Raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor != "" && strings.Contains(string(raw), "To: "+f.failFor+"\r\n") {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"delegation denied"}}`))
		return
	}
	f.sent = append(f.sent, string(raw))

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"id":"msg-1"}`))
}

func newTestNotifier(t *testing.T, api *fakeGmail, opts Options) *GmailNotifier {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	opts.APIOptions = append(opts.APIOptions, option.WithEndpoint(srv.URL+"/"))
	n, err := NewGmailNotifier(context.Background(), srv.Client(), opts)
	require.NoError(t, err)
	return n
}

func testConfirmation() Confirmation {
	start := time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC)
	return Confirmation{
		Summary:     "Product demo",
		Description: "Walkthrough of the dashboard",
		Start:       start,
		End:         start.Add(45 * time.Minute),
		Attendees:   []string{"jane@example.com", "sam@example.org"},
		PhoneNumber: "+1 555 0100",
		MeetLink:    "https://meet.google.com/abc-defg-hij",
	}
}

func TestNewGmailNotifier_NilClient(t *testing.T) {
	_, err := NewGmailNotifier(context.Background(), nil, Options{})
	assert.Error(t, err)
}

func TestGmailNotifier_SendConfirmation(t *testing.T) {
	api := &fakeGmail{}
	n := newTestNotifier(t, api, Options{
		From:       "owner@example.com",
		AdminEmail: "admin@example.com",
		Signature:  "The Demo Team",
	})

	err := n.SendConfirmation(context.Background(), testConfirmation())
	require.NoError(t, err)
	require.Len(t, api.sent, 3)

	admin := api.sent[0]
	assert.Contains(t, admin, "To: admin@example.com\r\n")
	assert.Contains(t, admin, "Subject: New Demo Request: Product demo\r\n")
	assert.Contains(t, admin, "Contact:     Jane")
	assert.Contains(t, admin, "Phone:       +1 555 0100")
	assert.Contains(t, admin, "  - sam@example.org")
	assert.Contains(t, admin, "Monday, June 3, 2024 at 2:00 PM UTC")

	jane := api.sent[1]
	assert.Contains(t, jane, "To: jane@example.com\r\n")
	assert.Contains(t, jane, "Subject: Meeting Confirmation: Product demo\r\n")
	assert.Contains(t, jane, "Hi Jane,")
	assert.Contains(t, jane, "Duration: 45 minutes")
	assert.Contains(t, jane, "Join:     https://meet.google.com/abc-defg-hij")
	assert.Contains(t, jane, "The Demo Team")

	assert.Contains(t, api.sent[2], "Hi Sam,")
}

func TestGmailNotifier_SkipsAdminWithoutAddress(t *testing.T) {
	api := &fakeGmail{}
	n := newTestNotifier(t, api, Options{})

	c := testConfirmation()
	c.Attendees = c.Attendees[:1]
	c.Description = ""
	c.MeetLink = ""

	require.NoError(t, n.SendConfirmation(context.Background(), c))
	require.Len(t, api.sent, 1)
	assert.NotContains(t, api.sent[0], "From:")
	assert.NotContains(t, api.sent[0], "Details:")
	assert.NotContains(t, api.sent[0], "Join:")
	assert.Contains(t, api.sent[0], "The Scheduling Team")
}

func TestGmailNotifier_PartialFailure(t *testing.T) {
	api := &fakeGmail{failFor: "jane@example.com"}
	n := newTestNotifier(t, api, Options{AdminEmail: "admin@example.com"})

	err := n.SendConfirmation(context.Background(), testConfirmation())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confirmation to")
	assert.NotContains(t, err.Error(), "jane@example.com")

	// Admin and the second attendee still went out.
	assert.Len(t, api.sent, 2)
}

func TestGmailNotifier_Location(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	api := &fakeGmail{}
	n := newTestNotifier(t, api, Options{Location: tokyo})

	c := testConfirmation()
	c.Attendees = c.Attendees[:1]
	require.NoError(t, n.SendConfirmation(context.Background(), c))
	require.Len(t, api.sent, 1)
	assert.Contains(t, api.sent[0], "Monday, June 3, 2024 at 11:00 PM JST")
}
