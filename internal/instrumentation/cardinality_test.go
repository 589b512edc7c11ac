package instrumentation

import (
	"reflect"
	"testing"
)

func TestExtractUserDomain(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane@example.com", "example.com"},
		{"Jane@Example.COM", "example.com"},
		{"user@gmail.com", "gmail.com"},
		{"invalid", "unknown"},
		{"a@b@c", "unknown"},
		{"trailing@", "unknown"},
		{"", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := ExtractUserDomain(tt.email); got != tt.want {
				t.Errorf("ExtractUserDomain(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestAttendeeDomains(t *testing.T) {
	got := AttendeeDomains([]string{"b@zeta.io", "a@acme.com", "c@ACME.com", "broken"})
	want := []string{"acme.com", "unknown", "zeta.io"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AttendeeDomains() = %v, want %v", got, want)
	}

	if got := AttendeeDomains(nil); len(got) != 0 {
		t.Errorf("AttendeeDomains(nil) = %v, want empty", got)
	}
}
