package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIntArg(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		want    int
		wantOK  bool
		wantErr bool
	}{
		{name: "absent", args: map[string]interface{}{}},
		{name: "nil", args: map[string]interface{}{"n": nil}},
		{name: "json number", args: map[string]interface{}{"n": float64(45)}, want: 45, wantOK: true},
		{name: "fractional", args: map[string]interface{}{"n": 1.5}, wantOK: true, wantErr: true},
		{name: "numeric string", args: map[string]interface{}{"n": " 30 "}, want: 30, wantOK: true},
		{name: "blank string", args: map[string]interface{}{"n": "  "}},
		{name: "bad string", args: map[string]interface{}{"n": "soon"}, wantOK: true, wantErr: true},
		{name: "wrong type", args: map[string]interface{}{"n": true}, wantOK: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := GetIntArg(tt.args, "n")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestParseCommaSeparated(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a@example.com", []string{"a@example.com"}},
		{" a@example.com , ,b@example.com ", []string{"a@example.com", "b@example.com"}},
		{",,", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseCommaSeparated(tt.in), tt.in)
	}
}

func TestGetStringArg(t *testing.T) {
	args := map[string]interface{}{"s": "x", "n": 1.0}
	assert.Equal(t, "x", GetStringArg(args, "s"))
	assert.Empty(t, GetStringArg(args, "n"))
	assert.Empty(t, GetStringArg(args, "missing"))
}
