package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// GetStringArg returns args[key] when it is a string, otherwise "".
func GetStringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

// GetIntArg reads an optional integer argument. JSON numbers arrive as
// float64; numeric strings are accepted too. ok is false when the argument
// is absent.
func GetIntArg(args map[string]interface{}, key string) (value int, ok bool, err error) {
	raw, present := args[key]
	if !present || raw == nil {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, true, fmt.Errorf("%s must be a whole number, got %v", key, v)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, false, nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, true, fmt.Errorf("%s must be a whole number, got %q", key, v)
		}
		return n, true, nil
	default:
		return 0, true, fmt.Errorf("%s must be a number", key)
	}
}

// ParseCommaSeparated splits s on commas, trimming blanks and dropping empty
// entries.
func ParseCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
