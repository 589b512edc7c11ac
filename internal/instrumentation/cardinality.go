package instrumentation

import (
	"slices"
	"strings"
)

// ExtractUserDomain extracts the domain part from an email address.
//
//	ExtractUserDomain("jane@example.com")  // "example.com"
//	ExtractUserDomain("invalid")           // "unknown"
func ExtractUserDomain(email string) string {
	if email == "" {
		return "unknown"
	}

	parts := strings.Split(email, "@")
	if len(parts) == 2 && parts[1] != "" {
		return strings.ToLower(parts[1])
	}

	return "unknown"
}

// AttendeeDomains returns the sorted, de-duplicated domains of emails.
func AttendeeDomains(emails []string) []string {
	domains := make([]string, 0, len(emails))
	for _, e := range emails {
		domains = append(domains, ExtractUserDomain(e))
	}
	slices.Sort(domains)
	return slices.Compact(domains)
}

// Operation types for Google API metrics.
const (
	OperationList   = "list"
	OperationCreate = "create"
	OperationSend   = "send"
	OperationSearch = "search"
)
