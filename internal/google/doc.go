// Package google loads service-account credentials for the Google APIs the
// scheduler talks to.
//
// Credentials come either from the GOOGLE_CLIENT_EMAIL and GOOGLE_PRIVATE_KEY
// environment variables or from a service-account JSON key file. They are
// loaded once at startup and the resulting HTTP client is shared by the
// calendar and notification clients.
package google
