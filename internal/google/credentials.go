package google

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

// Environment variables read by CredentialsFromEnv.
const (
	EnvClientEmail     = "GOOGLE_CLIENT_EMAIL"
	EnvPrivateKey      = "GOOGLE_PRIVATE_KEY"
	EnvCredentialsFile = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvSubject         = "GOOGLE_IMPERSONATE_SUBJECT"
)

// ErrMissingCredentials is returned when neither a key file nor an
// email/private key pair is configured.
var ErrMissingCredentials = errors.New("no Google service account credentials configured")

// Credentials identifies a service account.
type Credentials struct {
	// CredentialsFile is a service-account JSON key. It takes precedence
	// over ClientEmail and PrivateKey.
	CredentialsFile string

	ClientEmail string
	PrivateKey  string

	// Subject is the user to impersonate through domain-wide delegation.
	// Sending mail as a Workspace user requires it.
	Subject string

	// Scopes defaults to DefaultScopes.
	Scopes []string

	// TokenURL defaults to google.JWTTokenURL.
	TokenURL string
}

// CredentialsFromEnv reads Credentials from the environment.
func CredentialsFromEnv() Credentials {
	return Credentials{
		CredentialsFile: os.Getenv(EnvCredentialsFile),
		ClientEmail:     os.Getenv(EnvClientEmail),
		PrivateKey:      os.Getenv(EnvPrivateKey),
		Subject:         os.Getenv(EnvSubject),
	}
}

// LoadServiceAccount builds a JWT config for the service account.
func LoadServiceAccount(creds Credentials) (*jwt.Config, error) {
	scopes := creds.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	var cfg *jwt.Config
	switch {
	case creds.CredentialsFile != "":
		data, err := os.ReadFile(creds.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		cfg, err = google.JWTConfigFromJSON(data, scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse credentials file: %w", err)
		}
	case creds.ClientEmail != "" && creds.PrivateKey != "":
		cfg = &jwt.Config{
			Email:      creds.ClientEmail,
			PrivateKey: []byte(normalizePrivateKey(creds.PrivateKey)),
			Scopes:     scopes,
			TokenURL:   google.JWTTokenURL,
		}
	case creds.ClientEmail != "" || creds.PrivateKey != "":
		return nil, fmt.Errorf("%w: both %s and %s must be set", ErrMissingCredentials, EnvClientEmail, EnvPrivateKey)
	default:
		return nil, ErrMissingCredentials
	}

	if creds.TokenURL != "" {
		cfg.TokenURL = creds.TokenURL
	}
	cfg.Subject = creds.Subject
	return cfg, nil
}

// HTTPClient returns an HTTP client that authenticates as the service
// account. The client is configured to use HTTP/1.1 to avoid HTTP/2
// protocol errors.
func HTTPClient(ctx context.Context, cfg *jwt.Config) *http.Client {
	client := oauth2.NewClient(ctx, cfg.TokenSource(ctx))

	base := http.DefaultTransport.(*http.Transport).Clone()
	base.ForceAttemptHTTP2 = false
	base.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}

	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = base
	}
	return client
}

// normalizePrivateKey turns the literal "\n" sequences that env files use
// for PEM line breaks into real newlines.
func normalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}
