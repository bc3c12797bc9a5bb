// Package secrets abstracts where service-account credentials live. The
// warden client itself never touches this package; it exists for operators
// and services that keep username/password pairs in a managed store instead
// of local configuration.
package secrets

import "context"

// Provider defines a generic secrets manager interface.
// Concrete implementations (AWS, GCP, etc.) can satisfy this.
type Provider interface {
	// GetSecret retrieves a secret by name and returns its key-value payload.
	GetSecret(ctx context.Context, key string) (map[string]string, error)

	// ListSecrets returns the names of all secrets whose name matches the given prefix.
	ListSecrets(ctx context.Context, prefix string) ([]string, error)
}
