// Package tokencache provides caller-side storage for warden access tokens.
//
// The warden client itself is stateless: Login hands the token to the caller
// and forgets it. Anything that wants to reuse a token across calls or
// process restarts (wardenctl between invocations, a service holding one
// session per account) plugs a Store into Manager and lets it decide when a
// fresh login is needed.
//
// Tokens stay opaque throughout. Expiry is driven purely by the store TTL,
// never by decoding the token, so the backend can change token formats
// without breaking anyone here.
package tokencache

import (
	"context"
	"time"
)

// DefaultTTL keeps cached tokens a little shorter than the backend's
// 30-minute token lifetime, so the cache gives up before the server starts
// rejecting the token.
const DefaultTTL = 25 * time.Minute

// Entry is a stored access token with the time it was obtained.
type Entry struct {
	AccessToken string    `json:"access_token"`
	ObtainedAt  time.Time `json:"obtained_at"`
}

// Store persists token entries under caller-chosen keys. Implementations
// return (nil, nil) for a missing or expired entry; errors are reserved for
// the store itself failing. A non-positive ttl on Put falls back to
// DefaultTTL.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, key string, entry Entry, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
