package warden

import (
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL targets a backend on the local machine. Deployments
	// override it per environment (docker network, device lab, staging).
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds each operation end to end, connect through body.
	DefaultTimeout = 10 * time.Second
)

// Config controls a Client instance. The zero value is usable: defaults fill
// in BaseURL and Timeout, and a stock http.Client is built when none is given.
type Config struct {
	// BaseURL points at the warden backend. A trailing slash is tolerated
	// and stripped so path joining stays predictable.
	BaseURL string

	// Timeout is the per-request deadline. A request still in flight when it
	// elapses is abandoned and reported as a timeout, regardless of whether
	// the server later answers.
	Timeout time.Duration

	// HTTPClient overrides the transport, mainly for tests and consumers
	// with pooling or proxy needs. When set, it is used as-is and Timeout
	// above is ignored in favor of the client's own.
	HTTPClient *http.Client
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
