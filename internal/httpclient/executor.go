package httpclient

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Executor handles single-attempt HTTP execution with lifecycle logging.
// It deliberately does not retry and does not interpret status codes: the
// warden client promises at most one round-trip per operation and owns the
// mapping of responses to caller-facing errors.
type Executor struct {
	logger     *zap.Logger
	http       *http.Client
	serviceTag string
}

// New creates an Executor around httpClient. serviceTag prefixes log events.
func New(logger *zap.Logger, httpClient *http.Client, serviceTag string) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		logger:     logger,
		http:       httpClient,
		serviceTag: serviceTag,
	}
}

// Do executes req and returns the status code along with the fully-read body.
// A non-nil error means the request never produced a usable response (dial or
// DNS failure, timeout, interrupted body read). Received responses are
// returned whole regardless of status; classification is the caller's job.
func (e *Executor) Do(req *http.Request) (int, []byte, error) {
	start := time.Now()
	resp, err := e.http.Do(req)
	if err != nil {
		e.logger.Warn(e.serviceTag+".http_failed",
			zap.String("url", req.URL.String()),
			zap.String("method", req.Method),
			zap.Error(err))
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		e.logger.Warn(e.serviceTag+".body_read_failed",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.Error(err))
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}

	e.logger.Debug(e.serviceTag+".http_response",
		zap.String("url", req.URL.String()),
		zap.String("method", req.Method),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed))

	return resp.StatusCode, body, nil
}
