// Package transport delivers serialized submissions to the sheet endpoint.
//
// Delivery is opaque: the endpoint is a cross-origin script whose response is
// not meant to be read, so a Sender reports only whether the request could be
// sent. Status codes and bodies never reach the caller.
package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Sender delivers a GET request to target. Implementations must not expose
// the response: any status the server returns counts as delivered, and only
// failures to build or send the request are reported.
type Sender interface {
	Send(ctx context.Context, target *url.URL) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, target *url.URL) error

func (f SenderFunc) Send(ctx context.Context, target *url.URL) error {
	return f(ctx, target)
}

// HTTPSender is the net/http Sender.
type HTTPSender struct {
	client *http.Client
	debug  *DebugLogger
}

func NewHTTPSender(client *http.Client, debug *DebugLogger) *HTTPSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSender{
		client: client,
		debug:  debug,
	}
}

func (s *HTTPSender) Send(ctx context.Context, target *url.URL) error {
	submissionID := SubmissionIDFromContext(ctx)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		s.debug.LogError(submissionID, err.Error(), time.Since(start))
		return err
	}

	s.debug.LogRequest(submissionID, req)

	resp, err := s.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		s.debug.LogError(submissionID, err.Error(), duration)
		return err
	}
	// Drain so the connection can be reused; the content is deliberately ignored.
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	s.debug.LogDelivered(submissionID, duration)
	return nil
}

// Context key for passing the submission ID to senders.
type contextKey string

const submissionIDContextKey contextKey = "submissionID"

func ContextWithSubmissionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, submissionIDContextKey, id)
}

func SubmissionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(submissionIDContextKey).(string); ok {
		return id
	}
	return "-"
}
