package submitter

import (
	"errors"
)

const (
	// MsgEndpointMissing is reported when no endpoint URL is configured.
	MsgEndpointMissing = "Google Script URL not configured in environment variables"
	// MsgSubmitFailed is the fallback for failures that carry no message.
	MsgSubmitFailed = "Failed to submit form"
)

// ErrInFlight is returned to a Submit call rejected under OverlapReject.
var ErrInFlight = errors.New("submission already in progress")

// ConfigurationError reports a missing endpoint. It is detected before any
// network attempt.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	if e.Msg == "" {
		return MsgEndpointMissing
	}
	return e.Msg
}

// TransportError wraps a failure after validation: the transform, URL
// construction or the send itself. Its message is the cause's message.
type TransportError struct {
	Op  string // "transform", "build" or "send"
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil || e.Err.Error() == "" {
		return MsgSubmitFailed
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
