package submitter

import (
	"log/slog"
	"strings"

	"sheetform/internal/form"
	"sheetform/internal/transport"
)

// EndpointSource yields the endpoint URL. It is consulted on every
// submission, so changes take effect without rebuilding the Submitter.
type EndpointSource interface {
	Endpoint() string
}

// StaticEndpoint is a fixed endpoint URL.
type StaticEndpoint string

func (e StaticEndpoint) Endpoint() string { return strings.TrimSpace(string(e)) }

// EndpointFunc adapts a function to EndpointSource.
type EndpointFunc func() string

func (f EndpointFunc) Endpoint() string { return f() }

// TransformFunc maps a validated record to the fields sent on the wire.
// It receives a copy, so mutating the argument does not affect the record
// handed to OnSuccess.
type TransformFunc func(*form.Record) (*form.Record, error)

// Observer is notified after a submission reaches a terminal outcome.
// Validation and configuration failures are not reported to OnError; they
// are visible through State only.
type Observer interface {
	OnSuccess(record *form.Record)
	OnError(err error)
}

// ObserverFuncs adapts a pair of optional functions to Observer.
type ObserverFuncs struct {
	Success func(record *form.Record)
	Error   func(err error)
}

func (o ObserverFuncs) OnSuccess(record *form.Record) {
	if o.Success != nil {
		o.Success(record)
	}
}

func (o ObserverFuncs) OnError(err error) {
	if o.Error != nil {
		o.Error(err)
	}
}

// Overlap selects what happens when Submit is called while another
// submission on the same Submitter is still in flight.
type Overlap string

const (
	// OverlapReject turns away the later call with ErrInFlight and leaves
	// the shared state to the submission already running.
	OverlapReject Overlap = "reject"
	// OverlapLastWriterWins lets every call run; whichever finishes last
	// owns the shared state.
	OverlapLastWriterWins Overlap = "last-writer-wins"
)

// Options configure a Submitter. They are fixed for its lifetime.
type Options struct {
	RequiredFields []string
	Transform      TransformFunc
	Observer       Observer
	Endpoint       EndpointSource
	Sender         transport.Sender
	Overlap        Overlap
	Logger         *slog.Logger
}
