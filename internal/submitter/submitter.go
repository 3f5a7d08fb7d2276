// Package submitter tracks the lifecycle of form submissions to the sheet
// endpoint: validate, transform, serialize, send, and expose the outcome as
// submitting/error/success state for a UI layer.
package submitter

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"sheetform/internal/form"
	"sheetform/internal/transport"
)

// State is the observable status of a Submitter. Error is empty when no
// error is set. After a completed attempt exactly one of Error and Success
// is set; both are clear while idle or submitting.
type State struct {
	Submitting bool
	Error      string
	Err        error
	Success    bool
}

// Result is the outcome of one Submit call.
type Result struct {
	ID    string
	State State
}

// Submitter submits records to the configured endpoint.
type Submitter struct {
	opts   Options
	sender transport.Sender
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// New creates a Submitter. A nil Sender defaults to an HTTPSender on
// http.DefaultClient. A nil Endpoint makes every submission fail with a
// configuration error.
func New(opts Options) *Submitter {
	if opts.Overlap == "" {
		opts.Overlap = OverlapReject
	}
	sender := opts.Sender
	if sender == nil {
		sender = transport.NewHTTPSender(nil, nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Submitter{
		opts:   opts,
		sender: sender,
		logger: logger,
	}
}

// State returns a snapshot of the current status.
func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reset clears Error and Success. Submitting is left as is.
func (s *Submitter) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
	s.state.Err = nil
	s.state.Success = false
}

// Submit validates and sends record. Failures are never returned as errors;
// they are recorded in State, passed to the Observer where applicable, and
// mirrored in the Result of this call.
func (s *Submitter) Submit(ctx context.Context, record *form.Record) Result {
	id := uuid.NewString()
	log := s.logger.With("submission_id", id)

	if !s.begin() {
		log.Debug("submission rejected", "reason", ErrInFlight)
		return Result{ID: id, State: State{Submitting: true, Error: ErrInFlight.Error(), Err: ErrInFlight}}
	}

	if err := form.Validate(record, s.opts.RequiredFields); err != nil {
		log.Debug("validation failed", "error", err)
		return Result{ID: id, State: s.finish(err)}
	}

	raw := ""
	if s.opts.Endpoint != nil {
		raw = strings.TrimSpace(s.opts.Endpoint.Endpoint())
	}
	if raw == "" {
		err := &ConfigurationError{Msg: MsgEndpointMissing}
		log.Warn("endpoint not configured")
		return Result{ID: id, State: s.finish(err)}
	}

	start := time.Now()
	if err := s.deliver(ctx, id, raw, record); err != nil {
		log.Warn("submission failed", "error", err, "duration", time.Since(start))
		st := s.finish(err)
		if s.opts.Observer != nil {
			s.opts.Observer.OnError(err)
		}
		return Result{ID: id, State: st}
	}

	log.Debug("submission delivered", "duration", time.Since(start))
	st := s.finish(nil)
	if s.opts.Observer != nil {
		s.opts.Observer.OnSuccess(record)
	}
	return Result{ID: id, State: st}
}

// deliver runs the transform, builds the target URL and sends it.
func (s *Submitter) deliver(ctx context.Context, id, raw string, record *form.Record) error {
	fields := record
	if s.opts.Transform != nil {
		out, err := s.opts.Transform(record.Clone())
		if err != nil {
			return &TransportError{Op: "transform", Err: err}
		}
		fields = out
	}

	endpoint, err := form.ParseEndpoint(raw)
	if err != nil {
		return &TransportError{Op: "build", Err: err}
	}
	target := form.Encode(endpoint, fields)

	ctx = transport.ContextWithSubmissionID(ctx, id)
	if err := s.sender.Send(ctx, target); err != nil {
		return &TransportError{Op: "send", Err: err}
	}
	return nil
}

// begin moves the state to submitting. Under OverlapReject it refuses while
// another submission holds the state.
func (s *Submitter) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.Overlap == OverlapReject && s.state.Submitting {
		return false
	}
	s.state = State{Submitting: true}
	return true
}

// finish records the terminal outcome and returns the new state.
func (s *Submitter) finish(err error) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.state = State{Success: true}
		return s.state
	}
	msg := err.Error()
	if msg == "" {
		msg = MsgSubmitFailed
	}
	s.state = State{Error: msg, Err: err}
	return s.state
}

// IsValidation reports whether err is a required-field failure.
func IsValidation(err error) bool {
	var verr *form.ValidationError
	return errors.As(err, &verr)
}

// IsConfiguration reports whether err is a missing-endpoint failure.
func IsConfiguration(err error) bool {
	var cerr *ConfigurationError
	return errors.As(err, &cerr)
}
