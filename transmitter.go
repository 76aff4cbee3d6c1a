// Package flashtx encodes short text messages into a framed bit signal and
// transmits it by toggling a single light at a fixed bit interval.
//
// A message becomes a 12-bit all-ones start marker, one 9-bit frame per
// character (8 data bits MSB first plus a parity bit) including a trailing
// space, and a 12-bit all-zeros stop marker. The Transmitter holds each bit
// on the actuator for one slot, checks for cancellation between slots and
// always leaves the light off.
package flashtx

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Transmitter drives one actuator. At most one session runs on it at a time.
type Transmitter struct {
	actuator Actuator
	logger   Logger
	opts     options

	nextID atomic.Uint64

	mu     sync.Mutex
	active *Session
	last   *Session
}

// Status is a snapshot of a transmitter's current or most recent session.
type Status struct {
	State State
	Sent  int
	Total int
	// Last is the outcome of the most recent finished session, Idle if none.
	Last Outcome
}

// NewTransmitter creates a transmitter for the given actuator.
// Returns ErrInvalidActuator if actuator is nil.
func NewTransmitter(actuator Actuator, opt ...Option) (*Transmitter, error) {
	if actuator == nil {
		return nil, ErrInvalidActuator
	}

	var opts options
	for _, o := range opt {
		o(&opts)
	}
	checkOptions(&opts)

	return &Transmitter{
		actuator: actuator,
		logger:   opts.logger,
		opts:     opts,
	}, nil
}

// Transmit runs a session on the calling goroutine and blocks until it ends.
// cancel may be nil. The slot duration comes from SlotDurationOption.
//
// Returns:
//   - Completed, nil: every bit was held for one slot
//   - Cancelled, nil: cancel was signaled; checked before each bit
//   - Interrupted, cause: the context ended or the clock failed
//   - Idle, ErrSessionActive: another session owns the actuator
//
// The actuator is off when Transmit returns.
func (t *Transmitter) Transmit(ctx context.Context, bits BitSequence, cancel *CancelToken) (Outcome, error) {
	s, err := t.acquire(bits, cancel)
	if err != nil {
		return Idle, err
	}

	outcome := s.run(ctx)
	return outcome, s.Err()
}

// Start runs a session on its own goroutine and returns immediately.
// ctx bounds the session: when it ends, the session is Interrupted.
// Returns ErrSessionActive if a session is already running.
func (t *Transmitter) Start(ctx context.Context, bits BitSequence) (*Session, error) {
	s, err := t.acquire(bits, nil)
	if err != nil {
		return nil, err
	}

	go s.run(ctx)
	return s, nil
}

// Replace cancels the running session, waits for it to switch the light
// off, then starts a new one. Behaves like Start when nothing is running.
func (t *Transmitter) Replace(ctx context.Context, bits BitSequence) (*Session, error) {
	for {
		s, err := t.Start(ctx, bits)
		if !errors.Is(err, ErrSessionActive) {
			return s, err
		}

		prev := t.Active()
		if prev == nil {
			continue
		}
		prev.Cancel()

		select {
		case <-prev.Done():
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Stop cancels the running session without waiting for it.
// Returns ErrNoSession if nothing is running.
func (t *Transmitter) Stop() error {
	s := t.Active()
	if s == nil {
		return ErrNoSession
	}
	s.Cancel()
	return nil
}

// Active returns the running session, or nil.
func (t *Transmitter) Active() *Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Status reports the running session's progress, or the last outcome when idle.
func (t *Transmitter) Status() Status {
	t.mu.Lock()
	active, last := t.active, t.last
	t.mu.Unlock()

	var st Status
	if last != nil {
		st.Last = last.State()
	}
	if active != nil {
		st.State = active.State()
		st.Sent, st.Total = active.Progress()
		return st
	}
	st.State = Idle
	if last != nil {
		st.Sent, st.Total = last.Progress()
	}
	return st
}

func (t *Transmitter) acquire(bits BitSequence, cancel *CancelToken) (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active != nil {
		t.logger.Debug("transmission rejected", "active_session", t.active.id)
		return nil, ErrSessionActive
	}

	s := newSession(t.nextID.Add(1), t, bits, cancel)
	s.state.Store(int32(Running))
	t.active = s
	return s, nil
}

func (t *Transmitter) release(s *Session) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == s {
		t.active = nil
	}
	t.last = s
}

// dispatchLoop applies queued states to the actuator in order, decoupled
// from the slot timing. Returns once the queue is closed and drained.
func (t *Transmitter) dispatchLoop(queue <-chan bool) {
	for on := range queue {
		t.setState(on)
	}
}

// setState changes the actuator state. Failures and panics are reported,
// never propagated.
func (t *Transmitter) setState(on bool) {
	err := t.callActuator(on)
	if err == nil {
		return
	}

	aerr := &ActuatorError{On: on, Err: err}
	t.logger.Warn("actuator state change failed", "on", on, "error", err)
	t.opts.onActuatorError(aerr)
}

func (t *Transmitter) callActuator(on bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("actuator panic: %v", r)
		}
	}()
	return t.actuator.SetState(on)
}
