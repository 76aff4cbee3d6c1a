package flashtx

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// State is the lifecycle position of a session:
// Idle → Running → {Completed | Cancelled | Interrupted}.
// The terminal states double as the transmission outcome.
type State int32

const (
	Idle State = iota
	Running
	Completed
	Cancelled
	Interrupted
)

// Outcome is the terminal state a transmission ended in.
type Outcome = State

var stateNames = [...]string{
	Idle:        "idle",
	Running:     "running",
	Completed:   "completed",
	Cancelled:   "cancelled",
	Interrupted: "interrupted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s >= Completed
}

// Session is one transmission of a bit sequence on a transmitter's actuator.
// A session runs once; retransmitting needs a new session.
type Session struct {
	id     uint64
	t      *Transmitter
	bits   BitSequence
	cancel *CancelToken

	state atomic.Int32
	sent  atomic.Int64
	err   error // set before the terminal state is stored
	done  chan struct{}
}

func newSession(id uint64, t *Transmitter, bits BitSequence, cancel *CancelToken) *Session {
	if cancel == nil {
		cancel = NewCancelToken()
	}
	return &Session{
		id:     id,
		t:      t,
		bits:   bits.Clone(),
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// ID returns the session number, unique per transmitter.
func (s *Session) ID() uint64 {
	return s.id
}

// Cancel asks the session to stop at the next slot boundary.
func (s *Session) Cancel() {
	s.cancel.Signal()
}

// Done is closed once the session reached a terminal state and the
// actuator was switched off.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the session ends and returns its outcome.
func (s *Session) Wait() Outcome {
	<-s.done
	return s.State()
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return State(s.state.Load())
}

// Err returns the cause of an Interrupted outcome, nil otherwise.
// Only meaningful once the session is terminal.
func (s *Session) Err() error {
	if !s.State().Terminal() {
		return nil
	}
	return s.err
}

// Progress returns the number of bits fully held and the sequence length.
func (s *Session) Progress() (sent, total int) {
	return int(s.sent.Load()), len(s.bits)
}

// run drives the session to a terminal state. The actuator is off when run
// returns, whatever the outcome.
func (s *Session) run(ctx context.Context) Outcome {
	s.t.logger.Info("transmission started",
		"session", s.id,
		"bits", len(s.bits),
		"slot", s.t.opts.slotDuration)

	outcome, err := Interrupted, error(nil)
	defer func() { s.finish(outcome, err) }()
	defer s.t.setState(false)

	queue := make(chan bool, s.t.opts.bufferSize)

	// The dispatcher drains every queued state even after the slot loop
	// fails, so it runs outside the group's context.
	var group errgroup.Group

	group.Go(func() error {
		defer close(queue)
		var loopErr error
		outcome, loopErr = s.slotLoop(ctx, queue)
		return loopErr
	})

	group.Go(func() error {
		s.t.dispatchLoop(queue)
		return nil
	})

	err = group.Wait()

	return outcome
}

// slotLoop walks the bits in order, one per slot. The cancel token is read
// only here, at slot boundaries; the clock is the only blocking point.
func (s *Session) slotLoop(ctx context.Context, queue chan<- bool) (Outcome, error) {
	for i, bit := range s.bits {
		if s.cancel.IsSignaled() {
			return Cancelled, nil
		}
		if err := ctx.Err(); err != nil {
			return Interrupted, err
		}

		s.t.opts.onSlot(i, bit)

		select {
		case queue <- bit.On():
		case <-ctx.Done():
			return Interrupted, ctx.Err()
		}

		if err := s.t.opts.clock.Sleep(ctx, s.t.opts.slotDuration); err != nil {
			return Interrupted, errors.Wrapf(err, "flashtx: slot %d", i)
		}

		s.sent.Store(int64(i + 1))
	}

	return Completed, nil
}

func (s *Session) finish(outcome Outcome, err error) {
	s.err = err
	s.state.Store(int32(outcome))
	s.t.opts.onFinish(s)
	s.t.release(s)
	close(s.done)

	sent, total := s.Progress()
	if err != nil {
		s.t.logger.Warn("transmission interrupted",
			"session", s.id, "sent", sent, "total", total, "error", err)
		return
	}
	s.t.logger.Info("transmission finished",
		"session", s.id, "outcome", outcome.String(), "sent", sent, "total", total)
}
