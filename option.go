package flashtx

import (
	"time"
)

// options holds the configuration for a transmitter.
type options struct {
	clock  Clock
	logger Logger

	// onActuatorError is called from the dispatch goroutine after a failed state change.
	onActuatorError func(*ActuatorError)
	// onSlot is called from the slot loop before each bit is dispatched.
	onSlot func(index int, bit Bit)
	// onFinish is called once per session after it reaches a terminal state.
	onFinish func(*Session)

	slotDuration time.Duration // time each bit is held
	bufferSize   int           // depth of the actuator dispatch queue
}

// Default configuration values.
const (
	// defaultBufferSize bounds how far the slot loop may run ahead of the actuator.
	defaultBufferSize = 16
)

// Option is a function that configures transmitter options.
type Option func(*options)

// SlotDurationOption sets how long each bit is held on the actuator.
// Receivers expect DefaultSlotDuration; change it only for matched equipment.
func SlotDurationOption(d time.Duration) Option {
	return func(o *options) {
		o.slotDuration = d
	}
}

// ClockOption replaces the wall clock used between slots.
func ClockOption(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// BufferSizeOption sets the depth of the queue between the slot loop and
// the actuator. The slot loop blocks only when the actuator falls this many
// state changes behind.
func BufferSizeOption(size int) Option {
	return func(o *options) {
		o.bufferSize = size
	}
}

// OnActuatorErrorOption sets a callback for failed state changes.
// Failures never stop a transmission; use this to warn the user.
func OnActuatorErrorOption(cb func(*ActuatorError)) Option {
	return func(o *options) {
		o.onActuatorError = cb
	}
}

// OnSlotOption sets a callback invoked once per bit, in order, just before
// the bit is handed to the actuator.
func OnSlotOption(cb func(index int, bit Bit)) Option {
	return func(o *options) {
		o.onSlot = cb
	}
}

// OnFinishOption sets a callback invoked once a session has ended and the
// actuator is off. The session's State, Err and Progress are final. The
// transmitter accepts no new session until the callback returns.
func OnFinishOption(cb func(*Session)) Option {
	return func(o *options) {
		o.onFinish = cb
	}
}

// LoggerOption sets the logger. Defaults to slog.Default().
func LoggerOption(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// checkOptions sets default values for unset options.
func checkOptions(opts *options) {
	if opts.slotDuration <= 0 {
		opts.slotDuration = DefaultSlotDuration
	}

	if opts.bufferSize <= 0 {
		opts.bufferSize = defaultBufferSize
	}

	if opts.clock == nil {
		opts.clock = RealClock{}
	}

	if opts.onActuatorError == nil {
		opts.onActuatorError = func(*ActuatorError) {}
	}

	if opts.onSlot == nil {
		opts.onSlot = func(int, Bit) {}
	}

	if opts.onFinish == nil {
		opts.onFinish = func(*Session) {}
	}

	if opts.logger == nil {
		opts.logger = defaultLogger()
	}
}
