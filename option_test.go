package flashtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlotDurationOption(t *testing.T) {
	var opts options
	SlotDurationOption(50 * time.Millisecond)(&opts)

	assert.Equal(t, 50*time.Millisecond, opts.slotDuration)
}

func TestClockOption(t *testing.T) {
	clock := &fakeClock{}

	var opts options
	ClockOption(clock)(&opts)

	assert.Same(t, clock, opts.clock)
}

func TestBufferSizeOption(t *testing.T) {
	var opts options
	BufferSizeOption(100)(&opts)

	assert.Equal(t, 100, opts.bufferSize)
}

func TestOnActuatorErrorOption(t *testing.T) {
	called := false

	var opts options
	OnActuatorErrorOption(func(*ActuatorError) { called = true })(&opts)

	if assert.NotNil(t, opts.onActuatorError) {
		opts.onActuatorError(&ActuatorError{})
	}
	assert.True(t, called)
}

func TestOnFinishOption(t *testing.T) {
	var got *Session

	var opts options
	OnFinishOption(func(s *Session) { got = s })(&opts)

	s := &Session{}
	if assert.NotNil(t, opts.onFinish) {
		opts.onFinish(s)
	}
	assert.Same(t, s, got)
}

func TestLoggerOption(t *testing.T) {
	logger := &mockLogger{}

	var opts options
	LoggerOption(logger)(&opts)

	assert.Same(t, logger, opts.logger)
}

func TestCheckOptions_DefaultValues(t *testing.T) {
	assert := assert.New(t)

	var opts options
	checkOptions(&opts)

	assert.Equal(DefaultSlotDuration, opts.slotDuration)
	assert.Equal(defaultBufferSize, opts.bufferSize)
	assert.Equal(RealClock{}, opts.clock)
	assert.NotNil(opts.onActuatorError)
	assert.NotNil(opts.onSlot)
	assert.NotNil(opts.onFinish)
	assert.Equal(defaultLogger(), opts.logger)
}

func TestCheckOptions_KeepsValues(t *testing.T) {
	assert := assert.New(t)

	clock := &fakeClock{}
	opts := options{slotDuration: time.Second, bufferSize: 3, clock: clock}
	checkOptions(&opts)

	assert.Equal(time.Second, opts.slotDuration)
	assert.Equal(3, opts.bufferSize)
	assert.Same(clock, opts.clock)
}
