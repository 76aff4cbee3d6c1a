package control

import (
	"time"

	"github.com/Zereker/flashtx"
)

// Logger is the structured logger shared with the transmitter.
type Logger = flashtx.Logger

// ErrorAction defines the action to take when a connection error occurs.
type ErrorAction int

const (
	// Disconnect closes the connection when an error occurs.
	Disconnect ErrorAction = iota
	// Continue suppresses the error and keeps reading requests.
	Continue
)

// options holds the configuration for a control connection.
type options struct {
	codec  Codec
	logger Logger

	onRequest func(Request) Response
	// onError is called when a read or write fails.
	// Returns Disconnect to close the connection, Continue to suppress the error.
	onError func(error) ErrorAction

	bufferSize  int           // size of the reply queue
	maxLine     int           // maximum size of a single request line
	idleTimeout time.Duration // read/write deadline
}

// Option is a function that configures connection options.
type Option func(*options)

// CustomCodecOption sets the request/response codec. Defaults to LineCodec.
func CustomCodecOption(codec Codec) Option {
	return func(o *options) {
		o.codec = codec
	}
}

// BufferSizeOption sets how many replies may be queued before writers block.
func BufferSizeOption(size int) Option {
	return func(o *options) {
		o.bufferSize = size
	}
}

// IdleTimeoutOption sets how long a connection may stay silent before it is closed.
func IdleTimeoutOption(d time.Duration) Option {
	return func(o *options) {
		o.idleTimeout = d
	}
}

// MaxLineOption sets the maximum request size. Longer requests fail with
// ErrMessageTooLarge.
func MaxLineOption(size int) Option {
	return func(o *options) {
		o.maxLine = size
	}
}

// OnErrorOption sets the error callback.
// Return Disconnect to close the connection, or Continue to suppress the error.
func OnErrorOption(cb func(error) ErrorAction) Option {
	return func(o *options) {
		o.onError = cb
	}
}

// OnRequestOption sets the request handler. Required; the returned
// response is queued for the client in request order.
func OnRequestOption(cb func(Request) Response) Option {
	return func(o *options) {
		o.onRequest = cb
	}
}

// LoggerOption sets the logger. Defaults to slog.Default().
func LoggerOption(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
