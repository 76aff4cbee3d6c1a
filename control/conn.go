package control

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Errors returned by connection operations.
var (
	// ErrInvalidOnRequest is returned when no request handler is provided.
	ErrInvalidOnRequest = errors.New("invalid on request callback")
	// ErrMessageTooLarge is returned when a request exceeds the maximum line size.
	ErrMessageTooLarge = errors.New("request too large")
	// ErrConnectionClosed is returned when operating on a closed connection.
	ErrConnectionClosed = errors.New("connection closed")
	// ErrBufferFull is returned when the reply queue cannot take another response.
	ErrBufferFull = errors.New("send buffer full")
)

// Default configuration values.
const (
	defaultBufferSize  = 8
	defaultMaxLine     = 4096
	defaultIdleTimeout = 5 * time.Minute
)

// limitedReader fails with ErrMessageTooLarge once a request exceeds its limit.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func newLimitedReader(r io.Reader, limit int64) *limitedReader {
	return &limitedReader{r: r, remaining: limit}
}

func (l *limitedReader) Read(p []byte) (n int, err error) {
	if l.remaining <= 0 {
		return 0, ErrMessageTooLarge
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err = l.r.Read(p)
	l.remaining -= int64(n)
	return
}

// reset restores the limit before each request. The buffered reader
// underneath keeps its position.
func (l *limitedReader) reset(limit int64) {
	l.remaining = limit
}

// Conn is one control client. Requests are handled in arrival order and
// their replies written in the same order.
type Conn struct {
	rawConn       net.Conn
	limitedReader *limitedReader
	logger        Logger

	opts options

	sendMsg chan []byte
	closed  atomic.Bool
	cancel  context.CancelFunc
}

// NewConn wraps a client connection. Returns ErrInvalidOnRequest if no
// request handler is configured.
func NewConn(conn net.Conn, opt ...Option) (*Conn, error) {
	var opts options
	for _, o := range opt {
		o(&opts)
	}

	if err := checkOptions(&opts); err != nil {
		return nil, err
	}

	reader := bufio.NewReaderSize(conn, opts.maxLine)
	return &Conn{
		rawConn:       conn,
		limitedReader: newLimitedReader(reader, int64(opts.maxLine)),
		logger:        opts.logger,
		opts:          opts,
		sendMsg:       make(chan []byte, opts.bufferSize),
	}, nil
}

// checkOptions validates and sets default values for connection options.
func checkOptions(opts *options) error {
	if opts.onRequest == nil {
		return ErrInvalidOnRequest
	}

	if opts.codec == nil {
		opts.codec = LineCodec{}
	}

	if opts.bufferSize <= 0 {
		opts.bufferSize = defaultBufferSize
	}

	if opts.maxLine <= 0 {
		opts.maxLine = defaultMaxLine
	}

	if opts.idleTimeout <= 0 {
		opts.idleTimeout = defaultIdleTimeout
	}

	if opts.onError == nil {
		opts.onError = func(error) ErrorAction { return Disconnect }
	}

	if opts.logger == nil {
		opts.logger = slog.Default()
	}

	return nil
}

// Run serves the client until it disconnects, an error ends the
// connection or ctx is canceled. The connection is closed when Run returns.
func (c *Conn) Run(ctx context.Context) error {
	c.logger.Info("control client connected", "addr", c.Addr())

	ctx, c.cancel = context.WithCancel(ctx)
	group, child := errgroup.WithContext(ctx)

	group.Go(func() error {
		return c.readLoop(child)
	})

	group.Go(func() error {
		return c.writeLoop(child)
	})

	// unblock a pending read once the connection is done
	group.Go(func() error {
		<-child.Done()
		_ = c.rawConn.SetReadDeadline(time.Now())
		return nil
	})

	err := group.Wait()
	c.closeConn()

	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		c.logger.Info("control client closed with error", "addr", c.Addr(), "error", err)
	} else {
		c.logger.Info("control client closed", "addr", c.Addr())
	}

	return err
}

// Close closes the connection. Safe to call multiple times.
func (c *Conn) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	return c.rawConn.Close()
}

// IsClosed returns true if the connection has been closed.
func (c *Conn) IsClosed() bool {
	return c.closed.Load()
}

// Write queues a response without blocking. Returns ErrBufferFull if the
// reply queue is full.
func (c *Conn) Write(resp Response) error {
	if c.closed.Load() {
		return ErrConnectionClosed
	}

	data, err := c.opts.codec.Encode(resp)
	if err != nil {
		return err
	}

	select {
	case c.sendMsg <- data:
		return nil
	default:
		return ErrBufferFull
	}
}

// WriteBlocking queues a response, waiting for room until ctx is done.
func (c *Conn) WriteBlocking(ctx context.Context, resp Response) error {
	if c.closed.Load() {
		return ErrConnectionClosed
	}

	data, err := c.opts.codec.Encode(resp)
	if err != nil {
		return err
	}

	select {
	case c.sendMsg <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Addr returns the remote address of the connection.
func (c *Conn) Addr() net.Addr {
	return c.rawConn.RemoteAddr()
}

// readLoop decodes requests and queues the handler's reply for each.
func (c *Conn) readLoop(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		_ = c.rawConn.SetReadDeadline(time.Now().Add(c.opts.idleTimeout))
		c.limitedReader.reset(int64(c.opts.maxLine))

		req, err := c.opts.codec.Decode(c.limitedReader)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, ErrEmptyLine) {
				continue
			}
			c.logger.Debug("read error", "addr", c.Addr(), "error", err)
			if errors.Is(err, io.EOF) || c.opts.onError(err) == Disconnect {
				return err
			}
			if errors.Is(err, ErrMessageTooLarge) {
				c.discardLine()
				if werr := c.WriteBlocking(ctx, Fail(err)); werr != nil {
					return werr
				}
			}
			continue
		}

		c.logger.Debug("control request", "addr", c.Addr(), "verb", string(req.Verb))
		if err := c.WriteBlocking(ctx, c.opts.onRequest(req)); err != nil {
			return err
		}
	}
}

// discardLine skips the rest of an oversized request.
func (c *Conn) discardLine() {
	var one [1]byte
	for {
		c.limitedReader.reset(1)
		n, err := c.limitedReader.Read(one[:])
		if err != nil || (n == 1 && one[0] == '\n') {
			return
		}
	}
}

// writeLoop sends queued replies in order.
func (c *Conn) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case data := <-c.sendMsg:
			if err := c.write(data); err != nil {
				return err
			}
		}
	}
}

func (c *Conn) write(data []byte) error {
	_ = c.rawConn.SetWriteDeadline(time.Now().Add(c.opts.idleTimeout))

	_, err := c.rawConn.Write(data)
	if err != nil {
		c.logger.Debug("write error", "addr", c.Addr(), "error", err)
		if c.opts.onError(err) == Disconnect {
			return err
		}
	}

	return nil
}

func (c *Conn) closeConn() {
	c.closed.Store(true)
	c.rawConn.Close()
}
