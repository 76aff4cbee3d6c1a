package control

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/pkg/errors"

	"github.com/Zereker/flashtx"
)

// ErrUnknownCommand is replied for an unrecognised verb.
var ErrUnknownCommand = errors.New("unknown command")

// Controller serves control requests against one transmitter.
type Controller struct {
	tx       *flashtx.Transmitter
	logger   Logger
	connOpts []Option
}

// NewController returns a controller for tx. opts apply to every client
// connection; OnRequestOption is set by the controller.
func NewController(tx *flashtx.Transmitter, logger Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{tx: tx, logger: logger, connOpts: opts}
}

// Handle serves one client. Transmissions it starts are bound to ctx, the
// server's context, so they outlive the client that requested them.
func (c *Controller) Handle(ctx context.Context, raw net.Conn) {
	opts := append([]Option{LoggerOption(c.logger)}, c.connOpts...)
	opts = append(opts, OnRequestOption(func(req Request) Response {
		return c.Serve(ctx, req)
	}))

	conn, err := NewConn(raw, opts...)
	if err != nil {
		c.logger.Error("control client rejected", "error", err)
		raw.Close()
		return
	}

	_ = conn.Run(ctx)
}

// Serve executes a single request.
func (c *Controller) Serve(ctx context.Context, req Request) Response {
	switch req.Verb {
	case VerbSend:
		return c.start(ctx, req.Text, c.tx.Start)
	case VerbReplace:
		return c.start(ctx, req.Text, c.tx.Replace)
	case VerbStop:
		if err := c.tx.Stop(); err != nil {
			return Fail(err)
		}
		return OK("")
	case VerbStatus:
		return status(c.tx.Status())
	case VerbEncode:
		bits, err := encode(req.Text)
		if err != nil {
			return Fail(err)
		}
		return Response{Status: StatusBits, Detail: bits.String()}
	default:
		return Fail(errors.Wrap(ErrUnknownCommand, string(req.Verb)))
	}
}

func (c *Controller) start(ctx context.Context, text string,
	run func(context.Context, flashtx.BitSequence) (*flashtx.Session, error)) Response {
	bits, err := encode(text)
	if err != nil {
		return Fail(err)
	}

	s, err := run(ctx, bits)
	if err != nil {
		return Fail(err)
	}
	return OK(fmt.Sprintf("%d %d", s.ID(), len(bits)))
}

// encode rejects blank messages before they reach the encoder; the text
// itself is sent untrimmed.
func encode(text string) (flashtx.BitSequence, error) {
	if strings.TrimSpace(text) == "" {
		return nil, flashtx.ErrInvalidInput
	}
	return flashtx.Encode(text)
}

func status(st flashtx.Status) Response {
	return Response{
		Status: StatusState,
		Detail: fmt.Sprintf("%s %d/%d %s", st.State, st.Sent, st.Total, st.Last),
	}
}
