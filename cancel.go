package flashtx

import "sync/atomic"

// CancelToken is a cancellation flag shared between the requester and a
// running transmission. It may be signaled from any goroutine; the
// transmitter only reads it at slot boundaries, so cancellation takes
// effect within one slot duration.
type CancelToken struct {
	signaled atomic.Bool
}

// NewCancelToken returns an unsignaled token.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Signal requests cancellation. Safe to call multiple times.
func (c *CancelToken) Signal() {
	c.signaled.Store(true)
}

// IsSignaled reports whether cancellation was requested.
func (c *CancelToken) IsSignaled() bool {
	return c.signaled.Load()
}
