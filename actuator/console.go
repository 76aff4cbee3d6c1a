package actuator

import (
	"io"
	"sync"

	"github.com/pkg/errors"
)

// Console renders the light on a terminal: '#' for on, '.' for off,
// one character per state change.
type Console struct {
	mu  sync.Mutex
	out io.Writer
	n   int
	// Width wraps the output after this many characters; 0 disables wrapping.
	Width int
}

// NewConsole returns a console light writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out, Width: 72}
}

func (c *Console) SetState(on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sym := []byte{'.'}
	if on {
		sym[0] = '#'
	}
	if c.Width > 0 && c.n > 0 && c.n%c.Width == 0 {
		sym = append([]byte{'\n'}, sym...)
	}
	c.n++

	if _, err := c.out.Write(sym); err != nil {
		return errors.Wrap(err, "console")
	}
	return nil
}

// Close ends the rendered line.
func (c *Console) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.n == 0 {
		return nil
	}
	c.n = 0
	_, err := c.out.Write([]byte{'\n'})
	return err
}
