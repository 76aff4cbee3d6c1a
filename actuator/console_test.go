package actuator

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed pipe")
}

func TestConsole_SetState(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	c := NewConsole(&buf)

	assert.NoError(c.SetState(true))
	assert.NoError(c.SetState(false))
	assert.NoError(c.SetState(true))
	assert.NoError(c.Close())

	assert.Equal("#.#\n", buf.String())
}

func TestConsole_Wrap(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Width = 2

	for _, on := range []bool{true, true, false, false, true} {
		assert.NoError(c.SetState(on))
	}

	assert.Equal("##\n..\n#", buf.String())
}

func TestConsole_CloseEmpty(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	assert.NoError(t, c.Close())
	assert.Empty(t, buf.String())
}

func TestConsole_WriteError(t *testing.T) {
	c := NewConsole(failWriter{})

	err := c.SetState(true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "closed pipe")
}
