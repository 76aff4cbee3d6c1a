package flashtx

import (
	"strings"

	"github.com/pkg/errors"
)

// Bit is one symbol of a transmission: Zero drives the light off, One drives it on.
type Bit uint8

const (
	Zero Bit = 0
	One  Bit = 1
)

// On reports whether the bit turns the actuator on.
func (b Bit) On() bool {
	return b == One
}

func (b Bit) String() string {
	if b == One {
		return "1"
	}
	return "0"
}

// BitSequence is a complete framed transmission: start marker, character
// frames, stop marker. It is treated as immutable once produced.
type BitSequence []Bit

// String renders the sequence as a string of '0' and '1'.
func (s BitSequence) String() string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, b := range s {
		if b == One {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Clone returns a private copy of the sequence.
func (s BitSequence) Clone() BitSequence {
	out := make(BitSequence, len(s))
	copy(out, s)
	return out
}

// Equal reports whether both sequences carry the same symbols.
func (s BitSequence) Equal(other BitSequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// ParseBits parses a string of '0' and '1' characters.
func ParseBits(raw string) (BitSequence, error) {
	out := make(BitSequence, 0, len(raw))
	for i, c := range raw {
		switch c {
		case '0':
			out = append(out, Zero)
		case '1':
			out = append(out, One)
		default:
			return nil, errors.Errorf("flashtx: invalid bit %q at offset %d", c, i)
		}
	}
	return out, nil
}
