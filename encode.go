package flashtx

import (
	"math/bits"
	"time"
	"unicode/utf16"
)

// Framing constants. Together with the slot duration they are the
// compatibility contract with any receiver watching the light.
const (
	// DataBits is the number of data bits per character, most significant first.
	DataBits = 8
	// FrameBits is the size of a character frame: data bits plus one parity bit.
	FrameBits = DataBits + 1
	// MarkerBits is the length of the start (all ones) and stop (all zeros) markers.
	MarkerBits = 12
	// DefaultSlotDuration is the time each bit is held on the actuator.
	DefaultSlotDuration = 100 * time.Millisecond
)

// trailer is appended to every message before framing.
const trailer = ' '

// CharacterFrame holds 8 data bits, MSB first, followed by the parity bit.
type CharacterFrame [FrameBits]Bit

// Data returns the 8-bit code carried by the frame.
func (cf CharacterFrame) Data() byte {
	var b byte
	for i := 0; i < DataBits; i++ {
		b = b<<1 | byte(cf[i])
	}
	return b
}

// Parity returns the frame's parity bit.
func (cf CharacterFrame) Parity() Bit {
	return cf[DataBits]
}

// Valid reports whether the parity bit matches the data bits.
func (cf CharacterFrame) Valid() bool {
	return Parity(cf.Data()) == cf.Parity()
}

// Parity returns the XOR of the 8 bits of b.
func Parity(b byte) Bit {
	return Bit(bits.OnesCount8(b) & 1)
}

// EncodeCharacter frames a single character. Only the low 8 bits of the
// code point are kept; legacy receivers expect the narrow encoding.
func EncodeCharacter(r rune) CharacterFrame {
	var cf CharacterFrame
	code := byte(r)
	for i := 0; i < DataBits; i++ {
		cf[i] = Bit(code >> (DataBits - 1 - i) & 1)
	}
	cf[DataBits] = Parity(code)
	return cf
}

// CharCount returns the number of characters Encode frames for message,
// excluding the trailing space. Characters are UTF-16 code units, as legacy
// senders count them: a character outside the Basic Multilingual Plane
// takes two frames.
func CharCount(message string) int {
	return len(chars(message))
}

// chars splits message into UTF-16 code units. Invalid UTF-8 becomes U+FFFD.
func chars(message string) []uint16 {
	return utf16.Encode([]rune(message))
}

// EncodedLen returns the length of the bit sequence for a message of n
// characters, as counted by CharCount.
func EncodedLen(n int) int {
	return 2*MarkerBits + FrameBits*(n+1)
}

// StartMarker returns the 12-bit all-ones start marker.
func StartMarker() BitSequence {
	return marker(One)
}

// StopMarker returns the 12-bit all-zeros stop marker.
func StopMarker() BitSequence {
	return marker(Zero)
}

func marker(b Bit) BitSequence {
	out := make(BitSequence, MarkerBits)
	for i := range out {
		out[i] = b
	}
	return out
}

// Encode frames message for transmission. A single space is appended to the
// message; no trimming is performed. Every character becomes a 9-bit frame
// and the body is wrapped in the start and stop markers.
//
// Returns ErrInvalidInput for an empty message.
func Encode(message string) (BitSequence, error) {
	if message == "" {
		return nil, ErrInvalidInput
	}

	units := append(chars(message), trailer)

	out := make(BitSequence, 0, EncodedLen(len(units)-1))
	out = append(out, StartMarker()...)
	for _, u := range units {
		cf := EncodeCharacter(rune(u))
		out = append(out, cf[:]...)
	}
	out = append(out, StopMarker()...)

	return out, nil
}
