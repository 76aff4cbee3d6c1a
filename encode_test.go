package flashtx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeReference recovers the character codes from a framed sequence.
// It exists only to check the encoder; flashtx does not receive.
func decodeReference(t *testing.T, bits BitSequence) []byte {
	t.Helper()

	require.GreaterOrEqual(t, len(bits), 2*MarkerBits)
	body := bits[MarkerBits : len(bits)-MarkerBits]
	require.Zero(t, len(body)%FrameBits, "body is not a whole number of frames")

	out := make([]byte, 0, len(body)/FrameBits)
	for i := 0; i < len(body); i += FrameBits {
		var cf CharacterFrame
		copy(cf[:], body[i:i+FrameBits])
		require.True(t, cf.Valid(), "parity mismatch in frame %d", i/FrameBits)
		out = append(out, cf.Data())
	}
	return out
}

func TestEncode_A(t *testing.T) {
	bits, err := Encode("A")
	require.NoError(t, err)

	want := "111111111111" + "010000010" + "001000001" + "000000000000"
	assert.Equal(t, want, bits.String())
}

func TestEncode_Empty(t *testing.T) {
	bits, err := Encode("")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, bits)
}

func TestEncode_SingleSpace(t *testing.T) {
	bits, err := Encode(" ")
	require.NoError(t, err)
	assert.Len(t, bits, EncodedLen(1))
	assert.Equal(t, []byte("  "), decodeReference(t, bits))
}

func TestEncode_Properties(t *testing.T) {
	messages := []string{
		"A",
		"hello world",
		"  padded  ",
		"SOS",
		"line\nbreak\ttab",
		strings.Repeat("x", 300),
		"café",
		"\x00\xff",
		"日本",
		"€",
		"smile 😀",
	}

	for _, msg := range messages {
		t.Run(msg, func(t *testing.T) {
			assert := assert.New(t)

			bits, err := Encode(msg)
			require.NoError(t, err)

			n := CharCount(msg)
			assert.Len(bits, 24+9*(n+1))
			assert.Equal(EncodedLen(n), len(bits))

			assert.True(StartMarker().Equal(bits[:MarkerBits]), "start marker")
			assert.True(StopMarker().Equal(bits[len(bits)-MarkerBits:]), "stop marker")

			body := bits[MarkerBits : len(bits)-MarkerBits]
			for i := 0; i < len(body); i += FrameBits {
				var parity Bit
				for _, b := range body[i : i+DataBits] {
					parity ^= b
				}
				assert.Equal(parity, body[i+DataBits], "frame %d", i/FrameBits)
			}

			again, err := Encode(msg)
			require.NoError(t, err)
			assert.True(bits.Equal(again), "encode is not deterministic")
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	for _, msg := range []string{"A", "Hello, World!", "the quick brown fox", "~}|{", "0123456789"} {
		bits, err := Encode(msg)
		require.NoError(t, err)
		assert.Equal(t, msg+" ", string(decodeReference(t, bits)))
	}
}

func TestEncode_Truncation(t *testing.T) {
	assert := assert.New(t)

	// only the low 8 bits of a code point are sent
	cases := map[rune]byte{
		'é':    0xE9,
		'Ā':    0x00,
		'€':    0xAC,
		'日':    0xE5,
		0x1F60: 0x60,
	}
	for r, want := range cases {
		cf := EncodeCharacter(r)
		assert.Equal(want, cf.Data(), "rune %U", r)
		assert.True(cf.Valid())
	}

	bits, err := Encode("€")
	require.NoError(t, err)
	assert.Equal([]byte{0xAC, ' '}, decodeReference(t, bits))
}

func TestEncode_SurrogatePairs(t *testing.T) {
	assert := assert.New(t)

	// U+1F600 is sent as its UTF-16 surrogates D83D DE00
	bits, err := Encode("😀")
	require.NoError(t, err)
	assert.Equal(2, CharCount("😀"))
	assert.Len(bits, EncodedLen(2))
	assert.Equal([]byte{0x3D, 0x00, ' '}, decodeReference(t, bits))

	assert.Equal(3, CharCount("a😀"))
	assert.Equal(2, CharCount("日本"))
}

func TestEncode_InvalidUTF8(t *testing.T) {
	bits, err := Encode("\xff\xfe")
	require.NoError(t, err)
	// each invalid byte decodes to U+FFFD
	assert.Equal(t, []byte{0xFD, 0xFD, ' '}, decodeReference(t, bits))
}

func TestParity(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Zero, Parity(0x00))
	assert.Equal(One, Parity(0x01))
	assert.Equal(Zero, Parity('A'))
	assert.Equal(One, Parity(' '))
	assert.Equal(Zero, Parity(0xFF))
	assert.Equal(One, Parity(0x7F))
}

func TestEncodeCharacter(t *testing.T) {
	assert := assert.New(t)

	cf := EncodeCharacter('A')
	assert.Equal(CharacterFrame{0, 1, 0, 0, 0, 0, 0, 1, 0}, cf)
	assert.Equal(byte('A'), cf.Data())
	assert.Equal(Zero, cf.Parity())

	cf = EncodeCharacter('C')
	assert.Equal(CharacterFrame{0, 1, 0, 0, 0, 0, 1, 1, 1}, cf)
	assert.True(cf.Valid())

	cf[DataBits] = Zero
	assert.False(cf.Valid())
}

func TestMarkers(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("111111111111", StartMarker().String())
	assert.Equal("000000000000", StopMarker().String())

	// markers are fresh copies
	m := StartMarker()
	m[0] = Zero
	assert.Equal(One, StartMarker()[0])
}

func FuzzEncode(f *testing.F) {
	f.Add("A")
	f.Add("hello world")
	f.Add("\x00")
	f.Add("日本語")

	f.Fuzz(func(t *testing.T, msg string) {
		assert := assert.New(t)

		bits, err := Encode(msg)
		if msg == "" {
			assert.ErrorIs(err, ErrInvalidInput)
			return
		}
		assert.NoError(err)
		assert.Len(bits, EncodedLen(CharCount(msg)))

		body := bits[MarkerBits : len(bits)-MarkerBits]
		for i := 0; i < len(body); i += FrameBits {
			var cf CharacterFrame
			copy(cf[:], body[i:i+FrameBits])
			assert.True(cf.Valid())
		}
	})
}
