package hdlc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeEmptyPayload(t *testing.T) {
	got := Encode(nil)
	assert.Equal(t, []byte{0x7E, 0x00, 0x00, 0x7E}, got)
}

func TestEncodeHolaFrank(t *testing.T) {
	got := Encode([]byte("HOLA FRANK"))
	want := []byte{0x7E, 0x12, 0xF2, 0x32, 0x82, 0x04, 0x62, 0x4A, 0x82, 0x72, 0xD2, 0x09, 0x43, 0x7E}
	assert.Equal(t, want, got)
}

func TestBitStuffExamples(t *testing.T) {
	assert.Equal(t, []bool{true, true, true, true, true, false},
		stuffBits([]bool{true, true, true, true, true}))
	assert.Equal(t,
		[]bool{true, true, true, true, true, false, false, true, true, false},
		stuffBits([]bool{true, true, true, true, true, false, true, true, false}))
}

func TestDestuffIsStuffInverse(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 256).Draw(rt, "n")
		bits := make([]bool, n)
		for i := range bits {
			bits[i] = rapid.Bool().Draw(rt, "bit")
		}
		assert.Equal(rt, bits, destuffBits(stuffBits(bits)))
	})
}

func TestFrameRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 1024).Draw(rt, "n")
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(rapid.IntRange(0, 255).Draw(rt, "b"))
		}
		bits := EncodeBits(payload)
		frame, err := DecodeBits(bits)
		require.NoError(rt, err)
		assert.Equal(rt, payload, frame.Payload)
	})
}

func TestDecodeInvalidFrameSize(t *testing.T) {
	_, err := DecodeBits(packLSBFirst([]byte{Flag, Flag}))
	assert.ErrorIs(t, err, ErrInvalidFrameSize)
}

func TestDecodeFcsMismatch(t *testing.T) {
	bits := EncodeBits([]byte("hello"))
	// Flip a payload bit without recomputing the FCS.
	bits[9] = !bits[9]
	_, err := DecodeBits(bits)
	assert.ErrorIs(t, err, ErrFcsMismatch)
}
