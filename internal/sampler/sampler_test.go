package sampler

import (
	"testing"

	"github.com/astar-gs/groundstation/internal/hdlc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemodulatorFuncAdapts(t *testing.T) {
	var d Demodulator = DemodulatorFunc(func(samples []float32) []bool {
		bits := make([]bool, len(samples))
		for i, s := range samples {
			bits[i] = s > 0
		}
		return bits
	})
	got := d.Demodulate([]float32{1, -1, 0.5})
	assert.Equal(t, []bool{true, false, true}, got)
}

func TestNullDemodulatorYieldsNoBits(t *testing.T) {
	var d Demodulator = NullDemodulator{}
	assert.Nil(t, d.Demodulate([]float32{1, 2, 3}))
}

func TestClosedSourceIsImmediatelyExhausted(t *testing.T) {
	var s Source = &ClosedSource{}
	chunk, ok := s.NextChunk()
	assert.False(t, ok)
	assert.Nil(t, chunk)
}

// chunkSource is a minimal Source used to prove a Source satisfies
// hdlc.ChunkSource without adaptation.
type chunkSource struct {
	chunks [][]bool
	i      int
}

func (c *chunkSource) NextChunk() ([]bool, bool) {
	if c.i >= len(c.chunks) {
		return nil, false
	}
	chunk := c.chunks[c.i]
	c.i++
	return chunk, true
}

func TestSourceSatisfiesChunkSource(t *testing.T) {
	payload := []byte("hi")
	bits := hdlc.EncodeBits(payload)
	src := &chunkSource{chunks: [][]bool{bits}}

	d := hdlc.New(src)
	frame, ok := d.Next()
	require.True(t, ok)
	assert.Equal(t, payload, frame.Payload)
}
