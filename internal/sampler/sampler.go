// Package sampler pulls batches of samples for a pass's bit→frame task.
// Demodulation itself is an external collaborator — this package's job is
// only to bridge a blocking hardware sample source into the chunked bit
// iterator the HDLC deframer consumes.
package sampler

// Source yields batches of demodulated bits, matching hdlc.ChunkSource's
// shape so a Source can be handed directly to hdlc.New. ok is false once
// the underlying device or process is exhausted.
type Source interface {
	NextChunk() (chunk []bool, ok bool)
}

// Demodulator converts a batch of raw audio samples into demodulated
// bits. It is an external collaborator: this package treats it as an
// injected narrow function, not an algorithm it implements.
type Demodulator interface {
	Demodulate(samples []float32) []bool
}

// DemodulatorFunc adapts a plain function to a Demodulator.
type DemodulatorFunc func(samples []float32) []bool

// Demodulate implements Demodulator.
func (f DemodulatorFunc) Demodulate(samples []float32) []bool { return f(samples) }

// NullDemodulator is a Demodulator placeholder for stations that have not
// wired in a real RF demodulator: every buffer decodes to no bits, so the
// bit→frame pipeline runs to completion without ever synthesizing frames
// out of unprocessed audio.
type NullDemodulator struct{}

// Demodulate implements Demodulator.
func (NullDemodulator) Demodulate([]float32) []bool { return nil }

var _ Demodulator = NullDemodulator{}

// ClosedSource is a Source for stations without audio input wired: it is
// exhausted immediately, so the bit→frame task exits at once instead of
// spinning on hardware that was never opened.
type ClosedSource struct{}

// NextChunk implements Source.
func (*ClosedSource) NextChunk() (chunk []bool, ok bool) { return nil, false }

var _ Source = (*ClosedSource)(nil)
