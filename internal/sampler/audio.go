package sampler

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// AudioSource captures mono float32 samples from the default input device
// in fixed-size buffers and runs each buffer through a Demodulator to
// produce a bit chunk. Opening it calls portaudio.Initialize; Close calls
// portaudio.Terminate, matching the library's process-wide init/teardown
// contract.
type AudioSource struct {
	stream      *portaudio.Stream
	buf         []float32
	demodulator Demodulator
}

// OpenAudioSource opens the default input device at sampleRate, reading
// framesPerBuffer samples at a time.
func OpenAudioSource(sampleRate float64, framesPerBuffer int, demodulator Demodulator) (*AudioSource, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("sampler: portaudio init: %w", err)
	}

	buf := make([]float32, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, framesPerBuffer, buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("sampler: open default stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("sampler: start stream: %w", err)
	}

	return &AudioSource{stream: stream, buf: buf, demodulator: demodulator}, nil
}

// NextChunk implements Source: it blocks for one buffer's worth of audio
// and returns the bits the Demodulator recovered from it. It returns
// ok=false whenever a read from the stream fails, including after the
// stream has been closed.
func (a *AudioSource) NextChunk() (chunk []bool, ok bool) {
	if err := a.stream.Read(); err != nil {
		return nil, false
	}
	return a.demodulator.Demodulate(a.buf), true
}

// Close stops the stream and tears down the portaudio runtime.
func (a *AudioSource) Close() error {
	a.stream.Stop()
	err := a.stream.Close()
	portaudio.Terminate()
	return err
}

var _ Source = (*AudioSource)(nil)
