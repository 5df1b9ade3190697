package hdlc

import "github.com/astar-gs/groundstation/internal/bitqueue"

// maxBufferLen is the denial-of-service guard against an endless,
// non-framed bit stream: once the buffer grows past this many bits
// without finding a closing flag, it is dropped wholesale.
const maxBufferLen = 4096

type deframerState int

const (
	searchingStart deframerState = iota
	searchingEnd
)

// ChunkSource supplies chunks of demodulated bits to a Deframer. NextChunk
// blocks until a chunk is ready and returns ok=false once the underlying
// bit stream is exhausted.
type ChunkSource interface {
	NextChunk() (chunk []bool, ok bool)
}

// ChunkSourceFunc adapts a plain function to a ChunkSource.
type ChunkSourceFunc func() ([]bool, bool)

// NextChunk implements ChunkSource.
func (f ChunkSourceFunc) NextChunk() ([]bool, bool) { return f() }

// Deframer is a stateful stream-to-frame iterator: it performs flag
// synchronization, bit destuffing, and CRC validation over an unbounded
// bit stream pulled from a ChunkSource. It is not safe for concurrent use.
type Deframer struct {
	source ChunkSource
	buf    *bitqueue.Queue
	cursor int
	state  deframerState

	// OnDrop, if set, is called once for each candidate frame that is
	// discarded instead of returned: "overflow" when the buffer cap is
	// hit before a closing flag is found, "crc" when a closing flag is
	// found but the drained bits fail CRC/length decoding.
	OnDrop func(reason string)
}

// New returns a Deframer that pulls bit chunks from source.
func New(source ChunkSource) *Deframer {
	return &Deframer{
		source: source,
		buf:    bitqueue.New(),
		state:  searchingStart,
	}
}

// Next scans the bit stream for the next valid frame, pulling more chunks
// from the source as needed. It returns ok=false once the source is
// exhausted with no further frame pending.
func (d *Deframer) Next() (Frame, bool) {
	for {
		for d.buf.Len()-d.cursor >= 8 {
			if d.buf.Len() > maxBufferLen {
				d.buf.Clear()
				d.cursor = 0
				d.state = searchingStart
				if d.OnDrop != nil {
					d.OnDrop("overflow")
				}
				continue
			}

			window := d.buf.SliceView(d.cursor, d.cursor+8)
			if equalBits(window, flagBits) {
				switch d.state {
				case searchingStart:
					d.cursor += 8
					d.state = searchingEnd
				case searchingEnd:
					drained := d.buf.DrainRange(0, d.cursor+8)
					d.cursor = 0
					d.state = searchingStart
					if frame, err := DecodeBits(drained); err == nil {
						return frame, true
					} else if d.OnDrop != nil {
						d.OnDrop("crc")
					}
				}
			} else {
				switch d.state {
				case searchingStart:
					d.buf.PopFront()
				case searchingEnd:
					d.cursor++
				}
			}
		}

		chunk, ok := d.source.NextChunk()
		if !ok {
			return Frame{}, false
		}
		for _, b := range chunk {
			d.buf.PushBack(b)
		}
	}
}
