package meca

import (
	"bytes"
	"errors"
)

// FrameTerminator delimits frames on both sockets.
const FrameTerminator byte = 0x00

// MaxFrameSize bounds the partial-frame buffer. A stream that accumulates
// more than MaxFrameSize bytes without a terminator is out of sync.
const MaxFrameSize = 64 * 1024

// Framer reassembles frames from a byte stream delivered in arbitrary chunks.
//
// Bytes are appended with Feed; DecodeReady splits the buffered bytes on the
// NUL terminator and decodes every complete frame, leftmost first. A trailing
// incomplete frame stays buffered until a later Feed completes it.
//
// Framer is not goroutine-safe.
type Framer struct {
	buf []byte
}

// NewFramer creates an empty Framer.
func NewFramer() *Framer {
	return &Framer{buf: make([]byte, 0, 4096)}
}

// Feed appends raw bytes to the partial-frame buffer.
func (f *Framer) Feed(p []byte) {
	f.buf = append(f.buf, p...)
}

// Buffered returns the number of bytes waiting for a terminator.
func (f *Framer) Buffered() int {
	return len(f.buf)
}

// Reset discards any buffered bytes.
func (f *Framer) Reset() {
	f.buf = f.buf[:0]
}

// DecodeReady decodes every complete frame in the buffer, in arrival order.
//
// A malformed frame is consumed and reported as a *FrameError; decoding
// continues with the next frame, so the events of well-formed frames are
// returned together with the error. Empty frames (consecutive terminators)
// are skipped.
func (f *Framer) DecodeReady() ([]Event, error) {
	var (
		events []Event
		errs   []error
		start  int
	)

	for {
		idx := bytes.IndexByte(f.buf[start:], FrameTerminator)
		if idx == -1 {
			break
		}

		frame := f.buf[start : start+idx]
		start += idx + 1

		if len(frame) == 0 {
			continue
		}

		ev, err := DecodeFrame(frame)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events = append(events, ev)
	}

	// keep the trailing partial frame at the front of the buffer
	n := copy(f.buf, f.buf[start:])
	f.buf = f.buf[:n]

	if len(f.buf) > MaxFrameSize {
		errs = append(errs, &FrameError{
			Frame:  string(f.buf[:32]),
			Reason: "frame exceeds maximum size without terminator",
		})
		f.Reset()
	}

	return events, errors.Join(errs...)
}
