package meca

import (
	"errors"
	"fmt"
	"io"
)

// readBufferSize is the size of one socket read.
const readBufferSize = 4096

// Source is a readable byte stream with an explicit readiness check.
//
// WaitReadable blocks according to t and reports whether a subsequent Read
// would return without blocking. A peer shutdown counts as readable: the
// following Read returns zero bytes or io.EOF.
type Source interface {
	WaitReadable(t Timeout) (bool, error)
	Read(p []byte) (int, error)
}

// Receiver drives a Framer from a Source.
//
// Receiver is not goroutine-safe; each socket has exactly one owner.
type Receiver struct {
	src    Source
	framer *Framer
	buf    []byte
}

// NewReceiver creates a Receiver reading from src.
func NewReceiver(src Source) *Receiver {
	return &Receiver{
		src:    src,
		framer: NewFramer(),
		buf:    make([]byte, readBufferSize),
	}
}

// Framer returns the underlying framer.
func (r *Receiver) Framer() *Framer {
	return r.framer
}

// Receive waits once according to t and, when bytes are readable, reads
// until the socket has nothing more to deliver without blocking. It returns
// the events of every frame completed by those reads.
//
// A zero-length read is reported as ErrConnClosed. Framing errors are
// returned together with the events that decoded successfully, joined with
// the read error when both happen in the same drain.
func (r *Receiver) Receive(t Timeout) ([]Event, error) {
	ready, err := r.src.WaitReadable(t)
	if err != nil {
		return nil, fmt.Errorf("meca: wait readable: %w", err)
	}

	for ready {
		if err := r.readOnce(); err != nil {
			// hand out what completed before the failure
			events, decodeErr := r.framer.DecodeReady()
			return events, errors.Join(err, decodeErr)
		}

		ready, err = r.src.WaitReadable(Poll())
		if err != nil {
			return nil, fmt.Errorf("meca: wait readable: %w", err)
		}
	}

	return r.framer.DecodeReady()
}

func (r *Receiver) readOnce() error {
	n, err := r.src.Read(r.buf)
	if n > 0 {
		r.framer.Feed(r.buf[:n])
	}

	switch {
	case n == 0 && (err == nil || errors.Is(err, io.EOF)):
		return ErrConnClosed
	case errors.Is(err, io.EOF):
		// bytes arrived together with the shutdown; report it on the next read
		return nil
	case err != nil:
		return fmt.Errorf("meca: read: %w", err)
	}

	return nil
}
