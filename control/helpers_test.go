package control

import (
	"io"
	"testing"
	"time"

	"github.com/arloliu/go-meca/meca"
	"github.com/stretchr/testify/require"
)

// scriptTransport is a Transport double. Bytes in pending are readable at
// once. Every wait that is not a poll releases the next scripted reply chunk,
// even an empty one, so a wait can be made to come back empty.
type scriptTransport struct {
	pending []byte
	replies []string
	closed  bool
	writes  []string
	waits   []meca.Timeout
}

func (s *scriptTransport) WaitReadable(t meca.Timeout) (bool, error) {
	s.waits = append(s.waits, t)

	if !t.IsPoll() && len(s.pending) == 0 && len(s.replies) > 0 {
		s.pending = []byte(s.replies[0])
		s.replies = s.replies[1:]
	}

	return len(s.pending) > 0 || s.closed, nil
}

func (s *scriptTransport) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]

	return n, nil
}

func (s *scriptTransport) Write(p []byte) (int, error) {
	s.writes = append(s.writes, string(p[:len(p)-1]))
	return len(p), nil
}

// frames encodes events the way the robot sends them.
func frames(events ...string) string {
	var out []byte
	for _, ev := range events {
		out = append(out, ev...)
		out = append(out, meca.FrameTerminator)
	}

	return string(out)
}

func newTestController(t *testing.T, tr *scriptTransport, opts ...ConnOption) *Controller {
	t.Helper()

	cfg, err := NewConnectionConfig("127.0.0.1", opts...)
	require.NoError(t, err)

	c := NewController(tr, cfg)
	c.disp.sleep = func(time.Duration) {}

	return c
}
