package feedback

import "sync/atomic"

// ConnectionMetrics contains atomic metrics for a monitoring connection.
type ConnectionMetrics struct {
	// PollCount indicates the number of polls.
	PollCount atomic.Uint64
	// FrameRecvCount indicates the number of frames decoded.
	FrameRecvCount atomic.Uint64
	// FramingErrCount indicates the number of polls that hit a malformed frame.
	FramingErrCount atomic.Uint64
}

func (m *ConnectionMetrics) incPollCount() {
	m.PollCount.Add(1)
}

func (m *ConnectionMetrics) incFrameRecvCount(n int) {
	m.FrameRecvCount.Add(uint64(n))
}

func (m *ConnectionMetrics) incFramingErrCount() {
	m.FramingErrCount.Add(1)
}
