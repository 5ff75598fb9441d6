package control

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// ConnectionMetrics contains atomic metrics for a control connection.
// Metrics can be read concurrently with the connection, e.g. by the
// prometheus collector of the metric package.
type ConnectionMetrics struct {
	// CommandSendCount indicates the number of commands sent.
	CommandSendCount atomic.Uint64
	// EventRecvCount indicates the number of events received.
	EventRecvCount atomic.Uint64
	// RetryCount indicates the number of second waits for a missing response.
	RetryCount atomic.Uint64
	// RobotErrCount indicates the number of commands failed by a robot error.
	RobotErrCount atomic.Uint64
	// NotFoundCount indicates the number of commands without a response.
	NotFoundCount atomic.Uint64
	// FramingErrCount indicates the number of malformed frames received.
	FramingErrCount atomic.Uint64

	codes *xsync.MapOf[string, *atomic.Uint64]
}

func newConnectionMetrics() *ConnectionMetrics {
	return &ConnectionMetrics{
		codes: xsync.NewMapOf[string, *atomic.Uint64](),
	}
}

// RangeEventCodes calls f with the number of received events per code.
// Iteration stops when f returns false.
func (m *ConnectionMetrics) RangeEventCodes(f func(code string, count uint64) bool) {
	if m.codes == nil {
		return
	}

	m.codes.Range(func(code string, n *atomic.Uint64) bool {
		return f(code, n.Load())
	})
}

// EventCodeCount returns the number of received events with the given code.
func (m *ConnectionMetrics) EventCodeCount(code string) uint64 {
	if m.codes == nil {
		return 0
	}

	if n, ok := m.codes.Load(code); ok {
		return n.Load()
	}

	return 0
}

func (m *ConnectionMetrics) incEventRecv(code string) {
	m.EventRecvCount.Add(1)

	n, _ := m.codes.LoadOrCompute(code, func() *atomic.Uint64 { return new(atomic.Uint64) })
	n.Add(1)
}

func (m *ConnectionMetrics) incCommandSendCount() {
	m.CommandSendCount.Add(1)
}

func (m *ConnectionMetrics) incRetryCount() {
	m.RetryCount.Add(1)
}

func (m *ConnectionMetrics) incRobotErrCount() {
	m.RobotErrCount.Add(1)
}

func (m *ConnectionMetrics) incNotFoundCount() {
	m.NotFoundCount.Add(1)
}

func (m *ConnectionMetrics) incFramingErrCount() {
	m.FramingErrCount.Add(1)
}
