package feedback

import (
	"errors"
	"fmt"

	"github.com/arloliu/go-meca/internal/queue"
	"github.com/arloliu/go-meca/logger"
	"github.com/arloliu/go-meca/meca"
)

// WindowSize is the number of newest frames a Decoder keeps.
const WindowSize = 10

// Snapshot is the newest known value of each tracked quantity. A nil field
// means no frame carried it yet, or the firmware never emits it.
type Snapshot struct {
	Joints  []float64
	Pose    []float64
	CartVel []float64
	Status  *meca.Status
}

// IsEmpty reports whether no quantity is known.
func (s Snapshot) IsEmpty() bool {
	return s.Joints == nil && s.Pose == nil && s.CartVel == nil && s.Status == nil
}

// Decoder turns monitoring frames into snapshots.
type Decoder struct {
	recv    *meca.Receiver
	codes   CodeMap
	window  *queue.Ring[meca.Event]
	latest  Snapshot
	metrics ConnectionMetrics
	logger  logger.Logger
}

// NewDecoder creates a Decoder reading src with the code map of fw.
func NewDecoder(src meca.Source, fw Firmware, l logger.Logger) *Decoder {
	if l == nil {
		l = logger.GetLogger()
	}

	return &Decoder{
		recv:   meca.NewReceiver(src),
		codes:  fw.Codes(),
		window: queue.NewRing[meca.Event](WindowSize),
		logger: l,
	}
}

// Codes returns the code map in use.
func (d *Decoder) Codes() CodeMap { return d.codes }

// Metrics returns the metrics of the decoder.
func (d *Decoder) Metrics() *ConnectionMetrics { return &d.metrics }

// Latest returns the snapshot computed by the last successful Poll.
func (d *Decoder) Latest() Snapshot { return d.latest }

// Window returns the frames currently kept, oldest first.
func (d *Decoder) Window() []meca.Event { return d.window.Slice() }

// Poll waits according to t, adds every decoded frame to the window and
// returns the snapshot of the window.
//
// When nothing arrives the snapshot reflects the frames already kept.
// Frames decoded before a framing error are kept; the error is returned
// and Latest is left unchanged.
func (d *Decoder) Poll(t meca.Timeout) (Snapshot, error) {
	d.metrics.incPollCount()

	events, err := d.recv.Receive(t)
	for _, ev := range events {
		d.window.PushBack(ev)
	}
	d.metrics.incFrameRecvCount(len(events))

	if err != nil {
		if errors.Is(err, meca.ErrMalformedFrame) {
			d.metrics.incFramingErrCount()
		}
		d.logger.Error("feedback: receive failed", "error", err)

		return Snapshot{}, err
	}

	snap, err := d.snapshot()
	if err != nil {
		return Snapshot{}, err
	}
	d.latest = snap

	return snap, nil
}

func (d *Decoder) snapshot() (Snapshot, error) {
	var (
		snap Snapshot
		err  error
	)

	if snap.Joints, err = d.floats(d.codes.Joints); err != nil {
		return Snapshot{}, err
	}
	if snap.Pose, err = d.floats(d.codes.Pose); err != nil {
		return Snapshot{}, err
	}
	if snap.CartVel, err = d.floats(d.codes.CartVel); err != nil {
		return Snapshot{}, err
	}

	if ev, ok := d.newest(d.codes.Status); ok {
		status, err := meca.ParseStatus(ev.Payload)
		if err != nil {
			return Snapshot{}, fmt.Errorf("feedback: status: %w", err)
		}
		snap.Status = &status
	}

	return snap, nil
}

func (d *Decoder) floats(code string) ([]float64, error) {
	ev, ok := d.newest(code)
	if !ok {
		return nil, nil
	}

	values, err := ev.Floats()
	if err != nil {
		return nil, fmt.Errorf("feedback: code %s: %w", code, err)
	}

	return values, nil
}

// newest scans the window from newest to oldest.
func (d *Decoder) newest(code string) (meca.Event, bool) {
	if code == "" {
		return meca.Event{}, false
	}

	for i := d.window.Len() - 1; i >= 0; i-- {
		if ev := d.window.At(i); ev.Code == code {
			return ev, true
		}
	}

	return meca.Event{}, false
}
