package control

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/arloliu/go-meca/eventlog"
	"github.com/arloliu/go-meca/internal/pool"
	"github.com/arloliu/go-meca/logger"
	"github.com/arloliu/go-meca/meca"
)

// responseRetries is the number of extra waits for a missing response.
// The firmware gives no latency guarantee; one extra wait covers the
// replies observed to arrive just after the first timeout.
const responseRetries = 1

// VelocityPacing is the pause after every velocity command. Firmware 8
// misbehaves when velocity commands arrive faster than about 26 per second.
const VelocityPacing = time.Second/26 - 1200*time.Microsecond

// Transport is the control socket as seen by the dispatcher.
type Transport interface {
	meca.Source
	io.Writer
}

// Request is the parameter set of one dispatch.
type Request struct {
	// Command is the formatted command, without terminator.
	Command string
	// CodesToClear are removed from the log before sending: stale
	// conditions this command supersedes.
	CodesToClear []string
	// ClearErrorClass removes every error-class event before sending.
	ClearErrorClass bool
	// ErrorCodes are command-specific error codes, checked in order before
	// the generic error class.
	ErrorCodes []string
	// ResponseCodes are the accepted replies, checked in order. Empty means
	// fire-and-forget.
	ResponseCodes []string
	// CheckErrors enables the generic error-class check.
	CheckErrors bool
	// Timeout bounds each wait for new bytes after sending.
	Timeout meca.Timeout
	// Pace is slept after sending and before waiting.
	Pace time.Duration
}

// DispatchState is the state of a dispatch.
type DispatchState uint8

const (
	StateIdle DispatchState = iota
	StateSent
	StateAwait1
	StateAwait2
	StateResolved
	StateFailed
)

func (s DispatchState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateSent:
		return "SENT"
	case StateAwait1:
		return "AWAIT_1"
	case StateAwait2:
		return "AWAIT_2"
	case StateResolved:
		return "RESOLVED"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("DispatchState(%d)", s)
	}
}

// Dispatcher sends commands on the control socket and correlates replies
// through the event log.
//
// Dispatcher is not goroutine-safe. It exclusively owns the transport's read
// side and the log; Controller wraps it with a mutex.
type Dispatcher struct {
	tr      Transport
	recv    *meca.Receiver
	log     *eventlog.Log
	logger  logger.Logger
	metrics *ConnectionMetrics
	sleep   func(time.Duration)
}

// NewDispatcher creates a Dispatcher reading and writing tr and storing
// received events in log.
func NewDispatcher(tr Transport, log *eventlog.Log, l logger.Logger) *Dispatcher {
	if l == nil {
		l = logger.GetLogger()
	}

	return &Dispatcher{
		tr:      tr,
		recv:    meca.NewReceiver(tr),
		log:     log,
		logger:  l,
		metrics: newConnectionMetrics(),
		sleep:   pool.Sleep,
	}
}

// Log returns the event log fed by the dispatcher.
func (d *Dispatcher) Log() *eventlog.Log { return d.log }

// Metrics returns the metrics of the dispatcher.
func (d *Dispatcher) Metrics() *ConnectionMetrics { return d.metrics }

// Refresh waits according to t, then appends every received event to the log.
//
// Connection and framing errors are returned as is; events decoded before a
// framing error are still appended.
func (d *Dispatcher) Refresh(t meca.Timeout) error {
	events, err := d.recv.Receive(t)

	for _, ev := range events {
		d.metrics.incEventRecv(ev.Code)
		d.logger.Debug("control: event received", "code", ev.Code, "payload", ev.Payload)
	}
	d.log.Append(events...)

	if err != nil {
		if errors.Is(err, meca.ErrMalformedFrame) {
			d.metrics.incFramingErrCount()
		}
		d.logger.Error("control: receive failed", "error", err)

		return err
	}

	return nil
}

// Send writes cmd and the frame terminator.
func (d *Dispatcher) Send(cmd string) error {
	d.logger.Debug("control: send command", "cmd", cmd)

	if _, err := d.tr.Write(meca.EncodeCommand(cmd)); err != nil {
		return fmt.Errorf("control: send %s: %w", commandName(cmd), err)
	}
	d.metrics.incCommandSendCount()

	return nil
}

// Dispatch runs one command and returns the matched response event, or the
// zero event when req.ResponseCodes is empty.
//
// Errors are *meca.RobotError, *meca.ResponseNotFoundError, or a connection
// or framing error from the socket, which is never retried.
func (d *Dispatcher) Dispatch(req Request) (meca.Event, error) {
	name := commandName(req.Command)
	state := StateIdle

	fail := func(err error) (meca.Event, error) {
		d.transition(name, state, StateFailed)
		return meca.Event{}, err
	}

	if err := d.Refresh(meca.Poll()); err != nil {
		return fail(err)
	}
	d.clearStale(req)

	if err := d.Send(req.Command); err != nil {
		return fail(err)
	}
	state = d.transition(name, state, StateSent)

	if req.Pace > 0 {
		d.sleep(req.Pace)
	}

	for attempt := 0; attempt <= responseRetries; attempt++ {
		if attempt == 0 {
			state = d.transition(name, state, StateAwait1)
		} else {
			d.metrics.incRetryCount()
			d.logger.Warn("control: response not received, retry", "cmd", req.Command, "codes", req.ResponseCodes)
			state = d.transition(name, state, StateAwait2)
		}

		if err := d.Refresh(req.Timeout); err != nil {
			return fail(err)
		}

		ev, found, err := d.check(name, req)
		if err != nil {
			d.metrics.incRobotErrCount()
			d.logger.Error("control: command failed", "cmd", req.Command, "error", err)

			return fail(err)
		}

		if found || len(req.ResponseCodes) == 0 {
			d.transition(name, state, StateResolved)
			return ev, nil
		}
	}

	d.metrics.incNotFoundCount()

	return fail(&meca.ResponseNotFoundError{Command: name, Codes: req.ResponseCodes})
}

func (d *Dispatcher) clearStale(req Request) {
	for _, code := range req.CodesToClear {
		d.log.RemoveAll(code)
	}

	if req.ClearErrorClass {
		d.log.RemoveFunc(meca.Event.IsError)
	}

	for _, code := range req.ResponseCodes {
		d.log.RemoveAll(code)
	}
}

// check inspects the log in protocol order: specific error codes, then the
// generic error class, then the response codes.
func (d *Dispatcher) check(name string, req Request) (meca.Event, bool, error) {
	for _, code := range req.ErrorCodes {
		if ev, ok := d.log.LastOccurrence(code, true); ok {
			return meca.Event{}, false, &meca.RobotError{Command: name, Event: ev, Specific: true}
		}
	}

	if req.CheckErrors {
		if ev, ok := d.log.LastMatch(meca.Event.IsError, false); ok {
			return meca.Event{}, false, &meca.RobotError{Command: name, Event: ev}
		}
	}

	for _, code := range req.ResponseCodes {
		if ev, ok := d.log.LastOccurrence(code, true); ok {
			return ev, true, nil
		}
	}

	return meca.Event{}, false, nil
}

func (d *Dispatcher) transition(name string, from, to DispatchState) DispatchState {
	d.logger.Debug("control: dispatch state", "cmd", name, "from", from.String(), "to", to.String())
	return to
}

// commandName strips the argument list from a formatted command.
func commandName(cmd string) string {
	if i := strings.IndexByte(cmd, '('); i >= 0 {
		return cmd[:i]
	}

	return cmd
}
