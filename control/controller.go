package control

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/arloliu/go-meca/eventlog"
	"github.com/arloliu/go-meca/logger"
	"github.com/arloliu/go-meca/meca"
	"github.com/arloliu/go-meca/transport"
)

// Controller commands a robot over its control connection.
//
// All methods are safe for concurrent use; they are serialized because the
// protocol cannot distinguish interleaved commands.
type Controller struct {
	mu     sync.Mutex
	cfg    *ConnectionConfig
	tr     Transport
	disp   *Dispatcher
	logger logger.Logger
}

// Dial connects to the control port of the robot and waits for the robot to
// confirm the connection.
//
// It fails with a *meca.RobotError carrying code 3001 when another client
// already owns the control connection.
func Dial(ctx context.Context, cfg *ConnectionConfig) (*Controller, error) {
	if cfg == nil {
		return nil, errors.New("control: connection config is nil")
	}

	conn, err := transport.Dial(ctx, cfg.Addr(), cfg.socketTimeout)
	if err != nil {
		return nil, err
	}

	c := NewController(conn, cfg)
	if err := c.handshake(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	c.logger.Info("control: connected", "addr", cfg.Addr())

	return c, nil
}

// NewController creates a Controller over an established transport. No
// handshake is performed.
func NewController(tr Transport, cfg *ConnectionConfig) *Controller {
	log := eventlog.New(eventlog.WithCapacity(cfg.logSize), eventlog.WithObserver(cfg.observer))

	return &Controller{
		cfg:    cfg,
		tr:     tr,
		disp:   NewDispatcher(tr, log, cfg.logger),
		logger: cfg.logger,
	}
}

// handshake waits for the connection confirmation. A rejection is reported
// in preference to the socket error that follows it.
func (c *Controller) handshake() error {
	refreshErr := c.disp.Refresh(meca.Within(c.cfg.connectTimeout))

	req := Request{
		Command:       "Connect",
		ErrorCodes:    []string{meca.CodeAlreadyConnected},
		ResponseCodes: []string{meca.CodeConnected},
		CheckErrors:   true,
	}

	_, found, err := c.disp.check(req.Command, req)
	if err != nil {
		return err
	}

	if refreshErr != nil {
		return refreshErr
	}

	if !found {
		return &meca.ResponseNotFoundError{Command: req.Command, Codes: req.ResponseCodes}
	}

	return nil
}

// Close closes the control connection.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Info("control: close connection", "addr", c.cfg.Addr())

	if closer, ok := c.tr.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

// Config returns the connection configuration.
func (c *Controller) Config() *ConnectionConfig { return c.cfg }

// Metrics returns the connection metrics.
func (c *Controller) Metrics() *ConnectionMetrics { return c.disp.Metrics() }

// Events returns a copy of the event log, oldest first.
func (c *Controller) Events() []meca.Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.disp.Log().Events()
}

// Refresh reads pending events into the log, waiting according to t.
func (c *Controller) Refresh(t meca.Timeout) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.disp.Refresh(t)
}

// Dispatch runs a custom request on the control connection.
func (c *Controller) Dispatch(req Request) (meca.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.disp.Dispatch(req)
}

// exec validates the arguments of d, then dispatches it.
func (c *Controller) exec(d descriptor, groups ...[]float64) (meca.Event, error) {
	args, err := d.validate(groups)
	if err != nil {
		return meca.Event{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.disp.Dispatch(c.request(d, args))
}

func (c *Controller) request(d descriptor, args []float64) Request {
	req := Request{
		Command:         meca.BuildCommand(d.name, args...),
		CodesToClear:    d.clear,
		ClearErrorClass: d.clearErrors,
		ErrorCodes:      d.errors,
		ResponseCodes:   d.responses,
		CheckErrors:     d.checkErrors,
	}

	switch d.kind {
	case motionKind:
		req.Timeout = meca.Within(c.cfg.motionTimeout)
	case velocityKind:
		req.Timeout = meca.Within(c.cfg.motionTimeout)
		req.Pace = VelocityPacing
	default:
		switch d.wait {
		case extendedWait:
			req.Timeout = meca.Within(c.cfg.extendedTimeout)
		case pollWait:
			req.Timeout = meca.Poll()
		default:
			req.Timeout = meca.Within(c.cfg.requestTimeout)
		}
	}

	return req
}
