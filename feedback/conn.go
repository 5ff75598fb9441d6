package feedback

import (
	"context"
	"errors"

	"github.com/arloliu/go-meca/transport"
)

// Conn is a monitoring connection.
type Conn struct {
	*Decoder

	cfg *ConnectionConfig
	tr  *transport.Conn
}

// Dial connects to the monitoring port of the robot.
func Dial(ctx context.Context, cfg *ConnectionConfig) (*Conn, error) {
	if cfg == nil {
		return nil, errors.New("feedback: connection config is nil")
	}

	tr, err := transport.Dial(ctx, cfg.Addr(), cfg.socketTimeout)
	if err != nil {
		return nil, err
	}

	cfg.logger.Info("feedback: connected", "addr", cfg.Addr(), "firmware", cfg.firmware.String())

	return &Conn{
		Decoder: NewDecoder(tr, cfg.firmware, cfg.logger),
		cfg:     cfg,
		tr:      tr,
	}, nil
}

// Config returns the connection configuration.
func (c *Conn) Config() *ConnectionConfig { return c.cfg }

// Next polls with the configured poll timeout.
func (c *Conn) Next() (Snapshot, error) {
	return c.Poll(c.cfg.pollTimeout)
}

// Close closes the monitoring connection.
func (c *Conn) Close() error {
	c.cfg.logger.Info("feedback: close connection", "addr", c.cfg.Addr())
	return c.tr.Close()
}
