package feedback

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/arloliu/go-meca/logger"
	"github.com/arloliu/go-meca/meca"
)

const (
	DefaultSocketTimeout = 100 * time.Millisecond
	DefaultFirmware      = V9
)

// ConnectionConfig holds the configuration of a monitoring connection.
type ConnectionConfig struct {
	host          string
	port          int
	firmware      Firmware
	pollTimeout   meca.Timeout
	socketTimeout time.Duration
	logger        logger.Logger
}

// NewConnectionConfig creates the configuration of a monitoring connection to
// host on port meca.FeedbackPort. Next blocks until data arrives unless
// WithPollTimeout says otherwise.
func NewConnectionConfig(host string, opts ...ConnOption) (*ConnectionConfig, error) {
	if net.ParseIP(host) == nil {
		if _, err := net.LookupHost(host); err != nil {
			return nil, fmt.Errorf("feedback: invalid host %q", host)
		}
	}

	cfg := &ConnectionConfig{
		host:          host,
		port:          meca.FeedbackPort,
		firmware:      DefaultFirmware,
		pollTimeout:   meca.Forever(),
		socketTimeout: DefaultSocketTimeout,
		logger:        logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Host returns the robot address.
func (cfg *ConnectionConfig) Host() string { return cfg.host }

// Port returns the monitoring TCP port.
func (cfg *ConnectionConfig) Port() int { return cfg.port }

// Addr returns "host:port".
func (cfg *ConnectionConfig) Addr() string {
	return net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port))
}

// Firmware returns the firmware generation selecting the code map.
func (cfg *ConnectionConfig) Firmware() Firmware { return cfg.firmware }

// PollTimeout returns the timeout used by Conn.Next.
func (cfg *ConnectionConfig) PollTimeout() meca.Timeout { return cfg.pollTimeout }

// SocketTimeout returns the TCP dial timeout.
func (cfg *ConnectionConfig) SocketTimeout() time.Duration { return cfg.socketTimeout }

// GetLogger returns the configured logger.
func (cfg *ConnectionConfig) GetLogger() logger.Logger { return cfg.logger }

// ConnOption is a functional option for configuring a ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc func(*ConnectionConfig) error

func (f connOptFunc) apply(cfg *ConnectionConfig) error { return f(cfg) }

// WithPort overrides the monitoring TCP port. Must be in [1, 65535].
func WithPort(port int) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if port < 1 || port > 65535 {
			return fmt.Errorf("feedback: port %d out of range [1, 65535]", port)
		}
		cfg.port = port

		return nil
	})
}

// WithFirmware selects the code map of the stream.
func WithFirmware(fw Firmware) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if !fw.Valid() {
			return fmt.Errorf("feedback: unknown firmware %s", fw)
		}
		cfg.firmware = fw

		return nil
	})
}

// WithPollTimeout sets the wait of Conn.Next.
func WithPollTimeout(t meca.Timeout) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		cfg.pollTimeout = t
		return nil
	})
}

// WithSocketTimeout sets the TCP dial timeout.
func WithSocketTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d <= 0 {
			return errors.New("feedback: socket timeout must be positive")
		}
		cfg.socketTimeout = d

		return nil
	})
}

// WithLogger sets the logger for the connection.
func WithLogger(l logger.Logger) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if l == nil {
			return errors.New("feedback: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
