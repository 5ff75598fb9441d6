package control

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/go-meca/eventlog"
	"github.com/arloliu/go-meca/logger"
	"github.com/arloliu/go-meca/meca"
)

// Default timeouts of the control connection.
const (
	DefaultSocketTimeout   = 100 * time.Millisecond // TCP dial and write timeout
	DefaultConnectTimeout  = 10 * time.Second       // wait for the connection confirmation
	DefaultRequestTimeout  = 1 * time.Second        // reply wait of request commands
	DefaultExtendedTimeout = 10 * time.Second       // activation, homing, deactivation
	DefaultMotionTimeout   = 1 * time.Millisecond   // log refresh after motion commands

	DefaultLogSize = eventlog.DefaultCapacity
	MaxLogSize     = 10000
)

// ConnectionConfig holds the configuration of a control connection.
type ConnectionConfig struct {
	host string
	port int

	socketTimeout   time.Duration
	connectTimeout  time.Duration
	requestTimeout  time.Duration
	extendedTimeout time.Duration
	motionTimeout   time.Duration

	logSize  int
	observer eventlog.Observer

	logger logger.Logger
}

// NewConnectionConfig creates the configuration of a control connection to
// host on port meca.ControlPort, then applies opts in order.
func NewConnectionConfig(host string, opts ...ConnOption) (*ConnectionConfig, error) {
	cfg := &ConnectionConfig{
		port:            meca.ControlPort,
		socketTimeout:   DefaultSocketTimeout,
		connectTimeout:  DefaultConnectTimeout,
		requestTimeout:  DefaultRequestTimeout,
		extendedTimeout: DefaultExtendedTimeout,
		motionTimeout:   DefaultMotionTimeout,
		logSize:         DefaultLogSize,
		logger:          logger.GetLogger(),
	}

	if err := cfg.setHost(host); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (cfg *ConnectionConfig) setHost(host string) error {
	if ip := net.ParseIP(host); ip != nil {
		cfg.host = host
		return nil
	}

	host = strings.TrimPrefix(host, ".")
	host = strings.TrimSuffix(host, ".")
	if _, err := net.LookupHost(host); err == nil {
		cfg.host = host
		return nil
	}

	return fmt.Errorf("control: invalid host %q", host)
}

// Host returns the robot address.
func (cfg *ConnectionConfig) Host() string { return cfg.host }

// Port returns the control TCP port.
func (cfg *ConnectionConfig) Port() int { return cfg.port }

// Addr returns "host:port".
func (cfg *ConnectionConfig) Addr() string {
	return net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port))
}

// SocketTimeout returns the TCP dial and write timeout.
func (cfg *ConnectionConfig) SocketTimeout() time.Duration { return cfg.socketTimeout }

// ConnectTimeout returns how long Dial waits for the connection confirmation.
func (cfg *ConnectionConfig) ConnectTimeout() time.Duration { return cfg.connectTimeout }

// RequestTimeout returns the reply timeout of request commands.
func (cfg *ConnectionConfig) RequestTimeout() time.Duration { return cfg.requestTimeout }

// ExtendedTimeout returns the reply timeout of activation, homing and deactivation.
func (cfg *ConnectionConfig) ExtendedTimeout() time.Duration { return cfg.extendedTimeout }

// MotionTimeout returns the log refresh timeout after motion commands.
func (cfg *ConnectionConfig) MotionTimeout() time.Duration { return cfg.motionTimeout }

// LogSize returns the capacity of the event log.
func (cfg *ConnectionConfig) LogSize() int { return cfg.logSize }

// GetLogger returns the configured logger.
func (cfg *ConnectionConfig) GetLogger() logger.Logger { return cfg.logger }

// ConnOption is a functional option for configuring a ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc func(*ConnectionConfig) error

func (f connOptFunc) apply(cfg *ConnectionConfig) error { return f(cfg) }

// WithPort overrides the control TCP port. Must be in [1, 65535].
func WithPort(port int) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if port < 1 || port > 65535 {
			return fmt.Errorf("control: port %d out of range [1, 65535]", port)
		}
		cfg.port = port

		return nil
	})
}

// WithSocketTimeout sets the TCP dial and write timeout.
func WithSocketTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d <= 0 {
			return errors.New("control: socket timeout must be positive")
		}
		cfg.socketTimeout = d

		return nil
	})
}

// WithConnectTimeout sets how long Dial waits for the robot to confirm the connection.
func WithConnectTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d <= 0 {
			return errors.New("control: connect timeout must be positive")
		}
		cfg.connectTimeout = d

		return nil
	})
}

// WithRequestTimeout sets the reply timeout of request commands.
func WithRequestTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d <= 0 {
			return errors.New("control: request timeout must be positive")
		}
		cfg.requestTimeout = d

		return nil
	})
}

// WithExtendedTimeout sets the reply timeout of ActivateRobot, Home and DeactivateRobot.
func WithExtendedTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d <= 0 {
			return errors.New("control: extended timeout must be positive")
		}
		cfg.extendedTimeout = d

		return nil
	})
}

// WithMotionTimeout sets the log refresh timeout after motion commands.
// Zero turns the refresh into a poll.
func WithMotionTimeout(d time.Duration) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if d < 0 {
			return errors.New("control: motion timeout must not be negative")
		}
		cfg.motionTimeout = d

		return nil
	})
}

// WithLogSize sets the capacity of the event log. Must be in [1, MaxLogSize].
func WithLogSize(n int) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if n < 1 || n > MaxLogSize {
			return fmt.Errorf("control: log size %d out of range [1, %d]", n, MaxLogSize)
		}
		cfg.logSize = n

		return nil
	})
}

// WithObserver registers a callback receiving every batch of events appended
// to the log. It runs synchronously inside the command that received them.
func WithObserver(o eventlog.Observer) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		cfg.observer = o
		return nil
	})
}

// WithLogger sets the logger for the connection.
func WithLogger(l logger.Logger) ConnOption {
	return connOptFunc(func(cfg *ConnectionConfig) error {
		if l == nil {
			return errors.New("control: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
