// Package config loads robot connection settings from a YAML file.
//
// Example:
//
//	host: 192.168.0.100
//	control:
//	  request_timeout: 2s
//	  log_size: 200
//	feedback:
//	  firmware: v9
//	  poll_timeout: 50ms
//
// Absent keys keep the defaults of the control and feedback packages.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/go-meca/control"
	"github.com/arloliu/go-meca/feedback"
	"github.com/arloliu/go-meca/logger"
	"github.com/arloliu/go-meca/meca"
)

// Config is the content of a configuration file.
type Config struct {
	Host     string         `yaml:"host"`
	Control  ControlConfig  `yaml:"control"`
	Feedback FeedbackConfig `yaml:"feedback"`
}

// ControlConfig holds the control connection settings.
type ControlConfig struct {
	Port            int            `yaml:"port"`
	SocketTimeout   *time.Duration `yaml:"socket_timeout"`
	ConnectTimeout  *time.Duration `yaml:"connect_timeout"`
	RequestTimeout  *time.Duration `yaml:"request_timeout"`
	ExtendedTimeout *time.Duration `yaml:"extended_timeout"`
	MotionTimeout   *time.Duration `yaml:"motion_timeout"`
	LogSize         int            `yaml:"log_size"`
}

// FeedbackConfig holds the monitoring connection settings.
type FeedbackConfig struct {
	Port          int            `yaml:"port"`
	Firmware      string         `yaml:"firmware"`
	PollTimeout   *Timeout       `yaml:"poll_timeout"`
	SocketTimeout *time.Duration `yaml:"socket_timeout"`
}

// Timeout is a meca.Timeout written as "forever", "poll" or a duration.
type Timeout struct {
	meca.Timeout
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Timeout) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forever":
		t.Timeout = meca.Forever()
	case "poll", "0":
		t.Timeout = meca.Poll()
	default:
		d, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("line %d: invalid timeout %q", value.Line, s)
		}
		t.Timeout = meca.Within(d)
	}

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (t Timeout) MarshalYAML() (any, error) {
	switch {
	case t.IsForever():
		return "forever", nil
	case t.IsPoll():
		return "poll", nil
	default:
		return t.Duration().String(), nil
	}
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates YAML configuration data. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the fields that the connection options do not.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host is required")
	}

	if c.Feedback.Firmware != "" {
		if _, err := feedback.ParseFirmware(c.Feedback.Firmware); err != nil {
			return err
		}
	}

	return nil
}

// ControlOptions converts the control section into connection options.
func (c *Config) ControlOptions() []control.ConnOption {
	var opts []control.ConnOption

	cc := c.Control
	if cc.Port != 0 {
		opts = append(opts, control.WithPort(cc.Port))
	}
	if cc.SocketTimeout != nil {
		opts = append(opts, control.WithSocketTimeout(*cc.SocketTimeout))
	}
	if cc.ConnectTimeout != nil {
		opts = append(opts, control.WithConnectTimeout(*cc.ConnectTimeout))
	}
	if cc.RequestTimeout != nil {
		opts = append(opts, control.WithRequestTimeout(*cc.RequestTimeout))
	}
	if cc.ExtendedTimeout != nil {
		opts = append(opts, control.WithExtendedTimeout(*cc.ExtendedTimeout))
	}
	if cc.MotionTimeout != nil {
		opts = append(opts, control.WithMotionTimeout(*cc.MotionTimeout))
	}
	if cc.LogSize != 0 {
		opts = append(opts, control.WithLogSize(cc.LogSize))
	}

	return opts
}

// FeedbackOptions converts the feedback section into connection options.
func (c *Config) FeedbackOptions() []feedback.ConnOption {
	var opts []feedback.ConnOption

	fc := c.Feedback
	if fc.Port != 0 {
		opts = append(opts, feedback.WithPort(fc.Port))
	}
	if fw, err := feedback.ParseFirmware(fc.Firmware); err == nil {
		opts = append(opts, feedback.WithFirmware(fw))
	}
	if fc.PollTimeout != nil {
		opts = append(opts, feedback.WithPollTimeout(fc.PollTimeout.Timeout))
	}
	if fc.SocketTimeout != nil {
		opts = append(opts, feedback.WithSocketTimeout(*fc.SocketTimeout))
	}

	return opts
}

// ControlConnection builds the control connection configuration. Extra options
// are applied after the file settings.
func (c *Config) ControlConnection(l logger.Logger, extra ...control.ConnOption) (*control.ConnectionConfig, error) {
	opts := c.ControlOptions()
	if l != nil {
		opts = append(opts, control.WithLogger(l))
	}

	return control.NewConnectionConfig(c.Host, append(opts, extra...)...)
}

// FeedbackConnection builds the monitoring connection configuration. Extra
// options are applied after the file settings.
func (c *Config) FeedbackConnection(l logger.Logger, extra ...feedback.ConnOption) (*feedback.ConnectionConfig, error) {
	opts := c.FeedbackOptions()
	if l != nil {
		opts = append(opts, feedback.WithLogger(l))
	}

	return feedback.NewConnectionConfig(c.Host, append(opts, extra...)...)
}
