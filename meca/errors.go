package meca

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument indicates a command argument failed validation.
	// It is always returned before any byte is written to the socket.
	ErrInvalidArgument = errors.New("meca: invalid argument")

	// ErrMalformedFrame indicates a frame that is not shaped as [code][payload].
	// It means the stream is out of sync; the connection should be closed.
	ErrMalformedFrame = errors.New("meca: malformed frame")

	// ErrConnClosed indicates the peer closed the connection (zero-length read).
	ErrConnClosed = errors.New("meca: connection closed")
)

var (
	// ErrSpecificError indicates that an error code declared by the command
	// itself was reported by the robot.
	ErrSpecificError = errors.New("meca: command error")

	// ErrRobotError indicates that an error-class code was reported by the robot.
	ErrRobotError = errors.New("meca: robot error")

	// ErrResponseNotFound indicates that neither an error nor one of the
	// expected response codes arrived after the send and one retry.
	ErrResponseNotFound = errors.New("meca: response not found")
)

// FrameError describes a frame rejected by DecodeFrame or the Framer.
type FrameError struct {
	Frame  string
	Reason string
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("meca: malformed frame %q: %s", e.Frame, e.Reason)
}

func (e *FrameError) Unwrap() error { return ErrMalformedFrame }

// RobotError is returned when the robot reports an error event for a command.
//
// Specific is true when Event.Code is one of the error codes declared by the
// command; such codes always take precedence over the generic error class.
type RobotError struct {
	Command  string
	Event    Event
	Specific bool
}

func (e *RobotError) Error() string {
	kind := "robot error"
	if e.Specific {
		kind = "command error"
	}

	return fmt.Sprintf("meca: %s: %s %s", e.Command, kind, e.Event)
}

func (e *RobotError) Unwrap() error {
	if e.Specific {
		return ErrSpecificError
	}

	return ErrRobotError
}

// ResponseNotFoundError is returned when none of Codes showed up in the log.
type ResponseNotFoundError struct {
	Command string
	Codes   []string
}

func (e *ResponseNotFoundError) Error() string {
	return fmt.Sprintf("meca: %s: response code [%s] not found", e.Command, strings.Join(e.Codes, ","))
}

func (e *ResponseNotFoundError) Unwrap() error { return ErrResponseNotFound }

// InvalidArgument returns an error wrapping ErrInvalidArgument.
func InvalidArgument(command string, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, command, fmt.Sprintf(format, args...))
}
