package meca

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Event is one decoded frame.
type Event struct {
	Code    string
	Payload string
}

// IsZero reports whether e is the empty event returned by commands that
// expect no response.
func (e Event) IsZero() bool {
	return e.Code == "" && e.Payload == ""
}

// IsError reports whether the event belongs to the generic error class.
func (e Event) IsError() bool {
	return IsErrorCode(e.Code)
}

// String returns the frame body of the event, e.g. "[2007][1,1,0,0,1,0,0]".
func (e Event) String() string {
	return "[" + e.Code + "][" + e.Payload + "]"
}

// Floats parses the payload as comma-separated floating point numbers.
func (e Event) Floats() ([]float64, error) {
	return ParseFloats(e.Payload)
}

// Ints parses the payload as comma-separated integers.
func (e Event) Ints() ([]int, error) {
	return ParseInts(e.Payload)
}

// IsErrorCode reports whether code belongs to the generic error class,
// i.e. its leading digit is '1'.
func IsErrorCode(code string) bool {
	return strings.HasPrefix(code, "1")
}

var codeSeparator = []byte("][")

// DecodeFrame decodes one frame body, without its NUL terminator, into an Event.
//
// The body must start with '[', end with ']' and contain the "][" separator.
// The code is the text between the leading '[' and the first "]["; the
// payload is everything after it up to the trailing ']'.
func DecodeFrame(frame []byte) (Event, error) {
	if len(frame) == 0 || frame[0] != '[' {
		return Event{}, &FrameError{Frame: string(frame), Reason: "invalid start char"}
	}

	if frame[len(frame)-1] != ']' {
		return Event{}, &FrameError{Frame: string(frame), Reason: "invalid end char"}
	}

	sep := bytes.Index(frame, codeSeparator)
	if sep == -1 {
		return Event{}, &FrameError{Frame: string(frame), Reason: "missing code separator"}
	}

	return Event{
		Code:    string(frame[1:sep]),
		Payload: string(frame[sep+len(codeSeparator) : len(frame)-1]),
	}, nil
}

// ParseFloats parses a comma-separated list of numbers. An empty payload
// yields an empty slice.
func ParseFloats(payload string) ([]float64, error) {
	if strings.TrimSpace(payload) == "" {
		return []float64{}, nil
	}

	fields := strings.Split(payload, ",")
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("meca: parse payload field %d of %q: %w", i, payload, err)
		}
		values[i] = v
	}

	return values, nil
}

// ParseInts parses a comma-separated list of integers. An empty payload
// yields an empty slice.
func ParseInts(payload string) ([]int, error) {
	if strings.TrimSpace(payload) == "" {
		return []int{}, nil
	}

	fields := strings.Split(payload, ",")
	values := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("meca: parse payload field %d of %q: %w", i, payload, err)
		}
		values[i] = v
	}

	return values, nil
}
