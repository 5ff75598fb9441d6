package meca

import (
	"fmt"
)

// statusFields is the positional layout of a status-robot payload.
var statusFields = [...]string{"as", "hs", "sm", "es", "pm", "eob", "eom"}

// Status is the decoded status-robot payload (code 2007).
type Status struct {
	Activation    int // as
	Homing        int // hs
	Simulation    int // sm
	Error         int // es
	PauseMotion   int // pm
	EndOfBlock    int // eob
	EndOfMovement int // eom
}

// ParseStatus decodes a payload such as "1,1,0,0,1,0,0".
func ParseStatus(payload string) (Status, error) {
	values, err := ParseInts(payload)
	if err != nil {
		return Status{}, err
	}

	if len(values) < len(statusFields) {
		return Status{}, fmt.Errorf("meca: status payload %q has %d fields, want %d", payload, len(values), len(statusFields))
	}

	return Status{
		Activation:    values[0],
		Homing:        values[1],
		Simulation:    values[2],
		Error:         values[3],
		PauseMotion:   values[4],
		EndOfBlock:    values[5],
		EndOfMovement: values[6],
	}, nil
}

// Map returns the status keyed by the firmware field names (as, hs, sm, es, pm, eob, eom).
func (s Status) Map() map[string]int {
	values := [...]int{s.Activation, s.Homing, s.Simulation, s.Error, s.PauseMotion, s.EndOfBlock, s.EndOfMovement}
	out := make(map[string]int, len(statusFields))
	for i, name := range statusFields {
		out[name] = values[i]
	}

	return out
}

func (s Status) IsActivated() bool { return s.Activation == 1 }
func (s Status) IsHomed() bool     { return s.Homing == 1 }
func (s Status) InError() bool     { return s.Error == 1 }
