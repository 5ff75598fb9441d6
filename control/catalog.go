package control

import (
	"math"
	"slices"
	"strings"

	"github.com/arloliu/go-meca/meca"
)

type commandKind uint8

const (
	requestKind  commandKind = iota // waits for a confirmed reply
	motionKind                      // refreshes the log with the motion timeout
	velocityKind                    // motion command followed by VelocityPacing
)

type waitClass uint8

const (
	requestWait  waitClass = iota // RequestTimeout
	extendedWait                  // ExtendedTimeout
	pollWait                      // no wait after sending
)

// argRule validates one argument group of a command: a scalar when size is
// zero, otherwise a vector of exactly size elements.
type argRule struct {
	name  string
	size  int
	valid func(float64) bool
	want  string
}

// descriptor declares one command of the catalog.
type descriptor struct {
	name        string
	kind        commandKind
	wait        waitClass
	args        []argRule
	clear       []string
	clearErrors bool
	errors      []string
	responses   []string
	checkErrors bool
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func vector(name string, size int) argRule {
	return argRule{name: name, size: size, valid: finite, want: "a finite number"}
}

// closed accepts lo <= v <= hi.
func closed(name string, lo, hi float64) argRule {
	return argRule{
		name:  name,
		valid: func(v float64) bool { return v >= lo && v <= hi },
		want:  "in [" + meca.FormatNumber(lo) + ", " + meca.FormatNumber(hi) + "]",
	}
}

// openLow accepts lo < v <= hi.
func openLow(name string, lo, hi float64) argRule {
	return argRule{
		name:  name,
		valid: func(v float64) bool { return v > lo && v <= hi },
		want:  "in (" + meca.FormatNumber(lo) + ", " + meca.FormatNumber(hi) + "]",
	}
}

func oneOf(name string, values ...float64) argRule {
	want := make([]string, len(values))
	for i, v := range values {
		want[i] = meca.FormatNumber(v)
	}

	return argRule{
		name:  name,
		valid: func(v float64) bool { return slices.Contains(values, v) },
		want:  "one of {" + strings.Join(want, ", ") + "}",
	}
}

// validate checks groups against the rules of d and flattens them into the
// command argument list.
func (d descriptor) validate(groups [][]float64) ([]float64, error) {
	if len(groups) != len(d.args) {
		return nil, meca.InvalidArgument(d.name, "expects %d arguments, %d provided", len(d.args), len(groups))
	}

	var args []float64
	for i, rule := range d.args {
		group := groups[i]

		size := max(rule.size, 1)
		if len(group) != size {
			return nil, meca.InvalidArgument(d.name, "%s must have %d elements, %d provided", rule.name, size, len(group))
		}

		for _, v := range group {
			if !rule.valid(v) {
				return nil, meca.InvalidArgument(d.name, "invalid value %s=%v, want %s", rule.name, v, rule.want)
			}
		}
		args = append(args, group...)
	}

	return args, nil
}

var (
	poseArgs     = []argRule{vector("position", 3), vector("orientation", 3)}
	velocityArgs = []argRule{vector("p_dot", 3), vector("w", 3)}
	frameArgs    = []argRule{vector("origin", 3), vector("orientation", 3)}
)

// Request commands.
var (
	cmdActivateRobot = descriptor{
		name: "ActivateRobot", kind: requestKind, wait: extendedWait,
		clear:       []string{meca.CodeStaleActivationState},
		errors:      []string{meca.CodeActivationError},
		responses:   []string{meca.CodeActivated, meca.CodeAlreadyActivated},
		checkErrors: true,
	}
	cmdDeactivateRobot = descriptor{
		name: "DeactivateRobot", kind: requestKind, wait: extendedWait,
		clear:       []string{meca.CodeStaleActivationState},
		responses:   []string{meca.CodeDeactivated},
		checkErrors: true,
	}
	cmdHome = descriptor{
		name: "Home", kind: requestKind, wait: extendedWait,
		clear:       []string{meca.CodeStaleHomingState},
		errors:      []string{meca.CodeHomingError},
		responses:   []string{meca.CodeHomed, meca.CodeAlreadyHomed},
		checkErrors: true,
	}
	// ResetError drops every pending error before sending and must not
	// fail on the errors it is resetting.
	cmdResetError = descriptor{
		name: "ResetError", kind: requestKind,
		clearErrors: true,
		errors:      []string{meca.CodeResetError},
		responses:   []string{meca.CodeErrorReset, meca.CodeNoErrorToReset},
	}
	cmdClearMotion = descriptor{
		name: "ClearMotion", kind: requestKind,
		responses:   []string{meca.CodeMotionCleared},
		checkErrors: true,
	}
	cmdResumeMotion = descriptor{
		name: "ResumeMotion", kind: requestKind,
		responses:   []string{meca.CodeMotionResumed},
		checkErrors: true,
	}
	cmdGetConf = descriptor{
		name: "GetConf", kind: requestKind,
		responses:   []string{meca.CodeConf},
		checkErrors: true,
	}
	// GetStatusRobot must succeed while the robot is in error.
	cmdGetStatusRobot = descriptor{
		name: "GetStatusRobot", kind: requestKind,
		responses: []string{meca.CodeStatusRobot},
	}
	cmdSetEOBEnabled = descriptor{
		name: "SetEOB", kind: requestKind,
		args:        []argRule{oneOf("e", 0, 1)},
		responses:   []string{meca.CodeEOBEnabled},
		checkErrors: true,
	}
	cmdSetEOBDisabled = descriptor{
		name: "SetEOB", kind: requestKind,
		args:        []argRule{oneOf("e", 0, 1)},
		responses:   []string{meca.CodeEOBDisabled},
		checkErrors: true,
	}
	cmdSetEOMEnabled = descriptor{
		name: "SetEOM", kind: requestKind,
		args:        []argRule{oneOf("e", 0, 1)},
		responses:   []string{meca.CodeEOMEnabled},
		checkErrors: true,
	}
	cmdSetEOMDisabled = descriptor{
		name: "SetEOM", kind: requestKind,
		args:        []argRule{oneOf("e", 0, 1)},
		responses:   []string{meca.CodeEOMDisabled},
		checkErrors: true,
	}
	cmdSetMonitoringInterval = descriptor{
		name: "SetMonitoringInterval", kind: requestKind, wait: pollWait,
		args:        []argRule{closed("t", 0.001, 1)},
		checkErrors: true,
	}
)

// Motion commands.
var (
	cmdMoveJoints    = descriptor{name: "MoveJoints", kind: motionKind, args: []argRule{vector("joints", 6)}}
	cmdMoveLin       = descriptor{name: "MoveLin", kind: motionKind, args: poseArgs}
	cmdMoveLinRelTRF = descriptor{name: "MoveLinRelTRF", kind: motionKind, args: poseArgs}
	cmdMoveLinRelWRF = descriptor{name: "MoveLinRelWRF", kind: motionKind, args: poseArgs}
	cmdMovePose      = descriptor{name: "MovePose", kind: motionKind, args: poseArgs}
	cmdSetAutoConf   = descriptor{name: "SetAutoConf", kind: motionKind, args: []argRule{oneOf("e", 0, 1)}}
	cmdSetBlending   = descriptor{name: "SetBlending", kind: motionKind, args: []argRule{closed("p", 0, 100)}}
	cmdSetCartAcc    = descriptor{name: "SetCartAcc", kind: motionKind, args: []argRule{openLow("p", 1, 100)}}
	cmdSetCartAngVel = descriptor{name: "SetCartAngVel", kind: motionKind, args: []argRule{closed("omega", 0.001, 180)}}
	cmdSetCartLinVel = descriptor{name: "SetCartLinVel", kind: motionKind, args: []argRule{closed("v", 0.001, 500)}}
	cmdSetConf       = descriptor{name: "SetConf", kind: motionKind, args: []argRule{oneOf("c1", -1, 1), oneOf("c3", -1, 1), oneOf("c5", -1, 1)}}
	cmdSetJointAcc   = descriptor{name: "SetJointAcc", kind: motionKind, args: []argRule{closed("p", 1, 100)}}
	cmdSetJointVel   = descriptor{name: "SetJointVel", kind: motionKind, args: []argRule{closed("p", 0, 100)}}
	cmdSetTRF        = descriptor{name: "SetTRF", kind: motionKind, args: frameArgs}
	cmdSetWRF        = descriptor{name: "SetWRF", kind: motionKind, args: frameArgs}
)

// Velocity commands.
var (
	cmdMoveJointsVel = descriptor{name: "MoveJointsVel", kind: velocityKind, args: []argRule{vector("joints_vel", 6)}}
	cmdMoveLinVelTRF = descriptor{name: "MoveLinVelTRF", kind: velocityKind, args: velocityArgs}
	cmdMoveLinVelWRF = descriptor{name: "MoveLinVelWRF", kind: velocityKind, args: velocityArgs}
	cmdSetVelTimeout = descriptor{name: "SetVelTimeout", kind: velocityKind, args: []argRule{closed("t", 0.001, 1)}}
)
