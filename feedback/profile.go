package feedback

import (
	"fmt"
	"strings"

	"github.com/arloliu/go-meca/meca"
)

// Firmware selects the code map of the monitoring stream.
type Firmware uint8

const (
	V7 Firmware = iota
	V8Beta
	V9
)

// CodeMap holds the codes of the tracked quantities. An empty code means
// the firmware does not emit that quantity.
type CodeMap struct {
	Joints  string
	Pose    string
	CartVel string
	Status  string
}

var codeMaps = map[Firmware]CodeMap{
	// v7 declares 2007 but never sends it on the monitoring port.
	V7:     {Joints: "2102", Pose: "2103", Status: meca.CodeStatusRobot},
	V8Beta: {Joints: "2026", Pose: "2027", Status: meca.CodeStatusRobot},
	V9:     {Joints: "2210", Pose: "2201", CartVel: "2214", Status: meca.CodeStatusRobot},
}

// Codes returns the code map of f.
func (f Firmware) Codes() CodeMap {
	return codeMaps[f]
}

// Valid reports whether f is a known firmware generation.
func (f Firmware) Valid() bool {
	_, ok := codeMaps[f]
	return ok
}

func (f Firmware) String() string {
	switch f {
	case V7:
		return "v7"
	case V8Beta:
		return "v8-beta"
	case V9:
		return "v9"
	default:
		return fmt.Sprintf("Firmware(%d)", f)
	}
}

// ParseFirmware parses "v7", "v8-beta" or "v9", case-insensitively.
func ParseFirmware(s string) (Firmware, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v7", "7":
		return V7, nil
	case "v8-beta", "v8beta", "8-beta":
		return V8Beta, nil
	case "v9", "9":
		return V9, nil
	}

	return 0, fmt.Errorf("feedback: unknown firmware %q", s)
}
