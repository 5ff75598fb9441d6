package meca

import (
	"strconv"
	"strings"
)

// BuildCommand formats an outbound command: the bare name when there are no
// arguments, otherwise "Name(a1,a2,...)".
//
// Numbers use the shortest representation that round-trips, so integral
// values carry no fraction: BuildCommand("MoveJoints", 10, 20, 30, 40, 50, 60)
// yields "MoveJoints(10,20,30,40,50,60)".
func BuildCommand(name string, args ...float64) string {
	if len(args) == 0 {
		return name
	}

	var sb strings.Builder
	sb.Grow(len(name) + 2 + len(args)*8)
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, v := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(FormatNumber(v))
	}
	sb.WriteByte(')')

	return sb.String()
}

// FormatNumber formats one command argument.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// EncodeCommand appends the frame terminator to cmd.
func EncodeCommand(cmd string) []byte {
	out := make([]byte, 0, len(cmd)+1)
	out = append(out, cmd...)

	return append(out, FrameTerminator)
}
