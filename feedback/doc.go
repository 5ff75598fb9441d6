// Package feedback decodes the real-time monitoring stream of the robot.
//
// The monitoring port pushes joint, pose, velocity and status frames at the
// period set by control.Controller.SetMonitoringInterval. A Decoder keeps
// the newest WindowSize frames and extracts, for each quantity, the value of
// the newest frame carrying that quantity's code. The codes depend on the
// firmware generation, see Firmware.
//
// A Decoder is independent of the control connection and may be driven
// from another goroutine, but it must itself have a single owner.
package feedback
