// Package control implements the control connection of a Mecademic robot:
// the command dispatcher and the command catalog built on top of it.
//
// # Dispatch
//
// The control protocol has no request identifiers. Dispatcher correlates a
// command with its reply by code, using an eventlog.Log fed from the socket:
//
//  1. drain buffered bytes without blocking,
//  2. drop stale events the command supersedes and stale replies,
//  3. send the command,
//  4. wait for new bytes (AWAIT_1),
//  5. fail on a command-specific error code,
//  6. fail on any error-class code, unless the command disables the check,
//  7. succeed on the most recent response code,
//  8. otherwise repeat 4 to 7 once (AWAIT_2) and fail with
//     meca.ResponseNotFoundError.
//
// The check order of steps 5 to 7 is part of the protocol: a specific error
// is always reported in preference to the generic error class.
//
// # Commands
//
// Controller exposes the robot commands. Request commands wait for a
// confirmed reply (1 s by default, 10 s for activation, homing and
// deactivation). Motion commands never block on acknowledgment; the log
// is merely refreshed with a very short timeout. Velocity commands are
// additionally paced to respect the firmware command-rate ceiling.
//
// Arguments are validated before any I/O. Validation failures wrap
// meca.ErrInvalidArgument and never reach the socket.
//
// A Controller serializes its callers with a mutex; the protocol itself
// cannot tell interleaved commands apart.
package control
