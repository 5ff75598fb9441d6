// Package meca provides the wire vocabulary shared by the control and
// real-time feedback connections of a Mecademic robot.
//
// The robot speaks an ASCII protocol over two TCP sockets. Every message is
// a frame terminated by a single NUL (0x00) byte and shaped as
//
//	[<code>][<payload>]
//
// where <code> is a decimal numeral classifying the message and <payload> is
// usually a comma-separated list of numbers, e.g. "[2007][1,1,0,0,1,0,0]".
// Outbound commands are "Name" or "Name(arg1,arg2,...)" followed by NUL.
// The protocol carries no request identifiers: replies are correlated with
// commands only through their codes.
//
// This package contains:
//   - Event and DecodeFrame: one decoded frame.
//   - Framer: reassembles frames from arbitrarily chunked reads.
//   - Source and Receiver: the readiness-driven read loop over a socket.
//   - Timeout: the three wait regimes (Forever, Poll, Within).
//   - BuildCommand: outbound command formatting.
//   - Status and payload parsers.
//   - Sentinel errors and typed faults reported by the upper layers.
//
// Codes whose leading digit is '1' form the generic error class.
package meca
