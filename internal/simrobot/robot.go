// Package simrobot provides a TCP robot simulator for tests.
//
// A control Robot greets every accepted client with 3000, rejects a second
// concurrent client with 3001, and answers request commands from a small
// state machine. A feedback Robot only broadcasts pushed events.
package simrobot

import (
	"bufio"
	"errors"
	"net"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/arloliu/go-meca/logger"
	"github.com/arloliu/go-meca/meca"
)

// Reply computes the events sent back for one received command. Returning
// nil sends nothing.
type Reply func(args []float64) []meca.Event

// Option configures a Robot.
type Option func(*Robot)

// WithReply overrides the reply of the named command.
func WithReply(name string, reply Reply) Option {
	return func(r *Robot) {
		r.replies[name] = reply
	}
}

// WithStaticReply overrides the reply of the named command with fixed events.
func WithStaticReply(name string, events ...meca.Event) Option {
	return WithReply(name, func([]float64) []meca.Event { return events })
}

// WithLogger sets the logger of the simulator.
func WithLogger(l logger.Logger) Option {
	return func(r *Robot) {
		r.logger = l
	}
}

// Robot is a simulated robot listening on a loopback port.
type Robot struct {
	ln       net.Listener
	feedback bool
	logger   logger.Logger

	mu       sync.Mutex
	closed   bool
	conns    []net.Conn
	owner    net.Conn
	commands []string
	replies  map[string]Reply
	state    state

	wg sync.WaitGroup
}

type state struct {
	activated bool
	homed     bool
	inError   bool
	eob       bool
	eom       bool
	conf      [3]int
}

// NewControl starts a simulated control port.
func NewControl(opts ...Option) (*Robot, error) {
	return start(false, opts)
}

// NewFeedback starts a simulated monitoring port.
func NewFeedback(opts ...Option) (*Robot, error) {
	return start(true, opts)
}

func start(feedback bool, opts []Option) (*Robot, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	r := &Robot{
		ln:       ln,
		feedback: feedback,
		logger:   logger.GetLogger(),
		replies:  make(map[string]Reply),
		state:    state{eob: true, eom: true, conf: [3]int{1, 1, 1}},
	}
	for _, opt := range opts {
		opt(r)
	}

	r.wg.Add(1)
	go r.acceptLoop()

	return r, nil
}

// Addr returns the listening address.
func (r *Robot) Addr() string { return r.ln.Addr().String() }

// Port returns the listening port.
func (r *Robot) Port() int { return r.ln.Addr().(*net.TCPAddr).Port }

// Commands returns the commands received so far, oldest first.
func (r *Robot) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.commands)
}

// SetError puts the robot in error and pushes ev to the clients.
func (r *Robot) SetError(ev meca.Event) error {
	r.mu.Lock()
	r.state.inError = true
	r.mu.Unlock()

	return r.Push(ev)
}

// Push sends events to every connected client.
func (r *Robot) Push(events ...meca.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	payload := encode(events)

	var errs []error
	for _, conn := range r.conns {
		if _, err := conn.Write(payload); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Close stops the listener and disconnects every client.
func (r *Robot) Close() error {
	err := r.ln.Close()

	r.mu.Lock()
	r.closed = true
	for _, conn := range r.conns {
		_ = conn.Close()
	}
	r.mu.Unlock()

	r.wg.Wait()

	return err
}

func (r *Robot) acceptLoop() {
	defer r.wg.Done()

	for {
		conn, err := r.ln.Accept()
		if err != nil {
			return
		}

		ok, closed := r.register(conn)
		if closed {
			_ = conn.Close()
			return
		}

		if !ok {
			r.logger.Warn("simrobot: rejecting duplicate connection", "remoteAddr", conn.RemoteAddr())
			_, _ = conn.Write(encode([]meca.Event{{Code: meca.CodeAlreadyConnected, Payload: "Another user is already connected, closing connection"}}))
			_ = conn.Close()

			continue
		}

		r.wg.Add(1)
		go r.serve(conn)
	}
}

// register adds conn to the clients. A control robot accepts one owner at a
// time and greets it.
func (r *Robot) register(conn net.Conn) (ok bool, closed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false, true
	}

	if !r.feedback {
		if r.owner != nil {
			return false, false
		}
		r.owner = conn
		_, _ = conn.Write(encode([]meca.Event{{Code: meca.CodeConnected, Payload: "Connected to Meca500 R3 v9.3.0"}}))
	}
	r.conns = append(r.conns, conn)

	return true, false
}

func (r *Robot) serve(conn net.Conn) {
	defer r.wg.Done()
	defer r.drop(conn)

	br := bufio.NewReader(conn)
	for {
		line, err := br.ReadString(meca.FrameTerminator)
		if err != nil {
			return
		}

		cmd := strings.TrimSuffix(line, string(meca.FrameTerminator))
		if cmd == "" || r.feedback {
			continue
		}

		reply := r.handle(cmd)
		if len(reply) == 0 {
			continue
		}

		if err := r.write(conn, encode(reply)); err != nil {
			return
		}
	}
}

func (r *Robot) write(conn net.Conn, p []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := conn.Write(p)

	return err
}

func (r *Robot) drop(conn net.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conns = slices.DeleteFunc(r.conns, func(c net.Conn) bool { return c == conn })
	if r.owner == conn {
		r.owner = nil
	}
	_ = conn.Close()
}

func (r *Robot) handle(cmd string) []meca.Event {
	name, args := parseCommand(cmd)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands = append(r.commands, cmd)
	r.logger.Debug("simrobot: command received", "cmd", cmd)

	if reply, ok := r.replies[name]; ok {
		return reply(args)
	}

	return r.state.apply(name, args)
}

func (s *state) apply(name string, args []float64) []meca.Event {
	switch name {
	case "ActivateRobot":
		if s.activated {
			return reply(meca.CodeAlreadyActivated, "Motors already activated.")
		}
		s.activated = true

		return reply(meca.CodeActivated, "Motors activated.")
	case "DeactivateRobot":
		s.activated, s.homed = false, false
		return reply(meca.CodeDeactivated, "Motors deactivated.")
	case "Home":
		switch {
		case !s.activated:
			return reply(meca.CodeHomingError, "Homing failed.")
		case s.homed:
			return reply(meca.CodeAlreadyHomed, "Homing already done.")
		}
		s.homed = true

		return reply(meca.CodeHomed, "Homing done.")
	case "ResetError":
		if !s.inError {
			return reply(meca.CodeNoErrorToReset, "There was no error to reset.")
		}
		s.inError = false

		return reply(meca.CodeErrorReset, "The error was reset.")
	case "ClearMotion":
		return reply(meca.CodeMotionCleared, "The motion was cleared.")
	case "ResumeMotion":
		return reply(meca.CodeMotionResumed, "Motion resumed.")
	case "GetConf":
		return reply(meca.CodeConf, join(s.conf[0], s.conf[1], s.conf[2]))
	case "GetStatusRobot":
		return reply(meca.CodeStatusRobot, join(bit(s.activated), bit(s.homed), 0, bit(s.inError), 0, bit(s.eob), bit(s.eom)))
	case "SetEOB":
		s.eob = len(args) == 1 && args[0] == 1
		if s.eob {
			return reply(meca.CodeEOBEnabled, "End of block is enabled.")
		}

		return reply(meca.CodeEOBDisabled, "End of block is disabled.")
	case "SetEOM":
		s.eom = len(args) == 1 && args[0] == 1
		if s.eom {
			return reply(meca.CodeEOMEnabled, "End of movement is enabled.")
		}

		return reply(meca.CodeEOMDisabled, "End of movement is disabled.")
	case "SetConf":
		if len(args) == 3 {
			s.conf = [3]int{int(args[0]), int(args[1]), int(args[2])}
		}
	}

	return nil
}

func reply(code, payload string) []meca.Event {
	return []meca.Event{{Code: code, Payload: payload}}
}

func bit(b bool) int {
	if b {
		return 1
	}

	return 0
}

func join(values ...int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}

	return strings.Join(parts, ",")
}

// parseCommand splits "Name(a,b)" into its name and numeric arguments.
// Arguments that are not numbers are skipped.
func parseCommand(cmd string) (string, []float64) {
	name, rest, ok := strings.Cut(cmd, "(")
	if !ok {
		return cmd, nil
	}

	var args []float64
	for _, field := range strings.Split(strings.TrimSuffix(rest, ")"), ",") {
		if v, err := strconv.ParseFloat(strings.TrimSpace(field), 64); err == nil {
			args = append(args, v)
		}
	}

	return name, args
}

func encode(events []meca.Event) []byte {
	var sb strings.Builder
	for _, ev := range events {
		sb.WriteString(ev.String())
		sb.WriteByte(meca.FrameTerminator)
	}

	return []byte(sb.String())
}
