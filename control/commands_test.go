package control

import (
	"errors"
	"testing"
	"time"

	"github.com/arloliu/go-meca/meca"
	"github.com/stretchr/testify/require"
)

func TestController_Handshake(t *testing.T) {
	tests := []struct {
		name    string
		replies []string
		wantErr error
	}{
		{name: "connected", replies: []string{frames("[3000][Connected to Meca500]")}},
		{name: "already connected", replies: []string{frames("[3001][Another user is already connected]")}, wantErr: meca.ErrSpecificError},
		{name: "robot error", replies: []string{frames("[1011][Robot in error]", "[3000][Connected]")}, wantErr: meca.ErrRobotError},
		{name: "no greeting", wantErr: meca.ErrResponseNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &scriptTransport{replies: tt.replies}
			c := newTestController(t, tr, WithConnectTimeout(50*time.Millisecond))

			err := c.handshake()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			require.Empty(t, tr.writes)
		})
	}
}

func TestController_InvalidArgumentWritesNothing(t *testing.T) {
	tr := &scriptTransport{}
	c := newTestController(t, tr)

	calls := map[string]func() error{
		"MoveJoints short":     func() error { return c.MoveJoints([]float64{1, 2, 3, 4, 5}) },
		"MoveLin orientation":  func() error { return c.MoveLin([]float64{1, 2, 3}, []float64{1, 2}) },
		"SetCartAcc low bound": func() error { return c.SetCartAcc(1) },
		"SetBlending high":     func() error { return c.SetBlending(100.5) },
		"SetConf zero":         func() error { return c.SetConf(1, 0, -1) },
		"SetAutoConf":          func() error { return c.SetAutoConf(2) },
		"SetVelTimeout":        func() error { return c.SetVelTimeout(0) },
		"SetMonitoringInterval": func() error {
			return c.SetMonitoringInterval(2)
		},
		"SetEOB": func() error {
			_, err := c.SetEOB(3)
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, call(), meca.ErrInvalidArgument)
		})
	}
	require.Empty(t, tr.writes)
	require.Empty(t, tr.waits)
}

func TestController_MotionCommands(t *testing.T) {
	require := require.New(t)

	tr := &scriptTransport{}
	c := newTestController(t, tr)

	require.NoError(c.MoveJoints([]float64{0, -60, 60, 0, 0, 0}))
	require.NoError(c.MoveLin([]float64{200, 0, 300}, []float64{0, 90.5, 0}))
	require.NoError(c.SetCartAcc(100))
	require.NoError(c.SetConf(1, -1, 1))
	require.NoError(c.SetTRF([]float64{0, 0, 10}, []float64{0, 0, 0}))

	require.Equal([]string{
		"MoveJoints(0,-60,60,0,0,0)",
		"MoveLin(200,0,300,0,90.5,0)",
		"SetCartAcc(100)",
		"SetConf(1,-1,1)",
		"SetTRF(0,0,10,0,0,0)",
	}, tr.writes)

	// motion commands only refresh with the motion timeout
	require.Contains(tr.waits, meca.Within(DefaultMotionTimeout))
}

func TestController_MotionDefersErrors(t *testing.T) {
	require := require.New(t)

	tr := &scriptTransport{replies: []string{frames("[1011][Robot in error]"), frames("[2044][The motion was cleared.]")}}
	c := newTestController(t, tr)

	require.NoError(c.MoveJoints([]float64{0, 0, 0, 0, 0, 0}))

	_, err := c.ClearMotion()
	require.ErrorIs(err, meca.ErrRobotError)
}

func TestController_VelocityPacing(t *testing.T) {
	require := require.New(t)

	tr := &scriptTransport{}
	c := newTestController(t, tr)

	var slept []time.Duration
	c.disp.sleep = func(d time.Duration) { slept = append(slept, d) }

	require.NoError(c.MoveLinVelWRF([]float64{10, 0, 0}, []float64{0, 0, 5}))
	require.NoError(c.MoveJointsVel([]float64{1, 2, 3, 4, 5, 6}))
	require.Equal([]time.Duration{VelocityPacing, VelocityPacing}, slept)
	require.Equal([]string{"MoveLinVelWRF(10,0,0,0,0,5)", "MoveJointsVel(1,2,3,4,5,6)"}, tr.writes)

	// request commands are not paced
	_, err := c.Home()
	require.Error(err)
	require.Len(slept, 2)
}

func TestController_SetEOB(t *testing.T) {
	require := require.New(t)

	tr := &scriptTransport{replies: []string{
		frames("[2055][End of block is disabled.]"),
		frames("[2054][End of block is enabled.]"),
	}}
	c := newTestController(t, tr)

	ev, err := c.SetEOB(0)
	require.NoError(err)
	require.Equal(meca.CodeEOBDisabled, ev.Code)

	ev, err = c.SetEOB(1)
	require.NoError(err)
	require.Equal(meca.CodeEOBEnabled, ev.Code)
	require.Equal([]string{"SetEOB(0)", "SetEOB(1)"}, tr.writes)
}

func TestController_SetEOMWrongReply(t *testing.T) {
	tr := &scriptTransport{replies: []string{frames("[2052][End of movement is enabled.]")}}
	c := newTestController(t, tr)

	_, err := c.SetEOM(0)
	require.ErrorIs(t, err, meca.ErrResponseNotFound)
}

func TestController_GetStatusRobotInError(t *testing.T) {
	require := require.New(t)

	tr := &scriptTransport{
		pending: []byte(frames("[1011][Robot in error]")),
		replies: []string{frames("[2007][1,1,0,1,0,1,1]")},
	}
	c := newTestController(t, tr)

	status, err := c.GetStatusRobot()
	require.NoError(err)
	require.True(status.InError())
	require.True(status.IsHomed())
	require.Equal(1, status.Map()["es"])
}

func TestController_GetConf(t *testing.T) {
	require := require.New(t)

	tr := &scriptTransport{replies: []string{frames("[2029][1,-1,1]")}}
	c := newTestController(t, tr)

	conf, err := c.GetConf()
	require.NoError(err)
	require.Equal(Conf{C1: 1, C3: -1, C5: 1}, conf)
}

func TestController_ResetError(t *testing.T) {
	require := require.New(t)

	tr := &scriptTransport{
		pending: []byte(frames("[1011][Robot in error]")),
		replies: []string{frames("[1042][late error]", "[2005][The error was reset.]")},
	}
	c := newTestController(t, tr)

	ev, err := c.ResetError()
	require.NoError(err)
	require.Equal(meca.CodeErrorReset, ev.Code)

	for _, ev := range c.Events() {
		require.False(ev.IsError(), "error event %s left in log", ev)
	}
}

func TestController_ResetErrorFailure(t *testing.T) {
	tr := &scriptTransport{replies: []string{frames("[1025][Reset failed]")}}
	c := newTestController(t, tr)

	_, err := c.ResetError()

	var robotErr *meca.RobotError
	require.True(t, errors.As(err, &robotErr))
	require.True(t, robotErr.Specific)
	require.Equal(t, meca.CodeResetError, robotErr.Event.Code)
}

func TestController_SetMonitoringIntervalPolls(t *testing.T) {
	require := require.New(t)

	tr := &scriptTransport{}
	c := newTestController(t, tr)

	require.NoError(c.SetMonitoringInterval(0.015))
	require.Equal([]string{"SetMonitoringInterval(0.015)"}, tr.writes)
	for _, w := range tr.waits {
		require.True(w.IsPoll())
	}
}

func TestController_ExtendedTimeout(t *testing.T) {
	tr := &scriptTransport{replies: []string{frames("[2002][Homing done.]")}}
	c := newTestController(t, tr, WithExtendedTimeout(3*time.Second))

	_, err := c.Home()
	require.NoError(t, err)
	require.Contains(t, tr.waits, meca.Within(3*time.Second))
}

func TestController_Observer(t *testing.T) {
	require := require.New(t)

	var seen []meca.Event
	tr := &scriptTransport{pending: []byte(frames("[1005][Motors must be activated]"))}
	c := newTestController(t, tr, WithObserver(func(batch []meca.Event) { seen = append(seen, batch...) }))

	require.NoError(c.Refresh(meca.Poll()))
	require.Equal([]meca.Event{{Code: "1005", Payload: "Motors must be activated"}}, seen)
	require.Equal(seen, c.Events())
}

func TestController_MotionDrainsBeforeSend(t *testing.T) {
	require := require.New(t)

	tr := &scriptTransport{}
	c := newTestController(t, tr)

	require.NoError(c.SetAutoConf(1))
	require.NoError(c.SetVelTimeout(0.5))
	require.Equal([]string{"SetAutoConf(1)", "SetVelTimeout(0.5)"}, tr.writes)

	// each command: a poll before sending, then the motion refresh
	require.Equal([]meca.Timeout{
		meca.Poll(), meca.Within(DefaultMotionTimeout),
		meca.Poll(), meca.Within(DefaultMotionTimeout),
	}, tr.waits)
}
