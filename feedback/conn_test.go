package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/arloliu/go-meca/internal/simrobot"
	"github.com/arloliu/go-meca/meca"
	"github.com/stretchr/testify/require"
)

func TestNewConnectionConfig(t *testing.T) {
	require := require.New(t)

	cfg, err := NewConnectionConfig("127.0.0.1")
	require.NoError(err)
	require.Equal("127.0.0.1", cfg.Host())
	require.Equal(10001, cfg.Port())
	require.Equal("127.0.0.1:10001", cfg.Addr())
	require.NotNil(cfg.GetLogger())
	require.Equal(DefaultFirmware, cfg.Firmware())
	require.True(cfg.PollTimeout().IsForever())
	require.Equal(DefaultSocketTimeout, cfg.SocketTimeout())

	cfg, err = NewConnectionConfig("127.0.0.1", WithFirmware(V7), WithPollTimeout(meca.Within(time.Second)), WithPort(11001))
	require.NoError(err)
	require.Equal(V7, cfg.Firmware())
	require.Equal(time.Second, cfg.PollTimeout().Duration())
	require.Equal(11001, cfg.Port())

	for _, opt := range []ConnOption{WithPort(0), WithFirmware(Firmware(42)), WithSocketTimeout(0), WithLogger(nil)} {
		_, err := NewConnectionConfig("127.0.0.1", opt)
		require.Error(err)
	}

	_, err = NewConnectionConfig("not a host")
	require.Error(err)
}

func TestConn_SimulatedStream(t *testing.T) {
	require := require.New(t)

	r, err := simrobot.NewFeedback()
	require.NoError(err)
	defer r.Close()

	cfg, err := NewConnectionConfig("127.0.0.1",
		WithPort(r.Port()),
		WithFirmware(V8Beta),
		WithPollTimeout(meca.Within(20*time.Millisecond)),
	)
	require.NoError(err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, cfg)
	require.NoError(err)
	defer c.Close()

	require.Eventually(func() bool {
		if err := r.Push(
			meca.Event{Code: "2026", Payload: "0,-20,20,0,30,0"},
			meca.Event{Code: "2027", Payload: "190,0,308,0,90,0"},
		); err != nil {
			return false
		}

		snap, err := c.Next()
		return err == nil && snap.Joints != nil && snap.Pose != nil
	}, 2*time.Second, 20*time.Millisecond)

	snap := c.Latest()
	require.Equal([]float64{0, -20, 20, 0, 30, 0}, snap.Joints)
	require.Equal([]float64{190, 0, 308, 0, 90, 0}, snap.Pose)
	require.Nil(snap.CartVel)
}
