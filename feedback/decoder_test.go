package feedback

import (
	"fmt"
	"io"
	"testing"

	"github.com/arloliu/go-meca/meca"
	"github.com/stretchr/testify/require"
)

// streamSource serves one chunk per bounded or blocking wait. Polls only see
// what is left of the current chunk.
type streamSource struct {
	chunks  []string
	pending []byte
}

func (s *streamSource) WaitReadable(t meca.Timeout) (bool, error) {
	if !t.IsPoll() && len(s.pending) == 0 && len(s.chunks) > 0 {
		s.pending = []byte(s.chunks[0])
		s.chunks = s.chunks[1:]
	}

	return len(s.pending) > 0, nil
}

func (s *streamSource) Read(p []byte) (int, error) {
	if len(s.pending) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]

	return n, nil
}

func frames(events ...string) string {
	var out string
	for _, ev := range events {
		out += ev + "\x00"
	}

	return out
}

func TestDecoder_V9(t *testing.T) {
	require := require.New(t)

	src := &streamSource{chunks: []string{frames(
		"[2210][1,2,3,4,5,6]",
		"[2201][100,0,300,0,90,0]",
		"[2214][0.5,0,0,0,0,0]",
		"[2210][7,8,9,10,11,12]",
		"[2007][1,1,0,0,1,0,0]",
	)}}
	d := NewDecoder(src, V9, nil)

	snap, err := d.Poll(meca.Forever())
	require.NoError(err)
	require.Equal([]float64{7, 8, 9, 10, 11, 12}, snap.Joints)
	require.Equal([]float64{100, 0, 300, 0, 90, 0}, snap.Pose)
	require.Equal([]float64{0.5, 0, 0, 0, 0, 0}, snap.CartVel)
	require.Equal(&meca.Status{Activation: 1, Homing: 1, PauseMotion: 1}, snap.Status)
	require.Equal(snap, d.Latest())
	require.Equal(uint64(5), d.Metrics().FrameRecvCount.Load())
}

func TestDecoder_ProfilesPickTheirOwnCodes(t *testing.T) {
	stream := frames(
		"[2102][1,1,1,1,1,1]",
		"[2103][2,2,2,2,2,2]",
		"[2026][3,3,3,3,3,3]",
		"[2027][4,4,4,4,4,4]",
		"[2210][5,5,5,5,5,5]",
		"[2201][6,6,6,6,6,6]",
		"[2214][7,7,7,7,7,7]",
	)

	tests := []struct {
		fw      Firmware
		joints  float64
		pose    float64
		cartVel []float64
	}{
		{fw: V7, joints: 1, pose: 2},
		{fw: V8Beta, joints: 3, pose: 4},
		{fw: V9, joints: 5, pose: 6, cartVel: []float64{7, 7, 7, 7, 7, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.fw.String(), func(t *testing.T) {
			require := require.New(t)

			d := NewDecoder(&streamSource{chunks: []string{stream}}, tt.fw, nil)
			snap, err := d.Poll(meca.Forever())
			require.NoError(err)
			require.Equal(tt.joints, snap.Joints[0])
			require.Equal(tt.pose, snap.Pose[0])
			require.Equal(tt.cartVel, snap.CartVel)
			require.Nil(snap.Status)
		})
	}
}

func TestDecoder_WindowKeepsNewestTen(t *testing.T) {
	require := require.New(t)

	events := []string{"[2210][0,0,0,0,0,0]"}
	for i := 1; i <= WindowSize; i++ {
		events = append(events, fmt.Sprintf("[2201][%d,0,0,0,0,0]", i))
	}

	d := NewDecoder(&streamSource{chunks: []string{frames(events...)}}, V9, nil)
	snap, err := d.Poll(meca.Forever())
	require.NoError(err)

	// the joints frame fell out of the window
	require.Nil(snap.Joints)
	require.Equal(float64(WindowSize), snap.Pose[0])
	require.Len(d.Window(), WindowSize)
}

func TestDecoder_WindowPersistsAcrossPolls(t *testing.T) {
	require := require.New(t)

	src := &streamSource{chunks: []string{
		frames("[2210][1,2,3,4,5,6]"),
		frames("[2201][10,20,30,0,0,0]"),
	}}
	d := NewDecoder(src, V9, nil)

	snap, err := d.Poll(meca.Forever())
	require.NoError(err)
	require.Nil(snap.Pose)

	snap, err = d.Poll(meca.Forever())
	require.NoError(err)
	require.Equal([]float64{1, 2, 3, 4, 5, 6}, snap.Joints)
	require.Equal([]float64{10, 20, 30, 0, 0, 0}, snap.Pose)

	// nothing new: the window still answers
	snap, err = d.Poll(meca.Poll())
	require.NoError(err)
	require.Equal([]float64{1, 2, 3, 4, 5, 6}, snap.Joints)
	require.Equal(uint64(3), d.Metrics().PollCount.Load())
}

func TestDecoder_EmptyStream(t *testing.T) {
	d := NewDecoder(&streamSource{}, V7, nil)

	snap, err := d.Poll(meca.Poll())
	require.NoError(t, err)
	require.True(t, snap.IsEmpty())
}

func TestDecoder_Errors(t *testing.T) {
	require := require.New(t)

	d := NewDecoder(&streamSource{chunks: []string{frames("[2210][1,2,3,4,5,6]", "2201][bad")}}, V9, nil)
	_, err := d.Poll(meca.Forever())
	require.ErrorIs(err, meca.ErrMalformedFrame)
	require.True(d.Latest().IsEmpty())
	require.Len(d.Window(), 1)
	require.Equal(uint64(1), d.Metrics().FramingErrCount.Load())

	d = NewDecoder(&streamSource{chunks: []string{frames("[2210][1,x,3]")}}, V9, nil)
	_, err = d.Poll(meca.Forever())
	require.Error(err)
	require.Contains(err.Error(), "2210")
}

func TestParseFirmware(t *testing.T) {
	for _, fw := range []Firmware{V7, V8Beta, V9} {
		got, err := ParseFirmware(fw.String())
		require.NoError(t, err)
		require.Equal(t, fw, got)
	}

	_, err := ParseFirmware("v10")
	require.Error(t, err)
	require.False(t, Firmware(9).Valid())
	require.Equal(t, CodeMap{}, Firmware(9).Codes())
}
