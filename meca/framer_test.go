package meca

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var sampleEvents = []Event{
	{Code: "3000", Payload: "Connected to Meca500 R3 v9.0.0."},
	{Code: "2007", Payload: "1,1,0,0,1,0,0"},
	{Code: "1005", Payload: ""},
	{Code: "2210", Payload: "0.000,-20.501,40.125,0.000,-19.624,0.000"},
	{Code: "2001", Payload: "Motors already activated."},
	{Code: "2029", Payload: "1,1,-1"},
}

func encodeEvents(events []Event) []byte {
	var buf bytes.Buffer
	for _, ev := range events {
		buf.WriteString(ev.String())
		buf.WriteByte(FrameTerminator)
	}

	return buf.Bytes()
}

func feedChunks(t *testing.T, f *Framer, stream []byte, chunk func(remaining int) int) []Event {
	t.Helper()

	var out []Event
	for len(stream) > 0 {
		n := chunk(len(stream))
		f.Feed(stream[:n])
		stream = stream[n:]

		events, err := f.DecodeReady()
		require.NoError(t, err)
		out = append(out, events...)
	}

	return out
}

func TestFramer_RoundTripChunked(t *testing.T) {
	stream := encodeEvents(sampleEvents)

	for _, size := range []int{1, 2, 3, 5, 8, 13, 64, len(stream)} {
		f := NewFramer()
		got := feedChunks(t, f, stream, func(remaining int) int { return min(size, remaining) })
		require.Equal(t, sampleEvents, got, "chunk size %d", size)
		require.Zero(t, f.Buffered())
	}
}

func TestFramer_RoundTripRandomChunks(t *testing.T) {
	events := make([]Event, 0, 300)
	for i := range 50 {
		events = append(events, sampleEvents...)
		events[len(events)-1].Payload = strings.Repeat("9", i)
	}
	stream := encodeEvents(events)

	rng := rand.New(rand.NewSource(7))
	f := NewFramer()
	got := feedChunks(t, f, stream, func(remaining int) int { return 1 + rng.Intn(min(remaining, 40)) })
	require.Equal(t, events, got)
}

func TestFramer_SplitAtDelimiter(t *testing.T) {
	require := require.New(t)
	f := NewFramer()

	// the chunk ends right before the terminator
	f.Feed([]byte("[2044][The motion was cleared.]"))
	events, err := f.DecodeReady()
	require.NoError(err)
	require.Empty(events)
	require.Equal(len("[2044][The motion was cleared.]"), f.Buffered())

	f.Feed([]byte{FrameTerminator})
	f.Feed([]byte("[2043]"))
	events, err = f.DecodeReady()
	require.NoError(err)
	require.Equal([]Event{{Code: "2044", Payload: "The motion was cleared."}}, events)
	require.Equal(len("[2043]"), f.Buffered())

	f.Feed([]byte("[Motion resumed.]\x00"))
	events, err = f.DecodeReady()
	require.NoError(err)
	require.Equal([]Event{{Code: "2043", Payload: "Motion resumed."}}, events)
	require.Zero(f.Buffered())
}

func TestFramer_SkipsEmptyFrames(t *testing.T) {
	f := NewFramer()
	f.Feed([]byte("\x00\x00[2000][]\x00\x00"))

	events, err := f.DecodeReady()
	require.NoError(t, err)
	require.Equal(t, []Event{{Code: "2000"}}, events)
}

func TestFramer_MalformedFrame(t *testing.T) {
	for _, bad := range []string{"2007][1]", "[2007][1", "[2007]"} {
		t.Run(bad, func(t *testing.T) {
			require := require.New(t)
			f := NewFramer()

			f.Feed([]byte("[2000][]\x00" + bad + "\x00[2001][]\x00[20"))
			events, err := f.DecodeReady()
			require.ErrorIs(err, ErrMalformedFrame)
			require.Equal([]Event{{Code: "2000"}, {Code: "2001"}}, events)

			// later decoding is not affected
			f.Feed([]byte("04][]\x00"))
			events, err = f.DecodeReady()
			require.NoError(err)
			require.Equal([]Event{{Code: "2004"}}, events)
		})
	}
}

func TestFramer_Oversized(t *testing.T) {
	require := require.New(t)
	f := NewFramer()

	f.Feed(bytes.Repeat([]byte{'['}, MaxFrameSize+1))
	events, err := f.DecodeReady()
	require.ErrorIs(err, ErrMalformedFrame)
	require.Empty(events)
	require.Zero(f.Buffered())

	f.Feed([]byte("[2002][]\x00"))
	events, err = f.DecodeReady()
	require.NoError(err)
	require.Equal([]Event{{Code: "2002"}}, events)
}

// FuzzFramer verifies that arbitrary chunking never loses, duplicates or
// reorders frames, and that arbitrary input never panics.
func FuzzFramer(f *testing.F) {
	f.Add(encodeEvents(sampleEvents), uint8(1))
	f.Add([]byte("[2007][1,1,0,0,1,0,0]\x00[20"), uint8(3))
	f.Add([]byte("\x00\x00]["), uint8(2))
	f.Add([]byte{}, uint8(0))

	f.Fuzz(func(t *testing.T, data []byte, step uint8) {
		size := int(step)%16 + 1

		whole := NewFramer()
		whole.Feed(data)
		want, wantErr := whole.DecodeReady()

		chunked := NewFramer()
		var got []Event
		var gotErr bool
		for i := 0; i < len(data); i += size {
			chunked.Feed(data[i:min(i+size, len(data))])
			events, err := chunked.DecodeReady()
			got = append(got, events...)
			gotErr = gotErr || err != nil
		}

		if len(data) <= MaxFrameSize {
			require.Equal(t, want, got)
			require.Equal(t, wantErr != nil, gotErr)
			require.Equal(t, whole.Buffered(), chunked.Buffered())
		}
	})
}
