package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerPool(t *testing.T) {
	assert := assert.New(t)

	t.Run("reused timer fires with the new duration", func(t *testing.T) {
		timer := GetTimer(time.Hour)
		PutTimer(timer)

		start := time.Now()
		timer = GetTimer(20 * time.Millisecond)
		<-timer.C
		assert.Less(time.Since(start), time.Hour)
		PutTimer(timer)
	})

	t.Run("expired timer does not leak a tick", func(t *testing.T) {
		timer := GetTimer(time.Millisecond)
		time.Sleep(10 * time.Millisecond)
		PutTimer(timer)

		timer = GetTimer(50 * time.Millisecond)
		select {
		case <-timer.C:
			t.Error("stale tick delivered")
		case <-time.After(20 * time.Millisecond):
		}
		PutTimer(timer)
	})
}

func TestSleep(t *testing.T) {
	start := time.Now()
	Sleep(15 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)

	start = time.Now()
	Sleep(0)
	Sleep(-time.Second)
	assert.Less(t, time.Since(start), 10*time.Millisecond)
}
