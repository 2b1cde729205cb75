package lifecycle

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestHeartbeat_Expired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	hb := newHeartbeat(clock.Now)

	clock.Advance(90 * time.Second)
	assert.False(t, hb.Expired(90*time.Second), "exactly at the limit is not expired")

	clock.Advance(time.Second)
	assert.True(t, hb.Expired(90*time.Second))

	hb.Beat()
	assert.False(t, hb.Expired(90*time.Second))
	assert.Equal(t, clock.Now(), hb.Last())
}

func TestWatchdog_FiresOnce(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	hb := newHeartbeat(clock.Now)
	clock.Advance(time.Minute)

	var fired atomic.Int32
	done := make(chan struct{})
	go func() {
		NewWatchdog(hb, 5*time.Millisecond, 30*time.Second, nil).Run(context.Background(), func() {
			fired.Add(1)
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watchdog did not fire")
	}
	assert.Equal(t, int32(1), fired.Load())
}

func TestWatchdog_StopsOnCancel(t *testing.T) {
	hb := NewHeartbeat()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewWatchdog(hb, 5*time.Millisecond, time.Hour, nil).Run(ctx, func() {
			t.Error("watchdog fired while heartbeat was fresh")
		})
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watchdog ignored cancellation")
	}
}

func TestWatchdog_Disabled(t *testing.T) {
	// Returns immediately without a timeout.
	NewWatchdog(NewHeartbeat(), time.Millisecond, 0, nil).Run(context.Background(), func() {
		t.Error("disabled watchdog fired")
	})
}
