package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type serializedRunner struct {
	mu sync.Mutex
}

func (r *serializedRunner) run(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}

func TestSchedulerFiresWhenGuardHolds(t *testing.T) {
	runner := &serializedRunner{}
	scheduler := NewScheduler(runner.run)

	done := make(chan struct{})
	scheduler.SingleShot("fire", 5*time.Millisecond, func() bool { return true }, func() {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task never fired")
	}
}

func TestSchedulerSkipsTaskWhenGuardFails(t *testing.T) {
	runner := &serializedRunner{}
	scheduler := NewScheduler(runner.run)

	fired := make(chan struct{})
	scheduler.SingleShot("stale", 5*time.Millisecond, func() bool { return false }, func() {
		close(fired)
	})

	select {
	case <-fired:
		t.Fatal("stale task fired despite failed guard")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSchedulerGuardSeesStateAtFireTime(t *testing.T) {
	runner := &serializedRunner{}
	scheduler := NewScheduler(runner.run)

	// the state that justified scheduling changes before the task fires
	state := 1
	fired := make(chan struct{})
	scheduler.SingleShot("guarded", 50*time.Millisecond,
		func() bool { return state == 1 },
		func() { close(fired) })
	runner.run(func() { state = 2 })

	select {
	case <-fired:
		t.Fatal("task fired against superseded state")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSchedulerRunsBodyUnderSerializer(t *testing.T) {
	runner := &serializedRunner{}
	scheduler := NewScheduler(runner.run)

	var inBody bool
	done := make(chan struct{})
	scheduler.SingleShot("serialized", 5*time.Millisecond, func() bool {
		// guard and body run inside the same serialized section
		inBody = true
		return true
	}, func() {
		assert.True(t, inBody)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task never fired")
	}
}
