package task_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/room"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/scenario"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/task"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/utils/config"
)

type fakeRecorder struct {
	mu    sync.Mutex
	days  []int32
	rooms []int
	err   error
}

func (r *fakeRecorder) Record(_ context.Context, day int32, rooms []*room.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.days = append(r.days, day)
	r.rooms = append(r.rooms, len(rooms))
	return r.err
}

func (r *fakeRecorder) Close(context.Context) error { return nil }

func (r *fakeRecorder) recorded() []int32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int32(nil), r.days...)
}

func newScenario(t *testing.T) *scenario.Scenario {
	p := config.DefaultScenario()
	p.Seed = 1
	p.Rooms = 2
	p.Members = 50
	p.Shape = config.Shape{Width: 20, Height: 20}
	p.FramesPerDay = 3
	s, err := scenario.New(p, nil)
	require.NoError(t, err)
	return s
}

func TestRunUntilDays(t *testing.T) {
	rec := &fakeRecorder{}
	ctx := task.NewContext(newScenario(t), config.Control{TickInterval: 1, Days: 3, Heartbeat: 1}, rec)
	ctx.Run(context.Background())

	assert.True(t, ctx.Finished())
	assert.Equal(t, []int32{0, 1, 2}, rec.recorded())
	assert.Equal(t, []int{2, 2, 2}, rec.rooms)
	require.NoError(t, ctx.Do(func(s *scenario.Scenario) error {
		assert.Equal(t, int32(3), s.Day())
		assert.Len(t, s.Data(), 3)
		return nil
	}))
}

func TestRunPausedAndCancelled(t *testing.T) {
	rec := &fakeRecorder{}
	ctx := task.NewContext(newScenario(t), config.Control{TickInterval: 1, Paused: true}, rec)
	assert.False(t, ctx.Playing())
	c, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	ctx.Run(c)
	assert.Empty(t, rec.recorded())
	require.NoError(t, ctx.Do(func(s *scenario.Scenario) error {
		assert.Equal(t, int64(0), s.Clock().InternalStep)
		return nil
	}))
}

func TestClose(t *testing.T) {
	ctx := task.NewContext(newScenario(t), config.Control{TickInterval: 1}, nil)
	finished := make(chan struct{})
	go func() {
		ctx.Run(context.Background())
		close(finished)
	}()
	time.Sleep(10 * time.Millisecond)
	ctx.Close()
	ctx.Close()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("run did not stop after close")
	}
	assert.False(t, ctx.Finished())
}

func TestStepDay(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	ctx := task.NewContext(newScenario(t), config.Control{Paused: true}, rec)
	assert.Error(t, ctx.StepDay(context.Background()))
	assert.Error(t, ctx.StepDay(context.Background()))
	assert.Equal(t, []int32{0, 1}, rec.recorded())
	assert.Equal(t, int32(2), ctx.Day())

	ctx.Play()
	assert.True(t, ctx.Playing())
	ctx.Pause()
	assert.False(t, ctx.Playing())

	days := 0
	for range 9 {
		day, _ := ctx.Step(context.Background())
		if day {
			days++
		}
	}
	assert.Equal(t, 3, days)
}
