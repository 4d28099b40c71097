package clock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/clock"
)

func TestClockDays(t *testing.T) {
	c := clock.New(3)
	days := 0
	for range 10 {
		if c.DayDue() {
			c.NextDay()
			days++
		}
		c.NextTick()
	}
	// ticks 1..10, days settle before ticks 4, 7, 10
	assert.Equal(t, 3, days)
	assert.Equal(t, int32(3), c.Day)
	assert.Equal(t, int64(10), c.InternalStep)
	assert.Equal(t, int32(1), c.Tick)
	assert.Equal(t, "Day 3 tick 1/3", c.String())
}

func TestClockMinimumTicks(t *testing.T) {
	c := clock.New(0)
	assert.Equal(t, int32(1), c.TicksPerDay)
	c.NextTick()
	assert.True(t, c.DayDue())
}
