package bed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/agentsociety-epidemic/entity/bed"
)

func TestPoolAcquireRelease(t *testing.T) {
	p := bed.NewPool(2)
	assert.Equal(t, int32(2), p.Available())
	assert.True(t, p.Acquire())
	assert.True(t, p.Acquire())
	assert.False(t, p.Acquire())
	assert.Equal(t, int32(0), p.Available())
	assert.Equal(t, int32(2), p.Occupied())
	p.Release()
	assert.Equal(t, int32(1), p.Available())
	p.Release()
	assert.Equal(t, int32(2), p.Available())
}

func TestPoolOverRelease(t *testing.T) {
	p := bed.NewPool(1)
	assert.Panics(t, func() { p.Release() })
	assert.Equal(t, int32(1), p.Available())
}

func TestPoolNegativeCapacity(t *testing.T) {
	p := bed.NewPool(-3)
	assert.Equal(t, int32(0), p.Capacity())
	assert.False(t, p.Acquire())
}

func TestPoolSetCapacity(t *testing.T) {
	p := bed.NewPool(5)
	p.Acquire()
	p.Acquire()
	p.Acquire()
	assert.Equal(t, int32(10), p.SetCapacity(10))
	assert.Equal(t, int32(7), p.Available())
	// cannot shrink below the occupied beds
	assert.Equal(t, int32(3), p.SetCapacity(1))
	assert.Equal(t, int32(0), p.Available())
	p.Release()
	assert.Equal(t, int32(1), p.Available())
}
