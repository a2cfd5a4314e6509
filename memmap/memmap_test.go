package memmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	size uint16
	mem  []uint8
	irq  bool
}

func newFakeDevice(size uint16) *fakeDevice {
	return &fakeDevice{size: size, mem: make([]uint8, size)}
}

func (d *fakeDevice) Size() uint16 { return d.size }
func (d *fakeDevice) Read(offset uint16) uint8 {
	return d.mem[offset]
}
func (d *fakeDevice) Write(offset uint16, val uint8) {
	d.mem[offset] = val
}
func (d *fakeDevice) HasInterrupt() bool { return d.irq }

func TestRegisterAndDispatch(t *testing.T) {
	m := New()
	ram := newFakeDevice(0x1000)
	require.NoError(t, m.Register(0x0000, ram, IRQGroup))

	m.Write(0x0010, 0x42)
	assert.Equal(t, uint8(0x42), m.Read(0x0010))
	assert.Equal(t, uint8(0x42), ram.mem[0x10], "offset must be base-relative")
}

func TestRegisterOverlapRejected(t *testing.T) {
	m := New()
	require.NoError(t, m.Register(0x2000, newFakeDevice(0x100), IRQGroup))

	err := m.Register(0x2050, newFakeDevice(0x100), IRQGroup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeviceOverlap))

	// Adjacent, non-overlapping range must succeed.
	assert.NoError(t, m.Register(0x2100, newFakeDevice(0x100), IRQGroup))
}

func TestUnmappedReadReturnsFillByte(t *testing.T) {
	m := New()
	assert.Equal(t, uint8(0xFF), m.Read(0x8000))

	m2 := New(WithUnmappedFill(0x00))
	assert.Equal(t, uint8(0x00), m2.Read(0x8000))
}

func TestUnmappedWriteIsNoop(t *testing.T) {
	m := New()
	assert.NotPanics(t, func() { m.Write(0x8000, 0x55) })
}

func TestInterruptAggregationByGroup(t *testing.T) {
	m := New()
	irqDev := newFakeDevice(0x10)
	nmiDev := newFakeDevice(0x10)
	require.NoError(t, m.Register(0x4000, irqDev, IRQGroup))
	require.NoError(t, m.Register(0x5000, nmiDev, NMIGroup))

	assert.False(t, m.IRQActive())
	assert.False(t, m.NMIActive())

	irqDev.irq = true
	assert.True(t, m.IRQActive())
	assert.False(t, m.NMIActive())

	nmiDev.irq = true
	assert.True(t, m.NMIActive())
}

func TestDeviceCoveringWholeSpace(t *testing.T) {
	m := New()
	require.NoError(t, m.Register(0x0000, newFakeDevice(0), IRQGroup)) // Size()==0 means 64KiB
	err := m.Register(0x0001, newFakeDevice(0x10), IRQGroup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeviceOverlap))
}
