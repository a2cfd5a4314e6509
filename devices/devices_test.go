package devices

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRAMReadWrite(t *testing.T) {
	r := NewRAM(0x100)
	r.Write(0x10, 0x42)
	assert.Equal(t, uint8(0x42), r.Read(0x10))
	assert.Equal(t, uint16(0x100), r.Size())
}

func TestRAMLoadTruncates(t *testing.T) {
	r := NewRAM(4)
	r.Load(2, []byte{1, 2, 3, 4})
	assert.Equal(t, uint8(1), r.Read(2))
	assert.Equal(t, uint8(2), r.Read(3))
}

func TestROMWriteIsDiscarded(t *testing.T) {
	rom := NewROM([]byte{0xAA, 0xBB})
	rom.Write(0, 0xFF)
	assert.Equal(t, uint8(0xAA), rom.Read(0))
}

func TestLatchClearsOnRead(t *testing.T) {
	l := NewLatch()
	assert.False(t, l.HasInterrupt())

	l.Raise(0x7E)
	assert.True(t, l.HasInterrupt())
	assert.Equal(t, uint8(0x7E), l.Read(0))
	assert.False(t, l.HasInterrupt())
}

func TestACIARxCycle(t *testing.T) {
	a := NewACIA()
	a.Write(1, CtrlRxInterruptEnable)
	assert.False(t, a.HasInterrupt())

	a.Feed(0x41)
	assert.True(t, a.HasInterrupt())
	assert.Equal(t, uint8(StatusRxReady|StatusTxReady), a.Read(1))
	assert.Equal(t, uint8(0x41), a.Read(0))
	assert.False(t, a.HasInterrupt())
}

func TestACIATxDrain(t *testing.T) {
	a := NewACIA()
	a.Write(0, 'H')
	a.Write(0, 'i')
	assert.Equal(t, []uint8{'H', 'i'}, a.Drain())
	assert.Empty(t, a.Drain())
}
