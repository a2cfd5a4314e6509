package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixfiveo2/go6502core/cpuerr"
)

func newTestCPU(t *testing.T) (*CPU, *FlatMemory) {
	t.Helper()
	m := NewFlatMemory()
	m.Write(0xFFFC, 0x00)
	m.Write(0xFFFD, 0x04)
	return New(m), m
}

func TestResetVector(t *testing.T) {
	c, _ := newTestCPU(t)
	assert.Equal(t, uint16(0x0400), c.PC())
	assert.Equal(t, uint8(0xFD), c.SP())
	assert.True(t, c.FlagI())
	assert.False(t, c.FlagC())
	assert.Equal(t, uint64(0), c.Cycles())
}

func TestImmediateLDA(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0400, 0xA9) // LDA #$42
	m.Write(0x0401, 0x42)

	n, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), c.A())
	assert.False(t, c.FlagZ())
	assert.False(t, c.FlagN())
	assert.Equal(t, 2, n)
	assert.Equal(t, uint16(0x0402), c.PC())
}

func TestBCDAddition(t *testing.T) {
	c, m := newTestCPU(t)
	c.SetFlagD(true)
	c.SetFlagC(false)
	c.SetA(0x15)
	m.Write(0x0400, 0x69) // ADC #$27
	m.Write(0x0401, 0x27)

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), c.A())
	assert.False(t, c.FlagC())
	assert.False(t, c.FlagZ())
	assert.False(t, c.FlagN())
}

func TestUnimplementedOpcode(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0400, 0xEB) // undocumented SBC immediate alias, marked unimplemented
	_, err := c.Step()
	require.Error(t, err)
	assert.True(t, errors.Is(err, cpuerr.ErrUnimplementedOpcode))
	var uoe *cpuerr.UnimplementedOpcodeError
	require.True(t, errors.As(err, &uoe))
	assert.Equal(t, byte(0xEB), uoe.Opcode)
	assert.Equal(t, uint16(0x0401), c.PC())
}

func TestCyclesAndPageCrossing(t *testing.T) {
	cases := []struct {
		name       string
		setup      func(c *CPU, m *FlatMemory)
		wantPC     uint16
		wantCycles int
	}{
		{
			name: "ADC immediate",
			setup: func(c *CPU, m *FlatMemory) {
				m.Write(0x0400, 0x69)
				m.Write(0x0401, 0x00)
			},
			wantPC: 0x0402, wantCycles: 2,
		},
		{
			name: "ADC abs,X no page cross",
			setup: func(c *CPU, m *FlatMemory) {
				c.SetX(1)
				m.Write(0x0400, 0x7D)
				m.Write(0x0401, 0x00)
				m.Write(0x0402, 0x03)
			},
			wantPC: 0x0403, wantCycles: 4,
		},
		{
			name: "ADC abs,X page cross",
			setup: func(c *CPU, m *FlatMemory) {
				c.SetX(1)
				m.Write(0x0400, 0x7D)
				m.Write(0x0401, 0xFF)
				m.Write(0x0402, 0x01)
			},
			wantPC: 0x0403, wantCycles: 5,
		},
		{
			name: "STA abs,X never pays page-cross penalty",
			setup: func(c *CPU, m *FlatMemory) {
				c.SetX(1)
				m.Write(0x0400, 0x9D)
				m.Write(0x0401, 0xFF)
				m.Write(0x0402, 0x01)
			},
			wantPC: 0x0403, wantCycles: 5,
		},
		{
			name: "BCC taken, page cross",
			setup: func(c *CPU, m *FlatMemory) {
				c.SetFlagC(false)
				c.SetPC(0x0500)
				m.Write(0x0500, 0x90)
				m.Write(0x0501, 0xF0) // -16: from $0502 back to $04F2, crosses a page
			},
			wantPC: 0x04F2, wantCycles: 4,
		},
		{
			name: "BCC not taken",
			setup: func(c *CPU, m *FlatMemory) {
				c.SetFlagC(true)
				m.Write(0x0400, 0x90)
				m.Write(0x0401, 0x10)
			},
			wantPC: 0x0402, wantCycles: 2,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, m := newTestCPU(t)
			tc.setup(c, m)
			n, err := c.Step()
			require.NoError(t, err)
			assert.Equal(t, tc.wantCycles, n)
			assert.Equal(t, tc.wantPC, c.PC())
		})
	}
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0400, 0x6C) // JMP ($02FF)
	m.Write(0x0401, 0xFF)
	m.Write(0x0402, 0x02)
	m.Write(0x02FF, 0x00) // low byte of target
	m.Write(0x0300, 0x10) // high byte only without the page-wrap bug (e.g. 65C02); must NOT be used
	m.Write(0x0200, 0x20) // high byte actually fetched from $0200 (same page wrap)

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x2000), c.PC())
}

func TestPHAPLARoundTrip(t *testing.T) {
	c, m := newTestCPU(t)
	c.SetA(0x77)
	sp := c.SP()
	m.Write(0x0400, 0x48) // PHA
	m.Write(0x0401, 0x68) // PLA
	_, err := c.Step()
	require.NoError(t, err)
	c.SetA(0) // clobber so PLA proves it restores
	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x77), c.A())
	assert.Equal(t, sp, c.SP())
}

func TestJSRRTS(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0400, 0x20) // JSR $0600
	m.Write(0x0401, 0x00)
	m.Write(0x0402, 0x06)
	m.Write(0x0600, 0x60) // RTS

	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0600), c.PC())

	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0403), c.PC())
}

type irqBus struct {
	*FlatMemory
	irq, nmi bool
}

func (b *irqBus) IRQActive() bool { return b.irq }
func (b *irqBus) NMIActive() bool { return b.nmi }

func TestIRQSequencing(t *testing.T) {
	m := NewFlatMemory()
	m.Write(0xFFFC, 0x00)
	m.Write(0xFFFD, 0x04)
	m.Write(0xFFFE, 0x00) // IRQ vector -> $E000
	m.Write(0xFFFF, 0xE0)
	bus := &irqBus{FlatMemory: m, irq: true}
	c := New(bus)
	c.SetFlagI(false)
	sp := c.SP()

	n, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xE000), c.PC())
	assert.True(t, c.FlagI())
	assert.Equal(t, 7, n)
	assert.Equal(t, sp-3, c.SP())

	pushedStatus := c.Read(StackPage + uint16(sp-2))
	assert.Zero(t, pushedStatus&FlagBreak, "B flag must be clear on hardware IRQ")
}

func TestNMIEdgeTriggered(t *testing.T) {
	m := NewFlatMemory()
	m.Write(0xFFFC, 0x00)
	m.Write(0xFFFD, 0x04)
	m.Write(0xFFFA, 0x00) // NMI vector -> $D000
	m.Write(0xFFFB, 0xD0)
	m.Write(0x0400, 0xEA) // NOP, in case NMI doesn't fire again
	bus := &irqBus{FlatMemory: m}
	c := New(bus)

	bus.nmi = true
	_, err := c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xD000), c.PC())

	// Line still asserted, no rising edge: must not retrigger.
	c.SetPC(0x0400)
	_, err = c.Step()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0401), c.PC(), "NMI must not re-service without a falling+rising edge")
}

func TestSPStaysInRange(t *testing.T) {
	c, m := newTestCPU(t)
	for i := 0; i < 300; i++ {
		m.Write(0x0400+uint16(i), 0x48) // PHA, enough pushes to wrap SP past $00
	}
	for i := 0; i < 300; i++ {
		_, err := c.Step()
		require.NoError(t, err)
		assert.True(t, c.SP() <= 0xFF)
	}
}
