package cpu

// Bus is the capability set the CPU is generic over: every read or write is
// infallible, and the two interrupt lines are level-sensitive, polled
// queries (no latching happens on the bus side). A generic function type
// parameter, rather than an interface stored behind a pointer, would shave
// the dispatch indirection further, but the teacher's own CPU took a plain
// interface value and the pack's other emulators (beevik-go6502, gone/cpu)
// do the same, so Bus stays an ordinary interface for familiarity.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, val uint8)
	IRQActive() bool
	NMIActive() bool
}

// FlatMemory is a trivial 64 KiB linear array implementing Bus. Writes
// always succeed and the interrupt lines are permanently low; it exists for
// tests and simple hosts that don't need device dispatch.
type FlatMemory struct {
	ram [MemSize]uint8
}

// NewFlatMemory returns a zeroed 64 KiB flat memory.
func NewFlatMemory() *FlatMemory {
	return &FlatMemory{}
}

func (m *FlatMemory) Read(addr uint16) uint8 {
	return m.ram[addr]
}

func (m *FlatMemory) Write(addr uint16, val uint8) {
	m.ram[addr] = val
}

func (m *FlatMemory) IRQActive() bool { return false }
func (m *FlatMemory) NMIActive() bool { return false }

// Load copies data into memory starting at addr, truncating at the end of
// the address space. It's a test/fixture convenience, not part of Bus.
func (m *FlatMemory) Load(addr uint16, data []byte) {
	for i, b := range data {
		a := int(addr) + i
		if a > MaxAddress {
			break
		}
		m.ram[a] = b
	}
}
