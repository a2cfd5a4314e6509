// Package cpu implements a cycle-accurate MOS 6502 (NMOS) execution engine:
// registers, flags, the fetch/decode/execute loop, all 151 documented
// opcodes across 13 addressing modes, BCD arithmetic, and IRQ/NMI/BRK/RTI
// interrupt sequencing. The CPU owns no memory of its own; it is generic
// over any Bus implementation.
package cpu

import (
	"fmt"
	"strings"

	"github.com/sixfiveo2/go6502core/cpuerr"
)

// 6502 interrupt vectors. https://en.wikipedia.org/wiki/Interrupts_in_65xx_processors
const (
	VectorNMI   = 0xFFFA
	VectorReset = 0xFFFC
	VectorIRQ   = 0xFFFE
	VectorBRK   = VectorIRQ
)

// Processor status flag bit positions, matching the PHP/PLP/BRK packed byte
// layout from spec.md §3: bit7 N, bit6 V, bit5 always 1, bit4 B, bit3 D,
// bit2 I, bit1 Z, bit0 C.
const (
	FlagCarry     = 1 << 0
	FlagZero      = 1 << 1
	FlagInterrupt = 1 << 2
	FlagDecimal   = 1 << 3
	FlagBreak     = 1 << 4
	flagUnused    = 1 << 5 // always 1 on the real chip; never toggled by us either
	FlagOverflow  = 1 << 6
	FlagNegative  = 1 << 7
)

const (
	// StackPage is the fixed base address of the hardware stack; SP is an
	// 8-bit offset into it.
	StackPage = 0x0100
	// MemSize is the size of the full 16-bit address space.
	MemSize = 1 << 16
	// MaxAddress is the highest addressable byte.
	MaxAddress = MemSize - 1
)

// CPU holds all MOS 6502 machine state: registers, flags, PC, SP and the
// cycle counter. It executes one instruction per Step against a Bus.
type CPU struct {
	a, x, y uint8
	pc      uint16
	sp      uint8
	cycles  uint64

	flagN, flagV, flagD, flagI, flagZ, flagC bool

	bus Bus

	// nmiPrev tracks the NMI line's state as of the last poll so that a
	// still-asserted line doesn't re-trigger service on every step: NMI
	// is edge-triggered in spirit even though the bus only exposes a
	// level query.
	nmiPrev bool
}

// New constructs a CPU wired to bus. Per spec.md §3 Lifecycle: PC is loaded
// from the reset vector, SP=$FD, I is set, N/V/D/Z/C are cleared, the cycle
// counter starts at 0, and A/X/Y are zeroed for determinism.
func New(bus Bus) *CPU {
	c := &CPU{
		bus: bus,
		sp:  0xFD,
	}
	c.flagI = true
	c.pc = c.read16(VectorReset)
	c.nmiPrev = bus.NMIActive()
	return c
}

// Reset reinitializes PC from the reset vector and sets the interrupt
// disable flag, mirroring what the real reset line does. It does not touch
// A/X/Y/SP/cycles, which survive a soft reset on real hardware.
func (c *CPU) Reset() {
	c.flagI = true
	c.pc = c.read16(VectorReset)
}

// --- register & flag accessors (spec.md §4.6.7: public read AND write on
// every register plus the cycle counter, for test fixtures) ---

func (c *CPU) A() uint8       { return c.a }
func (c *CPU) SetA(v uint8)   { c.a = v }
func (c *CPU) X() uint8       { return c.x }
func (c *CPU) SetX(v uint8)   { c.x = v }
func (c *CPU) Y() uint8       { return c.y }
func (c *CPU) SetY(v uint8)   { c.y = v }
func (c *CPU) PC() uint16     { return c.pc }
func (c *CPU) SetPC(v uint16) { c.pc = v }
func (c *CPU) SP() uint8      { return c.sp }
func (c *CPU) SetSP(v uint8)  { c.sp = v }

func (c *CPU) Cycles() uint64     { return c.cycles }
func (c *CPU) SetCycles(v uint64) { c.cycles = v }

func (c *CPU) FlagN() bool     { return c.flagN }
func (c *CPU) SetFlagN(b bool) { c.flagN = b }
func (c *CPU) FlagV() bool     { return c.flagV }
func (c *CPU) SetFlagV(b bool) { c.flagV = b }
func (c *CPU) FlagD() bool     { return c.flagD }
func (c *CPU) SetFlagD(b bool) { c.flagD = b }
func (c *CPU) FlagI() bool     { return c.flagI }
func (c *CPU) SetFlagI(b bool) { c.flagI = b }
func (c *CPU) FlagZ() bool     { return c.flagZ }
func (c *CPU) SetFlagZ(b bool) { c.flagZ = b }
func (c *CPU) FlagC() bool     { return c.flagC }
func (c *CPU) SetFlagC(b bool) { c.flagC = b }

// Status packs the six flags plus the always-1 bit into the byte layout
// used by PHP/PLP/BRK/RTI. brk selects the B bit's value (set on BRK/PHP,
// clear when an interrupt sequence pushes status).
func (c *CPU) Status(brk bool) uint8 {
	var s uint8
	if c.flagC {
		s |= FlagCarry
	}
	if c.flagZ {
		s |= FlagZero
	}
	if c.flagI {
		s |= FlagInterrupt
	}
	if c.flagD {
		s |= FlagDecimal
	}
	if brk {
		s |= FlagBreak
	}
	s |= flagUnused
	if c.flagV {
		s |= FlagOverflow
	}
	if c.flagN {
		s |= FlagNegative
	}
	return s
}

// SetStatus unpacks a packed status byte (as pulled by PLP/RTI) into the six
// flags. The B bit is not a real flag and is discarded.
func (c *CPU) SetStatus(s uint8) {
	c.flagC = s&FlagCarry != 0
	c.flagZ = s&FlagZero != 0
	c.flagI = s&FlagInterrupt != 0
	c.flagD = s&FlagDecimal != 0
	c.flagV = s&FlagOverflow != 0
	c.flagN = s&FlagNegative != 0
}

// --- bus access, exposed in both read-only and mutating forms for hosts
// and test fixtures that want to peek or poke memory without stepping ---

// Read returns the byte at addr without any CPU-side effect.
func (c *CPU) Read(addr uint16) uint8 { return c.bus.Read(addr) }

// Write stores val at addr through the bus.
func (c *CPU) Write(addr uint16, val uint8) { c.bus.Write(addr, val) }

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.bus.Read(addr))
	hi := uint16(c.bus.Read(addr + 1))
	return hi<<8 | lo
}

// CurrentOpcode returns the metadata for the byte at PC, for debuggers and
// disassembler-style hosts that want to display "what's about to run."
func (c *CPU) CurrentOpcode() Opcode {
	return Opcodes[c.bus.Read(c.pc)]
}

// String renders a single-line register/flag/next-instruction summary,
// in the spirit of the teacher's own (c *cpu) String().
func (c *CPU) String() string {
	op := c.CurrentOpcode()
	return fmt.Sprintf(
		"A=%02X X=%02X Y=%02X PC=%04X SP=%02X P=%s cyc=%d next=%s",
		c.a, c.x, c.y, c.pc, c.sp, c.flagString(), c.cycles, op.Mnemonic,
	)
}

func (c *CPU) flagString() string {
	var sb strings.Builder
	write := func(set bool, ch byte) {
		if set {
			sb.WriteByte(ch)
		} else {
			sb.WriteByte('.')
		}
	}
	write(c.flagN, 'N')
	write(c.flagV, 'V')
	sb.WriteByte('-')
	write(false, 'B') // B is never a resting-state flag; always shown clear
	write(c.flagD, 'D')
	write(c.flagI, 'I')
	write(c.flagZ, 'Z')
	write(c.flagC, 'C')
	return sb.String()
}

// --- stack ---

func (c *CPU) stackAddr() uint16 { return StackPage + uint16(c.sp) }

// StackAddr exposes the current top-of-stack address, for debuggers.
func (c *CPU) StackAddr() uint16 { return c.stackAddr() }

func (c *CPU) push(v uint8) {
	c.bus.Write(c.stackAddr(), v)
	c.sp--
}

func (c *CPU) pull() uint8 {
	c.sp++
	return c.bus.Read(c.stackAddr())
}

func (c *CPU) pushAddr(addr uint16) {
	c.push(uint8(addr >> 8))
	c.push(uint8(addr & 0xFF))
}

func (c *CPU) pullAddr() uint16 {
	lo := uint16(c.pull())
	hi := uint16(c.pull())
	return hi<<8 | lo
}

// --- addressing mode resolution (spec.md §4.6.3) ---

// zpRead16 reads two bytes starting at an 8-bit zero-page address, wrapping
// within page 0 rather than crossing into page 1.
func (c *CPU) zpRead16(zp uint8) uint16 {
	lo := uint16(c.bus.Read(uint16(zp)))
	hi := uint16(c.bus.Read(uint16(zp + 1)))
	return hi<<8 | lo
}

// samePage reports whether two addresses share the same 256-byte page.
func samePage(a, b uint16) bool { return a&0xFF00 == b&0xFF00 }

// operandAddr resolves the effective address for mode, assuming pc already
// points at the first operand byte. It returns the address and whether
// resolving it crossed a page boundary (relevant only for the indexed and
// indirect-indexed modes that take a conditional +1 cycle).
func (c *CPU) operandAddr(mode uint8) (addr uint16, pageCrossed bool) {
	switch mode {
	case Immediate:
		return c.pc, false
	case ZeroPage:
		return uint16(c.bus.Read(c.pc)), false
	case ZeroPageX:
		return uint16(c.bus.Read(c.pc) + c.x), false
	case ZeroPageY:
		return uint16(c.bus.Read(c.pc) + c.y), false
	case Absolute:
		return c.read16(c.pc), false
	case AbsoluteX:
		base := c.read16(c.pc)
		addr = base + uint16(c.x)
		return addr, !samePage(base, addr)
	case AbsoluteY:
		base := c.read16(c.pc)
		addr = base + uint16(c.y)
		return addr, !samePage(base, addr)
	case Indirect:
		ptr := c.read16(c.pc)
		// The documented NMOS "JMP indirect" page-boundary bug: if the
		// pointer's low byte is $FF, the high byte wraps within the
		// same page instead of reading the first byte of the next.
		var lo, hi uint16
		lo = uint16(c.bus.Read(ptr))
		if ptr&0xFF == 0xFF {
			hi = uint16(c.bus.Read(ptr & 0xFF00))
		} else {
			hi = uint16(c.bus.Read(ptr + 1))
		}
		return hi<<8 | lo, false
	case IndirectX:
		zp := c.bus.Read(c.pc) + c.x
		return c.zpRead16(zp), false
	case IndirectY:
		zp := c.bus.Read(c.pc)
		base := c.zpRead16(zp)
		addr = base + uint16(c.y)
		return addr, !samePage(base, addr)
	case Relative:
		// Signed displacement from PC+1 (the byte after the operand),
		// which is where PC sits right now since we've only consumed
		// the opcode byte so far.
		off := int8(c.bus.Read(c.pc))
		return uint16(int32(c.pc) + 1 + int32(off)), false
	default:
		panic(fmt.Sprintf("addressing mode %s has no operand address", ModeName(mode)))
	}
}

// mnemonicPaysPageCrossPenalty reports whether a page-crossing indexed or
// indirect-indexed access for this mnemonic costs an extra cycle. Per
// spec.md §4.6.3, this applies to reads (loads, ALU ops) but not to stores
// or read-modify-write instructions, whose opcode table entries already
// encode their fixed worst-case cost.
func mnemonicPaysPageCrossPenalty(mnemonic string) bool {
	switch mnemonic {
	case "ADC", "AND", "CMP", "EOR", "LDA", "LDX", "LDY", "ORA", "SBC", "LAX":
		return true
	default:
		return false
	}
}

// --- fetch/decode/execute ---

// Step executes exactly one instruction (servicing a pending interrupt
// first, if any) and returns the number of cycles it consumed. A non-nil
// error means an undocumented opcode was decoded; PC has already advanced
// past that opcode byte and no further progress is made.
func (c *CPU) Step() (int, error) {
	before := c.cycles

	if c.pollNMI() {
		c.serviceInterrupt(VectorNMI, false)
		return int(c.cycles - before), nil
	}
	if c.bus.IRQActive() && !c.flagI {
		c.serviceInterrupt(VectorIRQ, false)
		return int(c.cycles - before), nil
	}

	opByte := c.bus.Read(c.pc)
	opc := Opcodes[opByte]
	if !opc.Implemented {
		c.pc++
		return 0, &cpuerr.UnimplementedOpcodeError{Opcode: opByte, PC: c.pc - 1}
	}
	c.pc++

	pcAtDecode := c.pc
	extra := execTable[opByte](c, opc.Mode)
	c.cycles += uint64(opc.Cycles) + uint64(extra)

	// If the instruction didn't move PC itself (branches and JMP/JSR/RTS/
	// RTI/BRK do), advance past the remaining operand bytes.
	if c.pc == pcAtDecode {
		c.pc += uint16(opc.Bytes) - 1
	}

	return int(c.cycles - before), nil
}

// pollNMI updates the edge latch from the bus's level-sensitive line and
// reports whether a rising edge (not-asserted -> asserted) has occurred
// since the last poll. This keeps NMI from re-triggering every step while
// the line stays high.
func (c *CPU) pollNMI() bool {
	cur := c.bus.NMIActive()
	rising := cur && !c.nmiPrev
	c.nmiPrev = cur
	return rising
}

// serviceInterrupt pushes PC and status and jumps to the handler at vector,
// per spec.md §4.6.5. brk distinguishes a BRK-originated sequence (B set in
// the pushed status) from a hardware IRQ/NMI (B clear).
func (c *CPU) serviceInterrupt(vector uint16, brk bool) {
	c.pushAddr(c.pc)
	c.push(c.Status(brk))
	c.flagI = true
	c.pc = c.read16(vector)
	c.cycles += 7
}

// RunForCycles repeatedly Steps until the cycle counter has advanced by at
// least budget cycles, returning the actual number of cycles consumed. It
// surfaces the first error Step returns, stopping immediately so the
// faulting instruction can be inspected.
func (c *CPU) RunForCycles(budget int) (int, error) {
	spent := 0
	for spent < budget {
		n, err := c.Step()
		spent += n
		if err != nil {
			return spent, err
		}
	}
	return spent, nil
}
