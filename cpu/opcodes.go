package cpu

// Addressing modes, per https://www.nesdev.org/obelisk-6502-guide/addressing.html
const (
	Implicit = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX // Indexed Indirect: (zp,X)
	IndirectY // Indirect Indexed: (zp),Y
)

var modeNames = [...]string{
	Implicit:    "IMPLICIT",
	Accumulator: "ACCUMULATOR",
	Immediate:   "IMMEDIATE",
	ZeroPage:    "ZERO_PAGE",
	ZeroPageX:   "ZERO_PAGE_X",
	ZeroPageY:   "ZERO_PAGE_Y",
	Relative:    "RELATIVE",
	Absolute:    "ABSOLUTE",
	AbsoluteX:   "ABSOLUTE_X",
	AbsoluteY:   "ABSOLUTE_Y",
	Indirect:    "INDIRECT",
	IndirectX:   "INDIRECT_X",
	IndirectY:   "INDIRECT_Y",
}

// ModeName returns the canonical name for an addressing mode tag.
func ModeName(mode uint8) string {
	if int(mode) >= len(modeNames) {
		return "UNKNOWN"
	}
	return modeNames[mode]
}

// undocumentedSentinel is the mnemonic carried by opcode table entries that
// have no implemented semantics. Disassembly of such a byte falls back to a
// `.byte $XX` pseudo-instruction; Step refuses to execute it.
const undocumentedSentinel = "???"

// Opcode is a single entry from the dense 256-entry metadata table: the
// single source of truth both the executor and the disassembler consult.
type Opcode struct {
	Byte        uint8
	Mnemonic    string
	Mode        uint8
	Bytes       uint8 // instruction length in bytes, including the opcode byte
	Cycles      uint8 // base cycle cost, before page-crossing/branch penalties
	Implemented bool
}

// Opcodes is the dense, immutable 256-entry opcode metadata table, indexed
// by opcode byte. Undocumented NMOS opcodes are present with
// Implemented=false and either a real mnemonic (when the teacher's own
// cataloguing already named it) or the undocumentedSentinel.
var Opcodes [256]Opcode

func op(b byte, mnem string, mode uint8, bytes, cycles uint8, implemented bool) {
	Opcodes[b] = Opcode{Byte: b, Mnemonic: mnem, Mode: mode, Bytes: bytes, Cycles: cycles, Implemented: implemented}
}

func init() {
	// Fill every slot with an unimplemented placeholder first; documented
	// and known-undocumented opcodes overwrite their slot below. This
	// guarantees the table always has exactly 256 entries, one per byte.
	for i := range Opcodes {
		op(byte(i), undocumentedSentinel, Implicit, 1, 2, false)
	}

	// ADC
	op(0x69, "ADC", Immediate, 2, 2, true)
	op(0x65, "ADC", ZeroPage, 2, 3, true)
	op(0x75, "ADC", ZeroPageX, 2, 4, true)
	op(0x6D, "ADC", Absolute, 3, 4, true)
	op(0x7D, "ADC", AbsoluteX, 3, 4, true) // +1 if page crossed
	op(0x79, "ADC", AbsoluteY, 3, 4, true) // +1 if page crossed
	op(0x61, "ADC", IndirectX, 2, 6, true)
	op(0x71, "ADC", IndirectY, 2, 5, true) // +1 if page crossed

	// AND
	op(0x29, "AND", Immediate, 2, 2, true)
	op(0x25, "AND", ZeroPage, 2, 3, true)
	op(0x35, "AND", ZeroPageX, 2, 4, true)
	op(0x2D, "AND", Absolute, 3, 4, true)
	op(0x3D, "AND", AbsoluteX, 3, 4, true)
	op(0x39, "AND", AbsoluteY, 3, 4, true)
	op(0x21, "AND", IndirectX, 2, 6, true)
	op(0x31, "AND", IndirectY, 2, 5, true)

	// ASL
	op(0x0A, "ASL", Accumulator, 1, 2, true)
	op(0x06, "ASL", ZeroPage, 2, 5, true)
	op(0x16, "ASL", ZeroPageX, 2, 6, true)
	op(0x0E, "ASL", Absolute, 3, 6, true)
	op(0x1E, "ASL", AbsoluteX, 3, 7, true)

	// Branches
	op(0x90, "BCC", Relative, 2, 2, true)
	op(0xB0, "BCS", Relative, 2, 2, true)
	op(0xF0, "BEQ", Relative, 2, 2, true)
	op(0x30, "BMI", Relative, 2, 2, true)
	op(0xD0, "BNE", Relative, 2, 2, true)
	op(0x10, "BPL", Relative, 2, 2, true)
	op(0x50, "BVC", Relative, 2, 2, true)
	op(0x70, "BVS", Relative, 2, 2, true)

	// BIT
	op(0x24, "BIT", ZeroPage, 2, 3, true)
	op(0x2C, "BIT", Absolute, 3, 4, true)

	// BRK
	op(0x00, "BRK", Implicit, 1, 7, true)

	// Flag clear/set
	op(0x18, "CLC", Implicit, 1, 2, true)
	op(0xD8, "CLD", Implicit, 1, 2, true)
	op(0x58, "CLI", Implicit, 1, 2, true)
	op(0xB8, "CLV", Implicit, 1, 2, true)
	op(0x38, "SEC", Implicit, 1, 2, true)
	op(0xF8, "SED", Implicit, 1, 2, true)
	op(0x78, "SEI", Implicit, 1, 2, true)

	// CMP / CPX / CPY
	op(0xC9, "CMP", Immediate, 2, 2, true)
	op(0xC5, "CMP", ZeroPage, 2, 3, true)
	op(0xD5, "CMP", ZeroPageX, 2, 4, true)
	op(0xCD, "CMP", Absolute, 3, 4, true)
	op(0xDD, "CMP", AbsoluteX, 3, 4, true)
	op(0xD9, "CMP", AbsoluteY, 3, 4, true)
	op(0xC1, "CMP", IndirectX, 2, 6, true)
	op(0xD1, "CMP", IndirectY, 2, 5, true)
	op(0xE0, "CPX", Immediate, 2, 2, true)
	op(0xE4, "CPX", ZeroPage, 2, 3, true)
	op(0xEC, "CPX", Absolute, 3, 4, true)
	op(0xC0, "CPY", Immediate, 2, 2, true)
	op(0xC4, "CPY", ZeroPage, 2, 3, true)
	op(0xCC, "CPY", Absolute, 3, 4, true)

	// DEC / DEX / DEY
	op(0xC6, "DEC", ZeroPage, 2, 5, true)
	op(0xD6, "DEC", ZeroPageX, 2, 6, true)
	op(0xCE, "DEC", Absolute, 3, 6, true)
	op(0xDE, "DEC", AbsoluteX, 3, 7, true)
	op(0xCA, "DEX", Implicit, 1, 2, true)
	op(0x88, "DEY", Implicit, 1, 2, true)

	// EOR
	op(0x49, "EOR", Immediate, 2, 2, true)
	op(0x45, "EOR", ZeroPage, 2, 3, true)
	op(0x55, "EOR", ZeroPageX, 2, 4, true)
	op(0x4D, "EOR", Absolute, 3, 4, true)
	op(0x5D, "EOR", AbsoluteX, 3, 4, true)
	op(0x59, "EOR", AbsoluteY, 3, 4, true)
	op(0x41, "EOR", IndirectX, 2, 6, true)
	op(0x51, "EOR", IndirectY, 2, 5, true)

	// INC / INX / INY
	op(0xE6, "INC", ZeroPage, 2, 5, true)
	op(0xF6, "INC", ZeroPageX, 2, 6, true)
	op(0xEE, "INC", Absolute, 3, 6, true)
	op(0xFE, "INC", AbsoluteX, 3, 7, true)
	op(0xE8, "INX", Implicit, 1, 2, true)
	op(0xC8, "INY", Implicit, 1, 2, true)

	// JMP / JSR / RTS / RTI
	op(0x4C, "JMP", Absolute, 3, 3, true)
	op(0x6C, "JMP", Indirect, 3, 5, true)
	op(0x20, "JSR", Absolute, 3, 6, true)
	op(0x60, "RTS", Implicit, 1, 6, true)
	op(0x40, "RTI", Implicit, 1, 6, true)

	// LDA / LDX / LDY
	op(0xA9, "LDA", Immediate, 2, 2, true)
	op(0xA5, "LDA", ZeroPage, 2, 3, true)
	op(0xB5, "LDA", ZeroPageX, 2, 4, true)
	op(0xAD, "LDA", Absolute, 3, 4, true)
	op(0xBD, "LDA", AbsoluteX, 3, 4, true)
	op(0xB9, "LDA", AbsoluteY, 3, 4, true)
	op(0xA1, "LDA", IndirectX, 2, 6, true)
	op(0xB1, "LDA", IndirectY, 2, 5, true)
	op(0xA2, "LDX", Immediate, 2, 2, true)
	op(0xA6, "LDX", ZeroPage, 2, 3, true)
	op(0xB6, "LDX", ZeroPageY, 2, 4, true)
	op(0xAE, "LDX", Absolute, 3, 4, true)
	op(0xBE, "LDX", AbsoluteY, 3, 4, true)
	op(0xA0, "LDY", Immediate, 2, 2, true)
	op(0xA4, "LDY", ZeroPage, 2, 3, true)
	op(0xB4, "LDY", ZeroPageX, 2, 4, true)
	op(0xAC, "LDY", Absolute, 3, 4, true)
	op(0xBC, "LDY", AbsoluteX, 3, 4, true)

	// LSR
	op(0x4A, "LSR", Accumulator, 1, 2, true)
	op(0x46, "LSR", ZeroPage, 2, 5, true)
	op(0x56, "LSR", ZeroPageX, 2, 6, true)
	op(0x4E, "LSR", Absolute, 3, 6, true)
	op(0x5E, "LSR", AbsoluteX, 3, 7, true)

	// NOP
	op(0xEA, "NOP", Implicit, 1, 2, true)

	// ORA
	op(0x09, "ORA", Immediate, 2, 2, true)
	op(0x05, "ORA", ZeroPage, 2, 3, true)
	op(0x15, "ORA", ZeroPageX, 2, 4, true)
	op(0x0D, "ORA", Absolute, 3, 4, true)
	op(0x1D, "ORA", AbsoluteX, 3, 4, true)
	op(0x19, "ORA", AbsoluteY, 3, 4, true)
	op(0x01, "ORA", IndirectX, 2, 6, true)
	op(0x11, "ORA", IndirectY, 2, 5, true)

	// Stack ops
	op(0x48, "PHA", Implicit, 1, 3, true)
	op(0x08, "PHP", Implicit, 1, 3, true)
	op(0x68, "PLA", Implicit, 1, 4, true)
	op(0x28, "PLP", Implicit, 1, 4, true)

	// ROL / ROR
	op(0x2A, "ROL", Accumulator, 1, 2, true)
	op(0x26, "ROL", ZeroPage, 2, 5, true)
	op(0x36, "ROL", ZeroPageX, 2, 6, true)
	op(0x2E, "ROL", Absolute, 3, 6, true)
	op(0x3E, "ROL", AbsoluteX, 3, 7, true)
	op(0x6A, "ROR", Accumulator, 1, 2, true)
	op(0x66, "ROR", ZeroPage, 2, 5, true)
	op(0x76, "ROR", ZeroPageX, 2, 6, true)
	op(0x6E, "ROR", Absolute, 3, 6, true)
	op(0x7E, "ROR", AbsoluteX, 3, 7, true)

	// SBC
	op(0xE9, "SBC", Immediate, 2, 2, true)
	op(0xE5, "SBC", ZeroPage, 2, 3, true)
	op(0xF5, "SBC", ZeroPageX, 2, 4, true)
	op(0xED, "SBC", Absolute, 3, 4, true)
	op(0xFD, "SBC", AbsoluteX, 3, 4, true)
	op(0xF9, "SBC", AbsoluteY, 3, 4, true)
	op(0xE1, "SBC", IndirectX, 2, 6, true)
	op(0xF1, "SBC", IndirectY, 2, 5, true)

	// STA / STX / STY
	op(0x85, "STA", ZeroPage, 2, 3, true)
	op(0x95, "STA", ZeroPageX, 2, 4, true)
	op(0x8D, "STA", Absolute, 3, 4, true)
	op(0x9D, "STA", AbsoluteX, 3, 5, true)
	op(0x99, "STA", AbsoluteY, 3, 5, true)
	op(0x81, "STA", IndirectX, 2, 6, true)
	op(0x91, "STA", IndirectY, 2, 6, true)
	op(0x86, "STX", ZeroPage, 2, 3, true)
	op(0x96, "STX", ZeroPageY, 2, 4, true)
	op(0x8E, "STX", Absolute, 3, 4, true)
	op(0x84, "STY", ZeroPage, 2, 3, true)
	op(0x94, "STY", ZeroPageX, 2, 4, true)
	op(0x8C, "STY", Absolute, 3, 4, true)

	// Register transfers
	op(0xAA, "TAX", Implicit, 1, 2, true)
	op(0xA8, "TAY", Implicit, 1, 2, true)
	op(0xBA, "TSX", Implicit, 1, 2, true)
	op(0x8A, "TXA", Implicit, 1, 2, true)
	op(0x9A, "TXS", Implicit, 1, 2, true)
	op(0x98, "TYA", Implicit, 1, 2, true)

	// Undocumented opcodes the teacher's own table had begun cataloguing
	// (opcodes.go). These carry real mnemonics for diagnostics but stay
	// Implemented=false, per spec.md's Open Question: undocumented NMOS
	// opcodes are not executed by default.
	for _, b := range []byte{0xA3, 0xA7, 0xAF, 0xB3, 0xB7, 0xBF} {
		mode := [...]uint8{0xA3: IndirectX, 0xA7: ZeroPage, 0xAF: Absolute, 0xB3: IndirectY, 0xB7: ZeroPageY, 0xBF: AbsoluteY}[b]
		sz := [...]uint8{0xA3: 2, 0xA7: 2, 0xAF: 3, 0xB3: 2, 0xB7: 2, 0xBF: 3}[b]
		op(b, "LAX", mode, sz, 3, false)
	}
	for _, b := range []byte{0x83, 0x87, 0x8F, 0x97} {
		mode := [...]uint8{0x83: IndirectX, 0x87: ZeroPage, 0x8F: Absolute, 0x97: ZeroPageY}[b]
		sz := [...]uint8{0x83: 2, 0x87: 2, 0x8F: 3, 0x97: 2}[b]
		op(b, "SAX", mode, sz, 3, false)
	}
	op(0xEB, "SBC", Immediate, 2, 2, false)
}
