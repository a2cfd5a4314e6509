// Package disasm renders a byte image as 6502 assembly text, using the
// same cpu.Opcodes table the CPU executes from and the asm package
// assembles into, so a round trip through Assemble(Disassemble(x)) always
// reproduces x byte for byte.
package disasm

import (
	"fmt"
	"strings"

	"github.com/sixfiveo2/go6502core/cpu"
)

// Instruction is one decoded line: either a real opcode or, for bytes the
// opcode table marks unimplemented, a `.byte $XX` fallback so disassembly
// never loses information.
type Instruction struct {
	Addr   uint16
	Length uint8
	Text   string // assembler-ready source text, without address/byte columns
	Raw    []byte
}

// Listing is a full disassembly of a contiguous byte range.
type Listing struct {
	Base         uint16
	Instructions []Instruction
}

// Disassemble decodes data, treating data[0] as the byte at address base,
// and sweeps linearly to the end of data. It never backtracks or follows
// control flow: every byte is visited exactly once, in address order,
// which is what lets the result reassemble byte-for-byte.
func Disassemble(data []byte, base uint16) Listing {
	l := Listing{Base: base}
	i := 0
	for i < len(data) {
		addr := base + uint16(i)
		oc := cpu.Opcodes[data[i]]

		if !oc.Implemented {
			l.Instructions = append(l.Instructions, Instruction{
				Addr: addr, Length: 1, Raw: data[i : i+1],
				Text: fmt.Sprintf(".byte $%02X", data[i]),
			})
			i++
			continue
		}

		n := int(oc.Bytes)
		if i+n > len(data) {
			// Truncated instruction at the end of the buffer: fall back to
			// raw bytes rather than reading past the end.
			for j := i; j < len(data); j++ {
				l.Instructions = append(l.Instructions, Instruction{
					Addr: base + uint16(j), Length: 1, Raw: data[j : j+1],
					Text: fmt.Sprintf(".byte $%02X", data[j]),
				})
			}
			break
		}

		raw := data[i : i+n]
		text := render(oc, raw, addr)
		l.Instructions = append(l.Instructions, Instruction{Addr: addr, Length: uint8(n), Text: text, Raw: raw})
		i += n
	}
	return l
}

func render(oc cpu.Opcode, raw []byte, addr uint16) string {
	switch oc.Mode {
	case cpu.Implicit:
		return oc.Mnemonic
	case cpu.Accumulator:
		return oc.Mnemonic + " A"
	case cpu.Immediate:
		return fmt.Sprintf("%s #$%02X", oc.Mnemonic, raw[1])
	case cpu.ZeroPage:
		return fmt.Sprintf("%s $%02X", oc.Mnemonic, raw[1])
	case cpu.ZeroPageX:
		return fmt.Sprintf("%s $%02X,X", oc.Mnemonic, raw[1])
	case cpu.ZeroPageY:
		return fmt.Sprintf("%s $%02X,Y", oc.Mnemonic, raw[1])
	case cpu.Relative:
		disp := int8(raw[1])
		target := uint16(int32(addr) + 2 + int32(disp))
		return fmt.Sprintf("%s $%04X", oc.Mnemonic, target)
	case cpu.Absolute:
		return fmt.Sprintf("%s $%04X", oc.Mnemonic, word(raw))
	case cpu.AbsoluteX:
		return fmt.Sprintf("%s $%04X,X", oc.Mnemonic, word(raw))
	case cpu.AbsoluteY:
		return fmt.Sprintf("%s $%04X,Y", oc.Mnemonic, word(raw))
	case cpu.Indirect:
		return fmt.Sprintf("%s ($%04X)", oc.Mnemonic, word(raw))
	case cpu.IndirectX:
		return fmt.Sprintf("%s ($%02X,X)", oc.Mnemonic, raw[1])
	case cpu.IndirectY:
		return fmt.Sprintf("%s ($%02X),Y", oc.Mnemonic, raw[1])
	default:
		return fmt.Sprintf(".byte $%02X", raw[0])
	}
}

func word(raw []byte) uint16 {
	return uint16(raw[1]) | uint16(raw[2])<<8
}

// String renders a full listing, one instruction per line, with address
// and raw-byte columns ahead of the assembler text, the way a disassembler
// listing is conventionally read alongside a hex dump.
func (l Listing) String() string {
	var sb strings.Builder
	for _, in := range l.Instructions {
		fmt.Fprintf(&sb, "%04X  ", in.Addr)
		for _, b := range in.Raw {
			fmt.Fprintf(&sb, "%02X ", b)
		}
		for pad := 3 - len(in.Raw); pad > 0; pad-- {
			sb.WriteString("   ")
		}
		sb.WriteString(" ")
		sb.WriteString(in.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
