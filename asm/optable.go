package asm

import "github.com/sixfiveo2/go6502core/cpu"

// byMnemonic indexes cpu.Opcodes the other way around from the executor:
// mnemonic -> addressing mode -> opcode byte, built once so the encoder can
// ask "does LDA have a ZeroPageX form, and if so what byte is it" in O(1).
// It is the encoder's only source of opcode truth, the same table the CPU
// and disassembler use, so asm/disasm/cpu can never silently drift apart.
var byMnemonic map[string]map[uint8]cpu.Opcode

// branchMnemonics is the set of mnemonics whose sole addressing mode is
// Relative; the parser's operDirect operand is reinterpreted as a branch
// target for these rather than a zero-page/absolute address.
var branchMnemonics = map[string]bool{
	"BCC": true, "BCS": true, "BEQ": true, "BMI": true,
	"BNE": true, "BPL": true, "BVC": true, "BVS": true,
}

func init() {
	byMnemonic = make(map[string]map[uint8]cpu.Opcode)
	for _, oc := range cpu.Opcodes {
		if !oc.Implemented {
			continue
		}
		m := byMnemonic[oc.Mnemonic]
		if m == nil {
			m = make(map[uint8]cpu.Opcode)
			byMnemonic[oc.Mnemonic] = m
		}
		m[oc.Mode] = oc
	}
}
