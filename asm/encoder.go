package asm

import (
	"github.com/sixfiveo2/go6502core/asmerr"
	"github.com/sixfiveo2/go6502core/cpu"
)

// SourceMap records which source line produced the byte at each emitted
// address, for disassembler listings and the interactive debugger.
type SourceMap map[uint16]int

type encoder struct {
	stmts []*stmt
	syms  *symtab
	errs  *asmerr.List

	// per-statement resolution cached during pass 1 and reused in pass 2,
	// indexed the same as stmts.
	mode []uint8
	size []uint16
	addr []uint16
}

func newEncoder(stmts []*stmt, errs *asmerr.List) *encoder {
	return &encoder{
		stmts: stmts,
		syms:  newSymtab(),
		errs:  errs,
		mode:  make([]uint8, len(stmts)),
		size:  make([]uint16, len(stmts)),
		addr:  make([]uint16, len(stmts)),
	}
}

// Assemble lexes, parses, and two-pass-encodes a 6502 assembly source file,
// returning the emitted byte image (relative to the lowest .org'd address),
// its base address, a line-number source map, and any diagnostics found.
func Assemble(src string) ([]byte, uint16, SourceMap, error) {
	var errs asmerr.List

	toks := newLexer(src, &errs).tokens()
	stmts := newParser(toks, &errs).parseProgram()
	if errs.HasErrors() {
		return nil, 0, nil, errs.AsError()
	}

	enc := newEncoder(stmts, &errs)
	enc.pass1()
	if errs.HasErrors() {
		return nil, 0, nil, errs.AsError()
	}

	data, base, sm := enc.pass2()
	if errs.HasErrors() {
		return nil, 0, nil, errs.AsError()
	}
	return data, base, sm, nil
}

// pass1 assigns an address to every statement, resolving each instruction's
// final addressing mode and byte length, and defines every label and
// constant symbol. Forward label references inside an auto-width operand
// default to the wider (absolute) addressing mode, since the true address
// isn't known until this very pass finishes; write '<' explicitly if a
// forward-referenced zero-page target is intended.
func (e *encoder) pass1() {
	var pc uint16

	for i, s := range e.stmts {
		e.addr[i] = pc

		if s.label != "" {
			e.syms.define(s.label, int64(pc), s.line, s.col, e.errs)
		}

		switch s.kind {
		case stmtLabelOnly:
			// no bytes emitted

		case stmtConstant:
			v := e.evalConst(s.constExpr)
			e.syms.define(s.constName, v, s.line, s.col, e.errs)

		case stmtDirective:
			switch s.directive {
			case dirOrg:
				pc = uint16(e.evalConst(s.dirExprs[0]))
				e.addr[i] = pc
				continue
			case dirByte:
				e.size[i] = byteItemsLen(s.dirBytes)
			case dirWord:
				e.size[i] = uint16(len(s.dirExprs)) * 2
			case dirAscii:
				e.size[i] = uint16(len(s.dirString))
			case dirString:
				e.size[i] = uint16(len(s.dirString)) + 1
			}

		case stmtInstruction:
			mode, size := e.resolveInstruction(s)
			e.mode[i] = mode
			e.size[i] = uint16(size)
		}

		pc += e.size[i]
	}
}

// byteItemsLen returns the total byte length of a .byte directive's
// operand list: one byte per expression, or len(str) for a string item.
func byteItemsLen(items []byteItem) uint16 {
	var n uint16
	for _, it := range items {
		if it.isString {
			n += uint16(len(it.str))
		} else {
			n++
		}
	}
	return n
}

// evalConst resolves an expression against the symbols defined so far.
// Constants and .org targets may not reference a symbol defined later in
// the file, since pass 1 processes statements in file order and the
// symtab only holds what's been defined up to this point.
func (e *encoder) evalConst(ex *expr) int64 {
	return e.eval(ex)
}

// eval resolves an expression. By the time pass 2 calls this for an
// instruction operand, pass 1 has already defined every label and
// constant in the file, so a lookup miss here always means the symbol
// was never defined anywhere.
func (e *encoder) eval(ex *expr) int64 {
	if ex == nil {
		return 0
	}
	if ex.isPC {
		return ex.literal
	}
	if !ex.hasSymbol {
		return ex.literal
	}
	v, ok := e.syms.lookup(ex.symbol)
	if !ok {
		e.errs.Add(ex.line, ex.col, asmerr.KindSymbol, "undefined symbol %q", ex.symbol)
		return 0
	}
	return v + ex.literal
}

// resolveInstruction decides the final addressing mode and instruction
// length for one instruction statement. The auto zero-page/absolute choice
// uses the value of a literal or of a symbol already defined earlier in the
// file; any other symbol reference is sized as absolute.
func (e *encoder) resolveInstruction(s *stmt) (mode uint8, size uint8) {
	modes, ok := byMnemonic[s.mnemonic]
	if !ok {
		e.errs.Add(s.line, s.col, asmerr.KindSyntax, "unknown mnemonic %q", s.mnemonic)
		return 0, 1
	}

	op := s.operand
	switch op.kind {
	case operNone:
		if oc, ok := modes[cpu.Implicit]; ok {
			return oc.Mode, oc.Bytes
		}
		e.errs.Add(s.line, s.col, asmerr.KindAddressing, "%s requires an operand", s.mnemonic)
		return 0, 1

	case operAccumulator:
		if oc, ok := modes[cpu.Accumulator]; ok {
			return oc.Mode, oc.Bytes
		}
		e.errs.Add(s.line, s.col, asmerr.KindAddressing, "%s has no accumulator addressing form", s.mnemonic)
		return 0, 1

	case operImmediate:
		if oc, ok := modes[cpu.Immediate]; ok {
			return oc.Mode, oc.Bytes
		}
		e.errs.Add(s.line, s.col, asmerr.KindAddressing, "%s has no immediate addressing form", s.mnemonic)
		return 0, 2

	case operIndirect:
		if oc, ok := modes[cpu.Indirect]; ok {
			return oc.Mode, oc.Bytes
		}
		e.errs.Add(s.line, s.col, asmerr.KindAddressing, "%s has no indirect addressing form", s.mnemonic)
		return 0, 3

	case operIndirectX:
		if oc, ok := modes[cpu.IndirectX]; ok {
			return oc.Mode, oc.Bytes
		}
		e.errs.Add(s.line, s.col, asmerr.KindAddressing, "%s has no (zp,X) addressing form", s.mnemonic)
		return 0, 2

	case operIndirectY:
		if oc, ok := modes[cpu.IndirectY]; ok {
			return oc.Mode, oc.Bytes
		}
		e.errs.Add(s.line, s.col, asmerr.KindAddressing, "%s has no (zp),Y addressing form", s.mnemonic)
		return 0, 2

	case operDirect:
		if branchMnemonics[s.mnemonic] {
			if oc, ok := modes[cpu.Relative]; ok {
				return oc.Mode, oc.Bytes
			}
			e.errs.Add(s.line, s.col, asmerr.KindAddressing, "%s has no relative addressing form", s.mnemonic)
			return 0, 2
		}
		return e.pickWidth(s, op, modes, cpu.ZeroPage, cpu.Absolute)

	case operIndexedX:
		return e.pickWidth(s, op, modes, cpu.ZeroPageX, cpu.AbsoluteX)

	case operIndexedY:
		return e.pickWidth(s, op, modes, cpu.ZeroPageY, cpu.AbsoluteY)
	}

	e.errs.Add(s.line, s.col, asmerr.KindSyntax, "unrecognized operand form")
	return 0, 1
}

func (e *encoder) wantsZeroPage(op operand) bool {
	switch op.width {
	case widthZeroPage:
		return true
	case widthAbsolute:
		return false
	}
	ex := op.expr
	if ex == nil || ex.isPC {
		return false
	}
	v := ex.literal
	if ex.hasSymbol {
		sv, ok := e.syms.lookup(ex.symbol)
		if !ok {
			return false // forward reference: not known yet in pass 1
		}
		v = sv + ex.literal
	}
	// A literal written with 3 or 4 hex digits (e.g. "$0034") is an
	// explicitly padded 16-bit operand even when its value fits in a
	// byte: this is what a disassembled absolute operand under $0100
	// looks like, and it must stay absolute to round-trip.
	if ex.hexDigits >= 3 {
		return false
	}
	return v >= 0 && v <= 0xFF
}

func (e *encoder) pickWidth(s *stmt, op operand, modes map[uint8]cpu.Opcode, zpMode, absMode uint8) (uint8, uint8) {
	wantZP := e.wantsZeroPage(op)
	if wantZP {
		if oc, ok := modes[zpMode]; ok {
			return oc.Mode, oc.Bytes
		}
		if oc, ok := modes[absMode]; ok {
			return oc.Mode, oc.Bytes
		}
	} else {
		if oc, ok := modes[absMode]; ok {
			return oc.Mode, oc.Bytes
		}
		if oc, ok := modes[zpMode]; ok {
			return oc.Mode, oc.Bytes
		}
	}
	e.errs.Add(s.line, s.col, asmerr.KindAddressing, "%s has no addressing form matching this operand", s.mnemonic)
	return 0, 2
}

// pass2 resolves every symbol reference against the now-complete symtab and
// emits bytes, relative to the lowest address any statement occupies.
func (e *encoder) pass2() ([]byte, uint16, SourceMap) {
	base := uint16(0)
	have := false
	top := 0
	for i := range e.stmts {
		if e.size[i] == 0 && e.stmts[i].kind != stmtDirective {
			continue
		}
		if !have || e.addr[i] < base {
			base = e.addr[i]
		}
		have = true
		if end := int(e.addr[i]) + int(e.size[i]); end > top {
			top = end
		}
	}
	if !have {
		return nil, 0, SourceMap{}
	}

	buf := make([]byte, top-int(base))
	sm := make(SourceMap)

	for i, s := range e.stmts {
		addr := e.addr[i]
		off := int(addr) - int(base)

		switch s.kind {
		case stmtLabelOnly, stmtConstant:
			continue

		case stmtDirective:
			switch s.directive {
			case dirOrg:
				continue
			case dirByte:
				j := 0
				for _, it := range s.dirBytes {
					if it.isString {
						for k := 0; k < len(it.str); k++ {
							buf[off+j] = it.str[k]
							sm[addr+uint16(j)] = s.line
							j++
						}
						continue
					}
					buf[off+j] = byte(e.eval(it.expr))
					sm[addr+uint16(j)] = s.line
					j++
				}
			case dirWord:
				for j, ex := range s.dirExprs {
					v := e.eval(ex)
					buf[off+j*2] = byte(v)
					buf[off+j*2+1] = byte(v >> 8)
					sm[addr+uint16(j*2)] = s.line
					sm[addr+uint16(j*2+1)] = s.line
				}
			case dirAscii:
				for j := 0; j < len(s.dirString); j++ {
					buf[off+j] = s.dirString[j]
					sm[addr+uint16(j)] = s.line
				}
			case dirString:
				for j := 0; j < len(s.dirString); j++ {
					buf[off+j] = s.dirString[j]
					sm[addr+uint16(j)] = s.line
				}
				buf[off+len(s.dirString)] = 0
				sm[addr+uint16(len(s.dirString))] = s.line
			}

		case stmtInstruction:
			e.emitInstruction(i, s, addr, off, buf, sm)
		}
	}

	return buf, base, sm
}

func (e *encoder) emitInstruction(idx int, s *stmt, addr uint16, off int, buf []byte, sm SourceMap) {
	mode := e.mode[idx]
	oc := byMnemonic[s.mnemonic][mode]

	buf[off] = oc.Byte
	sm[addr] = s.line

	op := s.operand
	switch oc.Bytes {
	case 1:
		return
	case 2:
		if mode == cpu.Relative {
			target := e.eval(op.expr)
			// Displacement wraps modulo 64K, as the CPU's PC arithmetic does.
			disp := int64(int16(uint16(target) - addr - 2))
			if disp < -128 || disp > 127 {
				e.errs.Add(s.line, s.col, asmerr.KindRange, "branch target out of range (%d bytes)", disp)
				return
			}
			buf[off+1] = byte(int8(disp))
		} else {
			v := e.eval(op.expr)
			buf[off+1] = byte(v)
		}
		sm[addr+1] = s.line
	case 3:
		v := e.eval(op.expr)
		buf[off+1] = byte(v)
		buf[off+2] = byte(v >> 8)
		sm[addr+1] = s.line
		sm[addr+2] = s.line
	}
}
