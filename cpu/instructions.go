package cpu

// execTable dispatches an opcode byte straight to its semantic function,
// built once at package init from the Mnemonic field of the same Opcodes
// table the disassembler consults — eliminating the decode/execute
// divergence the teacher's own table comment warns about. Each function
// returns the number of *extra* cycles beyond the opcode's base cost (page
// crossings, taken branches); the base cost itself is added by Step.
var execTable [256]func(c *CPU, mode uint8) int

func init() {
	fns := map[string]func(c *CPU, mode uint8) int{
		"ADC": (*CPU).adc, "AND": (*CPU).and, "ASL": (*CPU).asl,
		"BCC": (*CPU).bcc, "BCS": (*CPU).bcs, "BEQ": (*CPU).beq,
		"BIT": (*CPU).bit, "BMI": (*CPU).bmi, "BNE": (*CPU).bne, "BPL": (*CPU).bpl,
		"BRK": (*CPU).brk, "BVC": (*CPU).bvc, "BVS": (*CPU).bvs,
		"CLC": (*CPU).clc, "CLD": (*CPU).cld, "CLI": (*CPU).cli, "CLV": (*CPU).clv,
		"CMP": (*CPU).cmp, "CPX": (*CPU).cpx, "CPY": (*CPU).cpy,
		"DEC": (*CPU).dec, "DEX": (*CPU).dex, "DEY": (*CPU).dey,
		"EOR": (*CPU).eor, "INC": (*CPU).inc, "INX": (*CPU).inx, "INY": (*CPU).iny,
		"JMP": (*CPU).jmp, "JSR": (*CPU).jsr,
		"LDA": (*CPU).lda, "LDX": (*CPU).ldx, "LDY": (*CPU).ldy,
		"LSR": (*CPU).lsr, "NOP": (*CPU).nop, "ORA": (*CPU).ora,
		"PHA": (*CPU).pha, "PHP": (*CPU).php, "PLA": (*CPU).pla, "PLP": (*CPU).plp,
		"ROL": (*CPU).rol, "ROR": (*CPU).ror, "RTI": (*CPU).rti, "RTS": (*CPU).rts,
		"SBC": (*CPU).sbc, "SEC": (*CPU).sec, "SED": (*CPU).sed, "SEI": (*CPU).sei,
		"STA": (*CPU).sta, "STX": (*CPU).stx, "STY": (*CPU).sty,
		"TAX": (*CPU).tax, "TAY": (*CPU).tay, "TSX": (*CPU).tsx,
		"TXA": (*CPU).txa, "TXS": (*CPU).txs, "TYA": (*CPU).tya,
	}
	for b, opc := range Opcodes {
		if !opc.Implemented {
			continue
		}
		fn, ok := fns[opc.Mnemonic]
		if !ok {
			panic("cpu: opcode table names mnemonic with no semantic function: " + opc.Mnemonic)
		}
		execTable[b] = fn
	}
}

func (c *CPU) setZN(v uint8) {
	c.flagZ = v == 0
	c.flagN = v&0x80 != 0
}

// readOperand fetches the operand byte for mode and reports any extra cycle
// owed for a page-crossing read, per mnemonicPaysPageCrossPenalty.
func (c *CPU) readOperand(mode uint8, mnemonic string) (uint8, int) {
	if mode == Accumulator {
		return c.a, 0
	}
	addr, crossed := c.operandAddr(mode)
	extra := 0
	if crossed && mnemonicPaysPageCrossPenalty(mnemonic) {
		extra = 1
	}
	return c.bus.Read(addr), extra
}

// --- arithmetic ---

func (c *CPU) binaryAdd(a, v uint8, carryIn bool) (result uint8, carryOut, overflow bool) {
	var ci uint16
	if carryIn {
		ci = 1
	}
	sum := uint16(a) + uint16(v) + ci
	result = uint8(sum)
	carryOut = sum > 0xFF
	overflow = (^(a ^ v) & (a ^ result) & 0x80) != 0
	return
}

func (c *CPU) adc(mode uint8) int {
	v, extra := c.readOperand(mode, "ADC")
	if c.flagD {
		c.adcDecimal(v)
	} else {
		result, carry, overflow := c.binaryAdd(c.a, v, c.flagC)
		c.a = result
		c.flagC = carry
		c.flagV = overflow
		c.setZN(result)
	}
	return extra
}

// adcDecimal implements the documented NMOS BCD addition algorithm: the
// accumulator is nibble-corrected after a binary-style low/high nibble
// carry chain, while N, V and Z reflect the pre-adjustment intermediate
// values rather than rigorous signed decimal arithmetic (spec.md §4.6.4).
// See http://www.6502.org/tutorials/decimal_mode.html Appendix A.
func (c *CPU) adcDecimal(v uint8) {
	var carryIn uint8
	if c.flagC {
		carryIn = 1
	}

	binSum := uint16(c.a) + uint16(v) + uint16(carryIn)
	c.flagZ = uint8(binSum) == 0

	al := (c.a & 0x0F) + (v & 0x0F) + carryIn
	if al > 9 {
		al += 6
	}
	var ahCarry uint8
	if al > 0x0F {
		ahCarry = 1
	}
	ah := (c.a >> 4) + (v >> 4) + ahCarry

	c.flagN = ah&0x08 != 0
	c.flagV = (^(c.a ^ v) & (c.a ^ (ah << 4)) & 0x80) != 0

	if ah > 9 {
		ah += 6
	}
	c.flagC = ah > 15
	c.a = (ah << 4) | (al & 0x0F)
}

func (c *CPU) sbc(mode uint8) int {
	v, extra := c.readOperand(mode, "SBC")
	if c.flagD {
		c.sbcDecimal(v)
	} else {
		result, carry, overflow := c.binaryAdd(c.a, ^v, c.flagC)
		c.a = result
		c.flagC = carry
		c.flagV = overflow
		c.setZN(result)
	}
	return extra
}

// sbcDecimal sets N, V, Z and C exactly as binary subtraction would (the
// documented NMOS behavior), then separately nibble-corrects the
// accumulator per the documented decimal SBC algorithm.
func (c *CPU) sbcDecimal(v uint8) {
	var carryIn uint8
	if c.flagC {
		carryIn = 1
	}

	result, carry, overflow := c.binaryAdd(c.a, ^v, c.flagC)
	c.flagC = carry
	c.flagV = overflow
	c.setZN(result)

	al := int(c.a&0x0F) - int(v&0x0F) + int(carryIn) - 1
	if al < 0 {
		al = ((al - 6) & 0x0F) - 0x10
	}
	ah := int(c.a&0xF0) - int(v&0xF0) + al
	if ah < 0 {
		ah -= 0x60
	}
	c.a = uint8(ah & 0xFF)
}

// --- logic ---

func (c *CPU) and(mode uint8) int {
	v, extra := c.readOperand(mode, "AND")
	c.a &= v
	c.setZN(c.a)
	return extra
}

func (c *CPU) ora(mode uint8) int {
	v, extra := c.readOperand(mode, "ORA")
	c.a |= v
	c.setZN(c.a)
	return extra
}

func (c *CPU) eor(mode uint8) int {
	v, extra := c.readOperand(mode, "EOR")
	c.a ^= v
	c.setZN(c.a)
	return extra
}

func (c *CPU) bit(mode uint8) int {
	v, _ := c.readOperand(mode, "BIT")
	c.flagZ = (c.a & v) == 0
	c.flagV = v&FlagOverflow != 0
	c.flagN = v&FlagNegative != 0
	return 0
}

// --- shifts & rotates ---

// rmw applies f to the value addressed by mode (accumulator or memory),
// writing the result back (through a read-modify-write double write on
// memory, matching real hardware's visible old-then-new write sequence)
// and returns the old and new values for flag computation.
func (c *CPU) rmw(mode uint8, f func(uint8) uint8) (old, new uint8) {
	if mode == Accumulator {
		old = c.a
		new = f(old)
		c.a = new
		return
	}
	addr, _ := c.operandAddr(mode)
	old = c.bus.Read(addr)
	new = f(old)
	c.bus.Write(addr, old) // the classic 6502 RMW "double write": old value first
	c.bus.Write(addr, new)
	return
}

func (c *CPU) asl(mode uint8) int {
	old, new := c.rmw(mode, func(v uint8) uint8 { return v << 1 })
	c.flagC = old&0x80 != 0
	c.setZN(new)
	return 0
}

func (c *CPU) lsr(mode uint8) int {
	old, new := c.rmw(mode, func(v uint8) uint8 { return v >> 1 })
	c.flagC = old&0x01 != 0
	c.setZN(new)
	return 0
}

func (c *CPU) rol(mode uint8) int {
	var carryIn uint8
	if c.flagC {
		carryIn = 1
	}
	old, new := c.rmw(mode, func(v uint8) uint8 { return (v << 1) | carryIn })
	c.flagC = old&0x80 != 0
	c.setZN(new)
	return 0
}

func (c *CPU) ror(mode uint8) int {
	var carryIn uint8
	if c.flagC {
		carryIn = 1
	}
	old, new := c.rmw(mode, func(v uint8) uint8 { return (v >> 1) | (carryIn << 7) })
	c.flagC = old&0x01 != 0
	c.setZN(new)
	return 0
}

// --- compare ---

func (c *CPU) compare(reg uint8, mode uint8, mnemonic string) int {
	v, extra := c.readOperand(mode, mnemonic)
	c.setZN(reg - v)
	c.flagC = reg >= v
	return extra
}

func (c *CPU) cmp(mode uint8) int { return c.compare(c.a, mode, "CMP") }
func (c *CPU) cpx(mode uint8) int { return c.compare(c.x, mode, "CPX") }
func (c *CPU) cpy(mode uint8) int { return c.compare(c.y, mode, "CPY") }

// --- increment / decrement ---

func (c *CPU) inc(mode uint8) int {
	_, new := c.rmw(mode, func(v uint8) uint8 { return v + 1 })
	c.setZN(new)
	return 0
}

func (c *CPU) dec(mode uint8) int {
	_, new := c.rmw(mode, func(v uint8) uint8 { return v - 1 })
	c.setZN(new)
	return 0
}

func (c *CPU) inx(uint8) int { c.x++; c.setZN(c.x); return 0 }
func (c *CPU) iny(uint8) int { c.y++; c.setZN(c.y); return 0 }
func (c *CPU) dex(uint8) int { c.x--; c.setZN(c.x); return 0 }
func (c *CPU) dey(uint8) int { c.y--; c.setZN(c.y); return 0 }

// --- loads & stores ---

func (c *CPU) lda(mode uint8) int {
	v, extra := c.readOperand(mode, "LDA")
	c.a = v
	c.setZN(c.a)
	return extra
}

func (c *CPU) ldx(mode uint8) int {
	v, extra := c.readOperand(mode, "LDX")
	c.x = v
	c.setZN(c.x)
	return extra
}

func (c *CPU) ldy(mode uint8) int {
	v, extra := c.readOperand(mode, "LDY")
	c.y = v
	c.setZN(c.y)
	return extra
}

func (c *CPU) sta(mode uint8) int {
	addr, _ := c.operandAddr(mode)
	c.bus.Write(addr, c.a)
	return 0
}

func (c *CPU) stx(mode uint8) int {
	addr, _ := c.operandAddr(mode)
	c.bus.Write(addr, c.x)
	return 0
}

func (c *CPU) sty(mode uint8) int {
	addr, _ := c.operandAddr(mode)
	c.bus.Write(addr, c.y)
	return 0
}

// --- register transfers ---

func (c *CPU) tax(uint8) int { c.x = c.a; c.setZN(c.x); return 0 }
func (c *CPU) tay(uint8) int { c.y = c.a; c.setZN(c.y); return 0 }
func (c *CPU) txa(uint8) int { c.a = c.x; c.setZN(c.a); return 0 }
func (c *CPU) tya(uint8) int { c.a = c.y; c.setZN(c.a); return 0 }
func (c *CPU) tsx(uint8) int { c.x = c.sp; c.setZN(c.x); return 0 }
func (c *CPU) txs(uint8) int { c.sp = c.x; return 0 }

// --- stack ops ---

func (c *CPU) pha(uint8) int { c.push(c.a); return 0 }
func (c *CPU) php(uint8) int { c.push(c.Status(true)); return 0 } // B always set on PHP
func (c *CPU) pla(uint8) int { c.a = c.pull(); c.setZN(c.a); return 0 }
func (c *CPU) plp(uint8) int { c.SetStatus(c.pull()); return 0 }

// --- flag ops ---

func (c *CPU) clc(uint8) int { c.flagC = false; return 0 }
func (c *CPU) sec(uint8) int { c.flagC = true; return 0 }
func (c *CPU) cld(uint8) int { c.flagD = false; return 0 }
func (c *CPU) sed(uint8) int { c.flagD = true; return 0 }
func (c *CPU) cli(uint8) int { c.flagI = false; return 0 }
func (c *CPU) sei(uint8) int { c.flagI = true; return 0 }
func (c *CPU) clv(uint8) int { c.flagV = false; return 0 }

// --- branches ---

// branch resolves the relative target and applies it if taken is true,
// charging +1 cycle for a taken branch and +1 more if it lands on a
// different page than the instruction following the branch.
func (c *CPU) branch(taken bool) int {
	target, _ := c.operandAddr(Relative)
	if !taken {
		return 0
	}
	from := c.pc + 1 // address of the instruction after the branch
	extra := 1
	if !samePage(from, target) {
		extra = 2
	}
	c.pc = target
	return extra
}

func (c *CPU) bcc(uint8) int { return c.branch(!c.flagC) }
func (c *CPU) bcs(uint8) int { return c.branch(c.flagC) }
func (c *CPU) beq(uint8) int { return c.branch(c.flagZ) }
func (c *CPU) bne(uint8) int { return c.branch(!c.flagZ) }
func (c *CPU) bmi(uint8) int { return c.branch(c.flagN) }
func (c *CPU) bpl(uint8) int { return c.branch(!c.flagN) }
func (c *CPU) bvc(uint8) int { return c.branch(!c.flagV) }
func (c *CPU) bvs(uint8) int { return c.branch(c.flagV) }

// --- jumps, subroutines, interrupts ---

func (c *CPU) jmp(mode uint8) int {
	addr, _ := c.operandAddr(mode)
	c.pc = addr
	return 0
}

func (c *CPU) jsr(uint8) int {
	addr, _ := c.operandAddr(Absolute)
	c.pushAddr(c.pc + 1) // address of the last byte of the JSR operand
	c.pc = addr
	return 0
}

func (c *CPU) rts(uint8) int {
	c.pc = c.pullAddr() + 1
	return 0
}

func (c *CPU) rti(uint8) int {
	c.SetStatus(c.pull())
	c.pc = c.pullAddr()
	return 0
}

// brk implements spec.md §4.6.5: PC is pre-incremented by 1 before the push
// (the pushed value is PC+2 counting from the BRK opcode byte, since PC was
// already advanced past the opcode in Step), status is pushed with B set,
// I is set, and execution continues at the shared IRQ/BRK vector.
func (c *CPU) brk(uint8) int {
	c.pushAddr(c.pc + 1)
	c.push(c.Status(true))
	c.flagI = true
	c.pc = c.read16(VectorBRK)
	return 0
}

func (c *CPU) nop(uint8) int { return 0 }
