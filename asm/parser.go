package asm

import (
	"github.com/sixfiveo2/go6502core/asmerr"
)

// parser consumes a token stream and builds the statement list the encoder
// walks in its two passes. One source line produces zero or one stmt; a
// label-only line still produces a stmt so the encoder can attach the label
// to the following address, while blank and comment-only lines produce none.
type parser struct {
	toks []token
	pos  int
	errs *asmerr.List
}

func newParser(toks []token, errs *asmerr.List) *parser {
	return &parser{toks: toks, errs: errs}
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) atEnd() bool { return p.cur().kind == tokEOF }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) skipLineBreaks() {
	for p.cur().kind == tokNewline {
		p.advance()
	}
}

// parseProgram parses every statement in the token stream.
func (p *parser) parseProgram() []*stmt {
	var out []*stmt
	p.skipLineBreaks()
	for !p.atEnd() {
		s := p.parseLine()
		if s != nil {
			out = append(out, s)
		}
		p.skipLineBreaks()
	}
	return out
}

func (p *parser) parseLine() *stmt {
	line, col := p.cur().line, p.cur().col
	s := &stmt{kind: stmtLabelOnly, line: line, col: col}

	if p.cur().kind == tokIdent && p.peekIsColon() {
		s.label = p.advance().text
		p.advance() // ':'
	}

	switch p.cur().kind {
	case tokNewline, tokEOF:
		return s
	case tokDot:
		p.advance()
		p.parseDirective(s)
	case tokIdent:
		if p.peekIsEquals() {
			s.kind = stmtConstant
			s.constName = p.advance().text
			p.advance() // '='
			s.constExpr = p.parseExpr()
		} else {
			s.kind = stmtInstruction
			s.mnemonic = p.advance().text
			s.operand = p.parseOperand()
		}
	default:
		p.errs.Add(line, col, asmerr.KindSyntax, "expected label, directive, or mnemonic")
		p.skipToLineEnd()
		return s
	}

	p.expectLineEnd()
	return s
}

func (p *parser) peekIsColon() bool {
	return p.pos+1 < len(p.toks) && p.toks[p.pos+1].kind == tokColon
}

func (p *parser) peekIsEquals() bool {
	return p.pos+1 < len(p.toks) && p.toks[p.pos+1].kind == tokEquals
}

func (p *parser) skipToLineEnd() {
	for p.cur().kind != tokNewline && p.cur().kind != tokEOF {
		p.advance()
	}
}

func (p *parser) expectLineEnd() {
	if p.cur().kind != tokNewline && p.cur().kind != tokEOF {
		t := p.cur()
		p.errs.Add(t.line, t.col, asmerr.KindSyntax, "unexpected trailing token on line")
		p.skipToLineEnd()
	}
}

func (p *parser) parseDirective(s *stmt) {
	t := p.cur()
	if t.kind != tokIdent {
		p.errs.Add(t.line, t.col, asmerr.KindSyntax, "expected directive name after '.'")
		p.skipToLineEnd()
		return
	}
	name := p.advance().text
	s.kind = stmtDirective
	s.directive = name

	switch name {
	case dirOrg:
		s.dirExprs = []*expr{p.parseExpr()}
	case dirWord:
		s.dirExprs = append(s.dirExprs, p.parseExpr())
		for p.cur().kind == tokComma {
			p.advance()
			s.dirExprs = append(s.dirExprs, p.parseExpr())
		}
	case dirByte:
		s.dirBytes = append(s.dirBytes, p.parseByteItem())
		for p.cur().kind == tokComma {
			p.advance()
			s.dirBytes = append(s.dirBytes, p.parseByteItem())
		}
	case dirAscii, dirString:
		if p.cur().kind != tokString {
			p.errs.Add(p.cur().line, p.cur().col, asmerr.KindSyntax, "expected a string literal after .%s", name)
			return
		}
		s.dirString = p.advance().text
	default:
		p.errs.Add(t.line, t.col, asmerr.KindSyntax, "unknown directive %q", "."+name)
		p.skipToLineEnd()
	}
}

// parseOperand parses everything after a mnemonic on an instruction line.
func (p *parser) parseOperand() operand {
	switch p.cur().kind {
	case tokNewline, tokEOF:
		return operand{kind: operNone}
	case tokIdent:
		if p.cur().text == "A" && p.peekIsLineEnd() {
			p.advance()
			return operand{kind: operAccumulator}
		}
	case tokHash:
		p.advance()
		w, e := p.parseWidthAndExpr()
		return operand{kind: operImmediate, expr: e, width: w}
	case tokLParen:
		p.advance()
		w, e := p.parseWidthAndExpr()
		if p.cur().kind == tokComma {
			p.advance()
			p.expectRegister("X")
			p.expectRParen()
			return operand{kind: operIndirectX, expr: e, width: w}
		}
		p.expectRParen()
		if p.cur().kind == tokComma {
			p.advance()
			p.expectRegister("Y")
			return operand{kind: operIndirectY, expr: e, width: w}
		}
		return operand{kind: operIndirect, expr: e, width: w}
	}

	w, e := p.parseWidthAndExpr()
	if p.cur().kind == tokComma {
		p.advance()
		reg := p.advance()
		switch reg.text {
		case "X":
			return operand{kind: operIndexedX, expr: e, width: w}
		case "Y":
			return operand{kind: operIndexedY, expr: e, width: w}
		default:
			p.errs.Add(reg.line, reg.col, asmerr.KindSyntax, "expected index register X or Y, got %q", reg.text)
			return operand{kind: operIndexedX, expr: e, width: w}
		}
	}
	return operand{kind: operDirect, expr: e, width: w}
}

// peekIsLineEnd reports whether the token after the current one ends the
// line, used to tell a bare "A" (accumulator operand) apart from an
// identifier that merely starts with A (e.g. a label used as an operand).
func (p *parser) peekIsLineEnd() bool {
	if p.pos+1 >= len(p.toks) {
		return true
	}
	n := p.toks[p.pos+1]
	return n.kind == tokNewline || n.kind == tokEOF
}

func (p *parser) parseWidthAndExpr() (forceWidth, *expr) {
	w := widthAuto
	switch p.cur().kind {
	case tokLess:
		w = widthZeroPage
		p.advance()
	case tokGreat:
		w = widthAbsolute
		p.advance()
	}
	return w, p.parseExpr()
}

func (p *parser) expectRegister(name string) {
	t := p.cur()
	if t.kind != tokIdent || t.text != name {
		p.errs.Add(t.line, t.col, asmerr.KindSyntax, "expected register %s", name)
		return
	}
	p.advance()
}

func (p *parser) expectRParen() {
	t := p.cur()
	if t.kind != tokRParen {
		p.errs.Add(t.line, t.col, asmerr.KindSyntax, "expected ')'")
		return
	}
	p.advance()
}

// parseByteItem parses one .byte operand: a string literal, emitted as its
// raw bytes, or an expression, emitted as a single byte.
func (p *parser) parseByteItem() byteItem {
	if p.cur().kind == tokString {
		t := p.advance()
		return byteItem{str: t.text, isString: true}
	}
	return byteItem{expr: p.parseExpr()}
}

// parseExpr parses a number, a symbol, '*', or one of those plus/minus a
// trailing constant offset.
func (p *parser) parseExpr() *expr {
	t := p.cur()
	e := &expr{line: t.line, col: t.col}

	switch t.kind {
	case tokNumber:
		p.advance()
		e.literal = t.num
		e.hexDigits = t.hexDigits
	case tokIdent:
		p.advance()
		e.symbol = t.text
		e.hasSymbol = true
	case tokStar:
		p.advance()
		e.isPC = true
	default:
		p.errs.Add(t.line, t.col, asmerr.KindSyntax, "expected a number, symbol, or '*'")
		return e
	}

	if p.cur().kind == tokPlus || p.cur().kind == tokMinus {
		neg := p.cur().kind == tokMinus
		p.advance()
		n := p.cur()
		if n.kind != tokNumber {
			p.errs.Add(n.line, n.col, asmerr.KindSyntax, "expected a number after '+'/'-'")
			return e
		}
		p.advance()
		if neg {
			e.literal -= n.num
		} else {
			e.literal += n.num
		}
	}
	return e
}
