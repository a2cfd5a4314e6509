package asm

// expr is a resolvable operand expression: a bare number, a symbol
// reference, the current-PC marker '*', or a symbol/PC plus or minus a
// constant offset (e.g. "table+1", "*-2").
type expr struct {
	symbol    string
	hasSymbol bool
	isPC      bool
	literal   int64
	line, col int

	// hexDigits is the number of digits a $-prefixed literal was written
	// with (0 for non-hex literals and symbol/PC references). It lets the
	// encoder tell "$34" (zero page) apart from "$0034" (explicitly
	// padded to an absolute operand) even though both carry the same
	// value, which is what a disassembled absolute operand under $0100
	// always looks like and must round-trip back to absolute addressing.
	hexDigits int
}

// forceWidth, when non-zero on an operand, overrides the encoder's normal
// narrowest-fit addressing mode choice: '<' forces zero page, '>' forces
// absolute/16-bit.
type forceWidth int

const (
	widthAuto forceWidth = iota
	widthZeroPage
	widthAbsolute
)

type operandKind int

const (
	operNone operandKind = iota
	operAccumulator
	operImmediate
	operIndirect   // (expr)
	operIndirectX  // (expr,X)
	operIndirectY  // (expr),Y
	operIndexedX   // expr,X
	operIndexedY   // expr,Y
	operDirect     // expr, zp/abs/relative decided by the encoder
)

type operand struct {
	kind  operandKind
	expr  *expr
	width forceWidth
}

type stmtKind int

const (
	stmtLabelOnly stmtKind = iota
	stmtConstant
	stmtDirective
	stmtInstruction
)

// directive names, normalized to upper case by the lexer.
const (
	dirOrg    = "ORG"
	dirByte   = "BYTE"
	dirWord   = "WORD"
	dirAscii  = "ASCII"
	dirString = "STRING"
)

// byteItem is one comma-separated entry in a .byte directive: either a
// resolvable expression or a string literal, emitted as its raw bytes with
// no terminator (unlike .ascii, which is its own directive, a string
// embedded in .byte is just a convenient way to spell out several
// consecutive byte values).
type byteItem struct {
	expr     *expr
	str      string
	isString bool
}

type stmt struct {
	kind stmtKind
	line int
	col  int

	label string // non-empty if a label preceded this statement

	constName string
	constExpr *expr

	directive string
	dirExprs  []*expr    // operands for .word
	dirBytes  []byteItem // operands for .byte
	dirString string     // text for .ascii / .string

	mnemonic string
	operand  operand
}
