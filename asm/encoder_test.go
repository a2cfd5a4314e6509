package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleSimpleProgram(t *testing.T) {
	src := `
        .org $0400
start:  LDA #$42
        STA $00
        LDX #$00
loop:   INX
        CPX #$10
        BNE loop
        RTS
`
	data, base, sm, err := Assemble(src)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0400), base)

	want := []byte{
		0xA9, 0x42, // LDA #$42
		0x85, 0x00, // STA $00
		0xA2, 0x00, // LDX #$00
		0xE8,       // INX
		0xE0, 0x10, // CPX #$10
		0xD0, 0xFB, // BNE loop (back 5 bytes: INX,CPX#,BNE = 1+2+2=5, disp=-5)
		0x60, // RTS
	}
	assert.Equal(t, want, data)
	assert.NotEmpty(t, sm)
}

func TestAssembleZeroPageAutoWidth(t *testing.T) {
	src := `
        .org $0000
        LDA $10
        LDA $1234
`
	data, _, _, err := Assemble(src)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xA5, 0x10, 0xAD, 0x34, 0x12}, data)
}

func TestAssembleForwardLabelDefaultsAbsolute(t *testing.T) {
	src := `
        .org $0000
        JMP target
target: NOP
`
	data, _, _, err := Assemble(src)
	require.NoError(t, err)
	assert.Equal(t, byte(0x4C), data[0]) // JMP absolute
}

func TestAssembleConstant(t *testing.T) {
	src := `
PORTB = $6000
        .org $0000
        LDA PORTB
`
	data, _, _, err := Assemble(src)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAD, 0x00, 0x60}, data)
}

func TestAssembleDirectives(t *testing.T) {
	src := `
        .org $0000
        .byte $01, $02, $03
        .word $1234
        .ascii "HI"
`
	data, _, _, err := Assemble(src)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x34, 0x12, 'H', 'I'}, data)
}

func TestAssembleFourDigitHexForcesAbsolute(t *testing.T) {
	src := `
        .org $0000
        LDA $0034
`
	data, _, _, err := Assemble(src)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAD, 0x34, 0x00}, data) // absolute, not zero page
}

func TestAssembleByteAcceptsStringAndNumericOperands(t *testing.T) {
	src := `
        .org $0000
        .byte "Hi",$00
`
	data, _, _, err := Assemble(src)
	require.NoError(t, err)
	assert.Equal(t, []byte{'H', 'i', 0x00}, data)
}

func TestAssembleUndefinedSymbolError(t *testing.T) {
	src := `
        .org $0000
        LDA missing
`
	_, _, _, err := Assemble(src)
	require.Error(t, err)
}

func TestAssembleBranchOutOfRange(t *testing.T) {
	src := `
        .org $0000
loop:   NOP
` + nopFill(200) + `
        BNE loop
`
	_, _, _, err := Assemble(src)
	require.Error(t, err)
}

func nopFill(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += "        NOP\n"
	}
	return s
}

func TestAssembleIndexedAndIndirectModes(t *testing.T) {
	src := `
        .org $0000
        LDA ($10,X)
        LDA ($10),Y
        LDX $10,Y
        JMP ($1234)
`
	data, _, _, err := Assemble(src)
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0xA1, 0x10,
		0xB1, 0x10,
		0xB6, 0x10,
		0x6C, 0x34, 0x12,
	}, data)
}
