package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixfiveo2/go6502core/asm"
)

func TestDisassembleBasic(t *testing.T) {
	data := []byte{0xA9, 0x42, 0x85, 0x00, 0x60} // LDA #$42; STA $00; RTS
	l := Disassemble(data, 0x0400)
	require.Len(t, l.Instructions, 3)
	assert.Equal(t, "LDA #$42", l.Instructions[0].Text)
	assert.Equal(t, "STA $00", l.Instructions[1].Text)
	assert.Equal(t, "RTS", l.Instructions[2].Text)
	assert.Equal(t, uint16(0x0400), l.Instructions[0].Addr)
	assert.Equal(t, uint16(0x0402), l.Instructions[1].Addr)
}

func TestDisassembleBranchRendersAbsoluteTarget(t *testing.T) {
	data := []byte{0xD0, 0xFB} // BNE -5
	l := Disassemble(data, 0x0409)
	require.Len(t, l.Instructions, 1)
	assert.Equal(t, "BNE $0406", l.Instructions[0].Text)
}

func TestDisassembleUnimplementedFallsBackToByteDirective(t *testing.T) {
	data := []byte{0x02} // unofficial KIL/JAM, unimplemented
	l := Disassemble(data, 0x0000)
	require.Len(t, l.Instructions, 1)
	assert.Equal(t, ".byte $02", l.Instructions[0].Text)
}

func TestRoundTripSubHundredAbsoluteStaysAbsolute(t *testing.T) {
	data := []byte{0xAD, 0x34, 0x00} // LDA $0034, absolute despite sub-256 value
	listing := Disassemble(data, 0x0400)
	require.Len(t, listing.Instructions, 1)
	assert.Equal(t, "LDA $0034", listing.Instructions[0].Text)

	reassembled, _, _, err := asm.Assemble(".org $0400\n" + listing.Instructions[0].Text + "\n")
	require.NoError(t, err)
	assert.Equal(t, data, reassembled)
}

func TestRoundTripAssembleDisassemble(t *testing.T) {
	src := `
        .org $0400
start:  LDA #$42
        STA $00
        LDX #$00
loop:   INX
        CPX #$10
        BNE loop
        JMP ($1234)
        RTS
`
	data, base, _, err := asm.Assemble(src)
	require.NoError(t, err)

	listing := Disassemble(data, base)

	var rebuilt []byte
	for _, in := range listing.Instructions {
		rebuilt = append(rebuilt, in.Raw...)
	}
	assert.Equal(t, data, rebuilt, "concatenated raw bytes must reproduce the original image")

	var reassembledSrc string
	reassembledSrc += ".org $0400\n"
	for _, in := range listing.Instructions {
		reassembledSrc += in.Text + "\n"
	}
	reassembled, _, _, err := asm.Assemble(reassembledSrc)
	require.NoError(t, err)
	assert.Equal(t, data, reassembled, "disassembly text must reassemble byte-for-byte")
}
