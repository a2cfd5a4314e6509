package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sixfiveo2/go6502core/disasm"
)

func newDisasmCmd() *cobra.Command {
	var baseStr string

	cmd := &cobra.Command{
		Use:   "disasm <image.bin>",
		Short: "Disassemble a raw 6502 binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			base, err := parseAddr(baseStr)
			if err != nil {
				return err
			}
			listing := disasm.Disassemble(data, base)
			fmt.Print(listing.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&baseStr, "base", "$0000", "base address of the image, e.g. $0400 or 1024")
	return cmd
}

// parseAddr accepts $XXXX, 0xXXXX, or a bare decimal number.
func parseAddr(s string) (uint16, error) {
	if len(s) > 1 && s[0] == '$' {
		s = s[1:]
		v, err := strconv.ParseUint(s, 16, 16)
		return uint16(v), err
	}
	v, err := strconv.ParseUint(s, 0, 16)
	return uint16(v), err
}
