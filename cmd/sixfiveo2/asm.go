package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sixfiveo2/go6502core/asm"
)

func newAsmCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "asm <source.s>",
		Short: "Assemble a 6502 source file into a raw binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			data, base, _, err := asm.Assemble(string(src))
			if err != nil {
				return err
			}
			slog.Debug("assembled", "input", args[0], "base", fmt.Sprintf("$%04X", base), "bytes", len(data))

			if outPath == "" {
				outPath = args[0] + ".bin"
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			fmt.Printf("wrote %d bytes to %s (base $%04X)\n", len(data), outPath, base)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: <input>.bin)")
	return cmd
}
