package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sixfiveo2/go6502core/cpu"
	"github.com/sixfiveo2/go6502core/devices"
	"github.com/sixfiveo2/go6502core/memmap"
)

func newRunCmd() *cobra.Command {
	var loadStr, startStr string

	cmd := &cobra.Command{
		Use:   "run <image.bin>",
		Short: "Load a raw binary image into RAM and run it until it stops or is interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			load, err := parseAddr(loadStr)
			if err != nil {
				return fmt.Errorf("--load: %w", err)
			}

			// RAM covers everything below the ACIA's registers so the two
			// registrations never overlap.
			ram := devices.NewRAM(0xC000)
			ram.Load(load, image)

			bus := memmap.New()
			if err := bus.Register(0x0000, ram, memmap.IRQGroup); err != nil {
				return err
			}
			acia := devices.NewACIA()
			if err := bus.Register(0xC000, acia, memmap.IRQGroup); err != nil {
				return err
			}

			c := cpu.New(bus)
			if startStr != "" {
				pc, err := parseAddr(startStr)
				if err != nil {
					return fmt.Errorf("--start: %w", err)
				}
				c.SetPC(pc)
			} else if off := cpu.VectorReset - int(load); off >= 0 && off+1 < len(image) {
				// $FFFC is not mapped on this bus, so take the vector from the image.
				c.SetPC(uint16(image[off]) | uint16(image[off+1])<<8)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			const sliceCycles = 100_000
			var total int
			for ctx.Err() == nil {
				n, err := c.RunForCycles(sliceCycles)
				total += n
				if err != nil {
					return fmt.Errorf("stopped at $%04X after %d cycles: %w", c.PC(), total, err)
				}
				if out := acia.Drain(); len(out) > 0 {
					os.Stdout.Write(out)
				}
			}
			slog.Debug("interrupted", "cycles", total, "pc", fmt.Sprintf("$%04X", c.PC()))
			return nil
		},
	}
	cmd.Flags().StringVar(&loadStr, "load", "$0000", "address to load the image at")
	cmd.Flags().StringVar(&startStr, "start", "", "initial PC (default: the image's reset vector)")
	return cmd
}
