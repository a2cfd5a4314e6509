package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sixfiveo2/go6502core/cmd/sixfiveo2/internal/tui"
	"github.com/sixfiveo2/go6502core/cpu"
)

func newDebugCmd() *cobra.Command {
	var loadStr string

	cmd := &cobra.Command{
		Use:   "debug <image.bin>",
		Short: "Load a raw binary image and step through it in an interactive TUI debugger",
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

			m := cpu.NewFlatMemory()
			m.Load(load, image)
			c := cpu.New(m)
			c.SetPC(load)

			if _, err := tea.NewProgram(tui.New(c, m)).Run(); err != nil {
				return fmt.Errorf("running debugger: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&loadStr, "load", "$0400", "address to load the image at, and the initial PC")
	return cmd
}
