// Package tui implements the interactive step debugger launched by
// `sixfiveo2 debug`.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/sixfiveo2/go6502core/cpu"
	"github.com/sixfiveo2/go6502core/disasm"
)

type reader interface {
	Read(addr uint16) uint8
}

type model struct {
	cpu *cpu.CPU
	mem reader

	prevPC      uint16
	breakpoints map[uint16]bool
	running     bool
	err         error
}

// New returns a debugger model watching c, reading memory for display
// purposes through mem.
func New(c *cpu.CPU, mem reader) tea.Model {
	return model{cpu: c, mem: mem, breakpoints: make(map[uint16]bool)}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "s":
			m.step()
		case "c":
			m.running = true
			for m.running && m.err == nil {
				m.step()
				if m.breakpoints[m.cpu.PC()] {
					m.running = false
				}
			}
		case "b":
			pc := m.cpu.PC()
			m.breakpoints[pc] = !m.breakpoints[pc]
		}
	}
	return m, nil
}

func (m *model) step() {
	m.prevPC = m.cpu.PC()
	if _, err := m.cpu.Step(); err != nil {
		m.err = err
		m.running = false
	}
}

const bytesPerRow = 16

func (m model) renderRow(start uint16) string {
	s := fmt.Sprintf("%04X | ", start)
	for i := 0; i < bytesPerRow; i++ {
		addr := start + uint16(i)
		b := m.mem.Read(addr)
		switch {
		case addr == m.cpu.PC():
			s += fmt.Sprintf("[%02X]", b)
		case m.breakpoints[addr]:
			s += fmt.Sprintf("*%02X*", b)
		default:
			s += fmt.Sprintf(" %02X ", b)
		}
	}
	return s
}

func (m model) memoryPane() string {
	base := m.cpu.PC() &^ 0x000F
	var rows []string
	for i := -2; i <= 2; i++ {
		rows = append(rows, m.renderRow(base+uint16(i*bytesPerRow)))
	}
	return strings.Join(rows, "\n")
}

func (m model) statusPane() string {
	flags := ""
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"N", m.cpu.FlagN()}, {"V", m.cpu.FlagV()}, {"D", m.cpu.FlagD()},
		{"I", m.cpu.FlagI()}, {"Z", m.cpu.FlagZ()}, {"C", m.cpu.FlagC()},
	} {
		if f.set {
			flags += f.name
		} else {
			flags += "-"
		}
	}

	errLine := ""
	if m.err != nil {
		errLine = fmt.Sprintf("\nerror: %v", m.err)
	}

	return fmt.Sprintf(
		"PC: $%04X (was $%04X)\nA:  $%02X\nX:  $%02X\nY:  $%02X\nSP: $%02X\ncycles: %d\nflags NVDIZC: %s%s",
		m.cpu.PC(), m.prevPC, m.cpu.A(), m.cpu.X(), m.cpu.Y(), m.cpu.SP(), m.cpu.Cycles(), flags, errLine,
	)
}

func (m model) disasmPane() string {
	var buf [16]byte
	for i := range buf {
		buf[i] = m.mem.Read(m.cpu.PC() + uint16(i))
	}
	listing := disasm.Disassemble(buf[:], m.cpu.PC())
	var sb strings.Builder
	for i, in := range listing.Instructions {
		if i >= 6 {
			break
		}
		sb.WriteString(in.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m model) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.memoryPane(),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, m.statusPane(), "    ", m.disasmPane()),
		"",
		spew.Sdump(cpu.Opcodes[m.mem.Read(m.cpu.PC())]),
		"space/s: step   c: continue to breakpoint   b: toggle breakpoint   q: quit",
	)
}
