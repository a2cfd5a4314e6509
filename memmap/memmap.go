// Package memmap implements the Mapped Memory bus: a dispatcher that routes
// 16-bit CPU addresses across a set of registered, non-overlapping Device
// regions and aggregates their interrupt lines, per spec.md §4.4-§4.5.
package memmap

import (
	"errors"
	"fmt"
)

// Device is the contract every memory-mapped peripheral implements.
// Offsets passed to Read/Write are relative to the device's registered base
// address, never absolute. Read takes a pointer receiver in every
// implementation in this repo (spec.md §4.16/§9): devices that clear a
// latch on read, or otherwise mutate interior state, do so directly instead
// of requiring a separate read_mut/post_read hook.
type Device interface {
	Read(offset uint16) uint8
	Write(offset uint16, val uint8)
	Size() uint16
}

// InterruptSource is implemented by devices that drive a level-sensitive
// interrupt line.
type InterruptSource interface {
	HasInterrupt() bool
}

// InterruptGroup selects which aggregated line (IRQ or NMI) a registered
// device's interrupt output feeds, so a host can wire, e.g., a VIA to IRQ
// and a video chip's vblank line to NMI.
type InterruptGroup int

const (
	IRQGroup InterruptGroup = iota
	NMIGroup
)

// ErrDeviceOverlap is returned by Register when a new device's address
// range would overlap an already-registered one. The mapping is left
// unmodified.
var ErrDeviceOverlap = errors.New("memmap: device address range overlaps an existing registration")

type region struct {
	base  uint16
	size  uint32 // uint32 so size 65536 (a device covering the whole space) is representable
	dev   Device
	group InterruptGroup
}

func (r region) end() uint32 { return uint32(r.base) + r.size } // exclusive

func (r region) overlaps(base uint16, size uint32) bool {
	end := uint32(base) + size
	return uint32(base) < r.end() && end > uint32(r.base)
}

// Memory implements the Bus contract by dispatching reads and writes to
// registered devices and aggregating their interrupt lines.
type Memory struct {
	regions  []region
	unmapped uint8
}

// Option configures a Memory at construction time.
type Option func(*Memory)

// WithUnmappedFill overrides the byte returned for reads to addresses with
// no registered device (default $FF, per spec.md §9).
func WithUnmappedFill(b uint8) Option {
	return func(m *Memory) { m.unmapped = b }
}

// New returns an empty Memory with no devices registered.
func New(opts ...Option) *Memory {
	m := &Memory{unmapped: 0xFF}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Register adds dev at [base, base+dev.Size()) in the given interrupt group.
// A Size() of 0 stands for 65536, a device covering the whole address
// space, since a uint16 cannot hold that value. A range running past $FFFF
// is rejected. Returns ErrDeviceOverlap (wrapped with the conflicting range)
// without mutating the mapping if the new range intersects any existing
// registration.
func (m *Memory) Register(base uint16, dev Device, group InterruptGroup) error {
	size := uint32(dev.Size())
	if size == 0 {
		size = 1 << 16
	}
	if uint32(base)+size > 1<<16 {
		return fmt.Errorf("memmap: device at base $%04X size %d exceeds the 16-bit address space", base, size)
	}
	for _, r := range m.regions {
		if r.overlaps(base, size) {
			return fmt.Errorf("%w: new device [$%04X,$%04X) conflicts with existing [$%04X,$%04X)",
				ErrDeviceOverlap, base, uint32(base)+size, r.base, r.end())
		}
	}
	m.regions = append(m.regions, region{base: base, size: size, dev: dev, group: group})
	return nil
}

// find returns the region covering addr, if any. Dispatch is a linear scan:
// device counts are small (typically <16) and the CPU's worst case is a
// handful of bus transactions per instruction, so the constant factor is
// acceptable (spec.md §4.5).
func (m *Memory) find(addr uint16) (region, bool) {
	for _, r := range m.regions {
		if uint32(addr) >= uint32(r.base) && uint32(addr) < r.end() {
			return r, true
		}
	}
	return region{}, false
}

func (m *Memory) Read(addr uint16) uint8 {
	r, ok := m.find(addr)
	if !ok {
		return m.unmapped
	}
	return r.dev.Read(addr - r.base)
}

func (m *Memory) Write(addr uint16, val uint8) {
	r, ok := m.find(addr)
	if !ok {
		return
	}
	r.dev.Write(addr-r.base, val)
}

func (m *Memory) aggregate(group InterruptGroup) bool {
	for _, r := range m.regions {
		if r.group != group {
			continue
		}
		src, ok := r.dev.(InterruptSource)
		if ok && src.HasInterrupt() {
			return true
		}
	}
	return false
}

func (m *Memory) IRQActive() bool { return m.aggregate(IRQGroup) }
func (m *Memory) NMIActive() bool { return m.aggregate(NMIGroup) }
