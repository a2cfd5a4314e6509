package devices

// Latch is a one-byte device that also drives a level-sensitive interrupt
// line: Raise sets the line high and records the byte that caused it;
// reading the register clears the line, the way a real peripheral's status
// register acknowledges its own interrupt on CPU read (spec.md §4.16).
type Latch struct {
	val     uint8
	pending bool
}

// NewLatch returns a latch with the line low.
func NewLatch() *Latch { return &Latch{} }

func (l *Latch) Size() uint16 { return 1 }

// Read returns the latched byte and clears the pending interrupt.
func (l *Latch) Read(offset uint16) uint8 {
	l.pending = false
	return l.val
}

func (l *Latch) Write(offset uint16, val uint8) {
	l.val = val
}

// Raise asserts the interrupt line and latches val as the byte a subsequent
// Read will return.
func (l *Latch) Raise(val uint8) {
	l.val = val
	l.pending = true
}

func (l *Latch) HasInterrupt() bool { return l.pending }
