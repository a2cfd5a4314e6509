package asm

import "github.com/sixfiveo2/go6502core/asmerr"

// symtab maps label and constant names to resolved 16-bit values. Names
// arrive already upper-cased by the lexer, so lookups are naturally case
// insensitive. Insertion order is preserved for callers that want a
// deterministic symbol dump.
type symtab struct {
	order []string
	vals  map[string]int64
}

func newSymtab() *symtab {
	return &symtab{vals: make(map[string]int64)}
}

// define records name's value. A redefinition is a collision: labels and
// constants may each be defined exactly once.
func (s *symtab) define(name string, val int64, line, col int, errs *asmerr.List) {
	if _, ok := s.vals[name]; ok {
		errs.Add(line, col, asmerr.KindSymbol, "%q is already defined", name)
		return
	}
	s.vals[name] = val
	s.order = append(s.order, name)
}

func (s *symtab) lookup(name string) (int64, bool) {
	v, ok := s.vals[name]
	return v, ok
}
