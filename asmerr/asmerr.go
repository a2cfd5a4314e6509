// Package asmerr defines the error types shared by the lexer, parser, and
// encoder in package asm, so a caller can report every problem found in a
// source file rather than stopping at the first one.
package asmerr

import "fmt"

// Kind classifies an Error for callers that want to filter or group them.
type Kind int

const (
	KindSyntax Kind = iota
	KindNumber
	KindSymbol
	KindAddressing
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindNumber:
		return "number"
	case KindSymbol:
		return "symbol"
	case KindAddressing:
		return "addressing"
	case KindRange:
		return "range"
	default:
		return "unknown"
	}
}

// Error is a single diagnostic with a source position.
type Error struct {
	Line int
	Col  int
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Col, e.Kind, e.Msg)
}

// List collects every Error found while processing a source file. It
// implements error so a List can be returned and checked like any other
// error, but callers that want per-diagnostic detail can range over it
// directly.
type List []*Error

func (l List) Error() string {
	if len(l) == 1 {
		return l[0].Error()
	}
	return fmt.Sprintf("%d errors, first: %s", len(l), l[0].Error())
}

// Add appends a new Error to the list.
func (l *List) Add(line, col int, kind Kind, format string, args ...any) {
	*l = append(*l, &Error{Line: line, Col: col, Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any diagnostics have been recorded.
func (l List) HasErrors() bool { return len(l) > 0 }

// AsError returns l as an error, or nil if it's empty. Callers should
// return asmerr.List.AsError() rather than a bare List so a clean run
// returns a true nil error.
func (l List) AsError() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
