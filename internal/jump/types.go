package jump

import (
	"fmt"

	"hereafter/internal/ast"
	"hereafter/internal/source"
)

// Fallthrough decides where control goes when a segment runs off its end.
type Fallthrough uint8

const (
	// FallEnd sends every label segment to end. The start segment still
	// enters the first label.
	FallEnd Fallthrough = iota
	// FallNext enters the next segment in source order, the last one enters end.
	FallNext
)

func (f Fallthrough) String() string {
	if f == FallNext {
		return "next"
	}
	return "end"
}

// ParseFallthrough parses a config or flag value.
func ParseFallthrough(s string) (Fallthrough, error) {
	switch s {
	case "", "end":
		return FallEnd, nil
	case "next":
		return FallNext, nil
	}
	return FallEnd, fmt.Errorf("unknown fallthrough policy %q (want end or next)", s)
}

// Returns decides what happens to valued returns.
type Returns uint8

const (
	// ReturnsThread stores the value in a result variable returned after
	// the dispatch loop.
	ReturnsThread Returns = iota
	// ReturnsReject refuses functions with valued returns.
	ReturnsReject
)

func (r Returns) String() string {
	if r == ReturnsReject {
		return "reject"
	}
	return "thread"
}

// ParseReturns parses a config or flag value.
func ParseReturns(s string) (Returns, error) {
	switch s {
	case "", "thread":
		return ReturnsThread, nil
	case "reject":
		return ReturnsReject, nil
	}
	return ReturnsThread, fmt.Errorf("unknown returns policy %q (want thread or reject)", s)
}

// Options tune the compiler.
type Options struct {
	Fallthrough Fallthrough
	Returns     Returns
}

// Reserved state names.
const (
	StateStart = "start"
	StateEnd   = "end"
)

// Label is a `let l = label();` declaration at the top of a function body.
type Label struct {
	Name     source.StringID
	NameSpan source.Span
	// State is "_" + Name. It never equals start or end, and label names
	// are unique per function, so the states are too.
	State string
	Decl  ast.StmtID
	// Next is the body index of the first statement of the label's segment.
	Next int
}

// Goto is a `goto(l);` statement, at the top level or nested.
type Goto struct {
	Stmt       ast.StmtID
	Call       ast.ExprID
	Target     source.StringID
	TargetSpan source.Span
}

// Segment is the statement run owned by one dispatch state.
type Segment struct {
	State string
	Stmts []ast.StmtID
}

// Result describes one compiled function.
type Result struct {
	Func     ast.FuncID
	Body     ast.StmtID
	Labels   []Label
	Gotos    []Goto
	Segments []Segment
	// Hoisted lists names declared above the dispatch loop.
	Hoisted   []source.StringID
	StateVar  string
	LoopLabel string
	// ResultVar is empty when the function has no valued return.
	ResultVar string
}
