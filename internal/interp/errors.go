package interp

import (
	"fmt"
	"strings"

	"hereafter/internal/source"
)

// ErrorCode identifies an evaluator failure.
type ErrorCode int

// Stable error codes - do not change values.
const (
	ErrUncaught    ErrorCode = 9001 // EV9001: uncaught exception
	ErrStepLimit   ErrorCode = 9002 // EV9002: step budget exhausted
	ErrUnsupported ErrorCode = 9003 // EV9003: construct not supported by the evaluator
	ErrStrayGoto   ErrorCode = 9004 // EV9004: goto target outside the running function
	ErrNoFunction  ErrorCode = 9005 // EV9005: entry function not found
	ErrCancelled   ErrorCode = 9006 // EV9006: context cancelled
)

// String returns the code as "EV9001" format.
func (c ErrorCode) String() string {
	return fmt.Sprintf("EV%d", c)
}

// BacktraceFrame is one active call at the time of the error.
type BacktraceFrame struct {
	FuncName string
	Span     source.Span
}

// RuntimeError is a failure that stops evaluation.
type RuntimeError struct {
	Code      ErrorCode
	Message   string
	Span      source.Span
	Backtrace []BacktraceFrame // сверху вниз
	// Thrown holds the exception value for ErrUncaught.
	Thrown Value
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// FormatWithFiles formats the error with resolved file:line:col locations.
func (e *RuntimeError) FormatWithFiles(files *source.FileSet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "error %s: %s\n", e.Code, e.Message)
	sb.WriteString("at ")
	sb.WriteString(formatSpan(e.Span, files))
	sb.WriteString("\n")
	if len(e.Backtrace) > 0 {
		sb.WriteString("backtrace:\n")
		for i, frame := range e.Backtrace {
			fmt.Fprintf(&sb, "  %d: %s at %s\n", i, frame.FuncName, formatSpan(frame.Span, files))
		}
	}
	return sb.String()
}

func formatSpan(span source.Span, files *source.FileSet) string {
	if files == nil || (span.Start == 0 && span.End == 0) {
		return "<no-span>"
	}
	file := files.Get(span.File)
	if file == nil {
		return "<no-span>"
	}
	start, _ := files.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", file.Path, start.Line, start.Col)
}

// throwSignal carries a JavaScript exception through Go error returns.
type throwSignal struct {
	value Value
	span  source.Span
	trace []BacktraceFrame
}

func (t *throwSignal) Error() string { return "uncaught " + Inspect(t.value) }

// gotoSignal unwinds to the function body that declared the label.
type gotoSignal struct {
	target *labelTarget
	span   source.Span
}

func (g *gotoSignal) Error() string { return "goto " + g.target.name }

func (in *Interp) makeError(code ErrorCode, span source.Span, msg string) *RuntimeError {
	return &RuntimeError{Code: code, Message: msg, Span: span, Backtrace: in.backtrace()}
}

func (in *Interp) backtrace() []BacktraceFrame {
	out := make([]BacktraceFrame, 0, len(in.stack))
	for i := len(in.stack) - 1; i >= 0; i-- {
		f := in.stack[i]
		out = append(out, BacktraceFrame{FuncName: f.name, Span: f.span})
	}
	return out
}

func (in *Interp) throw(v Value, span source.Span) error {
	return &throwSignal{value: v, span: span, trace: in.backtrace()}
}

// throwError raises a catchable JavaScript error object.
func (in *Interp) throwError(name string, span source.Span, msg string) error {
	obj := newObject(ObjError)
	obj.ctor = in.errorCtors[name]
	obj.Set("name", MakeString(name))
	obj.Set("message", MakeString(msg))
	return in.throw(MakeObject(obj), span)
}

func (in *Interp) typeError(span source.Span, format string, args ...any) error {
	return in.throwError("TypeError", span, fmt.Sprintf(format, args...))
}

func (in *Interp) referenceError(span source.Span, name string) error {
	return in.throwError("ReferenceError", span, name+" is not defined")
}

// uncaught converts signals escaping the program into runtime errors.
func (in *Interp) uncaught(err error) error {
	switch sig := err.(type) {
	case *throwSignal:
		e := in.makeError(ErrUncaught, sig.span, "Uncaught "+Inspect(sig.value))
		e.Backtrace = sig.trace
		e.Thrown = sig.value
		return e
	case *gotoSignal:
		return in.makeError(ErrStrayGoto, sig.span, "goto("+sig.target.name+") outside the function declaring it")
	}
	return err
}
