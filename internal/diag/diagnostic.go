package diag

import (
	"errors"
	"fmt"

	"hereafter/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// Error carries a fatal diagnostic through an error return.
// Transform passes abort the whole file with it.
type Error struct {
	Diag Diagnostic
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Diag.Code.ID(), e.Diag.Message)
}

// Fatal wraps d as an *Error.
func Fatal(d Diagnostic) *Error {
	return &Error{Diag: d}
}

// AsDiagnostic unwraps err into a diagnostic when it carries one.
func AsDiagnostic(err error) (Diagnostic, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Diag, true
	}
	return Diagnostic{}, false
}
