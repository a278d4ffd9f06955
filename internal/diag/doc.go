// Package diag defines the diagnostic model shared by every phase.
//
// Producers (lexer, parser, resolver, the cut and jump passes) report through
// the Reporter interface; the driver collects into a Bag and hands it to
// internal/diagfmt for rendering. Diagnostics never carry formatting.
//
// Codes are grouped by phase and rendered with a stable prefix:
//
//	LEX  lexer
//	SYN  parser
//	SEM  name resolution
//	CUT  fromHere marker pass
//	JMP  label/goto pass
//	INT  internal invariant breaches
//	IO   file system
//
// Fatal pass failures travel as *Error values so that callers can abort a
// file with a plain error return and still render the full diagnostic.
package diag
