package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedTemplate     Code = 1005
	LexBadEscape                Code = 1006

	// Синтаксические
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynExpectSemicolon   Code = 2002
	SynExpectIdentifier  Code = 2003
	SynExpectExpression  Code = 2004
	SynUnclosedDelimiter Code = 2005
	SynBadAssignTarget   Code = 2006
	SynBadPattern        Code = 2007
	SynImportNotTopLevel Code = 2008
	SynIllegalBreak      Code = 2009
	SynIllegalReturn     Code = 2010
	SynRestMustBeLast    Code = 2011
	SynConstWithoutInit  Code = 2012
	SynBadTemplateExpr   Code = 2013

	// Разрешение имён
	SemInfo         Code = 3000
	SemRedeclared   Code = 3001
	SemUnknownLabel Code = 3002

	// fromHere
	CutInfo            Code = 4000
	CutDuplicateMarker Code = 4001
	CutNestedMarker    Code = 4002
	CutNonBlockBody    Code = 4003
	CutMarkerWithArgs  Code = 4004

	// label/goto
	JmpInfo           Code = 5000
	JmpDuplicateLabel Code = 5001
	JmpNoLabels       Code = 5002
	JmpUndefinedLabel Code = 5003
	JmpGotoNotStmt    Code = 5004
	JmpLabelMisuse    Code = 5005
	JmpNestedLabel    Code = 5006
	JmpValuedReturn   Code = 5007
	JmpGotoArity      Code = 5008

	// внутренние инварианты
	IntInfo           Code = 6000
	IntPaddingOverrun Code = 6001
	IntEmitFailed     Code = 6002

	// ввод-вывод
	IOLoadFileError  Code = 7001
	IOWriteFileError Code = 7002

	// наблюдаемость
	ObsTimings Code = 8001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Malformed numeric literal",
		LexUnterminatedTemplate:     "Unterminated template literal",
		LexBadEscape:                "Invalid escape sequence",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynExpectSemicolon:          "Expected semicolon",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectExpression:         "Expected expression",
		SynUnclosedDelimiter:        "Unclosed delimiter",
		SynBadAssignTarget:          "Invalid assignment target",
		SynBadPattern:               "Invalid binding pattern",
		SynImportNotTopLevel:        "Import declaration outside module top level",
		SynIllegalBreak:             "break or continue outside of a loop",
		SynIllegalReturn:            "return outside of a function",
		SynRestMustBeLast:           "Rest element must be last",
		SynConstWithoutInit:         "Missing initializer in const declaration",
		SynBadTemplateExpr:          "Invalid template substitution",
		SemInfo:                     "Resolution information",
		SemRedeclared:               "Identifier has already been declared",
		SemUnknownLabel:             "Undefined statement label",
		CutInfo:                     "fromHere information",
		CutDuplicateMarker:          "Duplicate fromHere marker",
		CutNestedMarker:             "fromHere marker below function top level",
		CutNonBlockBody:             "Function without block body",
		CutMarkerWithArgs:           "fromHere call with arguments is not a marker",
		JmpInfo:                     "label/goto information",
		JmpDuplicateLabel:           "Duplicate label variable",
		JmpNoLabels:                 "goto without label declarations",
		JmpUndefinedLabel:           "Undefined label variable",
		JmpGotoNotStmt:              "goto outside statement position",
		JmpLabelMisuse:              "Label variable used outside goto",
		JmpNestedLabel:              "Label declared below function top level",
		JmpValuedReturn:             "Valued return in label/goto function",
		JmpGotoArity:                "goto expects exactly one label argument",
		IntInfo:                     "Internal information",
		IntPaddingOverrun:           "Rewritten body longer than original",
		IntEmitFailed:               "Failed to emit rewritten source",
		IOLoadFileError:             "I/O load file error",
		IOWriteFileError:            "I/O write file error",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("CUT%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("JMP%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("INT%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
