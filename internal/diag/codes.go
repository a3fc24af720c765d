package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// lexical
	LexUnknownChar              Code = 1001
	LexUnterminatedBlockComment Code = 1002
	LexBadNumber                Code = 1003

	// syntax
	SynUnexpectedToken  Code = 2001
	SynExpectSemicolon  Code = 2002
	SynExpectIdentifier Code = 2003
	SynExpectExpression Code = 2004
	SynUnclosedParen    Code = 2005
	SynUnclosedBrace    Code = 2006
	SynUnclosedBracket  Code = 2007
	SynBadType          Code = 2008

	// lowering
	LowInvalidExpr         Code = 3001
	LowFunctionNotFound    Code = 3002
	LowBlockNotFound       Code = 3003
	LowUnknownIdentifier   Code = 3004
	LowConstExpr           Code = 3005
	LowBreakOutsideLoop    Code = 3006
	LowContinueOutsideLoop Code = 3007
	LowMultipleDefinition  Code = 3008
	LowInvalidIR           Code = 3050

	// fatal configuration errors found while lowering
	LowFatalConfig Code = 3900

	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	ProjManifestInvalid   Code = 5001
	ProjVersionConstraint Code = 5002
	ProjNoSources         Code = 5003
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed integer literal",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectSemicolon:          "Expected ';'",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectExpression:         "Expected expression",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBrace:            "Unclosed brace",
	SynUnclosedBracket:          "Unclosed bracket",
	SynBadType:                  "Expected 'int' or 'void'",
	LowInvalidExpr:              "Invalid expression",
	LowFunctionNotFound:         "Function not found",
	LowBlockNotFound:            "Basic block not found",
	LowUnknownIdentifier:        "Unknown identifier",
	LowConstExpr:                "Initializer is not a constant expression",
	LowBreakOutsideLoop:         "'break' outside of a loop",
	LowContinueOutsideLoop:      "'continue' outside of a loop",
	LowMultipleDefinition:       "Multiple definition",
	LowInvalidIR:                "Lowered IR failed validation",
	LowFatalConfig:              "Invalid program configuration",
	IOLoadFileError:             "Cannot read file",
	IOWriteFileError:            "Cannot write file",
	ProjManifestInvalid:         "Invalid sysyc.toml",
	ProjVersionConstraint:       "Compiler version does not satisfy sysyc.toml",
	ProjNoSources:               "No source files",
}

// ID is the stable short form, e.g. LOW3004.
func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
