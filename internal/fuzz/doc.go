// Package fuzztests holds Go fuzz harnesses for the compiler pipeline
// (source -> lexer -> parser -> lowering). They guard against panics and
// hangs on arbitrary input, and against lowering that accepts a program
// but produces IR the validator rejects.
package fuzztests
