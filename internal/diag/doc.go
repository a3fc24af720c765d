// Package diag defines the diagnostic model shared by the lexer, the parser,
// the lowering pass and the driver.
//
// Producers never format or print anything. They call a Reporter (usually a
// BagReporter backed by a *Bag) and the driver hands the collected bag to
// internal/diagfmt for rendering.
//
// Codes are grouped in numeric ranges, one per phase:
//
//   - 1000..1999 lexical (LEX)
//   - 2000..2999 syntax (SYN)
//   - 3000..3999 lowering (LOW); 3900.. are fatal configuration errors
//   - 4000..4999 io (IO)
//   - 5000..5999 project manifest (PRJ)
package diag
