// Package ast holds the syntax tree of a SysY translation unit.
//
// Node families are closed: Expr, Stmt, BlockItem, Initializer and Item are
// sealed interfaces whose implementations all live in this package, so a type
// switch over them is exhaustive and consumers report anything else as an
// invalid node.
package ast
