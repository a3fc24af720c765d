package ast

import "sysyc/internal/source"

// NumberLit is an integer literal already decoded to its 32-bit value.
// Wrapped is set when the written value exceeded MaxInt32 and wrapped, as
// the 2147483648 of -2147483648 does.
type NumberLit struct {
	Span    source.Span
	Value   int32
	Wrapped bool
}

// LVal names a variable, optionally indexed: a, a[i], a[i][j].
type LVal struct {
	Span    source.Span
	Name    string
	Indices []Expr
}

// CallExpr calls a function by name.
type CallExpr struct {
	Span source.Span
	Name string
	Args []Expr
}

type UnaryExpr struct {
	Span source.Span
	Op   UnaryOp
	X    Expr
}

type BinaryExpr struct {
	Span source.Span
	Op   BinaryOp
	X, Y Expr
}

func (e *NumberLit) NodeSpan() source.Span  { return e.Span }
func (e *LVal) NodeSpan() source.Span       { return e.Span }
func (e *CallExpr) NodeSpan() source.Span   { return e.Span }
func (e *UnaryExpr) NodeSpan() source.Span  { return e.Span }
func (e *BinaryExpr) NodeSpan() source.Span { return e.Span }

func (*NumberLit) exprNode()  {}
func (*LVal) exprNode()       {}
func (*CallExpr) exprNode()   {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
