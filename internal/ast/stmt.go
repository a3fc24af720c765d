package ast

import "sysyc/internal/source"

// Block is a braced statement list. ID is unique within a CompUnit and is
// used as the lexical scope id; zero means "not assigned".
type Block struct {
	Span  source.Span
	ID    uint32
	Items []BlockItem
}

// AssignStmt is `target = value;`.
type AssignStmt struct {
	Span   source.Span
	Target *LVal
	Value  Expr
}

// ExprStmt is an expression evaluated for its effects; X is nil for `;`.
type ExprStmt struct {
	Span source.Span
	X    Expr
}

// IfStmt has an optional Else.
type IfStmt struct {
	Span source.Span
	Cond Expr
	Then Stmt
	Else Stmt
}

type WhileStmt struct {
	Span source.Span
	Cond Expr
	Body Stmt
}

type BreakStmt struct{ Span source.Span }

type ContinueStmt struct{ Span source.Span }

// ReturnStmt has an optional Value.
type ReturnStmt struct {
	Span  source.Span
	Value Expr
}

func (s *Block) NodeSpan() source.Span        { return s.Span }
func (s *AssignStmt) NodeSpan() source.Span   { return s.Span }
func (s *ExprStmt) NodeSpan() source.Span     { return s.Span }
func (s *IfStmt) NodeSpan() source.Span       { return s.Span }
func (s *WhileStmt) NodeSpan() source.Span    { return s.Span }
func (s *BreakStmt) NodeSpan() source.Span    { return s.Span }
func (s *ContinueStmt) NodeSpan() source.Span { return s.Span }
func (s *ReturnStmt) NodeSpan() source.Span   { return s.Span }

func (*Block) stmtNode()        {}
func (*AssignStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()     {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*ReturnStmt) stmtNode()   {}

func (*Block) blockItemNode()        {}
func (*AssignStmt) blockItemNode()   {}
func (*ExprStmt) blockItemNode()     {}
func (*IfStmt) blockItemNode()       {}
func (*WhileStmt) blockItemNode()    {}
func (*BreakStmt) blockItemNode()    {}
func (*ContinueStmt) blockItemNode() {}
func (*ReturnStmt) blockItemNode()   {}

// IsJump reports whether s unconditionally leaves the enclosing block.
func IsJump(s BlockItem) bool {
	switch s.(type) {
	case *ReturnStmt, *BreakStmt, *ContinueStmt:
		return true
	}
	return false
}
