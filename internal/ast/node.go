package ast

import "sysyc/internal/source"

// Node is anything with a source location.
type Node interface {
	NodeSpan() source.Span
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	BlockItem
	stmtNode()
}

// BlockItem is a declaration or a statement inside a block.
type BlockItem interface {
	Node
	blockItemNode()
}

// Item is a top-level declaration or function definition.
type Item interface {
	Node
	itemNode()
}

// Initializer is either a single expression or a brace list.
type Initializer interface {
	Node
	initNode()
}

// CompUnit is one translation unit.
type CompUnit struct {
	File  source.FileID
	Items []Item
}
