package ast

import "sysyc/internal/source"

// Decl is `[const] int def, def, ...;`.
type Decl struct {
	Span  source.Span
	Const bool
	Defs  []*Def
}

// Def declares one name. Dims is empty for scalars; Init is nil when omitted.
type Def struct {
	Span source.Span
	Name string
	Dims []Expr
	Init Initializer
}

// IsArray reports whether the definition declares an array.
func (d *Def) IsArray() bool { return len(d.Dims) > 0 }

// InitExpr is a single-expression initializer.
type InitExpr struct {
	Span source.Span
	X    Expr
}

// InitList is a brace initializer; items may nest.
type InitList struct {
	Span  source.Span
	Items []Initializer
}

// Type is a function return type.
type Type uint8

const (
	TypeInt Type = iota
	TypeVoid
)

func (t Type) String() string {
	if t == TypeVoid {
		return "void"
	}
	return "int"
}

// Param is a function parameter. Array parameters drop their first
// dimension (`int a[][3]`); Dims holds the remaining ones.
type Param struct {
	Span  source.Span
	Name  string
	Array bool
	Dims  []Expr
}

// FuncDef is a function definition.
type FuncDef struct {
	Span   source.Span
	Ret    Type
	Name   string
	Params []*Param
	Body   *Block
}

func (d *Decl) NodeSpan() source.Span     { return d.Span }
func (d *Def) NodeSpan() source.Span      { return d.Span }
func (i *InitExpr) NodeSpan() source.Span { return i.Span }
func (i *InitList) NodeSpan() source.Span { return i.Span }
func (p *Param) NodeSpan() source.Span    { return p.Span }
func (f *FuncDef) NodeSpan() source.Span  { return f.Span }

func (*Decl) blockItemNode() {}
func (*Decl) itemNode()      {}
func (*FuncDef) itemNode()   {}
func (*InitExpr) initNode()  {}
func (*InitList) initNode()  {}
