package lower

import (
	"github.com/llir/llvm/ir/types"

	"sysyc/internal/ast"
)

func (c *Context) lowerStmt(s ast.Stmt) error {
	if _, err := c.current(s.NodeSpan()); err != nil {
		return err
	}
	switch s := s.(type) {
	case *ast.Block:
		return c.lowerBlock(s)
	case *ast.AssignStmt:
		return c.lowerAssign(s)
	case *ast.ExprStmt:
		if s.X == nil {
			return nil
		}
		_, err := c.lowerExpr(s.X)
		return err
	case *ast.IfStmt:
		return c.lowerIf(s)
	case *ast.WhileStmt:
		return c.lowerWhile(s)
	case *ast.BreakStmt:
		l, ok := c.loop()
		if !ok {
			return &Error{Kind: BreakOutsideLoop, Span: s.Span}
		}
		c.Block.NewBr(l.End)
		return nil
	case *ast.ContinueStmt:
		l, ok := c.loop()
		if !ok {
			return &Error{Kind: ContinueOutsideLoop, Span: s.Span}
		}
		c.Block.NewBr(l.Start)
		return nil
	case *ast.ReturnStmt:
		return c.lowerReturn(s)
	}
	return invalidf(s.NodeSpan(), "unexpected statement %T", s)
}

// lowerBlock lowers a nested block in its own scope and always leaves an
// open block behind.
func (c *Context) lowerBlock(b *ast.Block) error {
	c.Scopes.Enter(b.ID)
	defer c.Scopes.Exit()
	if err := c.lowerItems(b.Items); err != nil {
		return err
	}
	c.openIfTerminated("cont")
	return nil
}

func (c *Context) lowerIf(s *ast.IfStmt) error {
	cond, err := c.lowerCond(s.Cond)
	if err != nil {
		return err
	}
	then, end := c.newBlock("then"), c.newBlock("endif")
	els := end
	if s.Else != nil {
		els = c.newBlock("else")
	}
	c.Block.NewCondBr(cond, then, els)

	c.setBlock(then)
	if err := c.lowerStmt(s.Then); err != nil {
		return err
	}
	c.jump(end)

	if s.Else != nil {
		c.setBlock(els)
		if err := c.lowerStmt(s.Else); err != nil {
			return err
		}
		c.jump(end)
	}
	c.setBlock(end)
	return nil
}

func (c *Context) lowerWhile(s *ast.WhileStmt) error {
	start, body, end := c.newBlock("while"), c.newBlock("do"), c.newBlock("endwhile")
	c.jump(start)
	c.setBlock(start)
	cond, err := c.lowerCond(s.Cond)
	if err != nil {
		return err
	}
	c.Block.NewCondBr(cond, body, end)

	c.setBlock(body)
	c.pushLoop(start, end)
	err = c.lowerStmt(s.Body)
	c.popLoop()
	if err != nil {
		return err
	}
	c.openIfTerminated("latch")
	c.jump(start)
	c.setBlock(end)
	return nil
}

func (c *Context) lowerReturn(s *ast.ReturnStmt) error {
	void := types.Equal(c.Func.Sig.RetType, types.Void)
	if s.Value == nil {
		if !void {
			return invalidf(s.Span, "%s must return a value", c.Func.Name())
		}
		c.Block.NewRet(nil)
		return nil
	}
	if void {
		return invalidf(s.Span, "void function %s cannot return a value", c.Func.Name())
	}
	v, err := c.lowerValue(s.Value)
	if err != nil {
		return err
	}
	c.Block.NewRet(v)
	return nil
}

func (c *Context) lowerAssign(s *ast.AssignStmt) error {
	lv := s.Target
	id, ok := c.Scopes.Resolve(lv.Name)
	if !ok {
		return &Error{Kind: UnknownIdentifier, Name: lv.Name, Span: lv.Span}
	}
	if id.Kind != IdentVariable {
		return invalidf(lv.Span, "cannot assign to %s %s", id.Kind, lv.Name)
	}
	addr, elem := id.Storage, pointee(id.Storage)
	if len(lv.Indices) > 0 {
		var err error
		if addr, elem, err = c.elementAddr(lv, id.Storage); err != nil {
			return err
		}
	}
	if !types.Equal(elem, types.I32) {
		return invalidf(lv.Span, "cannot assign to array %s", lv.Name)
	}
	v, err := c.lowerValue(s.Value)
	if err != nil {
		return err
	}
	c.Block.NewStore(v, addr)
	return nil
}
