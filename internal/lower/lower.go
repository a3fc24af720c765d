package lower

import (
	"context"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"sysyc/internal/ast"
	"sysyc/internal/trace"
)

// Program lowers a translation unit into a new module. The tracer and
// parent span are taken from ctx.
func Program(ctx context.Context, unit *ast.CompUnit) (*ir.Module, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "lower", trace.ParentSpan(ctx))

	m := ir.NewModule()
	c := NewContext(m, tracer)
	c.span = span.ID()
	declareBuiltins(c)

	for _, item := range unit.Items {
		if err := ctx.Err(); err != nil {
			span.End("canceled")
			return nil, err
		}
		if err := c.lowerTopLevel(item); err != nil {
			span.End(err.Error())
			return nil, err
		}
	}
	span.WithExtra("funcs", strconv.Itoa(len(m.Funcs))).
		WithExtra("globals", strconv.Itoa(len(m.Globals))).
		End("")
	return m, nil
}

func (c *Context) lowerTopLevel(item ast.Item) error {
	switch item := item.(type) {
	case *ast.Decl:
		return c.lowerDecl(item)
	case *ast.FuncDef:
		return c.lowerFunc(item)
	}
	return invalidf(item.NodeSpan(), "unexpected top-level item %T", item)
}

func (c *Context) lowerFunc(fd *ast.FuncDef) (err error) {
	if _, dup := c.Funcs[fd.Name]; dup {
		e := &Error{Kind: MultipleDefinition, Name: fd.Name, Span: fd.Span}
		if IsBuiltin(fd.Name) {
			e.Msg = "redefines a runtime library function"
		}
		return e
	}
	span := trace.Begin(c.tracer, trace.ScopeModule, fd.Name, c.span)
	outer := c.span
	c.span = span.ID()
	defer func() {
		c.span = outer
		detail := ""
		if err != nil {
			detail = err.Error()
		}
		span.End(detail)
	}()

	var ret types.Type = types.I32
	if fd.Ret == ast.TypeVoid {
		ret = types.Void
	}
	params := make([]*ir.Param, len(fd.Params))
	for i, p := range fd.Params {
		t, err := c.paramType(p)
		if err != nil {
			return err
		}
		params[i] = ir.NewParam(p.Name, t)
	}
	f := c.Module.NewFunc(fd.Name, ret, params...)
	// registered before the body so recursive calls resolve
	c.Funcs[fd.Name] = f

	c.beginFunc(f)
	defer c.endFunc()
	c.Scopes.Enter(fd.Body.ID)
	defer c.Scopes.Exit()

	for i, p := range fd.Params {
		slot := c.alloca(params[i].Typ, "_p_"+p.Name)
		c.entry.NewStore(params[i], slot)
		if err := c.Scopes.Declare(p.Name, Variable(slot)); err != nil {
			return withSpan(err, p.Span)
		}
	}
	body := c.newBlock("body")
	c.entry.NewBr(body)
	c.setBlock(body)

	if err := c.lowerItems(fd.Body.Items); err != nil {
		return err
	}
	if !c.terminated() {
		if fd.Ret == ast.TypeVoid {
			c.Block.NewRet(nil)
		} else {
			c.Block.NewRet(constant.NewInt(types.I32, 0))
		}
	}
	return nil
}

// paramType is i32 for scalars and a pointer to the row type for arrays:
// `int a[][3]` becomes [3 x i32]*.
func (c *Context) paramType(p *ast.Param) (types.Type, error) {
	if !p.Array {
		return types.I32, nil
	}
	shape, err := c.shape(p.Dims)
	if err != nil {
		return nil, err
	}
	return types.NewPointer(arrayType(shape)), nil
}

// lowerItems lowers items in order and drops whatever follows a jump.
func (c *Context) lowerItems(items []ast.BlockItem) error {
	for _, item := range items {
		var err error
		switch item := item.(type) {
		case *ast.Decl:
			err = c.lowerDecl(item)
		case ast.Stmt:
			err = c.lowerStmt(item)
		default:
			err = invalidf(item.NodeSpan(), "unexpected block item %T", item)
		}
		if err != nil {
			return err
		}
		if ast.IsJump(item) {
			break
		}
	}
	return nil
}
