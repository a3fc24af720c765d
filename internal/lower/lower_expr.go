package lower

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"sysyc/internal/ast"
)

var zero = constant.NewInt(types.I32, 0)

// lowerValue lowers e to an i32, as a literal when it folds.
func (c *Context) lowerValue(e ast.Expr) (value.Value, error) {
	k, err := Eval(e, c.Scopes)
	if err == nil {
		return constant.NewInt(types.I32, int64(k)), nil
	}
	c.point("runtime", err.Error())

	v, err := c.lowerExpr(e)
	if err != nil {
		return nil, err
	}
	if !types.Equal(v.Type(), types.I32) {
		return nil, invalidf(e.NodeSpan(), "%s value used where int is required", v.Type())
	}
	return v, nil
}

// lowerCond lowers e to an i1 branch condition.
func (c *Context) lowerCond(e ast.Expr) (value.Value, error) {
	return c.lowerBit(e)
}

// lowerBit lowers e to an i1. Comparisons and ! yield their bit directly,
// without a widening round trip.
func (c *Context) lowerBit(e ast.Expr) (value.Value, error) {
	if k, err := Eval(e, c.Scopes); err == nil {
		return constant.NewBool(k != 0), nil
	}
	switch e := e.(type) {
	case *ast.BinaryExpr:
		if pred, ok := predicates[e.Op]; ok {
			x, y, err := c.lowerOperands(e)
			if err != nil {
				return nil, err
			}
			return c.Block.NewICmp(pred, x, y), nil
		}
	case *ast.UnaryExpr:
		if e.Op == ast.OpNot {
			x, err := c.lowerValue(e.X)
			if err != nil {
				return nil, err
			}
			return c.Block.NewICmp(enum.IPredEQ, x, zero), nil
		}
	}
	v, err := c.lowerValue(e)
	if err != nil {
		return nil, err
	}
	return c.truth(v), nil
}

// truth compares v against zero, reusing the bit of a widened comparison.
func (c *Context) truth(v value.Value) value.Value {
	switch v := v.(type) {
	case *constant.Int:
		return constant.NewBool(v.X.Sign() != 0)
	case *ir.InstZExt:
		if types.Equal(v.From.Type(), types.I1) {
			return v.From
		}
	}
	return c.Block.NewICmp(enum.IPredNE, v, zero)
}

// widen maps an i1 to an i32 0 or 1.
func (c *Context) widen(bit value.Value) value.Value {
	if k, ok := bit.(*constant.Int); ok {
		return constant.NewInt(types.I32, k.X.Int64())
	}
	return c.Block.NewZExt(bit, types.I32)
}

func (c *Context) lowerExpr(e ast.Expr) (value.Value, error) {
	if _, err := c.current(e.NodeSpan()); err != nil {
		return nil, err
	}
	switch e := e.(type) {
	case *ast.NumberLit:
		return constant.NewInt(types.I32, int64(e.Value)), nil
	case *ast.LVal:
		return c.lowerLVal(e)
	case *ast.CallExpr:
		return c.lowerCall(e)
	case *ast.UnaryExpr:
		return c.lowerUnary(e)
	case *ast.BinaryExpr:
		if e.Op.IsLogical() {
			return c.lowerLogical(e)
		}
		return c.lowerBinary(e)
	}
	return nil, invalidf(e.NodeSpan(), "unexpected expression %T", e)
}

func (c *Context) lowerUnary(e *ast.UnaryExpr) (value.Value, error) {
	x, err := c.lowerValue(e.X)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case ast.OpPlus:
		return x, nil
	case ast.OpNeg:
		return c.Block.NewSub(zero, x), nil
	case ast.OpNot:
		return c.widen(c.Block.NewICmp(enum.IPredEQ, x, zero)), nil
	}
	return nil, invalidf(e.Span, "unknown unary operator %s", e.Op)
}

var predicates = map[ast.BinaryOp]enum.IPred{
	ast.OpLt: enum.IPredSLT,
	ast.OpGt: enum.IPredSGT,
	ast.OpLe: enum.IPredSLE,
	ast.OpGe: enum.IPredSGE,
	ast.OpEq: enum.IPredEQ,
	ast.OpNe: enum.IPredNE,
}

// lowerOperands lowers both sides of e, left first.
func (c *Context) lowerOperands(e *ast.BinaryExpr) (x, y value.Value, err error) {
	if x, err = c.lowerValue(e.X); err != nil {
		return nil, nil, err
	}
	if y, err = c.lowerValue(e.Y); err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func (c *Context) lowerBinary(e *ast.BinaryExpr) (value.Value, error) {
	x, y, err := c.lowerOperands(e)
	if err != nil {
		return nil, err
	}
	b := c.Block
	switch e.Op {
	case ast.OpAdd:
		return b.NewAdd(x, y), nil
	case ast.OpSub:
		return b.NewSub(x, y), nil
	case ast.OpMul:
		return b.NewMul(x, y), nil
	case ast.OpDiv:
		return b.NewSDiv(x, y), nil
	case ast.OpMod:
		return b.NewSRem(x, y), nil
	}
	if pred, ok := predicates[e.Op]; ok {
		return c.widen(b.NewICmp(pred, x, y)), nil
	}
	return nil, invalidf(e.Span, "unknown binary operator %s", e.Op)
}

// lowerLogical evaluates the right operand of && and || only when the left
// one does not decide the result. The result travels through a stack slot.
func (c *Context) lowerLogical(e *ast.BinaryExpr) (value.Value, error) {
	bit, err := c.lowerBit(e.X)
	if err != nil {
		return nil, err
	}
	slot := c.alloca(types.I32, c.temp())
	c.Block.NewStore(c.widen(bit), slot)

	rhsBlock, end := c.newBlock("rhs"), c.newBlock("endsc")
	if e.Op == ast.OpAnd {
		c.Block.NewCondBr(bit, rhsBlock, end)
	} else {
		c.Block.NewCondBr(bit, end, rhsBlock)
	}

	c.setBlock(rhsBlock)
	rhs, err := c.lowerBit(e.Y)
	if err != nil {
		return nil, err
	}
	c.Block.NewStore(c.widen(rhs), slot)
	c.jump(end)

	c.setBlock(end)
	return end.NewLoad(types.I32, slot), nil
}

func (c *Context) lowerCall(e *ast.CallExpr) (value.Value, error) {
	f, ok := c.Funcs[e.Name]
	if !ok {
		return nil, &Error{Kind: FunctionNotFound, Name: e.Name, Span: e.Span}
	}
	if len(e.Args) != len(f.Params) {
		return nil, invalidf(e.Span, "%s takes %d arguments, got %d", e.Name, len(f.Params), len(e.Args))
	}
	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		want := f.Params[i].Typ
		var (
			v   value.Value
			err error
		)
		if types.Equal(want, types.I32) {
			v, err = c.lowerValue(a)
		} else {
			v, err = c.lowerExpr(a)
		}
		if err != nil {
			return nil, err
		}
		if !types.Equal(v.Type(), want) {
			return nil, invalidf(a.NodeSpan(), "argument %d of %s: have %s, want %s", i+1, e.Name, v.Type(), want)
		}
		args[i] = v
	}
	return c.Block.NewCall(f, args...), nil
}

// lowerLVal reads a name. Scalars are loaded; arrays, whole or partially
// indexed, decay to a pointer to their first element.
func (c *Context) lowerLVal(lv *ast.LVal) (value.Value, error) {
	id, ok := c.Scopes.Resolve(lv.Name)
	if !ok {
		return nil, &Error{Kind: UnknownIdentifier, Name: lv.Name, Span: lv.Span}
	}
	switch id.Kind {
	case IdentConstant:
		if len(lv.Indices) > 0 {
			return nil, invalidf(lv.Span, "%s is not an array", lv.Name)
		}
		return constant.NewInt(types.I32, int64(id.Value)), nil
	case IdentConstArray:
		if v, err := evalLVal(lv, c.Scopes); err == nil {
			return constant.NewInt(types.I32, int64(v)), nil
		}
	}

	addr, elem := id.Storage, pointee(id.Storage)
	if len(lv.Indices) > 0 {
		var err error
		if addr, elem, err = c.elementAddr(lv, id.Storage); err != nil {
			return nil, err
		}
	}
	if _, ok := elem.(*types.ArrayType); ok {
		return c.Block.NewGetElementPtr(elem, addr, zero, zero), nil
	}
	return c.Block.NewLoad(elem, addr), nil
}

// elementAddr walks the indices of lv starting at base. A decayed array
// parameter is loaded and stepped with a single index; a real array is
// indexed with a leading zero. It returns the address and its element type.
func (c *Context) elementAddr(lv *ast.LVal, base value.Value) (value.Value, types.Type, error) {
	addr, elem := base, pointee(base)
	for _, idx := range lv.Indices {
		i, err := c.lowerValue(idx)
		if err != nil {
			return nil, nil, err
		}
		switch t := elem.(type) {
		case *types.PointerType:
			p := c.Block.NewLoad(t, addr)
			addr = c.Block.NewGetElementPtr(t.ElemType, p, i)
			elem = t.ElemType
		case *types.ArrayType:
			addr = c.Block.NewGetElementPtr(t, addr, zero, i)
			elem = t.ElemType
		default:
			return nil, nil, invalidf(lv.Span, "too many indices for %s", lv.Name)
		}
	}
	return addr, elem, nil
}
