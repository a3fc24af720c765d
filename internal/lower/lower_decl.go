package lower

import (
	"fortio.org/safecast"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"sysyc/internal/ast"
	"sysyc/internal/source"
)

func (c *Context) lowerDecl(d *ast.Decl) error {
	if c.Func != nil {
		if _, err := c.current(d.Span); err != nil {
			return err
		}
	}
	for _, def := range d.Defs {
		var err error
		switch {
		case d.Const && def.IsArray():
			err = c.lowerConstArray(def)
		case d.Const:
			err = c.lowerConstScalar(def)
		case def.IsArray():
			err = c.lowerVarArray(def)
		default:
			err = c.lowerVarScalar(def)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) declare(def *ast.Def, id Identifier) error {
	return withSpan(c.Scopes.Declare(def.Name, id), def.Span)
}

func (c *Context) lowerConstScalar(def *ast.Def) error {
	init, err := scalarInit(def)
	if err != nil {
		return err
	}
	if init == nil {
		return &Error{Kind: ConstExpr, Name: def.Name, Span: def.Span, Msg: "missing initializer"}
	}
	v, err := Eval(init.X, c.Scopes)
	if err != nil {
		return &Error{Kind: ConstExpr, Name: def.Name, Span: init.Span, Msg: err.Error()}
	}
	return c.declare(def, Constant(v))
}

func (c *Context) lowerVarScalar(def *ast.Def) error {
	init, err := scalarInit(def)
	if err != nil {
		return err
	}
	name := c.Scopes.Mangle(def.Name)

	if c.Func == nil {
		var v int32
		if init != nil {
			if v, err = Eval(init.X, c.Scopes); err != nil {
				return fatalf(init.Span, "initializer of global %s is not constant: %v", def.Name, err)
			}
		}
		g := c.Module.NewGlobalDef(name, constant.NewInt(types.I32, int64(v)))
		return c.declare(def, Variable(g))
	}

	slot := c.alloca(types.I32, name)
	if init != nil {
		// the initializer still sees any outer binding of the same name
		v, err := c.lowerValue(init.X)
		if err != nil {
			return err
		}
		c.Block.NewStore(v, slot)
	}
	return c.declare(def, Variable(slot))
}

func (c *Context) lowerConstArray(def *ast.Def) error {
	if def.Init == nil {
		return &Error{Kind: ConstExpr, Name: def.Name, Span: def.Span, Msg: "missing initializer"}
	}
	t, list, err := c.arrayDef(def)
	if err != nil {
		return err
	}
	if !list.IsConstant() {
		return &Error{Kind: ConstExpr, Name: def.Name, Span: list.Runtime[0].Expr.NodeSpan()}
	}
	name := c.Scopes.Mangle(def.Name)

	var storage value.Value
	if c.Func == nil {
		g := c.Module.NewGlobalDef(name, list.Constant(t))
		g.Immutable = true
		storage = g
	} else {
		slot := c.alloca(t, name)
		c.Block.NewStore(list.Constant(t), slot)
		storage = slot
	}
	return c.declare(def, ConstArray(storage, list))
}

func (c *Context) lowerVarArray(def *ast.Def) error {
	t, list, err := c.arrayDef(def)
	if err != nil {
		return err
	}
	name := c.Scopes.Mangle(def.Name)

	if c.Func == nil {
		if !list.IsConstant() {
			return fatalf(list.Runtime[0].Expr.NodeSpan(), "initializer of global %s is not constant", def.Name)
		}
		g := c.Module.NewGlobalDef(name, list.Constant(t))
		return c.declare(def, Variable(g))
	}

	slot := c.alloca(t, name)
	if def.Init != nil {
		c.Block.NewStore(list.Constant(t), slot)
		for _, el := range list.Runtime {
			v, err := c.lowerValue(el.Expr)
			if err != nil {
				return err
			}
			idx := []value.Value{zero}
			for _, i := range list.Indices(el.Pos) {
				idx = append(idx, constant.NewInt(types.I32, int64(i)))
			}
			addr := c.Block.NewGetElementPtr(t, slot, idx...)
			c.Block.NewStore(v, addr)
		}
	}
	return c.declare(def, Variable(slot))
}

// arrayDef folds the dimensions of def and flattens its initializer.
func (c *Context) arrayDef(def *ast.Def) (types.Type, *InitList, error) {
	shape, err := c.shape(def.Dims)
	if err != nil {
		return nil, nil, err
	}
	t := arrayType(shape)
	switch init := def.Init.(type) {
	case nil:
		return t, NewInitList(shape), nil
	case *ast.InitList:
		list, err := BuildInitList(shape, init, c.Scopes)
		if err != nil {
			return nil, nil, err
		}
		return t, list, nil
	case *ast.InitExpr:
		return nil, nil, fatalf(init.Span, "array %s needs a brace-enclosed initializer", def.Name)
	}
	return nil, nil, fatalf(def.Span, "unexpected initializer %T", def.Init)
}

// scalarInit returns the single-expression initializer of def, if any.
func scalarInit(def *ast.Def) (*ast.InitExpr, error) {
	switch init := def.Init.(type) {
	case nil:
		return nil, nil
	case *ast.InitExpr:
		return init, nil
	}
	return nil, fatalf(def.Init.NodeSpan(), "scalar %s cannot take a brace-enclosed initializer", def.Name)
}

// shape folds array dimensions; each must be a positive constant.
func (c *Context) shape(dims []ast.Expr) ([]int32, error) {
	out := make([]int32, len(dims))
	var sp source.Span
	if len(dims) > 0 {
		sp = dims[0].NodeSpan().Cover(dims[len(dims)-1].NodeSpan())
	}
	for i, d := range dims {
		v, err := Eval(d, c.Scopes)
		if err != nil {
			return nil, fatalf(d.NodeSpan(), "array size is not a constant expression: %v", err)
		}
		if v <= 0 {
			return nil, fatalf(d.NodeSpan(), "array size must be greater than 0")
		}
		out[i] = v
	}
	if _, err := arraySize(out, sp); err != nil {
		return nil, err
	}
	return out, nil
}

// arrayType nests shape into an LLVM array type: [2, 3] is [2 x [3 x i32]].
func arrayType(shape []int32) types.Type {
	var t types.Type = types.I32
	for i := len(shape) - 1; i >= 0; i-- {
		n, err := safecast.Conv[uint64](shape[i])
		if err != nil {
			panic(err) // shape is validated positive
		}
		t = types.NewArray(n, t)
	}
	return t
}

// pointee is the element type behind a pointer value.
func pointee(v value.Value) types.Type {
	if p, ok := v.Type().(*types.PointerType); ok {
		return p.ElemType
	}
	return nil
}
