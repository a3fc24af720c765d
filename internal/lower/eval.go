package lower

import (
	"math"

	"sysyc/internal/ast"
)

// Eval folds e to a 32-bit integer using the constants visible in scopes.
// It has no side effects; on failure the caller emits runtime code instead.
func Eval(e ast.Expr, scopes *Scopes) (int32, error) {
	switch e := e.(type) {
	case *ast.NumberLit:
		return e.Value, nil

	case *ast.LVal:
		return evalLVal(e, scopes)

	case *ast.CallExpr:
		return 0, ErrFunctionNotSupported

	case *ast.UnaryExpr:
		x, err := Eval(e.X, scopes)
		if err != nil {
			return 0, err
		}
		switch e.Op {
		case ast.OpPlus:
			return x, nil
		case ast.OpNeg:
			if x == math.MinInt32 {
				// -2147483648 is written as the negation of a wrapped literal
				if lit, ok := e.X.(*ast.NumberLit); ok && lit.Wrapped {
					return x, nil
				}
				return 0, ErrOverflow
			}
			return -x, nil
		case ast.OpNot:
			return boolInt(x == 0), nil
		}
		return 0, ErrNotSupportedVariable

	case *ast.BinaryExpr:
		// both sides must fold, even where && and || would short-circuit
		x, err := Eval(e.X, scopes)
		if err != nil {
			return 0, err
		}
		y, err := Eval(e.Y, scopes)
		if err != nil {
			return 0, err
		}
		return evalBinary(e.Op, x, y)
	}
	return 0, ErrNotSupportedVariable
}

func evalLVal(lv *ast.LVal, scopes *Scopes) (int32, error) {
	id, ok := scopes.Resolve(lv.Name)
	if !ok {
		return 0, ErrNotSupportedVariable
	}
	if len(lv.Indices) == 0 {
		if id.Kind == IdentConstant {
			return id.Value, nil
		}
		return 0, ErrNotSupportedVariable
	}
	if id.Kind != IdentConstArray {
		return 0, ErrNotSupportedVariable
	}
	indices := make([]int32, len(lv.Indices))
	for i, idx := range lv.Indices {
		v, err := Eval(idx, scopes)
		if err != nil {
			return 0, err
		}
		indices[i] = v
	}
	v, ok := id.Values.Lookup(indices)
	if !ok {
		return 0, ErrNotSupportedVariable
	}
	return v, nil
}

func evalBinary(op ast.BinaryOp, x, y int32) (int32, error) {
	a, b := int64(x), int64(y)
	var r int64
	switch op {
	case ast.OpAdd:
		r = a + b
	case ast.OpSub:
		r = a - b
	case ast.OpMul:
		r = a * b
	case ast.OpDiv, ast.OpMod:
		if b == 0 {
			return 0, ErrDivisionByZero
		}
		if op == ast.OpDiv {
			r = a / b
		} else {
			r = a % b
		}
	case ast.OpLt:
		return boolInt(x < y), nil
	case ast.OpGt:
		return boolInt(x > y), nil
	case ast.OpLe:
		return boolInt(x <= y), nil
	case ast.OpGe:
		return boolInt(x >= y), nil
	case ast.OpEq:
		return boolInt(x == y), nil
	case ast.OpNe:
		return boolInt(x != y), nil
	case ast.OpAnd:
		return boolInt(x != 0 && y != 0), nil
	case ast.OpOr:
		return boolInt(x != 0 || y != 0), nil
	default:
		return 0, ErrNotSupportedVariable
	}
	// MinInt32 / -1 and MinInt32 % -1 land here as well
	if r < math.MinInt32 || r > math.MaxInt32 || (op == ast.OpMod && x == math.MinInt32 && y == -1) {
		return 0, ErrOverflow
	}
	return int32(r), nil
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
