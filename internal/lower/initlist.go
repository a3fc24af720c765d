package lower

import (
	"fmt"
	"math"
	"sort"

	"fortio.org/safecast"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"

	"sysyc/internal/ast"
	"sysyc/internal/source"
)

// maxArrayElems bounds the flattened size of one array.
const maxArrayElems = math.MaxInt32

// InitElem is one explicitly initialized position of a flattened array.
type InitElem struct {
	Pos   int
	Value int32    // when Expr is nil
	Expr  ast.Expr // non-constant element, lowered at runtime
}

// InitList is the zero-filled, flattened form of an array initializer.
// Only non-zero constants and runtime elements are stored; every other
// position is zero.
type InitList struct {
	Shape   []int32
	Size    int
	Consts  []InitElem // ascending Pos
	Runtime []InitElem // ascending Pos
}

// NewInitList returns an all-zero list for shape. The shape must already
// be validated (every dimension positive, total size in range).
func NewInitList(shape []int32) *InitList {
	size := 1
	for _, d := range shape {
		size *= int(d)
	}
	return &InitList{Shape: shape, Size: size}
}

// arraySize multiplies the dimensions, failing when the product leaves
// the supported range.
func arraySize(shape []int32, sp source.Span) (int, error) {
	size := int64(1)
	for _, d := range shape {
		size *= int64(d)
		if size > maxArrayElems {
			return 0, fatalf(sp, "array is too large")
		}
	}
	return int(size), nil
}

// BuildInitList flattens init for an array of the given shape, following C
// brace elision: scalars fill consecutive positions, and a nested list
// fills the largest sub-array whose size divides the current position.
// Constant elements are folded with scopes; the rest are kept as runtime
// expressions.
func BuildInitList(shape []int32, init *ast.InitList, scopes *Scopes) (*InitList, error) {
	size, err := arraySize(shape, init.Span)
	if err != nil {
		return nil, err
	}
	l := &InitList{Shape: shape, Size: size}
	strides := make([]int, len(shape)+1)
	strides[len(shape)] = 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = strides[i+1] * int(shape[i])
	}
	if _, err := l.fill(init, 0, 0, strides, scopes); err != nil {
		return nil, err
	}
	return l, nil
}

// fill places list into the sub-array of dimension level `level` starting at
// base and returns the position one past it.
func (l *InitList) fill(list *ast.InitList, base, level int, strides []int, scopes *Scopes) (int, error) {
	end := base + strides[level]
	pos := base
	for _, item := range list.Items {
		if pos >= end {
			return 0, fatalf(item.NodeSpan(), "too many elements in array initializer")
		}
		switch item := item.(type) {
		case *ast.InitExpr:
			l.set(pos, item.X, scopes)
			pos++
		case *ast.InitList:
			sub := level + 1
			for sub < len(l.Shape) && (pos-base)%strides[sub] != 0 {
				sub++
			}
			if sub >= len(l.Shape) {
				return 0, fatalf(item.Span, "nested initializer list is not aligned to a sub-array")
			}
			if _, err := l.fill(item, pos, sub, strides, scopes); err != nil {
				return 0, err
			}
			pos += strides[sub]
		default:
			return 0, fatalf(item.NodeSpan(), "unexpected initializer %T", item)
		}
	}
	return end, nil
}

func (l *InitList) set(pos int, x ast.Expr, scopes *Scopes) {
	if v, err := Eval(x, scopes); err == nil {
		if v != 0 {
			l.Consts = append(l.Consts, InitElem{Pos: pos, Value: v})
		}
		return
	}
	l.Runtime = append(l.Runtime, InitElem{Pos: pos, Expr: x})
}

// IsConstant reports whether every element folded at compile time.
func (l *InitList) IsConstant() bool {
	return len(l.Runtime) == 0
}

// Lookup reads the element at a full index path. Positions outside the
// array read as zero; a path that does not reach a scalar fails.
func (l *InitList) Lookup(indices []int32) (int32, bool) {
	if len(indices) != len(l.Shape) {
		return 0, false
	}
	pos := 0
	for i, idx := range indices {
		pos = pos*int(l.Shape[i]) + int(idx)
	}
	if pos < 0 || pos >= l.Size {
		return 0, true
	}
	i := sort.Search(len(l.Consts), func(i int) bool { return l.Consts[i].Pos >= pos })
	if i < len(l.Consts) && l.Consts[i].Pos == pos {
		return l.Consts[i].Value, true
	}
	return 0, true
}

// Indices converts a flattened position back to an index path.
func (l *InitList) Indices(pos int) []int32 {
	out := make([]int32, len(l.Shape))
	for i := len(l.Shape) - 1; i >= 0; i-- {
		d := int(l.Shape[i])
		v, err := safecast.Conv[int32](pos % d)
		if err != nil {
			panic(fmt.Errorf("index of position %d: %w", pos, err))
		}
		out[i] = v
		pos /= d
	}
	return out
}

// Constant renders the constant part of the list as an aggregate of type t.
// Runtime positions are left zero; all-zero sub-arrays become zeroinitializer.
func (l *InitList) Constant(t types.Type) constant.Constant {
	return aggregate(t, l.Consts, 0, l.Size)
}

func aggregate(t types.Type, elems []InitElem, lo, hi int) constant.Constant {
	if len(elems) == 0 {
		return constant.NewZeroInitializer(t)
	}
	arr, ok := t.(*types.ArrayType)
	if !ok {
		return constant.NewInt(types.I32, int64(elems[0].Value))
	}
	n, err := safecast.Conv[int](arr.Len)
	if err != nil {
		panic(fmt.Errorf("array length %d: %w", arr.Len, err))
	}
	stride := (hi - lo) / n
	parts := make([]constant.Constant, n)
	for i := range parts {
		from, to := lo+i*stride, lo+(i+1)*stride
		a := sort.Search(len(elems), func(k int) bool { return elems[k].Pos >= from })
		b := sort.Search(len(elems), func(k int) bool { return elems[k].Pos >= to })
		parts[i] = aggregate(arr.ElemType, elems[a:b], from, to)
	}
	return constant.NewArray(arr, parts...)
}
