package lower

import (
	"github.com/llir/llvm/ir/value"
)

// IdentKind tags an Identifier.
type IdentKind uint8

const (
	// IdentVariable is a memory location; reads load, writes store.
	IdentVariable IdentKind = iota + 1
	// IdentConstant is a folded scalar with no storage.
	IdentConstant
	// IdentConstArray has storage and compile-time values.
	IdentConstArray
)

func (k IdentKind) String() string {
	switch k {
	case IdentVariable:
		return "variable"
	case IdentConstant:
		return "constant"
	case IdentConstArray:
		return "const array"
	}
	return "unknown"
}

// Identifier is what a name is bound to. The kind never changes once bound.
type Identifier struct {
	Kind    IdentKind
	Storage value.Value // pointer; Variable and ConstArray
	Value   int32       // Constant
	Values  *InitList   // ConstArray
}

func Variable(storage value.Value) Identifier {
	return Identifier{Kind: IdentVariable, Storage: storage}
}

func Constant(v int32) Identifier {
	return Identifier{Kind: IdentConstant, Value: v}
}

func ConstArray(storage value.Value, values *InitList) Identifier {
	return Identifier{Kind: IdentConstArray, Storage: storage, Values: values}
}
