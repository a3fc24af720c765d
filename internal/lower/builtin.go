package lower

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

var i32Ptr = types.NewPointer(types.I32)

type builtinParam struct {
	name string
	typ  types.Type
}

// Runtime library of the SysY platform, linked in by the backend.
var builtins = []struct {
	name   string
	ret    types.Type
	params []builtinParam
}{
	{"getint", types.I32, nil},
	{"getch", types.I32, nil},
	{"getarray", types.I32, []builtinParam{{"a", i32Ptr}}},
	{"putint", types.Void, []builtinParam{{"n", types.I32}}},
	{"putch", types.Void, []builtinParam{{"c", types.I32}}},
	{"putarray", types.Void, []builtinParam{{"n", types.I32}, {"a", i32Ptr}}},
	{"starttime", types.Void, nil},
	{"stoptime", types.Void, nil},
}

// declareBuiltins adds external declarations for the runtime library and
// registers them in the function table.
func declareBuiltins(c *Context) {
	for _, b := range builtins {
		params := make([]*ir.Param, len(b.params))
		for i, p := range b.params {
			params[i] = ir.NewParam(p.name, p.typ)
		}
		c.Funcs[b.name] = c.Module.NewFunc(b.name, b.ret, params...)
	}
}

// IsBuiltin reports whether name is a runtime library function.
func IsBuiltin(name string) bool {
	for _, b := range builtins {
		if b.name == name {
			return true
		}
	}
	return false
}
