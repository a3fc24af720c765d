package lower

import (
	"errors"
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Validate checks the structural invariants of a lowered module: every
// block is terminated, branches stay inside their function, and return,
// branch, load, store and call operands have matching types. All problems
// are reported together.
func Validate(m *ir.Module) error {
	var errs []error
	for _, f := range m.Funcs {
		if len(f.Blocks) == 0 {
			continue
		}
		errs = append(errs, validateFunc(f)...)
	}
	return errors.Join(errs...)
}

func validateFunc(f *ir.Func) []error {
	var errs []error
	report := func(b *ir.Block, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %s: %s", f.Name(), b.Name(), fmt.Sprintf(format, args...)))
	}
	owned := make(map[*ir.Block]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		owned[b] = true
	}

	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			switch inst := inst.(type) {
			case *ir.InstLoad:
				if !pointsTo(inst.Src, inst.ElemType) {
					report(b, "load of %s through %s", inst.ElemType, inst.Src.Type())
				}
			case *ir.InstStore:
				if !pointsTo(inst.Dst, inst.Src.Type()) {
					report(b, "store of %s into %s", inst.Src.Type(), inst.Dst.Type())
				}
			case *ir.InstCall:
				if err := checkCall(inst); err != nil {
					report(b, "%v", err)
				}
			}
		}

		if b.Term == nil {
			report(b, "block has no terminator")
			continue
		}
		for _, succ := range b.Term.Succs() {
			if !owned[succ] {
				report(b, "branch to %s outside the function", succ.Name())
			}
		}
		switch t := b.Term.(type) {
		case *ir.TermRet:
			want := f.Sig.RetType
			switch {
			case t.X == nil && !types.Equal(want, types.Void):
				report(b, "ret void in function returning %s", want)
			case t.X != nil && !types.Equal(t.X.Type(), want):
				report(b, "ret %s in function returning %s", t.X.Type(), want)
			}
		case *ir.TermCondBr:
			if !types.Equal(t.Cond.Type(), types.I1) {
				report(b, "branch condition of type %s", t.Cond.Type())
			}
		}
	}
	return errs
}

func pointsTo(ptr value.Value, elem types.Type) bool {
	p, ok := ptr.Type().(*types.PointerType)
	return ok && types.Equal(p.ElemType, elem)
}

func checkCall(call *ir.InstCall) error {
	callee, ok := call.Callee.(*ir.Func)
	if !ok {
		return fmt.Errorf("indirect call to %s", call.Callee.Ident())
	}
	if len(call.Args) != len(callee.Params) {
		return fmt.Errorf("call to %s with %d arguments, want %d", callee.Name(), len(call.Args), len(callee.Params))
	}
	for i, a := range call.Args {
		if !types.Equal(a.Type(), callee.Params[i].Typ) {
			return fmt.Errorf("argument %d of %s: have %s, want %s", i+1, callee.Name(), a.Type(), callee.Params[i].Typ)
		}
	}
	return nil
}
