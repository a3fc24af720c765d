// Package lower turns a SysY syntax tree into an LLVM IR module.
//
// The pass walks the tree once, top to bottom, threading a *Context that
// owns the module under construction, the current function and block, the
// function table, the loop stack and the lexical scopes. Storage for every
// named local lives in a stack slot; values are loaded and stored through
// it, and no phi nodes are produced.
//
// Three kinds of failure are distinguished:
//
//   - *Error: a recoverable lowering error (unknown name, break outside a
//     loop, ...). Match kinds with errors.Is against ErrUnknownIdentifier
//     and friends.
//   - evaluation errors (ErrDivisionByZero, ...): returned by Eval only;
//     lowering treats them as "not a constant" and emits runtime code.
//   - *FatalError: the program is malformed beyond recovery (non-constant
//     global initializer, array dimension <= 0). The whole compilation stops.
package lower
