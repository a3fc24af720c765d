package lower

import (
	"fmt"
	"slices"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	"sysyc/internal/source"
	"sysyc/internal/trace"
)

// Loop is the pair of blocks a loop body jumps to.
type Loop struct {
	Start *ir.Block // continue target
	End   *ir.Block // break target
}

// Context is the mutable state of one lowering run.
type Context struct {
	Module *ir.Module
	Func   *ir.Func  // nil at top level
	Block  *ir.Block // current insertion point
	Funcs  map[string]*ir.Func
	Loops  []Loop
	Scopes *Scopes

	entry  *ir.Block // stack slots of Func live here
	slots  int       // allocas at the head of entry
	temps  int
	blocks int

	tracer trace.Tracer
	span   uint64
}

// NewContext prepares a context that emits into m.
func NewContext(m *ir.Module, tracer trace.Tracer) *Context {
	if tracer == nil {
		tracer = trace.Nop
	}
	return &Context{
		Module: m,
		Funcs:  make(map[string]*ir.Func),
		Scopes: NewScopes(),
		tracer: tracer,
	}
}

// newBlock creates a detached block; setBlock attaches it to the function.
// Names carry a dot so they never clash with parameter names.
func (c *Context) newBlock(hint string) *ir.Block {
	c.blocks++
	return ir.NewBlock(fmt.Sprintf("%s.%d", hint, c.blocks))
}

// setBlock moves the insertion point to b. The previous block must already
// be terminated or be left open on purpose.
func (c *Context) setBlock(b *ir.Block) {
	if b.Parent == nil {
		b.Parent = c.Func
		c.Func.Blocks = append(c.Func.Blocks, b)
	}
	c.Block = b
}

// current returns the insertion block or ErrBlockNotFound.
func (c *Context) current(sp source.Span) (*ir.Block, error) {
	if c.Func == nil || c.Block == nil {
		return nil, &Error{Kind: BlockNotFound, Span: sp}
	}
	return c.Block, nil
}

func (c *Context) terminated() bool {
	return c.Block == nil || c.Block.Term != nil
}

// jump branches to target unless the current block already ends.
func (c *Context) jump(target *ir.Block) {
	if !c.terminated() {
		c.Block.NewBr(target)
	}
}

// openIfTerminated gives the following code a block to land in.
func (c *Context) openIfTerminated(hint string) {
	if c.terminated() {
		c.setBlock(c.newBlock(hint))
	}
}

// alloca reserves a named stack slot in the entry block, ahead of the
// parameter stores.
func (c *Context) alloca(t types.Type, name string) *ir.InstAlloca {
	inst := ir.NewAlloca(t)
	inst.SetName(name)
	c.entry.Insts = slices.Insert(c.entry.Insts, c.slots, ir.Instruction(inst))
	c.slots++
	return inst
}

// temp names a scratch slot.
func (c *Context) temp() string {
	c.temps++
	return fmt.Sprintf("_t%d", c.temps)
}

func (c *Context) pushLoop(start, end *ir.Block) {
	c.Loops = append(c.Loops, Loop{Start: start, End: end})
}

func (c *Context) popLoop() {
	c.Loops = c.Loops[:len(c.Loops)-1]
}

func (c *Context) loop() (Loop, bool) {
	if len(c.Loops) == 0 {
		return Loop{}, false
	}
	return c.Loops[len(c.Loops)-1], true
}

// beginFunc resets the per-function state.
func (c *Context) beginFunc(f *ir.Func) {
	c.Func = f
	c.Block = nil
	c.Loops = c.Loops[:0]
	c.blocks = 0
	c.slots = 0
	c.entry = c.newBlock("entry")
	c.setBlock(c.entry)
}

func (c *Context) endFunc() {
	c.Func, c.Block, c.entry = nil, nil, nil
}

func (c *Context) point(name, detail string) {
	trace.Point(c.tracer, trace.ScopeNode, name, detail, c.span)
}
