package lower

import (
	"fmt"
)

// GlobalScopeID is the id of the outermost scope.
const GlobalScopeID uint32 = 0

// Scope is one lexical level.
type Scope struct {
	ID       uint32
	bindings map[string]Identifier
}

// Scopes is the stack of open lexical scopes, innermost last. The global
// scope is always at the bottom.
type Scopes struct {
	stack  []*Scope
	lastID uint32
}

func NewScopes() *Scopes {
	return &Scopes{stack: []*Scope{{ID: GlobalScopeID, bindings: make(map[string]Identifier)}}}
}

// Enter pushes a scope. Ids must grow monotonically; an id of zero or one not
// above every id seen so far is replaced by a fresh one. The id used is returned.
func (s *Scopes) Enter(id uint32) uint32 {
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	s.stack = append(s.stack, &Scope{ID: id, bindings: make(map[string]Identifier)})
	return id
}

// Exit pops the innermost scope. The global scope is never popped.
func (s *Scopes) Exit() {
	if len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// Declare binds name in the innermost scope only.
func (s *Scopes) Declare(name string, id Identifier) error {
	top := s.stack[len(s.stack)-1]
	if _, dup := top.bindings[name]; dup {
		return &Error{Kind: MultipleDefinition, Name: name}
	}
	top.bindings[name] = id
	return nil
}

// Resolve finds name walking from the innermost scope outwards.
func (s *Scopes) Resolve(name string) (Identifier, bool) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if id, ok := s.stack[i].bindings[name]; ok {
			return id, true
		}
	}
	return Identifier{}, false
}

// CurrentID is the id of the innermost scope.
func (s *Scopes) CurrentID() uint32 {
	return s.stack[len(s.stack)-1].ID
}

// Depth counts open scopes including the global one.
func (s *Scopes) Depth() int {
	return len(s.stack)
}

// IsGlobal reports whether only the global scope is open.
func (s *Scopes) IsGlobal() bool {
	return len(s.stack) == 1
}

// Mangle gives name its IR storage name in the innermost scope, so shadowing
// declarations never share a name.
func (s *Scopes) Mangle(name string) string {
	return fmt.Sprintf("_%d_%s", s.CurrentID(), name)
}
