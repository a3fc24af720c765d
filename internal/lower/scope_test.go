package lower_test

import (
	"errors"
	"testing"

	"sysyc/internal/lower"
)

func TestScopesShadowing(t *testing.T) {
	s := lower.NewScopes()
	if err := s.Declare("a", lower.Constant(1)); err != nil {
		t.Fatal(err)
	}
	s.Enter(3)
	if err := s.Declare("a", lower.Constant(2)); err != nil {
		t.Fatalf("shadowing rejected: %v", err)
	}
	if id, _ := s.Resolve("a"); id.Value != 2 {
		t.Errorf("inner a = %d, want 2", id.Value)
	}
	if got := s.Mangle("a"); got != "_3_a" {
		t.Errorf("Mangle = %q", got)
	}
	s.Exit()
	if id, _ := s.Resolve("a"); id.Value != 1 {
		t.Errorf("outer a = %d, want 1", id.Value)
	}
	if _, ok := s.Resolve("b"); ok {
		t.Error("resolved an undeclared name")
	}
}

func TestScopesMultipleDefinition(t *testing.T) {
	s := lower.NewScopes()
	s.Enter(1)
	if err := s.Declare("x", lower.Constant(1)); err != nil {
		t.Fatal(err)
	}
	err := s.Declare("x", lower.Constant(2))
	if !errors.Is(err, lower.ErrMultipleDefinition) {
		t.Fatalf("err = %v, want MultipleDefinition", err)
	}
	if id, _ := s.Resolve("x"); id.Kind != lower.IdentConstant || id.Value != 1 {
		t.Errorf("binding changed to %+v", id)
	}
}

func TestScopesIDsStayUnique(t *testing.T) {
	s := lower.NewScopes()
	if got := s.Enter(5); got != 5 {
		t.Errorf("Enter(5) = %d", got)
	}
	s.Exit()
	if got := s.Enter(5); got != 6 {
		t.Errorf("reused id: Enter(5) = %d, want 6", got)
	}
	if got := s.Enter(0); got != 7 {
		t.Errorf("Enter(0) = %d, want 7", got)
	}
	if s.Depth() != 3 || s.CurrentID() != 7 {
		t.Errorf("depth %d, current %d", s.Depth(), s.CurrentID())
	}
}

func TestScopesGlobalNeverPopped(t *testing.T) {
	s := lower.NewScopes()
	s.Exit()
	s.Exit()
	if !s.IsGlobal() || s.CurrentID() != lower.GlobalScopeID {
		t.Fatal("global scope was popped")
	}
	if got := s.Mangle("g"); got != "_0_g" {
		t.Errorf("Mangle = %q", got)
	}
}
