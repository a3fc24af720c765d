// Package testkit holds structural checks shared by parser and lowering tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"sysyc/internal/ast"
	"sysyc/internal/source"
)

// CheckSpanInvariants verifies that every node of unit has a non-empty span
// in f that lies inside f's content and inside its parent's span.
func CheckSpanInvariants(unit *ast.CompUnit, f *source.File) error {
	if unit == nil || f == nil {
		return fmt.Errorf("nil unit or file")
	}
	size, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	c := &spanChecker{file: f.ID}
	whole := source.Span{File: f.ID, Start: 0, End: size}
	for _, item := range unit.Items {
		c.node(item, whole)
	}
	return c.err
}

type spanChecker struct {
	file source.FileID
	err  error
}

func (c *spanChecker) node(n ast.Node, parent source.Span) {
	if c.err != nil || n == nil {
		return
	}
	sp := n.NodeSpan()
	switch {
	case sp.End <= sp.Start:
		c.err = fmt.Errorf("%T has empty span %v", n, sp)
		return
	case sp.File != c.file:
		c.err = fmt.Errorf("%T span file mismatch: got=%d want=%d", n, sp.File, c.file)
		return
	case sp.Start < parent.Start || sp.End > parent.End:
		c.err = fmt.Errorf("%T span %v is outside its parent %v", n, sp, parent)
		return
	}
	for _, child := range children(n) {
		c.node(child, sp)
	}
}

// children lists the direct sub-nodes of n in source order.
func children(n ast.Node) []ast.Node {
	var out []ast.Node
	add := func(ns ...ast.Node) {
		for _, x := range ns {
			if x != nil {
				out = append(out, x)
			}
		}
	}
	switch n := n.(type) {
	case *ast.Decl:
		for _, d := range n.Defs {
			add(d)
		}
	case *ast.Def:
		for _, e := range n.Dims {
			add(e)
		}
		if n.Init != nil {
			add(n.Init)
		}
	case *ast.InitExpr:
		add(n.X)
	case *ast.InitList:
		for _, it := range n.Items {
			add(it)
		}
	case *ast.FuncDef:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *ast.Param:
		for _, e := range n.Dims {
			add(e)
		}
	case *ast.Block:
		for _, it := range n.Items {
			add(it)
		}
	case *ast.AssignStmt:
		add(n.Target, n.Value)
	case *ast.ExprStmt:
		if n.X != nil {
			add(n.X)
		}
	case *ast.IfStmt:
		add(n.Cond, n.Then)
		if n.Else != nil {
			add(n.Else)
		}
	case *ast.WhileStmt:
		add(n.Cond, n.Body)
	case *ast.ReturnStmt:
		if n.Value != nil {
			add(n.Value)
		}
	case *ast.LVal:
		for _, e := range n.Indices {
			add(e)
		}
	case *ast.CallExpr:
		for _, e := range n.Args {
			add(e)
		}
	case *ast.UnaryExpr:
		add(n.X)
	case *ast.BinaryExpr:
		add(n.X, n.Y)
	}
	return out
}
