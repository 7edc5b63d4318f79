package script

import (
	"fmt"

	"github.com/yuin/gopher-lua/ast"
)

// scope tracks local names that shadow bridge module globals
type scope struct {
	parent *scope
	names  map[string]struct{}
}

func (s *scope) child() *scope {
	return &scope{parent: s, names: make(map[string]struct{})}
}

func (s *scope) declare(names ...string) {
	for _, n := range names {
		s.names[n] = struct{}{}
	}
}

func (s *scope) local(name string) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.names[name]; ok {
			return true
		}
	}
	return false
}

// members lists, per module name, the members scripts assign on a bridge module
type members map[string]map[string]struct{}

func (ms members) add(module, name string) {
	if ms[module] == nil {
		ms[module] = make(map[string]struct{})
	}
	ms[module][name] = struct{}{}
}

func (ms members) has(module, name string) bool {
	_, ok := ms[module][name]
	return ok
}

// linter checks a parsed chunk against the installed bridge modules
type linter struct {
	source  string
	modules map[string]*Module
	defined members
	// collecting records module assignments without reporting anything
	collecting bool
	diags      Diagnostics
}

// collectMembers walks every chunk of a source set and returns the members
// they assign on bridge modules, so a member defined in one source may be
// used in any other.
func collectMembers(modules map[string]*Module, chunks ...[]ast.Stmt) members {
	l := &linter{modules: modules, defined: make(members), collecting: true}
	for _, chunk := range chunks {
		l.block(chunk, (&scope{}).child())
	}
	return l.defined
}

// lintChunk checks one chunk. Members listed in defined are accepted even
// though the module does not register them.
func lintChunk(source string, chunk []ast.Stmt, modules map[string]*Module, defined members) Diagnostics {
	if defined == nil {
		defined = make(members)
	}
	l := &linter{source: source, modules: modules, defined: defined}
	l.block(chunk, (&scope{}).child())
	return l.diags
}

func (l *linter) report(sev Severity, line int, format string, args ...any) {
	if l.collecting {
		return
	}
	l.diags = append(l.diags, Diagnostic{
		Severity: sev,
		Source:   l.source,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	})
}

// module returns the bridge module named by e when e is an unshadowed global reference to one
func (l *linter) module(e ast.Expr, sc *scope) (*Module, bool) {
	id, ok := e.(*ast.IdentExpr)
	if !ok || sc.local(id.Value) {
		return nil, false
	}
	m, ok := l.modules[id.Value]
	return m, ok
}

func (l *linter) block(stmts []ast.Stmt, sc *scope) {
	for _, st := range stmts {
		l.stmt(st, sc)
	}
}

func (l *linter) stmt(st ast.Stmt, sc *scope) {
	switch s := st.(type) {
	case *ast.AssignStmt:
		for _, lhs := range s.Lhs {
			l.target(lhs, sc)
		}
		l.exprs(s.Rhs, sc)
	case *ast.LocalAssignStmt:
		l.exprs(s.Exprs, sc)
		sc.declare(s.Names...)
	case *ast.FuncCallStmt:
		l.expr(s.Expr, sc)
	case *ast.DoBlockStmt:
		l.block(s.Stmts, sc.child())
	case *ast.WhileStmt:
		l.expr(s.Condition, sc)
		l.block(s.Stmts, sc.child())
	case *ast.RepeatStmt:
		inner := sc.child()
		l.block(s.Stmts, inner)
		l.expr(s.Condition, inner)
	case *ast.IfStmt:
		l.expr(s.Condition, sc)
		l.block(s.Then, sc.child())
		l.block(s.Else, sc.child())
	case *ast.NumberForStmt:
		l.expr(s.Init, sc)
		l.expr(s.Limit, sc)
		l.expr(s.Step, sc)
		inner := sc.child()
		inner.declare(s.Name)
		l.block(s.Stmts, inner)
	case *ast.GenericForStmt:
		l.exprs(s.Exprs, sc)
		inner := sc.child()
		inner.declare(s.Names...)
		l.block(s.Stmts, inner)
	case *ast.FuncDefStmt:
		if s.Name.Func != nil {
			l.target(s.Name.Func, sc)
		}
		if s.Name.Receiver != nil {
			if m, ok := l.module(s.Name.Receiver, sc); ok {
				l.define(m, s.Name.Method)
				l.report(SeverityWarning, s.Line(), LintMsgModuleMutated, m.Name())
			} else {
				l.expr(s.Name.Receiver, sc)
			}
		}
		l.function(s.Func, sc, s.Name.Receiver != nil)
	case *ast.ReturnStmt:
		l.exprs(s.Exprs, sc)
	}
}

// target checks the left-hand side of an assignment
func (l *linter) target(e ast.Expr, sc *scope) {
	if m, ok := l.module(e, sc); ok {
		l.report(SeverityWarning, e.Line(), LintMsgShadowedModule, m.Name())
		return
	}
	if get, ok := e.(*ast.AttrGetExpr); ok {
		if m, ok := l.module(get.Object, sc); ok {
			if key, ok := get.Key.(*ast.StringExpr); ok {
				l.define(m, key.Value)
			}
			l.report(SeverityWarning, e.Line(), LintMsgModuleMutated, m.Name())
			l.expr(get.Key, sc)
			return
		}
	}
	l.expr(e, sc)
}

func (l *linter) function(f *ast.FunctionExpr, sc *scope, method bool) {
	if f == nil {
		return
	}
	inner := sc.child()
	if method {
		inner.declare("self")
	}
	if f.ParList != nil {
		inner.declare(f.ParList.Names...)
	}
	l.block(f.Stmts, inner)
}

func (l *linter) exprs(es []ast.Expr, sc *scope) {
	for _, e := range es {
		l.expr(e, sc)
	}
}

func (l *linter) expr(e ast.Expr, sc *scope) {
	switch x := e.(type) {
	case nil:
	case *ast.AttrGetExpr:
		if m, ok := l.module(x.Object, sc); ok {
			if key, ok := x.Key.(*ast.StringExpr); ok {
				l.member(m, key.Value, x.Line())
				return
			}
		}
		l.expr(x.Object, sc)
		l.expr(x.Key, sc)
	case *ast.FuncCallExpr:
		if x.Receiver != nil {
			if m, ok := l.module(x.Receiver, sc); ok {
				l.member(m, x.Method, x.Line())
			} else {
				l.expr(x.Receiver, sc)
			}
		}
		l.expr(x.Func, sc)
		l.exprs(x.Args, sc)
	case *ast.TableExpr:
		for _, f := range x.Fields {
			l.expr(f.Key, sc)
			l.expr(f.Value, sc)
		}
	case *ast.FunctionExpr:
		l.function(x, sc, false)
	case *ast.LogicalOpExpr:
		l.expr(x.Lhs, sc)
		l.expr(x.Rhs, sc)
	case *ast.RelationalOpExpr:
		l.expr(x.Lhs, sc)
		l.expr(x.Rhs, sc)
	case *ast.ArithmeticOpExpr:
		l.expr(x.Lhs, sc)
		l.expr(x.Rhs, sc)
	case *ast.StringConcatOpExpr:
		l.expr(x.Lhs, sc)
		l.expr(x.Rhs, sc)
	case *ast.UnaryMinusOpExpr:
		l.expr(x.Expr, sc)
	case *ast.UnaryNotOpExpr:
		l.expr(x.Expr, sc)
	case *ast.UnaryLenOpExpr:
		l.expr(x.Expr, sc)
	}
}

func (l *linter) define(m *Module, name string) {
	if l.collecting {
		l.defined.add(m.Name(), name)
	}
}

func (l *linter) member(m *Module, name string, line int) {
	if !m.HasFunction(name) && !l.defined.has(m.Name(), name) {
		l.report(SeverityError, line, LintMsgUnknownMember, m.Name(), name)
	}
}

// declaresEntry reports whether chunk defines the global function entry at top level
func declaresEntry(chunk []ast.Stmt, entry string) bool {
	for _, st := range chunk {
		switch s := st.(type) {
		case *ast.FuncDefStmt:
			if id, ok := s.Name.Func.(*ast.IdentExpr); ok && id.Value == entry {
				return true
			}
		case *ast.AssignStmt:
			for _, lhs := range s.Lhs {
				if id, ok := lhs.(*ast.IdentExpr); ok && id.Value == entry {
					return true
				}
			}
		}
	}
	return false
}
