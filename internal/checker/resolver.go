package checker

import (
	"fmt"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/espressolang/espresso/internal/ast"
)

// AnnotationMode controls whether declared types constrain inference
type AnnotationMode int

const (
	// AnnotationsEnforce flows annotated bindings into the declared type
	AnnotationsEnforce AnnotationMode = iota
	// AnnotationsAdvisory ignores annotations entirely
	AnnotationsAdvisory
)

func (m AnnotationMode) String() string {
	switch m {
	case AnnotationsEnforce:
		return "enforce"
	case AnnotationsAdvisory:
		return "advisory"
	default:
		return "unknown"
	}
}

// ParseAnnotationMode parses "enforce" or "advisory"; the empty string
// selects enforce
func ParseAnnotationMode(s string) (AnnotationMode, error) {
	switch s {
	case "", "enforce":
		return AnnotationsEnforce, nil
	case "advisory":
		return AnnotationsAdvisory, nil
	default:
		return 0, errors.Errorf("unknown annotation mode %q (want enforce or advisory)", s)
	}
}

// resolver walks a module, introduces graph nodes for every expression
// and asserts the flows the language semantics require
type resolver struct {
	engine *Engine
	mode   AnnotationMode
	logger *slog.Logger
}

// CheckModule type-checks mod against engine, binding top-level names in
// root. The first failure aborts and is returned as an *Error.
func CheckModule(engine *Engine, root *Scope, mod *ast.Module, mode AnnotationMode) error {
	r := &resolver{engine: engine, mode: mode, logger: engine.logger}
	return r.checkModule(root, mod)
}

func (r *resolver) checkModule(root *Scope, mod *ast.Module) error {
	fns := mod.Functions()

	// Pass 1: every top-level name is visible to every body, which allows
	// forward references and (mutual) recursion.
	slots := make([]Use, len(fns))
	for i, fn := range fns {
		if root.ResolveLocal(fn.Name) != nil {
			return at(fn, "", &DuplicateNameError{Name: fn.Name})
		}
		v, u := r.engine.Var()
		root.Define(fn.Name, v, SymFunction)
		slots[i] = u
	}

	// Pass 2
	for i, fn := range fns {
		fnValue, err := r.checkFunction(root, fn)
		if err != nil {
			return err
		}
		if err := r.engine.Flow(fnValue, slots[i]); err != nil {
			return at(fn, fmt.Sprintf("in definition of '%s'", fn.Name), err)
		}
		r.logger.Debug("check: function done", "name", fn.Name, "type", r.engine.DescribeValue(fnValue))
	}
	return nil
}

func (r *resolver) checkFunction(parent *Scope, fn *ast.Function) (Value, error) {
	scope := parent.Push()

	params := make([]Use, 0, len(fn.Params))
	for _, p := range fn.Params {
		v, u := r.engine.Var()
		note := fmt.Sprintf("parameter '%s' of '%s'", p.Name, fn.Name)
		if err := r.annotateParam(v, u, p.Type, note); err != nil {
			return 0, err
		}
		scope.Define(p.Name, v, SymParam)
		params = append(params, u)
	}

	body, err := r.checkBlock(scope, fn.Body)
	if err != nil {
		return 0, err
	}
	if err := r.annotate(body, fn.ReturnType, fmt.Sprintf("return type of '%s'", fn.Name)); err != nil {
		return 0, err
	}

	return r.engine.Func(params, body), nil
}

// annotate flows v into the consumer of a declared type
func (r *resolver) annotate(v Value, ref *ast.TypeRef, note string) error {
	if ref == nil || r.mode == AnnotationsAdvisory {
		return nil
	}
	kind, ok := LookupTypeName(ref.Name)
	if !ok {
		return at(ref, note, &UnknownTypeError{Name: ref.Name})
	}
	use, _ := r.engine.BaseUse(kind)
	if err := r.engine.Flow(v, use); err != nil {
		return at(ref, note, err)
	}
	return nil
}

// annotateParam pins a parameter to its declared type from both sides:
// callers must supply it and the body sees it.
func (r *resolver) annotateParam(v Value, u Use, ref *ast.TypeRef, note string) error {
	if err := r.annotate(v, ref, note); err != nil || ref == nil || r.mode == AnnotationsAdvisory {
		return err
	}
	kind, _ := LookupTypeName(ref.Name)
	declared, _ := r.engine.BaseValue(kind)
	if err := r.engine.Flow(declared, u); err != nil {
		return at(ref, note, err)
	}
	return nil
}

func (r *resolver) checkBlock(scope *Scope, block *ast.Block) (Value, error) {
	if block == nil || len(block.Exprs) == 0 {
		return r.engine.Unit(), nil
	}

	var last Value
	for _, expr := range block.Exprs {
		v, err := r.checkExpr(scope, expr)
		if err != nil {
			return 0, err
		}
		last = v
	}

	if block.TrailingSemi {
		return r.engine.Unit(), nil
	}
	return last, nil
}

func (r *resolver) checkExpr(scope *Scope, expr ast.Expr) (Value, error) {
	switch e := expr.(type) {
	case *ast.BoolLit:
		return r.engine.Bool(), nil

	case *ast.IntLit:
		return r.engine.Integer(), nil

	case *ast.Ident:
		sym := scope.Resolve(e.Name)
		if sym == nil {
			return 0, at(e, "", &UnboundNameError{Name: e.Name})
		}
		return sym.Value, nil

	case *ast.CallExpr:
		return r.checkCall(scope, e)

	case *ast.LetExpr:
		v, err := r.checkExpr(scope, e.Value)
		if err != nil {
			return 0, err
		}
		if err := r.annotate(v, e.Type, fmt.Sprintf("let binding '%s'", e.Name)); err != nil {
			return 0, err
		}
		scope.Define(e.Name, v, SymLet)
		return r.engine.Unit(), nil

	case *ast.BinaryExpr:
		for _, operand := range []ast.Expr{e.Left, e.Right} {
			v, err := r.checkExpr(scope, operand)
			if err != nil {
				return 0, err
			}
			if err := r.engine.Flow(v, r.engine.IntegerUse()); err != nil {
				return 0, at(operand, fmt.Sprintf("operand of '%s'", e.Op), err)
			}
		}
		return r.engine.Integer(), nil

	case *ast.IfExpr:
		return r.checkIf(scope, e)

	default:
		return 0, at(expr, "", fmt.Errorf("unsupported expression %T", expr))
	}
}

func (r *resolver) checkCall(scope *Scope, call *ast.CallExpr) (Value, error) {
	sym := scope.Resolve(call.Callee)
	if sym == nil {
		return 0, at(call, "", &UnboundNameError{Name: call.Callee})
	}

	args := make([]Value, 0, len(call.Args))
	for _, arg := range call.Args {
		v, err := r.checkExpr(scope, arg)
		if err != nil {
			return 0, err
		}
		args = append(args, v)
	}

	result, resultUse := r.engine.Var()
	if err := r.engine.Flow(sym.Value, r.engine.FuncUse(args, resultUse)); err != nil {
		return 0, at(call, fmt.Sprintf("in call to '%s'", call.Callee), err)
	}
	return result, nil
}

func (r *resolver) checkIf(scope *Scope, expr *ast.IfExpr) (Value, error) {
	cond, err := r.checkExpr(scope, expr.Cond)
	if err != nil {
		return 0, err
	}
	if err := r.engine.Flow(cond, r.engine.BoolUse()); err != nil {
		return 0, at(expr.Cond, "in if condition", err)
	}

	thenValue, err := r.checkBlock(scope.Push(), expr.Then)
	if err != nil {
		return 0, err
	}
	elseValue, err := r.checkBlock(scope.Push(), expr.Else)
	if err != nil {
		return 0, err
	}

	merged, mergedUse := r.engine.Var()
	if err := r.engine.Flow(thenValue, mergedUse); err != nil {
		return 0, at(expr.Then, "in then branch", err)
	}
	if err := r.engine.Flow(elseValue, mergedUse); err != nil {
		return 0, at(expr.Else, "in else branch", err)
	}
	return merged, nil
}
