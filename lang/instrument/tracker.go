package instrument

import (
	"sort"
	"strconv"

	"github.com/mna/jsrevive/lang/ast"
	"github.com/mna/jsrevive/lang/token"
)

// function walks a function literal: it pushes a new function-shaped
// block, declares its parameters, walks the body, then rewrites the body to
// carry the scope-id prelude, the tracker-check guard statement and the
// `/*livepack_track:...*/` comment (§4.3).
//
// Concise arrow bodies (`x => x+1`) are converted to block form first,
// because the guard statement and scope-id const must be real statements.
func (in *Instrumenter) function(fn *ast.FuncLit) {
	if fn.IsArrow && fn.ExprBody != nil {
		ret := &ast.ReturnStmt{Arg: fn.ExprBody}
		fn.Body = &ast.BlockStmt{Body: []ast.Stmt{ret}}
		fn.ExprBody = nil
	}

	blk := in.pushBlock(true, fn)
	for _, p := range fn.Params {
		forEachBindingTarget(p, func(id *ast.Ident) {
			in.declare(blk, id, false)
		})
	}
	if fn.Body != nil {
		in.hoistBlock(fn.Body.Body)
		for _, s := range fn.Body.Body {
			in.stmt(s)
		}
	}
	in.popBlock()

	in.attachTracker(fn, blk)
}

// class walks a class literal: the class name (if any) is already bound by
// the caller for ClassDecl; here every method is walked as its own
// function, and the class as a whole gets one tracker comment attached to
// its body (§4.3's "classes host the tracker comment on the class body").
func (in *Instrumenter) class(cl *ast.ClassLit) {
	if cl.SuperClass != nil {
		in.expr(cl.SuperClass)
	}

	blk := in.pushBlock(true, nil)
	hasCtor := false
	for _, m := range cl.Body {
		if m.Computed {
			in.expr(m.Key)
		}
		if m.IsField {
			if m.Value != nil {
				in.expr(m.Value)
			}
			continue
		}
		if m.Fn.MethodKind == "constructor" {
			hasCtor = true
		}
		in.function(m.Fn)
	}
	in.popBlock()

	scopes := in.scopeChain(blk)
	cl.TrackerMeta = trackerMetaJSON(blk.ID, &ast.FuncLit{IsMethod: !hasCtor}, in.Filename, scopes)
}

// attachTracker builds the tracker comment and the per-function guard
// statement/scope-id const, and prepends them to fn's body.
func (in *Instrumenter) attachTracker(fn *ast.FuncLit, blk *Block) {
	if fn.Body == nil {
		return
	}
	scopes := in.scopeChain(blk)
	fn.TrackerMeta = trackerMetaJSON(blk.ID, fn, in.Filename, scopes)

	scopeIDDecl := &ast.VarDecl{
		Kind: token.CONST,
		Decls: []*ast.Declarator{{
			Target: &ast.Ident{Name: scopeIDConstName(blk.ID)},
			Init:   &ast.CallExpr{Callee: &ast.Ident{Name: in.getScopeIDVarName()}},
		}},
	}
	guard := in.guardStmt(blk, scopes)
	fn.Body.Body = append([]ast.Stmt{scopeIDDecl, guard}, fn.Body.Body...)
}

// guardStmt builds `if (scopeId_<blk> === null) return tracker(<blk.ID>,
// [scopeId_p1, var_a, var_b, arguments], [scopeId_p2, ...], ...)` (§4.3).
// The leading function-id literal lets the host side (runtime/tracker) match
// the sentinel it panics with back to the FunctionDef that's mid-capture,
// since the shared livepackN_tracker binding alone can't tell two functions
// in the same file apart.
func (in *Instrumenter) guardStmt(blk *Block, scopes []scopeMeta) ast.Stmt {
	args := make([]ast.Expr, 0, len(scopes)+2)
	args = append(args, &ast.Literal{Kind: token.NUMBER, Raw: strconv.Itoa(blk.ID)})
	for i, sc := range scopes {
		elems := make([]ast.Expr, 0, len(sc.VarNames)+2)
		elems = append(elems, &ast.Ident{Name: scopeIDConstName(sc.BlockID)})
		for _, v := range sc.VarNames {
			elems = append(elems, &ast.Ident{Name: v})
		}
		if i == 0 {
			// the nearest enclosing scope's array also carries this function's
			// own arguments object, since there's no separate array slot for
			// the function's own (non-captured-by-definition) block (§4.3).
			elems = append(elems, &ast.Ident{Name: "arguments"})
		}
		args = append(args, &ast.ArrayLit{Elements: elems})
	}

	call := &ast.CallExpr{Callee: &ast.Ident{Name: in.trackerVarName()}, Args: args}
	return &ast.IfStmt{
		Test: &ast.BinaryExpr{
			Op:   token.EQEQEQ,
			Left: &ast.Ident{Name: scopeIDConstName(blk.ID)},
			Right: &ast.Literal{Kind: token.NULL, Raw: "null"},
		},
		Cons: &ast.ReturnStmt{Arg: call},
	}
}

// scopeChain walks up from blk's parent to the file root, collecting one
// scopeMeta entry per enclosing block that actually declares a name. blk's
// own locals are never included; every name an enclosing block declares is
// listed, whether or not blk references it. Blocks that declare nothing are
// skipped so the tracker call only lists scopes with something to capture.
func (in *Instrumenter) scopeChain(blk *Block) []scopeMeta {
	var out []scopeMeta
	for b := blk.Parent; b != nil; b = b.Parent {
		if len(b.Names) == 0 {
			continue
		}
		var varNames, constNames []string
		for name, bd := range b.Names {
			varNames = append(varNames, name)
			if bd.Const {
				constNames = append(constNames, name)
			}
		}
		sort.Strings(varNames)
		sort.Strings(constNames)
		out = append(out, scopeMeta{
			BlockID:    b.ID,
			VarNames:   varNames,
			ConstNames: constNames,
			BlockName:  b.Name,
		})
	}
	return out
}
