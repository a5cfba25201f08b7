package trace

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/mna/jsrevive/lang/ast"
	"github.com/mna/jsrevive/lang/parser"
	"github.com/mna/jsrevive/lang/token"
	"github.com/mna/jsrevive/runtime/specialfn"
	"github.com/mna/jsrevive/runtime/tracker"
)

// Functions holds the function serializer's own state: the FunctionDef
// cache (shared across every instance of the same source function) and a
// running counter, separate from the Tracer's Record-identity map because a
// FunctionDef is keyed by source function identity, not by value identity
// (two different closures of the same source function share a
// FunctionDef but get distinct Records, §3).
type Functions struct {
	byID map[int]*FunctionDef
}

func NewFunctions() *Functions {
	return &Functions{byID: make(map[int]*FunctionDef)}
}

// trackerComment is the JSON payload the instrumenter embeds in a function's
// leading comment (§4.3's tracker comment format, mirrored from
// lang/instrument's trackerMeta).
type trackerComment struct {
	ID       int `json:"id"`
	Scopes   []struct {
		BlockID    int      `json:"blockId"`
		VarNames   []string `json:"varNames"`
		ConstNames []string `json:"constNames"`
		ArgNames   []string `json:"argNames"`
		BlockName  string   `json:"blockName"`
	} `json:"scopes"`
	Filename string `json:"filename"`
	IsMethod bool   `json:"isMethod"`
}

// buildFunction implements the function serializer's 7-step algorithm
// (§4.6) for a function-shaped goja.Object.
func (t *Tracer) buildFunction(obj *goja.Object, rec *Record) (ast.Expr, error) {
	// Step 1: special-function registry check (§4.6 step 1). buildObject
	// sends function class names straight here without consulting the
	// registry, so the check is made here.
	if entry, ok := t.host.SpecialFunctions().Lookup(obj); ok {
		return t.reconstructSpecial(entry)
	}

	// Step 2: toString() + tracker-comment JSON parse.
	toStringFn, ok := goja.AssertFunction(obj.Get("toString"))
	if !ok {
		return nil, t.fail(NotInstrumentedFunction, "value has no callable toString()")
	}
	srcVal, err := toStringFn(obj)
	if err != nil {
		return nil, t.fail(NotInstrumentedFunction, "toString() failed: %v", err)
	}
	src := srcVal.String()

	comment, ok := extractTrackerComment(src)
	if !ok {
		return nil, t.fail(NotInstrumentedFunction, "function %q has no livepack_track comment; it was never instrumented", summarize(src))
	}
	var meta trackerComment
	if err := json.Unmarshal([]byte(comment), &meta); err != nil {
		return nil, t.fail(NotInstrumentedFunction, "malformed tracker comment: %v", err)
	}

	// Step 3: build (or reuse) the FunctionDef.
	def, isNew := t.funcs.get(meta.ID)
	if isNew {
		fn, perr := parseInstrumentedFunction(meta.Filename, src)
		if perr != nil {
			return nil, t.fail(InternalAssertion, "failed to re-parse instrumented function %d: %v", meta.ID, perr)
		}
		def = &FunctionDef{
			ID:             meta.ID,
			ASTNode:        fn,
			Filename:       meta.Filename,
			Name:           fnName(fn),
			NumParams:      len(fn.Params),
			IsClass:        false,
			IsAsync:        fn.IsAsync,
			IsGenerator:    fn.IsGenerator,
			IsArrow:        fn.IsArrow,
			IsMethod:       meta.IsMethod,
			ExternalVars:   make(map[string][]*ast.Ident),
			InternalVars:   make(map[string][]*ast.Ident),
			GlobalVarNames: make(map[string]bool),
			Instances:      make(map[*Scope]*Record),
		}
		for _, sc := range meta.Scopes {
			def.ScopeDefs = append(def.ScopeDefs, ScopeDef{
				BlockID:   sc.BlockID,
				VarNames:  sc.VarNames,
				ArgNames:  sc.ArgNames,
				BlockName: sc.BlockName,
			})
		}
		classifyIdents(fn, def)
		t.funcs.put(def)
	}

	// Step 4: arm the tracker, invoke f in a controlled way to capture its
	// scope values, and build the Scope chain (steps 4-5 combined: the
	// capture callback directly gives us the scope arrays in ScopeDef
	// order).
	tr := t.host.GetTrackerForFile(meta.Filename)
	scope, err := t.captureScope(tr, obj, def)
	if err != nil {
		return nil, t.fail(NotInstrumentedFunction, "%v", err)
	}

	// Step 6: place the FunctionDef under the right Block/Scope; detect
	// shared-scope instances (virtual block handling is left to the planner,
	// which owns Block construction — here we only record the instance).
	if existing, ok := def.Instances[scope]; ok {
		return existing.Node, nil
	}
	def.Instances[scope] = rec
	rec.Scope = scope
	rec.FuncDef = def

	// Step 7: return a placeholder; C7/C8 rewrite it with the real factory
	// call once the block tree is planned.
	placeholder := &ast.Ident{Name: fmt.Sprintf("__jsrevive_fn_%d__", def.ID)}
	return placeholder, nil
}

func (f *Functions) get(id int) (*FunctionDef, bool) {
	if def, ok := f.byID[id]; ok {
		return def, false
	}
	return nil, true
}

func (f *Functions) put(def *FunctionDef) { f.byID[def.ID] = def }

// captureScope arms tr, invokes fn through goja in a way that forces its
// tracker guard down the capture branch, and converts the recovered
// tracker.Captured into a Scope chain (§4.6 steps 4-5, §4.9's state
// machine).
func (t *Tracer) captureScope(tr *tracker.Instance, fn *goja.Object, def *FunctionDef) (*Scope, error) {
	callable, ok := goja.AssertFunction(fn)
	if !ok {
		return nil, fmt.Errorf("value is not callable")
	}

	cap, err := tr.Capture(def.ID, func() {
		// No argument proxy is used: every parameter receives undefined.
		// The tracker guard runs before the real body, but a destructuring
		// or default-value parameter is evaluated before the guard and can
		// throw on undefined, in which case the capture fails.
		args := make([]goja.Value, def.NumParams)
		_, _ = callable(goja.Undefined(), args...)
	})
	if err != nil {
		return nil, err
	}

	return t.buildScopeChain(def, cap)
}

// buildScopeChain walks cap.Scopes (one []interface{} per ScopeDef, in the
// same order the instrumenter emitted them) and produces the Scope linked
// list, serializing each captured variable's value along the way.
func (t *Tracer) buildScopeChain(def *FunctionDef, cap tracker.Captured) (*Scope, error) {
	var innermost, parent *Scope
	for i, sd := range def.ScopeDefs {
		if i >= len(cap.Scopes) {
			break
		}
		raw := cap.Scopes[i]
		values := make(map[string]ScopeValue, len(sd.VarNames))
		// raw[0] is the scope id; named vars follow in VarNames order.
		for j, name := range sd.VarNames {
			idx := j + 1
			if idx >= len(raw) {
				break
			}
			goVal, ok := raw[idx].(goja.Value)
			if !ok {
				goVal = t.rt.ToValue(raw[idx])
			}
			t.push("scope:" + sd.BlockName + "." + name)
			_, dep, err := t.SerializeValue(goVal, name)
			t.pop()
			if err != nil {
				if circ, ok := err.(*circularAsError); ok {
					values[name] = ScopeValue{Record: circ.rec, IsCircular: true}
					continue
				}
				return nil, err
			}
			values[name] = ScopeValue{Record: dep}
		}

		scopeID := int64(0)
		if id, ok := raw[0].(int64); ok {
			scopeID = id
		}
		// ScopeDefs run innermost first, so each new scope is the parent
		// of the one built before it.
		sc := &Scope{ID: scopeID, Values: values}
		if parent != nil {
			parent.ParentScope = sc
		}
		parent = sc
		if innermost == nil {
			innermost = sc
		}
	}
	return innermost, nil
}

// reconstructSpecial re-emits a registered special function (§4.6 step 1)
// without attempting to capture it as a closure: a bound function becomes
// `target.bind(thisArg, ...boundArgs)`, a promisify/debuglog wrapper
// becomes a call to the corresponding host helper applied to the
// underlying target, and require becomes a bare `require` reference (the
// assembler's module wrapper supplies the real binding).
func (t *Tracer) reconstructSpecial(entry interface{}) (ast.Expr, error) {
	e, ok := entry.(specialfn.Entry)
	if !ok {
		return nil, t.fail(InternalAssertion, "special function registry returned unexpected entry type %T", entry)
	}

	switch e.Kind {
	case specialfn.Bound:
		targetExpr, _, err := t.SerializeValue(t.rt.ToValue(e.Target), "")
		if err != nil {
			return nil, err
		}
		args := make([]ast.Expr, 0, len(e.BoundArgs)+1)
		thisExpr, _, err := t.SerializeValue(t.rt.ToValue(e.BoundThis), "")
		if err != nil {
			return nil, err
		}
		args = append(args, thisExpr)
		for _, a := range e.BoundArgs {
			argExpr, _, err := t.SerializeValue(t.rt.ToValue(a), "")
			if err != nil {
				return nil, err
			}
			args = append(args, argExpr)
		}
		return &ast.CallExpr{
			Callee: &ast.MemberExpr{Object: targetExpr, Property: &ast.Ident{Name: "bind"}},
			Args:   args,
		}, nil
	case specialfn.Promisified, specialfn.Debuglogged:
		helper := "promisify"
		if e.Kind == specialfn.Debuglogged {
			helper = "debuglog"
		}
		targetExpr, _, err := t.SerializeValue(t.rt.ToValue(e.Target), "")
		if err != nil {
			return nil, err
		}
		return &ast.CallExpr{
			Callee: &ast.MemberExpr{Object: &ast.Ident{Name: "util"}, Property: &ast.Ident{Name: helper}},
			Args:   []ast.Expr{targetExpr},
		}, nil
	case specialfn.Require:
		return &ast.Ident{Name: "require"}, nil
	default:
		return nil, t.fail(InternalAssertion, "unknown special function kind %d", e.Kind)
	}
}

// extractTrackerComment finds the first /*livepack_track:{...}*/ block
// comment and returns its JSON payload.
func extractTrackerComment(src string) (string, bool) {
	const marker = "/*livepack_track:"
	start := strings.Index(src, marker)
	if start == -1 {
		return "", false
	}
	rest := src[start+len(marker):]
	end := strings.Index(rest, "*/")
	if end == -1 {
		return "", false
	}
	return rest[:end], true
}

// parseInstrumentedFunction re-parses src (a single function's toString()
// output) enough to get an *ast.FuncLit back: it's wrapped in parentheses
// so the parser, which only accepts a Program, reads it as a single
// expression statement.
func parseInstrumentedFunction(filename, src string) (*ast.FuncLit, error) {
	wrapped := "(" + src + ")"
	fset := token.NewFileSet()
	prog, err := parser.ParseProgram(fset, 0, filename, []byte(wrapped))
	if err != nil {
		return nil, err
	}
	if len(prog.Body) != 1 {
		return nil, fmt.Errorf("unexpected statement count re-parsing function source")
	}
	exprStmt, ok := prog.Body[0].(*ast.ExprStmt)
	if !ok {
		return nil, fmt.Errorf("re-parsed function source is not an expression")
	}
	paren, ok := exprStmt.Expr.(*ast.ParenExpr)
	if ok {
		if fn, ok := paren.Expr.(*ast.FuncLit); ok {
			stripInstrumentation(fn)
			return fn, nil
		}
	}
	if fn, ok := exprStmt.Expr.(*ast.FuncLit); ok {
		stripInstrumentation(fn)
		return fn, nil
	}
	return nil, fmt.Errorf("re-parsed function source is not a function literal")
}

// stripInstrumentation removes the scope-id const and tracker-guard
// statement the instrumenter prepended (§4.6 step 3: "strip the
// if(scopeId===null) return tracker(...) statement and the scope-ID
// prelude, strip the tracker comment").
func stripInstrumentation(fn *ast.FuncLit) {
	fn.TrackerMeta = nil
	if fn.Body == nil {
		return
	}
	stmts := fn.Body.Body
	i := 0
	for i < len(stmts) && i < 2 {
		switch s := stmts[i].(type) {
		case *ast.VarDecl:
			if s.Kind == token.CONST && len(s.Decls) == 1 {
				if id, ok := s.Decls[0].Target.(*ast.Ident); ok && strings.HasPrefix(id.Name, "scopeId_") {
					i++
					continue
				}
			}
		case *ast.IfStmt:
			i++
			continue
		}
		break
	}
	fn.Body.Body = stmts[i:]
}

// classifyIdents sorts every identifier in fn into internal (the name of a
// plain-identifier parameter), external (a name in the captured ScopeDefs)
// or global (anything else, including names declared in the body or in a
// destructured or defaulted parameter), recording the AST nodes
// that reference each so the assembler can rename every use site together
// (§3's FunctionDef.external_vars/internal_vars "name -> list of identifier
// AST nodes needing rename").
func classifyIdents(fn *ast.FuncLit, def *FunctionDef) {
	captured := make(map[string]bool)
	for _, sd := range def.ScopeDefs {
		for _, v := range sd.VarNames {
			captured[v] = true
		}
	}
	local := make(map[string]bool)
	for _, p := range fn.Params {
		if id, ok := p.(*ast.Ident); ok {
			local[id.Name] = true
		}
	}

	ast.Inspect(fn, func(n ast.Node) bool {
		id, ok := n.(*ast.Ident)
		if !ok {
			return true
		}
		switch {
		case local[id.Name]:
			def.InternalVars[id.Name] = append(def.InternalVars[id.Name], id)
		case captured[id.Name]:
			def.ExternalVars[id.Name] = append(def.ExternalVars[id.Name], id)
		default:
			def.GlobalVarNames[id.Name] = true
		}
		return true
	})
}

func fnName(fn *ast.FuncLit) string {
	if fn.Name != nil {
		return fn.Name.Name
	}
	return ""
}

func summarize(src string) string {
	const max = 40
	if len(src) <= max {
		return src
	}
	return src[:max] + "..."
}
