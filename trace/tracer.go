package trace

import (
	"fmt"
	"sort"

	"github.com/dolthub/swiss"
	"github.com/dop251/goja"

	"github.com/mna/jsrevive/lang/ast"
	"github.com/mna/jsrevive/lang/token"
	"github.com/mna/jsrevive/runtime/hostiface"
)

// Tracer drives the value tracer (C5): it walks a live goja value graph and
// produces the Record graph the planner/assembler need. One Tracer should
// be used for exactly one serialize() call — its identity map and Record
// arena aren't meant to outlive a single run.
type Tracer struct {
	rt   *goja.Runtime
	host *hostiface.Host

	// seen maps every object-identity value already reached to its Record,
	// giving Record identity (§3): at most one Record per value compared by
	// reference. Keyed by *goja.Object pointer identity (comparable), so the
	// same object reached through two different property paths yields one
	// shared Record — exactly the case this engine exists to deduplicate.
	seen *swiss.Map[*goja.Object, *Record]

	nextRecordID int
	funcs        *Functions

	// stack is the current trace path, for error reporting (§7).
	stack []string
}

// NewTracer creates a Tracer bound to rt and host.
func NewTracer(rt *goja.Runtime, host *hostiface.Host) *Tracer {
	return &Tracer{
		rt:    rt,
		host:  host,
		seen:  swiss.NewMap[*goja.Object, *Record](64),
		funcs: NewFunctions(),
	}
}

func (t *Tracer) push(seg string) { t.stack = append(t.stack, seg) }
func (t *Tracer) pop()            { t.stack = t.stack[:len(t.stack)-1] }

func (t *Tracer) fail(kind ErrorKind, format string, args ...interface{}) *Error {
	return newError(kind, fmt.Sprintf(format, args...), t.stack...)
}

// SerializeValue is the tracer's entry contract (§4.5):
// serializeValue(val, suggestedName, tracePath) -> Record. Primitive values
// return directly as an ast.Expr with a nil Record; non-primitive values
// return an existing or newly built Record.
func (t *Tracer) SerializeValue(val goja.Value, suggestedName string) (ast.Expr, *Record, error) {
	if val == nil || goja.IsUndefined(val) {
		return &ast.Ident{Name: "undefined"}, nil, nil
	}
	if goja.IsNull(val) {
		return &ast.Literal{Kind: token.NULL, Raw: "null"}, nil, nil
	}

	switch exported := val.Export().(type) {
	case bool:
		lit := token.FALSE
		if exported {
			lit = token.TRUE
		}
		return &ast.Literal{Kind: lit}, nil, nil
	case int64:
		return &ast.Literal{Kind: token.NUMBER, Raw: fmt.Sprintf("%d", exported)}, nil, nil
	case float64:
		return &ast.Literal{Kind: token.NUMBER, Raw: fmt.Sprintf("%v", exported)}, nil, nil
	case string:
		return &ast.Literal{Kind: token.STRING, Raw: exported}, nil, nil
	}

	obj, ok := val.(*goja.Object)
	if !ok {
		obj = val.ToObject(t.rt)
	}
	if rec, ok := t.seen.Get(obj); ok {
		if rec.InConstruction {
			return nil, nil, &circularAsError{rec: rec}
		}
		return rec.Node, rec, nil
	}

	rec := &Record{ID: t.nextID(), SuggestedName: suggestedName, InConstruction: true}
	t.seen.Put(obj, rec)

	node, err := t.buildObject(obj, rec)
	if err != nil {
		return nil, nil, err
	}
	rec.InConstruction = false
	rec.Node = node
	return node, rec, nil
}

// circularAsError is a sentinel carried through the return-path's error
// channel so callers that don't special-case it will surface a sane
// message. The object, array and iterator builders replace it with an
// `undefined` placeholder plus an Assignment fix-up (attachCircularFixup),
// and buildScopeChain records it as an IsCircular ScopeValue, instead of
// propagating it as a user-visible failure.
type circularAsError struct{ rec *Record }

func (e *circularAsError) Error() string { return "trace: internal circular marker" }

func (t *Tracer) nextID() int {
	t.nextRecordID++
	return t.nextRecordID
}

// buildObject dispatches by the object's class name, the same way the
// value tracer's runtime-type dispatch works in §4.5.
func (t *Tracer) buildObject(obj *goja.Object, rec *Record) (ast.Expr, error) {
	switch obj.ClassName() {
	case "Array":
		return t.buildArray(obj, rec)
	case "Function", "GeneratorFunction", "AsyncFunction":
		return t.buildFunction(obj, rec)
	case "RegExp":
		return t.buildRegExp(obj)
	case "Date":
		return t.buildDate(obj)
	case "Map":
		return t.buildMap(obj, rec)
	case "Set":
		return t.buildSet(obj, rec)
	case "Error", "TypeError", "RangeError", "SyntaxError", "ReferenceError", "EvalError", "URIError":
		return t.buildError(obj, rec)
	default:
		if special, ok := t.host.SpecialFunctions().Lookup(obj); ok {
			return t.buildSpecial(obj, rec, special)
		}
		return t.buildPlainObject(obj, rec)
	}
}

// buildPlainObject walks obj.Keys() (own enumerable string keys, sorted) and
// serializes each value read with obj.Get, so a getter's result is stored
// as a plain data property. Accessor functions, non-enumerable or symbol
// keys and writable/enumerable/configurable flags are not reproduced.
func (t *Tracer) buildPlainObject(obj *goja.Object, rec *Record) (ast.Expr, error) {
	keys := obj.Keys()
	sort.Strings(keys)

	props := make([]*ast.Property, 0, len(keys))
	for _, k := range keys {
		t.push("." + k)
		valExpr, dep, err := t.SerializeValue(obj.Get(k), k)
		t.pop()
		if err != nil {
			if circ, ok := err.(*circularAsError); ok {
				valExpr = t.attachCircularFixup(rec, circ.rec, []PathStep{{Key: k, IsKey: true}})
			} else {
				return nil, err
			}
		}
		if dep != nil {
			rec.Dependencies = append(rec.Dependencies, dep)
			dep.Dependents = append(dep.Dependents, rec)
		}
		props = append(props, &ast.Property{Key: &ast.Literal{Kind: token.STRING, Raw: k}, Computed: true, Kind: "init", Value: valExpr})
	}
	return &ast.ObjectLit{Props: props}, nil
}

// attachCircularFixup records an Assignment converting a cyclic reference
// (rec -> dep, but dep is still under construction) into a post-declaration
// patch, and returns the placeholder expression (`undefined`) to splice in
// its place for now (§4.5's cycle handling).
func (t *Tracer) attachCircularFixup(rec, dep *Record, path []PathStep) ast.Expr {
	dep.Assignments = append(dep.Assignments, &Assignment{Target: rec, Path: path, Value: dep})
	return &ast.Ident{Name: "undefined"}
}

func (t *Tracer) buildArray(obj *goja.Object, rec *Record) (ast.Expr, error) {
	length := int64(0)
	if l := obj.Get("length"); l != nil {
		length = l.ToInteger()
	}
	elems := make([]ast.Expr, 0, length)
	for i := int64(0); i < length; i++ {
		t.push(fmt.Sprintf("[%d]", i))
		e, dep, err := t.SerializeValue(obj.Get(fmt.Sprintf("%d", i)), "")
		t.pop()
		if err != nil {
			if circ, ok := err.(*circularAsError); ok {
				e = t.attachCircularFixup(rec, circ.rec, []PathStep{{Index: int(i)}})
			} else {
				return nil, err
			}
		}
		if dep != nil {
			rec.Dependencies = append(rec.Dependencies, dep)
			dep.Dependents = append(dep.Dependents, rec)
		}
		elems = append(elems, e)
	}
	return &ast.ArrayLit{Elements: elems}, nil
}

func (t *Tracer) buildRegExp(obj *goja.Object) (ast.Expr, error) {
	source := obj.Get("source").String()
	flags := obj.Get("flags").String()
	return &ast.Literal{Kind: token.REGEX, Raw: source, Flags: flags}, nil
}

func (t *Tracer) buildDate(obj *goja.Object) (ast.Expr, error) {
	ms := obj.Export()
	return &ast.NewExpr{
		Callee: &ast.Ident{Name: "Date"},
		Args:   []ast.Expr{&ast.Literal{Kind: token.NUMBER, Raw: fmt.Sprintf("%v", ms)}},
	}, nil
}

func (t *Tracer) buildMap(obj *goja.Object, rec *Record) (ast.Expr, error) {
	entriesFn, ok := goja.AssertFunction(obj.Get("entries"))
	if !ok {
		return nil, t.fail(UnsupportedValue, "Map has no iterable entries() method")
	}
	iter, err := entriesFn(obj)
	if err != nil {
		return nil, t.fail(UnsupportedValue, "Map.entries() failed: %v", err)
	}
	pairs, err := t.drainIterator(iter.ToObject(t.rt), rec, "Map")
	if err != nil {
		return nil, err
	}
	return &ast.NewExpr{Callee: &ast.Ident{Name: "Map"}, Args: []ast.Expr{&ast.ArrayLit{Elements: pairs}}}, nil
}

func (t *Tracer) buildSet(obj *goja.Object, rec *Record) (ast.Expr, error) {
	valuesFn, ok := goja.AssertFunction(obj.Get("values"))
	if !ok {
		return nil, t.fail(UnsupportedValue, "Set has no iterable values() method")
	}
	iter, err := valuesFn(obj)
	if err != nil {
		return nil, t.fail(UnsupportedValue, "Set.values() failed: %v", err)
	}
	vals, err := t.drainIterator(iter.ToObject(t.rt), rec, "Set")
	if err != nil {
		return nil, err
	}
	return &ast.NewExpr{Callee: &ast.Ident{Name: "Set"}, Args: []ast.Expr{&ast.ArrayLit{Elements: vals}}}, nil
}

// drainIterator pulls every value out of a JS iterator object by calling
// its next() method until done, serializing each yielded value. kind names
// the container for suggested naming and error context only.
func (t *Tracer) drainIterator(iterObj *goja.Object, rec *Record, kind string) ([]ast.Expr, error) {
	nextFn, ok := goja.AssertFunction(iterObj.Get("next"))
	if !ok {
		return nil, t.fail(UnsupportedValue, "%s iterator has no next() method", kind)
	}
	var out []ast.Expr
	for i := 0; ; i++ {
		res, err := nextFn(iterObj)
		if err != nil {
			return nil, t.fail(UnsupportedValue, "%s iterator next() failed: %v", kind, err)
		}
		resObj := res.ToObject(t.rt)
		if resObj.Get("done").ToBoolean() {
			return out, nil
		}
		t.push(fmt.Sprintf("<%s entry %d>", kind, i))
		e, dep, err := t.SerializeValue(resObj.Get("value"), "")
		t.pop()
		if err != nil {
			if circ, ok := err.(*circularAsError); ok {
				e = t.attachCircularFixup(rec, circ.rec, []PathStep{{Index: i}})
			} else {
				return nil, err
			}
		}
		if dep != nil {
			rec.Dependencies = append(rec.Dependencies, dep)
			dep.Dependents = append(dep.Dependents, rec)
		}
		out = append(out, e)
	}
}

func (t *Tracer) buildError(obj *goja.Object, rec *Record) (ast.Expr, error) {
	ctor := obj.ClassName()
	message := ""
	if m := obj.Get("message"); m != nil {
		message = m.String()
	}
	return &ast.NewExpr{
		Callee: &ast.Ident{Name: ctor},
		Args:   []ast.Expr{&ast.Literal{Kind: token.STRING, Raw: message}},
	}, nil
}

func (t *Tracer) buildSpecial(obj *goja.Object, rec *Record, entry interface{}) (ast.Expr, error) {
	// Special functions (bound/promisified/debuglogged/require, §1) are
	// reconstructed by the function serializer, which knows how to re-emit
	// each specialfn.Kind; the tracer only routes to it.
	return t.buildFunction(obj, rec)
}
