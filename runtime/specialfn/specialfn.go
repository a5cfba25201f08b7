// Package specialfn implements the Special Function Registry (§1, §4.6
// step 1): a catalog of functions the serializer recognizes and reproduces
// directly instead of attempting to parse and recapture their source —
// bound functions (Function.prototype.bind), util.promisify/debuglog
// wrappers, and the require function itself.
package specialfn

import "sync"

// Kind identifies which special form a registered function is.
type Kind uint8

const (
	Bound Kind = iota
	Promisified
	Debuglogged
	Require
)

// Entry describes one special function: enough for trace to emit a
// reconstruction expression instead of a captured closure.
type Entry struct {
	Kind Kind

	// Target is the underlying function this entry wraps: the original
	// function for Bound/Promisified/Debuglogged, nil for Require.
	Target interface{}

	// BoundThis/BoundArgs are populated for Kind == Bound.
	BoundThis interface{}
	BoundArgs []interface{}

	// ModuleID is populated for Kind == Require: the module specifier the
	// require call should be re-emitted with.
	ModuleID string
}

// Registry tracks every special function observed for one serialization
// run, keyed by the function's identity (a goja.Value's export pointer, or
// any other comparable identity the host hands us).
type Registry struct {
	mu      sync.RWMutex
	entries map[interface{}]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[interface{}]Entry)}
}

// Register records that fn is a special function, to be looked up later by
// the function serializer before it falls back to ordinary capture.
func (r *Registry) Register(fn interface{}, e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[fn] = e
}

// Lookup returns the registered Entry for fn, if any (§4.6 step 1: "check
// specialFunctions registry").
func (r *Registry) Lookup(fn interface{}) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[fn]
	return e, ok
}

// Bind registers boundFn as the bound form of target, the way instrumented code's
// interception of Function.prototype.bind would (§1: "Function.prototype.bind
// tracking").
func (r *Registry) Bind(boundFn, target interface{}, thisArg interface{}, args []interface{}) {
	r.Register(boundFn, Entry{Kind: Bound, Target: target, BoundThis: thisArg, BoundArgs: args})
}

// Promisify registers wrapped as the util.promisify result of target.
func (r *Registry) Promisify(wrapped, target interface{}) {
	r.Register(wrapped, Entry{Kind: Promisified, Target: target})
}

// Debuglog registers wrapped as a util.debuglog-produced logging function.
func (r *Registry) Debuglog(wrapped, target interface{}) {
	r.Register(wrapped, Entry{Kind: Debuglogged, Target: target})
}

// RequireFunc registers fn as the require() function bound to moduleID's
// resolution root, so the serializer re-emits a require(...) call rather
// than attempting to capture Node's module loader as a closure.
func (r *Registry) RequireFunc(fn interface{}, moduleID string) {
	r.Register(fn, Entry{Kind: Require, ModuleID: moduleID})
}
