// Package hostiface specifies and implements the Host Interface contract
// (§6): the small set of entry points instrumented code and the
// function serializer (trace) both call into — per-file tracker lookup,
// scope-id minting, the special-function registry, and the global catalog
// — without either side needing to know how the other is implemented.
//
// This is explicitly "out of scope" for the hard part of the engine (§1
// calls the ambient host interception, loader patches and globals
// cataloging external collaborators), so this package stays a thin,
// in-process stand-in: a real embedding would back it with require-hook
// patches and a live V8/Node process; here it backs it with an in-memory
// registry addressed by filename, enough for trace and runtime/tracker to
// exercise the contract end to end against a goja.Runtime.
package hostiface

import (
	"fmt"
	"sync"

	"github.com/mna/jsrevive/runtime/specialfn"
	"github.com/mna/jsrevive/runtime/tracker"
)

// Host is one engine instance's view of the ambient interception layer.
type Host struct {
	mu       sync.RWMutex
	trackers map[string]*tracker.Instance
	globals    map[string]interface{}
	special    *specialfn.Registry
	weakWalker WeakWalker
}

// New creates a Host backed by its own tracker instances and special
// function registry.
func New() *Host {
	return &Host{
		trackers: make(map[string]*tracker.Instance),
		globals:  make(map[string]interface{}),
		special:  specialfn.NewRegistry(),
	}
}

// GetTrackerForFile returns the tracker.Instance for filename, creating one
// on first request (§6's getTrackerForFile).
func (h *Host) GetTrackerForFile(filename string) *tracker.Instance {
	h.mu.Lock()
	defer h.mu.Unlock()
	in, ok := h.trackers[filename]
	if !ok {
		in = tracker.New()
		h.trackers[filename] = in
	}
	return in
}

// GetScopeID mints a new scope id for filename's tracker instance (§6's
// getScopeId — each file's counter is independent, per its own
// tracker.Instance).
func (h *Host) GetScopeID(filename string) int64 {
	return h.GetTrackerForFile(filename).GetScopeID()
}

// SetGlobal / Global register and look up the process-wide object catalog
// (§9's "globals" cache) — e.g. `Object`, `Array.prototype.slice`, anything
// the serializer must recognize as a shared built-in rather than
// reconstruct from scratch.
func (h *Host) SetGlobal(name string, v interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.globals[name] = v
}

func (h *Host) Global(name string) (interface{}, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	v, ok := h.globals[name]
	return v, ok
}

// SpecialFunctions exposes the Special Function Registry consulted by the
// function serializer before it tries to treat a function as ordinary user
// code (§1's "opaque Special Function Registry").
func (h *Host) SpecialFunctions() *specialfn.Registry { return h.special }

// WeakWalker is the hook behind §6's weakSetEntries/weakMapEntries: in a
// real embedding it walks the host's internal WeakMap/WeakSet tables
// (inaccessible to ordinary reflection) to recover their live entries for
// serialization. A Host has none by default: WeakEntries returns an error
// until a caller registers one with RegisterWeakWalker, and also when the
// walker reports that v is not a tracked weak collection.
type WeakWalker func(v interface{}) (entries []WeakEntry, ok bool)

// WeakEntry is one key/value (WeakMap) or member (WeakSet, Value is nil)
// pulled out of a live weak collection.
type WeakEntry struct {
	Key   interface{}
	Value interface{}
}

func (h *Host) RegisterWeakWalker(w WeakWalker) { h.weakWalker = w }

func (h *Host) WeakEntries(v interface{}) ([]WeakEntry, error) {
	if h.weakWalker == nil {
		return nil, fmt.Errorf("hostiface: no WeakWalker registered for this instance")
	}
	entries, ok := h.weakWalker(v)
	if !ok {
		return nil, fmt.Errorf("hostiface: value is not a tracked weak collection")
	}
	return entries, nil
}
