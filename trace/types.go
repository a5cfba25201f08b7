// Package trace implements the value tracer (C5) and function serializer
// (C6): given a live value from a goja.Runtime, it builds the graph of
// Record/Block/Scope/FunctionDef structures (§3) from which executable
// source is produced. No planner or assembler package that consumes this
// graph exists in this repository.
package trace

import (
	"github.com/mna/jsrevive/lang/ast"
	"github.com/mna/jsrevive/lang/instrument"
)

// Record is the serializer's canonical representation of one distinct live
// value: at most one Record exists per value compared by reference (§3's
// "Record identity" invariant).
type Record struct {
	ID int

	// SuggestedName seeds identifier assignment in the output assembler
	// (the property name or variable name this value was first reached
	// through).
	SuggestedName string

	// Node is the AST expression reproducing this value. It is nil while
	// the Record is under construction (see InConstruction). A reference to
	// this value reached during construction is emitted as an `undefined`
	// placeholder and wired up through an Assignment instead.
	Node ast.Expr

	// Dependencies are Records this one's Node directly references.
	// Dependents are the reverse edges, needed by the assembler's inlining
	// pass (§4.8 step 4: "exactly one dependent").
	Dependencies []*Record
	Dependents   []*Record

	// Assignments are post-construction statements needed to patch a cycle:
	// `dependents[i].Node` referenced this Record while it was still under
	// construction, so the real value is wired up after the fact instead of
	// inline.
	Assignments []*Assignment

	// InConstruction is true from the moment serializeValue first reaches
	// this value until its Node is finalized; any nested reference reached
	// while true yields a Circular marker instead of this Record (§4.5).
	InConstruction bool

	// Scope is set when this Record is a function instance: the Scope it
	// closes over, needed by C7/C8 to place the Record under the right
	// Block.
	Scope *Scope

	// FuncDef is set alongside Scope for function Records.
	FuncDef *FunctionDef
}

// Assignment is one cycle fix-up: `target.Path = Value` emitted after
// target's declaration.
type Assignment struct {
	Target *Record
	Path   []PathStep // property path from target to the circular slot
	Value  *Record
}

// PathStep is one hop of a property-path trail (an object key, array
// index, or Map/Set entry index), used both for Assignment paths and for
// FunctionDef.ExternalVars/InternalVars "trail to AST node" entries (§3).
type PathStep struct {
	Key   string
	Index int
	IsKey bool // true: use Key; false: use Index
}

// circularMarker is not produced anywhere in this package: SerializeValue
// reports a nested reference to a value still under construction by
// returning a *circularAsError.
type circularMarker struct{ Of *Record }

// Block is a lexical-scope template: one per distinct scope in user source,
// shared by every Scope instantiated from it (§3).
type Block struct {
	ID          int
	Name        string
	ParentBlock *Block
	Children    []*Block

	// ParamNames is the ordered set of captured variable names this block's
	// synthetic factory arrow (C7) takes as parameters.
	ParamNames []string

	// FrozenNames are vars whose names must be preserved verbatim because a
	// direct eval in this scope might reference them dynamically (§4.3/§9).
	FrozenNames map[string]bool

	// ArgNames is set if this scope originates an `arguments` object.
	ArgNames []string

	Scopes    map[int64]*Scope
	Functions []*FunctionDef
}

// Scope is a concrete runtime instantiation of a Block (§3).
type Scope struct {
	ID          int64
	Block       *Block
	ParentScope *Scope
	Values      map[string]ScopeValue

	// Record is this Scope's own serializer record: a Scope is materialized
	// as a call to its Block's synthetic factory function.
	Record *Record
}

// ScopeValue is one captured variable's value plus whether it required
// cycle-breaking (§3's "{record, is_circular}").
type ScopeValue struct {
	Record     *Record
	IsCircular bool
}

// FunctionDef is parsed metadata for a unique source-level function,
// shared across every instance that closes over a different Scope (§3).
type FunctionDef struct {
	ID       int
	ASTNode  *ast.FuncLit
	Filename string
	Name     string

	// ScopeDefs are the per-block variable definitions this function
	// inherits from its instrumented tracker comment, in capture order.
	ScopeDefs []ScopeDef

	// ExternalVars/InternalVars map a captured or local identifier name to
	// every AST Ident node referencing it, so renames during assembly reach
	// every use site. GlobalVarNames is every free identifier this function
	// resolves to a host global rather than a captured scope (§4.8 step 3:
	// assembler-wide identifiers must avoid this set).
	ExternalVars   map[string][]*ast.Ident
	InternalVars   map[string][]*ast.Ident
	GlobalVarNames map[string]bool

	FunctionNames []string
	NumParams     int

	IsClass     bool
	IsAsync     bool
	IsGenerator bool
	IsArrow     bool
	IsMethod    bool
	IsStrict    bool
	ContainsEval bool

	ArgNames []string

	// Instances maps a Scope to the Record representing that particular
	// closure instance (§3: "exactly one (FunctionDef, Scope) pair").
	Instances map[*Scope]*Record
}

// ScopeDef is one entry of a tracker comment's scopes list (§4.3), reduced
// to what the function serializer needs: which block it refers to and
// which names it should resolve through that block.
type ScopeDef struct {
	BlockID   int
	VarNames  []string
	ArgNames  []string
	BlockName string
}

// instrumentBindingKind is an unexported alias of instrument.Kind, usable
// only inside this package.
type instrumentBindingKind = instrument.Kind

func bindingOf(id *ast.Ident) (*instrument.Binding, bool) {
	bd, ok := id.Binding.(*instrument.Binding)
	return bd, ok
}
