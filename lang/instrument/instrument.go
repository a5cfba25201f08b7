// Package instrument implements the instrumenter (C3): it walks a parsed
// Program and rewrites it in place so every function and class carries
// enough metadata — a tracker comment plus a scope-capture guard — for the
// runtime (runtime/tracker) and the function serializer (trace) to later
// recover its lexical scope from a live, running value.
//
// The walk doubles as the engine's capture analysis: instead of a separate
// resolver pass (the teacher's lang/resolver analyzed its own Lua-like
// scoping into a Binding/Scope tree, but its Binding.Decl field was typed
// against go/ast rather than the engine's own AST, and its naming.go
// referenced a Binding.BlockName field that didn't even exist on its own
// Binding type — a second, separate bug), instrument resolves every Ident
// itself while it walks, because it needs the scope tree anyway to decide
// which block owns each captured variable.
package instrument

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mna/jsrevive/lang/ast"
	"github.com/mna/jsrevive/lang/token"
)

// Kind classifies how an Ident resolves relative to the function that
// contains it, mirroring the resolver taxonomy the teacher used for its own
// Lua scoping (Local/Cell/Free/Predeclared/Universal), narrowed to what the
// tracker comment format actually needs to emit.
type Kind uint8

const (
	Undefined Kind = iota
	Local          // declared in the current function
	Free           // captured from an enclosing function's scope
	Global         // not found in any enclosing function; a runtime global
)

// Binding is attached to every ast.Ident as its Binding field. It records
// which Block owns the declaration and, for Free idents, lets the function
// serializer (trace) walk back up to the owning Scope.
type Binding struct {
	Kind  Kind
	Block *Block // the block (lexical scope) this name is declared in
	Const bool   // declared with `const`
}

// Block is one lexical scope: the Program itself, a function body, or a
// block statement/for-header/catch clause that some nested function closes
// over. Only blocks a nested function actually captures from end up
// mattering to the tracker comment, but the instrumenter assigns every
// block an ID up front since it cannot know in advance which will be
// captured.
type Block struct {
	ID       int
	Name     string // assigned by nameBlocks, "_", "_a", "_b", "_aa", ...
	Parent   *Block
	Children []*Block
	Names    map[string]*Binding // declared names, by source identifier
	IsFunc   bool                // true for a function body or the Program
	Func     *ast.FuncLit        // nil for the Program's root block
}

// Instrumenter holds the per-file state the instrumenter needs while
// walking: the block tree under construction, the prefix number chosen for
// this file's livepack<N>_tracker/getScopeId names, and the next block ID.
type Instrumenter struct {
	Filename string

	prefix     int
	nextBlock  int
	root       *Block
	blockStack []*Block

	// directEvalCalls collects every direct (unshadowed) call to eval() seen
	// during the walk, for the eval rewrite pass (§4.3).
	directEvalCalls []*ast.CallExpr
}

// trackerVarName/ScopeIDVarName return this file's chosen identifier names,
// following the livepack<N>_xxx convention (§4.3).
func (in *Instrumenter) trackerVarName() string   { return "livepack" + strconv.Itoa(in.prefix) + "_tracker" }
func (in *Instrumenter) getScopeIDVarName() string { return "livepack" + strconv.Itoa(in.prefix) + "_getScopeId" }
func scopeIDConstName(blockID int) string          { return "scopeId_" + strconv.Itoa(blockID) }

// New creates an Instrumenter for one source file.
func New(filename string) *Instrumenter {
	return &Instrumenter{Filename: filename}
}

// Instrument rewrites prog in place: it assigns block IDs, resolves every
// Ident's Binding, fills in FuncLit/ClassLit.TrackerMeta, and prepends the
// per-file preamble declarations and per-block scope-id statements. It
// returns the root Block of the capture tree, needed later to look up a
// Block by ID.
func (in *Instrumenter) Instrument(prog *ast.Program) *Block {
	in.prefix = choosePrefixNumber(prog)
	in.nextBlock = 0

	root := in.pushBlock(true, nil)
	in.root = root
	in.hoistBlock(prog.Body)
	for _, s := range prog.Body {
		in.stmt(s)
	}
	in.popBlock()

	in.nameBlocks()
	in.rewriteDirectEvals()
	prog.Body = append(in.preamble(), prog.Body...)
	return root
}

// rewriteDirectEvals turns every unshadowed `eval(x)` call recorded during
// the walk into `livepackN_tracker.evalDirect(eval, [x])`: only the eval
// function and the argument array are passed. Other references to eval
// (anything but a bare call) are not rewritten.
func (in *Instrumenter) rewriteDirectEvals() {
	for _, call := range in.directEvalCalls {
		argsArr := &ast.ArrayLit{Elements: append([]ast.Expr(nil), call.Args...)}
		call.Callee = &ast.MemberExpr{
			Object:   &ast.Ident{Name: in.trackerVarName()},
			Property: &ast.Ident{Name: "evalDirect"},
		}
		call.Args = []ast.Expr{
			&ast.Ident{Name: "eval"},
			argsArr,
		}
	}
}

// choosePrefixNumber returns the smallest N >= 0 such that no identifier in
// prog starts with "livepack" + N (§4.3's "prefix number").
func choosePrefixNumber(prog *ast.Program) int {
	taken := make(map[int]bool)
	ast.Inspect(prog, func(n ast.Node) bool {
		id, ok := n.(*ast.Ident)
		if !ok {
			return true
		}
		if !strings.HasPrefix(id.Name, "livepack") {
			return true
		}
		rest := id.Name[len("livepack"):]
		// every leading digit run counts: "livepack12_x" starts with both
		// "livepack1" and "livepack12"
		for i := 1; i <= len(rest) && rest[i-1] >= '0' && rest[i-1] <= '9'; i++ {
			if n, err := strconv.Atoi(rest[:i]); err == nil {
				taken[n] = true
			}
		}
		return true
	})
	for n := 0; ; n++ {
		if !taken[n] {
			return n
		}
	}
}

// preamble builds the per-file `const livepackN_tracker = ...; const
// livepackN_getScopeId = ...;` declarations (§4.3). The runtime is expected
// to supply these two names as free variables resolved through the host
// interface (runtime/hostiface); here they're bound to a require() of the
// tracker runtime module, mirroring how instrumented CommonJS output is
// described in §4.9.
func (in *Instrumenter) preamble() []ast.Stmt {
	mk := func(name, prop string) ast.Stmt {
		return &ast.VarDecl{
			Kind: token.CONST,
			Decls: []*ast.Declarator{{
				Target: &ast.Ident{Name: name},
				Init: &ast.MemberExpr{
					Object:   &ast.CallExpr{Callee: &ast.Ident{Name: "require"}, Args: []ast.Expr{&ast.Literal{Kind: token.STRING, Raw: "livepack/tracker"}}},
					Property: &ast.Ident{Name: prop},
				},
			}},
		}
	}
	return []ast.Stmt{
		mk(in.trackerVarName(), "tracker"),
		mk(in.getScopeIDVarName(), "getScopeId"),
	}
}

func (in *Instrumenter) pushBlock(isFunc bool, fn *ast.FuncLit) *Block {
	b := &Block{ID: in.nextBlock, Names: make(map[string]*Binding), IsFunc: isFunc, Func: fn}
	in.nextBlock++
	if len(in.blockStack) > 0 {
		parent := in.blockStack[len(in.blockStack)-1]
		b.Parent = parent
		parent.Children = append(parent.Children, b)
	}
	in.blockStack = append(in.blockStack, b)
	return b
}

func (in *Instrumenter) popBlock() *Block {
	b := in.blockStack[len(in.blockStack)-1]
	in.blockStack = in.blockStack[:len(in.blockStack)-1]
	return b
}

func (in *Instrumenter) current() *Block { return in.blockStack[len(in.blockStack)-1] }

// currentFunc walks up to the nearest function-shaped block.
func (in *Instrumenter) currentFunc() *Block {
	for i := len(in.blockStack) - 1; i >= 0; i-- {
		if in.blockStack[i].IsFunc {
			return in.blockStack[i]
		}
	}
	return in.blockStack[0]
}

// declare registers name in the given block (var declarations hoist to the
// nearest function block; let/const stay in the current block).
func (in *Instrumenter) declare(b *Block, id *ast.Ident, isConst bool) {
	bd := &Binding{Kind: Local, Block: b, Const: isConst}
	b.Names[id.Name] = bd
	id.Binding = bd
}

// resolve looks up name starting at the current block, walking up through
// parents, and fills in ident.Binding with the Kind relative to the current
// function.
func (in *Instrumenter) resolve(id *ast.Ident) {
	home := in.currentFunc()
	for i := len(in.blockStack) - 1; i >= 0; i-- {
		blk := in.blockStack[i]
		if bd, ok := blk.Names[id.Name]; ok {
			if blk == home || !crossesFunc(in.blockStack, i, len(in.blockStack)-1) {
				id.Binding = &Binding{Kind: Local, Block: bd.Block, Const: bd.Const}
			} else {
				id.Binding = &Binding{Kind: Free, Block: bd.Block, Const: bd.Const}
			}
			return
		}
	}
	id.Binding = &Binding{Kind: Global}
}

// crossesFunc reports whether there is a function-shaped block strictly
// between index declIdx (exclusive) and useIdx (inclusive) in the stack,
// i.e. whether resolving at declIdx from useIdx crosses a function
// boundary.
func crossesFunc(stack []*Block, declIdx, useIdx int) bool {
	for i := declIdx + 1; i <= useIdx; i++ {
		if stack[i].IsFunc {
			return true
		}
	}
	return false
}

// nameBlocks assigns each block a short name, root first ("_", matching the
// scheme the teacher used for its own block naming, lang/resolver's
// naming.go, before that package was retired in favor of this one).
func (in *Instrumenter) nameBlocks() {
	var name func(b *Block)
	name = func(b *Block) {
		for i, c := range b.Children {
			c.Name = b.Name + letterFor(i)
			name(c)
		}
	}
	in.root.Name = "_"
	name(in.root)
}

func letterFor(i int) string {
	if i < 26 {
		return string(rune('a' + i))
	}
	return string(rune('A'+i-26)) + strconv.Itoa(i)
}

// trackerMetaJSON builds the `/*livepack_track:{...}*/` payload (§4.3) for
// fn, given its captured scope chain up to and including the file root.
func trackerMetaJSON(id int, fn *ast.FuncLit, filename string, scopes []scopeMeta) string {
	meta := trackerMeta{
		ID:       id,
		Scopes:   scopes,
		Filename: filename,
		IsMethod: fn.IsMethod,
	}
	b, err := json.Marshal(meta)
	if err != nil {
		// trackerMeta is built entirely from this package's own types; a
		// marshal failure here would mean a programming error, not bad input.
		panic(err)
	}
	return string(b)
}

type scopeMeta struct {
	BlockID    int      `json:"blockId"`
	VarNames   []string `json:"varNames"`
	ConstNames []string `json:"constNames,omitempty"`
	ArgNames   []string `json:"argNames,omitempty"`
	BlockName  string   `json:"blockName,omitempty"`
}

type trackerMeta struct {
	ID       int         `json:"id"`
	Scopes   []scopeMeta `json:"scopes"`
	Filename string      `json:"filename"`
	IsMethod bool        `json:"isMethod,omitempty"`
}
