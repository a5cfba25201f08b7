// Package ast defines the typed abstract syntax tree this engine uses for
// both the source it parses (C2) and the serialized source it prints (C1).
// Using a single node set for both directions means the instrumenter (C3)
// can read a parsed program, splice in tracker calls and rewritten forms,
// and hand the result straight back to the Printer with no intermediate
// representation.
//
// Positions are tracked with token.Pos/token.FileSet rather than embedded
// line/col pairs, the same separation of concerns the teacher's own AST
// package uses.
package ast

import "github.com/mna/jsrevive/lang/token"

// Node is implemented by every AST node.
type Node interface {
	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)

	// Walk lets a Visitor enter each direct child node, implementing the
	// Visitor pattern alongside the package-level Walk function.
	Walk(v Visitor)
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Pattern is implemented by nodes that can appear on the left-hand side of a
// binding form: identifiers, array/object destructuring patterns, assignment
// patterns (defaults) and rest elements. All Patterns are also valid Exprs,
// since the parser cannot always tell a pattern from an expression until it
// sees what follows (e.g. in arrow function parameter lists).
type Pattern interface {
	Expr
	patternNode()
}

// Comment represents a single line (//) or block (/* */) comment.
type Comment struct {
	Start   token.Pos
	Text    string // raw text, without delimiters
	Block   bool
	Node    Node // best-effort association with the following node
}

func (c *Comment) Span() (start, end token.Pos) {
	return c.Start, c.Start + token.Pos(len(c.Text))
}
func (c *Comment) Walk(Visitor) {}

// Program is the root node of a parsed source file (called a "Chunk" in the
// teacher's grammar). It keeps the filename so downstream components can
// produce file-qualified diagnostics and cache keys.
type Program struct {
	Name      string
	Body      []Stmt
	Comments  []*Comment // only populated if parser.Comments mode was requested
	SourceMap *SourceMapPragma
	EOF       token.Pos
}

func (p *Program) Span() (start, end token.Pos) {
	if len(p.Body) == 0 {
		return p.EOF, p.EOF
	}
	start, _ = p.Body[0].Span()
	_, end = p.Body[len(p.Body)-1].Span()
	return start, end
}
func (p *Program) Walk(v Visitor) {
	for _, s := range p.Body {
		Walk(v, s)
	}
}

// SourceMapPragma is the opaque payload extracted from a trailing
// "//# sourceMappingURL=..." comment. Decoding the VLQ mappings themselves
// is outside this engine's scope (§1, external collaborator); the
// instrumenter only needs to strip the pragma and remember it so it can be
// re-emitted or remapped by the host.
type SourceMapPragma struct {
	URL    string // URL or "data:" payload as found in source
	Inline bool   // true if URL held a base64 "data:" payload
	Raw    []byte // decoded payload, if Inline
}

// BlockStmt is a brace-delimited list of statements: a function body, loop
// body, if-branch, try/catch/finally body, or a bare nested block.
type BlockStmt struct {
	Lbrace, Rbrace token.Pos
	Body           []Stmt
}

func (b *BlockStmt) Span() (start, end token.Pos) { return b.Lbrace, b.Rbrace }
func (b *BlockStmt) Walk(v Visitor) {
	for _, s := range b.Body {
		Walk(v, s)
	}
}
func (b *BlockStmt) stmtNode() {}
