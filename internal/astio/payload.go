// Package astio reads and writes compilation units as schema-versioned
// MessagePack payloads. Parsing happens in an earlier tool; this package is
// the boundary between its output and the in-memory arenas.
package astio

// Schema is the current payload schema version. Bump it whenever the DTO
// shapes below change incompatibly.
const Schema uint16 = 1

// Node kinds are encoded as short strings rather than numeric tags so a
// payload stays inspectable with any MessagePack dump tool.
const (
	KindContract = "contract"
	KindFunction = "function"
	KindModifier = "modifier"
	KindStruct   = "struct"
	KindStateVar = "var"

	KindBlock     = "block"
	KindTry       = "try"
	KindTryClause = "clause"
	KindFor       = "for"
	KindVarDecl   = "let"
	KindReturn    = "return"
	KindExprStmt  = "expr"
	KindAsm       = "asm"

	KindIdent  = "ident"
	KindCall   = "call"
	KindBinary = "binary"
	KindIndex  = "index"
	KindMember = "member"
	KindLit    = "lit"

	KindTypeElementary = "elementary"
	KindTypeNamed      = "named"

	KindAsmFuncDef = "func"
)

// SpanDTO is a byte range; the file is assigned at decode time, so payloads
// stay position-independent.
type SpanDTO struct {
	Start uint32 `msgpack:"s"`
	End   uint32 `msgpack:"e"`
}

// DocDTO is one structured documentation tag.
type DocDTO struct {
	Tag     string  `msgpack:"tag"`
	Content string  `msgpack:"content"`
	Span    SpanDTO `msgpack:"span"`
}

// TypeDTO is a type annotation: a built-in name or a dot path.
type TypeDTO struct {
	Kind string   `msgpack:"kind"`
	Span SpanDTO  `msgpack:"span"`
	Name string   `msgpack:"name,omitempty"`
	Path []string `msgpack:"path,omitempty"`
}

// VarDTO is one declared variable, in a statement or a parameter list. An
// empty name means the variable is unnamed.
type VarDTO struct {
	Name string   `msgpack:"name,omitempty"`
	Span SpanDTO  `msgpack:"span"`
	Type *TypeDTO `msgpack:"type,omitempty"`
}

// ParamListDTO groups parameter or return declarations.
type ParamListDTO struct {
	Span   SpanDTO  `msgpack:"span"`
	Params []VarDTO `msgpack:"params"`
}

// ExprDTO is the tree-shaped expression node. Which fields are meaningful
// depends on Kind.
type ExprDTO struct {
	Kind string  `msgpack:"kind"`
	Span SpanDTO `msgpack:"span"`

	Name   string    `msgpack:"name,omitempty"`
	Target *ExprDTO  `msgpack:"target,omitempty"`
	Args   []ExprDTO `msgpack:"args,omitempty"`
	Op     uint8     `msgpack:"op,omitempty"`
	Left   *ExprDTO  `msgpack:"left,omitempty"`
	Right  *ExprDTO  `msgpack:"right,omitempty"`
	Index  *ExprDTO  `msgpack:"index,omitempty"`
	Text   string    `msgpack:"text,omitempty"`
}

// StmtDTO is the tree-shaped statement node.
type StmtDTO struct {
	Kind string  `msgpack:"kind"`
	Span SpanDTO `msgpack:"span"`

	Stmts   []StmtDTO     `msgpack:"stmts,omitempty"`
	Clauses []StmtDTO     `msgpack:"clauses,omitempty"`
	Params  *ParamListDTO `msgpack:"params,omitempty"`
	Body    *StmtDTO      `msgpack:"body,omitempty"`
	Init    *StmtDTO      `msgpack:"init,omitempty"`
	Cond    *ExprDTO      `msgpack:"cond,omitempty"`
	Post    *ExprDTO      `msgpack:"post,omitempty"`
	Decls   []VarDTO      `msgpack:"decls,omitempty"`
	Value   *ExprDTO      `msgpack:"value,omitempty"`
	Expr    *ExprDTO      `msgpack:"expr,omitempty"`
	Asm     *AsmBlockDTO  `msgpack:"asm,omitempty"`
}

// AsmBlockDTO is an embedded assembly block.
type AsmBlockDTO struct {
	Span  SpanDTO      `msgpack:"span"`
	Stmts []AsmStmtDTO `msgpack:"stmts"`
}

// AsmNameDTO is a declared sublanguage name.
type AsmNameDTO struct {
	Name string  `msgpack:"name"`
	Span SpanDTO `msgpack:"span"`
}

// AsmStmtDTO is a sublanguage statement.
type AsmStmtDTO struct {
	Kind string  `msgpack:"kind"`
	Span SpanDTO `msgpack:"span"`

	Expr     *AsmExprDTO  `msgpack:"expr,omitempty"`
	Vars     []AsmNameDTO `msgpack:"vars,omitempty"`
	Value    *AsmExprDTO  `msgpack:"value,omitempty"`
	Name     string       `msgpack:"name,omitempty"`
	NameSpan SpanDTO      `msgpack:"namespan,omitempty"`
	Params   []AsmNameDTO `msgpack:"params,omitempty"`
	Returns  []AsmNameDTO `msgpack:"returns,omitempty"`
	Body     *AsmBlockDTO `msgpack:"body,omitempty"`
	Block    *AsmBlockDTO `msgpack:"block,omitempty"`
}

// AsmExprDTO is a sublanguage expression.
type AsmExprDTO struct {
	Kind string  `msgpack:"kind"`
	Span SpanDTO `msgpack:"span"`

	Name   string       `msgpack:"name,omitempty"`
	Target *AsmExprDTO  `msgpack:"target,omitempty"`
	Args   []AsmExprDTO `msgpack:"args,omitempty"`
	Text   string       `msgpack:"text,omitempty"`
}

// ItemDTO is a top-level or contract-member declaration.
type ItemDTO struct {
	Kind     string   `msgpack:"kind"`
	Span     SpanDTO  `msgpack:"span"`
	Name     string   `msgpack:"name"`
	NameSpan SpanDTO  `msgpack:"namespan"`
	Docs     []DocDTO `msgpack:"docs,omitempty"`

	Items   []ItemDTO     `msgpack:"items,omitempty"`
	Params  *ParamListDTO `msgpack:"params,omitempty"`
	Returns *ParamListDTO `msgpack:"returns,omitempty"`
	Body    *StmtDTO      `msgpack:"body,omitempty"`
	Type    *TypeDTO      `msgpack:"type,omitempty"`
	Value   *ExprDTO      `msgpack:"value,omitempty"`
}

// UnitDTO is the root of a unit payload.
type UnitDTO struct {
	Schema uint16    `msgpack:"schema"`
	Span   SpanDTO   `msgpack:"span"`
	Items  []ItemDTO `msgpack:"items"`
}
